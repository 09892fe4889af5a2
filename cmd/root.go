package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/packwiz/launchwiz/cmdshared"
	"github.com/packwiz/launchwiz/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// logger is set up by initConfig once the log level is known
var logger hclog.Logger = hclog.NewNullLogger()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "launchwiz",
	Short: "A command line tool for installing and launching Minecraft versions",
}

// Execute starts the root command for launchwiz
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Add adds a new command as a subcommand to launchwiz
func Add(newCommand *cobra.Command) {
	rootCmd.AddCommand(newCommand)
}

func init() {
	cobra.OnInitialize(initConfig)

	defaultInstallDir, err := core.GetLaunchwizLocalStore()
	if err != nil {
		defaultInstallDir = "minecraft"
	}

	rootCmd.PersistentFlags().String("install-dir", defaultInstallDir, "The directory versions are installed into")
	_ = viper.BindPFlag("install-dir", rootCmd.PersistentFlags().Lookup("install-dir"))

	rootCmd.PersistentFlags().Int("concurrency", core.DefaultConcurrency, "The number of files downloaded at once")
	_ = viper.BindPFlag("concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))

	rootCmd.PersistentFlags().String("log-level", "warn", "The log level (trace, debug, info, warn, error)")
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.launchwiz.toml)")

	viper.SetDefault("manifest-url", core.DefaultManifestURL)
	viper.SetDefault("libraries-url", core.DefaultLibrariesURL)
	viper.SetDefault("resources-url", core.DefaultResourcesURL)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		defaultFile, err := core.GetLaunchwizConfigFile()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.SetConfigFile(defaultFile)
	}

	viper.SetEnvPrefix("launchwiz")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	err := viper.ReadInConfig()

	logger = cmdshared.NewLogger("launchwiz", viper.GetString("log-level"), nil)
	if err == nil {
		logger.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}
