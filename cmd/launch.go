package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/packwiz/launchwiz/cmdshared"
	"github.com/packwiz/launchwiz/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var launchCmd = &cobra.Command{
	Use:   "launch [version]",
	Short: "Print the command line that launches an installed version",
	Long:  "Print the command line that launches an installed version. latest-release and latest-snapshot resolve against the version manifest.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := cmdshared.NewStore()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		platform := core.DetectPlatform()

		id := args[0]
		if core.IsAlias(id) {
			id, err = cmdshared.NewInstaller(store, platform, logger.Named("installer")).ResolveID(context.Background(), id)
			if err != nil {
				fmt.Printf("Failed to resolve %s: %v\n", args[0], err)
				os.Exit(1)
			}
			logger.Debug("resolved version alias", "alias", args[0], "version", id)
		}

		profile, err := core.LoadProfile(store)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		overrides, err := cmdshared.EffectiveOverrides(profile)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		command, err := core.GetLaunchCommand(store, platform, id, overrides)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				fmt.Printf("Version %s is not installed; run launchwiz install %s first\n", id, args[0])
			} else {
				fmt.Printf("Failed to build launch command: %v\n", err)
			}
			os.Exit(1)
		}

		if viper.GetBool("launch.save") {
			profile.Launch = overrides
			if err := profile.Write(); err != nil {
				fmt.Printf("Failed to save %s: %v\n", core.ProfileFile, err)
				os.Exit(1)
			}
			logger.Info("saved launch options", "path", store.Abs(core.ProfileFile))
		}

		if viper.GetBool("launch.json") {
			out, err := json.Marshal(command)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			fmt.Println(string(out))
			return
		}
		fmt.Println(strings.Join(command, " "))
	},
}

func init() {
	rootCmd.AddCommand(launchCmd)

	launchCmd.Flags().StringP("username", "u", "", "The player name")
	_ = viper.BindPFlag("launch.username", launchCmd.Flags().Lookup("username"))
	launchCmd.Flags().String("uuid", "", "The player UUID")
	_ = viper.BindPFlag("launch.uuid", launchCmd.Flags().Lookup("uuid"))
	launchCmd.Flags().String("access-token", "", "The access token passed to the game")
	_ = viper.BindPFlag("launch.access-token", launchCmd.Flags().Lookup("access-token"))
	launchCmd.Flags().String("game-dir", "", "The game directory (default is the install directory)")
	_ = viper.BindPFlag("launch.game-dir", launchCmd.Flags().Lookup("game-dir"))
	launchCmd.Flags().String("java", "", "The java executable")
	_ = viper.BindPFlag("launch.java-executable", launchCmd.Flags().Lookup("java"))
	launchCmd.Flags().Int("width", 0, "The window width")
	_ = viper.BindPFlag("launch.resolution-width", launchCmd.Flags().Lookup("width"))
	launchCmd.Flags().Int("height", 0, "The window height")
	_ = viper.BindPFlag("launch.resolution-height", launchCmd.Flags().Lookup("height"))

	launchCmd.Flags().Bool("json", false, "Print the command as a JSON array")
	_ = viper.BindPFlag("launch.json", launchCmd.Flags().Lookup("json"))
	launchCmd.Flags().Bool("save", false, "Save the given options to the install directory's "+core.ProfileFile)
	_ = viper.BindPFlag("launch.save", launchCmd.Flags().Lookup("save"))
}
