package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/packwiz/launchwiz/cmdshared"
	"github.com/packwiz/launchwiz/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var installCmd = &cobra.Command{
	Use:     "install [version]",
	Short:   "Download a version along with its libraries, natives and assets",
	Long:    "Download a version along with its libraries, natives and assets. latest-release and latest-snapshot can be used in place of a version id.",
	Aliases: []string{"add", "get"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := cmdshared.NewStore()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		installer := cmdshared.NewInstaller(store, core.DetectPlatform(), logger.Named("installer"))

		var progress core.ProgressFunc = core.NoProgress
		var renderer *cmdshared.ProgressRenderer
		if !viper.GetBool("install.quiet") {
			renderer = cmdshared.NewProgressRenderer(os.Stdout)
			progress = renderer.Handle
		}

		err = installer.InstallVersion(context.Background(), args[0], progress)
		if renderer != nil {
			renderer.Finish()
		}
		if err != nil {
			fmt.Printf("Failed to install %s: %v\n", args[0], err)
			os.Exit(1)
		}
		fmt.Printf("Installed %s into %s\n", args[0], store.Root)
	},
}

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().BoolP("quiet", "q", false, "Don't display progress")
	_ = viper.BindPFlag("install.quiet", installCmd.Flags().Lookup("quiet"))
}
