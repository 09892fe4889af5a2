package cmd

import (
	"fmt"
	"os"

	"github.com/packwiz/launchwiz/cmdshared"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:     "remove [version]",
	Short:   "Remove an installed version",
	Long:    "Remove an installed version. Libraries and assets are shared between versions and are kept.",
	Aliases: []string{"delete", "uninstall", "rm"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store, err := cmdshared.NewStore()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if !cmdshared.PromptYesNo(fmt.Sprintf("Remove %s from %s? [Y/n]: ", args[0], store.Root)) {
			fmt.Println("Cancelled!")
			return
		}
		if err := store.RemoveVersion(args[0]); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Printf("Version %s removed successfully!\n", args[0])
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)

	removeCmd.Flags().BoolP("yes", "y", false, "Don't ask for confirmation")
	_ = viper.BindPFlag("non-interactive", removeCmd.Flags().Lookup("yes"))
}
