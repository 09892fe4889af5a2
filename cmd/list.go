package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/packwiz/launchwiz/cmdshared"
	"github.com/packwiz/launchwiz/core"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/unascribed/FlexVer/go/flexver"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List available or installed versions",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("list.installed") {
			store, err := cmdshared.NewStore()
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			ids, err := store.InstalledVersions()
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			flexver.VersionSlice(ids).Sort()
			for _, id := range ids {
				fmt.Println(id)
			}
			return
		}

		catalog, err := core.FetchCatalog(context.Background(), nil, viper.GetString("manifest-url"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		versionType := viper.GetString("list.type")
		for _, v := range catalog.Filter(versionType) {
			if versionType == "" {
				fmt.Printf("%s (%s)\n", v.ID, v.Type)
			} else {
				fmt.Println(v.ID)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().Bool("installed", false, "List versions installed in the install directory")
	_ = viper.BindPFlag("list.installed", listCmd.Flags().Lookup("installed"))
	listCmd.Flags().StringP("type", "t", "", "Only list versions of this type (release, snapshot, old_beta, old_alpha)")
	_ = viper.BindPFlag("list.type", listCmd.Flags().Lookup("type"))
}
