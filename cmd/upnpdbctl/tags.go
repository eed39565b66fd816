package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tanglewood-audio/upnpdb/hostdb"
)

var tagsCmd = &cobra.Command{
	Use:   "tags <uri>",
	Short: "collect unique artist/album/title values under a HostPath",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		f, err := openFacade(hostdb.PluginContext{Ctx: ctx, Config: map[string]string{"interface": iface}})
		if err != nil {
			fmt.Printf("open failed: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close(ctx) }()

		tags, err := f.CollectUniqueTags(ctx, hostdb.DatabaseSelection{URI: args[0], Recursive: true},
			[]hostdb.TagType{hostdb.TagArtist, hostdb.TagAlbum, hostdb.TagTitle})
		if err != nil {
			fmt.Printf("collect failed: %v\n", err)
			os.Exit(1)
		}

		for _, tag := range []hostdb.TagType{hostdb.TagArtist, hostdb.TagAlbum, hostdb.TagTitle} {
			fmt.Printf("%s: %s\n", tag, strings.Join(tags[tag], ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
