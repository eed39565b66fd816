package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanglewood-audio/upnpdb/hostdb"
)

var browseCmd = &cobra.Command{
	Use:   "browse [uri]",
	Short: "list one level of a HostPath (empty uri lists the multi-server root)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var uri string
		if len(args) == 1 {
			uri = args[0]
		}

		ctx := context.Background()
		f, err := openFacade(hostdb.PluginContext{Ctx: ctx, Config: map[string]string{"interface": iface}})
		if err != nil {
			fmt.Printf("open failed: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close(ctx) }()

		err = f.Visit(ctx, hostdb.DatabaseSelection{URI: uri},
			func(d hostdb.LightDirectory) error {
				fmt.Printf("%s/\n", d.URI)
				return nil
			},
			func(s hostdb.LightSong) error {
				fmt.Printf("%s\t%s\n", s.URI, s.RealURI)
				return nil
			},
			nil,
		)
		if err != nil {
			fmt.Printf("visit failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
