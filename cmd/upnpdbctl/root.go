package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanglewood-audio/upnpdb/hostdb"
	"github.com/tanglewood-audio/upnpdb/upnpdb"
)

const preamble = `upnpdbctl talks to UPnP/AV MediaServers as a read-only music
database, the same way a host's plugin registry would drive the upnpdb
adapter. It is a demo harness, not a media player.`

var iface string

var rootCmd = &cobra.Command{
	Use:   "upnpdbctl",
	Short: "inspect UPnP/AV MediaServers through the upnpdb adapter",
	Long:  preamble,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&iface, "interface", "", "local network interface to bind discovery to (default: all interfaces)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// openFacade builds and opens a Facade bound to the --interface flag,
// mirroring how the host's plugin registry would call upnpdb.NewFacade
// followed by Open.
func openFacade(pc hostdb.PluginContext) (*upnpdb.Facade, error) {
	db, err := upnpdb.NewFacade(pc)
	if err != nil {
		return nil, err
	}
	f := db.(*upnpdb.Facade)
	if err := f.Open(pc.Ctx); err != nil {
		return nil, err
	}
	return f, nil
}
