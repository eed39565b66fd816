package upnpdb

import (
	"github.com/tanglewood-audio/upnpdb/hostdb"
	"github.com/tanglewood-audio/upnpdb/upnpclient/upnpclienttest"
)

// newFixtureMS builds the "MS" server shared by the Visit tests: root children
// Music (container, id "1") and photo.jpg (unknown item, id "2"); Music's
// child Song.flac (music item, id "7", artist carries a literal backslash
// to exercise quoting).
func newFixtureMS() *upnpclienttest.Server {
	return upnpclienttest.NewServer("MS").
		AddContainer("1", "0", "Music").
		AddNonMusicItem("2", "0", "photo.jpg").
		AddMusicItem("7", "1", "Song.flac", "http://host/7.flac", hostdb.Tags{
			hostdb.TagTitle:  {"Song"},
			hostdb.TagArtist: {`AC\DC`},
		}).
		WithSearchCapabilities("dc:title", "upnp:artist")
}

func newFacadeFor(servers ...*upnpclienttest.Server) *Facade {
	dir := upnpclienttest.NewDeviceDirectory(servers...)
	return &Facade{dir: dir, reg: newRegistry(dir)}
}
