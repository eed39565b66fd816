package upnpdb

import (
	"github.com/tanglewood-audio/upnpdb/hostdb"
	"github.com/tanglewood-audio/upnpdb/upnpclient"
)

// syntheticPath builds the "<friendlyName>/0/<objectId>" form, used
// whenever a song's position was obtained through search or direct ID-path
// resolution and no stable pretty path is available.
func syntheticPath(friendlyName, objectID string) string {
	return hostdb.PathTraitsUTF8.Build(
		hostdb.PathTraitsUTF8.Build(friendlyName, rootSentinel),
		objectID,
	)
}

// newLightSong wraps obj as a host-visible song record addressed by uri.
// For GetSong the returned pointer is heap-owned: its lifetime is the
// facade's responsibility until the host calls ReturnSong.
func newLightSong(uri string, obj upnpclient.DirObject) *hostdb.LightSong {
	return &hostdb.LightSong{
		URI:     uri,
		RealURI: obj.URL,
		Tag:     obj.Tag,
	}
}
