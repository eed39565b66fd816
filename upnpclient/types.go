// Package upnpclient is the external UPnP/AV collaborator: SSDP discovery,
// device description fetch, ContentDirectory SOAP dispatch and DIDL-Lite
// decoding. upnpdb consumes it purely through the ContentDirectoryService
// and DeviceDirectory interfaces below; nothing in upnpdb imports the
// concrete SOAP/SSDP types directly.
package upnpclient

import (
	"context"

	"github.com/tanglewood-audio/upnpdb/hostdb"
)

// ObjectType classifies a DirObject as the ContentDirectory:4 spec's two
// top-level object kinds.
type ObjectType int

const (
	ObjectUnknown ObjectType = iota
	ObjectContainer
	ObjectItem
)

// ItemClass narrows ObjectItem to the DIDL-Lite upnp:class values this
// adapter cares about. Anything else decodes as ClassUnknown.
type ItemClass int

const (
	ClassUnknown ItemClass = iota
	ClassMusic
	ClassPlaylist
)

// DirObject is one DIDL-Lite container or item, decoded from a Browse,
// BrowseMetadata or Search response. It is immutable once returned.
type DirObject struct {
	ID       string
	ParentID string
	Name     string
	Type     ObjectType
	Class    ItemClass
	URL      string
	Tag      hostdb.Tags
}

// DirContent is an ordered list of DirObject as returned by one ReadDir,
// GetMetadata or Search call.
type DirContent []DirObject

// ByName returns the first object whose Name matches exactly, in list
// order (first-match wins on name collisions, per the namei contract).
func (c DirContent) ByName(name string) (DirObject, bool) {
	for _, o := range c {
		if o.Name == name {
			return o, true
		}
	}
	return DirObject{}, false
}

// ContentDirectoryService is a handle to one MediaServer's ContentDirectory
// service. Every method is a blocking SOAP round-trip.
type ContentDirectoryService interface {
	FriendlyName() string
	ReadDir(ctx context.Context, objectID string) (DirContent, error)
	GetMetadata(ctx context.Context, objectID string) (DirObject, error)
	Search(ctx context.Context, objectID, criteria string) (DirContent, error)
	SearchCapabilities(ctx context.Context) ([]string, error)
}

// DeviceDirectory discovers MediaServers on the network and hands out
// ContentDirectoryService handles for the ones currently known.
type DeviceDirectory interface {
	Start(ctx context.Context) error
	GetServer(name string) (ContentDirectoryService, error)
	GetDirectories() []ContentDirectoryService
	Close() error
}
