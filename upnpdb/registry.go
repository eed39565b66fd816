package upnpdb

import (
	"fmt"

	"github.com/tanglewood-audio/upnpdb/errdef"
	"github.com/tanglewood-audio/upnpdb/upnpclient"
)

// registry wraps the discovery object, exposing the set of currently-known
// MediaServers by friendly name.
type registry struct {
	dir upnpclient.DeviceDirectory
}

func newRegistry(dir upnpclient.DeviceDirectory) *registry {
	return &registry{dir: dir}
}

// getServer fails with errdef.NotFound if no live server matches name
// exactly (case-sensitive, byte-exact).
func (r *registry) getServer(name string) (upnpclient.ContentDirectoryService, error) {
	svc, err := r.dir.GetServer(name)
	if err != nil {
		return nil, fmt.Errorf("%w: server %q", errdef.NotFound, name)
	}
	return svc, nil
}

// getDirectories returns the current snapshot; callers must not assume
// stability across calls.
func (r *registry) getDirectories() []upnpclient.ContentDirectoryService {
	return r.dir.GetDirectories()
}
