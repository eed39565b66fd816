package upnpdb

import (
	"context"
	"fmt"

	"github.com/tanglewood-audio/upnpdb/errdef"
	"github.com/tanglewood-audio/upnpdb/hostdb"
	"github.com/tanglewood-audio/upnpdb/upnpclient"
)

// visit orchestrates one Visit request across servers: it classifies
// sel.URI, dispatches between list/search/resolve modes, constructs child
// URIs, applies the filter, and drives onDir/helper/onPlaylist.
func visit(ctx context.Context, reg *registry, sel hostdb.DatabaseSelection, onDir hostdb.VisitDirectory, helper *hostdb.DatabaseVisitorHelper, onPlaylist hostdb.VisitPlaylist) error {
	if sel.URI == "" {
		return visitMultiServerRoot(ctx, reg, sel, onDir, helper, onPlaylist)
	}

	serverName, tail := splitHostPath(sel.URI)
	svc, err := reg.getServer(serverName)
	if err != nil {
		return err
	}
	return visitServer(ctx, svc, serverName, tail, sel, sel.URI, onDir, helper, onPlaylist)
}

// splitHostPath splits uri at the first '/' into (serverName, tail); tail
// is "" if uri carries no '/'.
func splitHostPath(uri string) (server, tail string) {
	for i := 0; i < len(uri); i++ {
		if uri[i] == '/' {
			return uri[:i], uri[i+1:]
		}
	}
	return uri, ""
}

// visitMultiServerRoot handles an empty request URI: it lists every known
// server as a top-level directory, recursing into each one if the
// selection asked for a recursive visit.
func visitMultiServerRoot(ctx context.Context, reg *registry, sel hostdb.DatabaseSelection, onDir hostdb.VisitDirectory, helper *hostdb.DatabaseVisitorHelper, onPlaylist hostdb.VisitPlaylist) error {
	for _, svc := range reg.getDirectories() {
		name := svc.FriendlyName()
		if onDir != nil {
			if err := onDir(hostdb.LightDirectory{URI: name, Mtime: hostdb.EpochMin}); err != nil {
				return err
			}
		}
		if sel.Recursive {
			if err := visitServer(ctx, svc, name, "", sel, name, onDir, helper, onPlaylist); err != nil {
				return err
			}
		}
	}
	return nil
}

// visitServer dispatches a visit against one already-resolved server: an
// ID-path sentinel alone is a no-op, an ID-path resolves straight to a
// song via GetMetadata, and a name-path is walked via namei and then
// either searched (recursive visit with a filter) or listed one level
// deep. baseURI is the HostPath prefix used to build child/song URIs: the
// request's original URI, or the server's friendly name when that was
// empty (multi-server recursion).
func visitServer(ctx context.Context, svc upnpclient.ContentDirectoryService, friendlyName, tail string, sel hostdb.DatabaseSelection, baseURI string, onDir hostdb.VisitDirectory, helper *hostdb.DatabaseVisitorHelper, onPlaylist hostdb.VisitPlaylist) error {
	reader := newDirReader(svc)

	// The root sentinel alone addresses the server's root container, which
	// can never be a song, so there is nothing to visit.
	if tail == rootSentinel {
		return nil
	}

	// An ID-path resolves directly to an object without walking names.
	if objectID, ok := splitIDPath(tail); ok {
		obj, err := reader.getMetadata(ctx, objectID)
		if err != nil {
			return err
		}
		if obj.Type != upnpclient.ObjectItem || obj.Class != upnpclient.ClassMusic {
			return fmt.Errorf("%w: %q is not a music item", errdef.NotFound, objectID)
		}
		helper.VisitSong(ctx, *newLightSong(syntheticPath(friendlyName, obj.ID), obj))
		return nil
	}

	// Otherwise tail is a name-path: walk it to the terminal object.
	target, err := namei(ctx, reader, tail)
	if err != nil {
		return err
	}

	if sel.Recursive && !sel.Filter.Empty() {
		content, err := compileAndSearch(ctx, svc, target.ID, sel.Filter)
		if err != nil {
			return err
		}
		for _, obj := range content {
			if obj.Type != upnpclient.ObjectItem || obj.Class != upnpclient.ClassMusic {
				continue
			}
			helper.VisitSong(ctx, *newLightSong(syntheticPath(friendlyName, obj.ID), obj))
		}
		return nil
	}

	if target.Type == upnpclient.ObjectItem {
		switch target.Class {
		case upnpclient.ClassMusic:
			uri := baseURI
			if uri == "" {
				uri = friendlyName
			}
			helper.VisitSong(ctx, *newLightSong(uri, target))
		case upnpclient.ClassPlaylist:
			// Playlists have no reliable cross-vendor member resolution, so
			// they are never surfaced in this release.
		}
		return nil
	}

	// target is a container: single-level listing, no pagination.
	children, err := reader.readDir(ctx, target.ID)
	if err != nil {
		return err
	}
	for _, child := range children {
		childURI := hostdb.PathTraitsUTF8.Build(baseURI, child.Name)
		switch {
		case child.Type == upnpclient.ObjectContainer:
			if onDir != nil {
				if err := onDir(hostdb.LightDirectory{URI: childURI, Mtime: hostdb.EpochMin}); err != nil {
					return err
				}
			}
		case child.Type == upnpclient.ObjectItem && child.Class == upnpclient.ClassMusic:
			song := newLightSong(childURI, child)
			if sel.Filter.Match(*song) {
				helper.VisitSong(ctx, *song)
			}
		}
	}
	return nil
}
