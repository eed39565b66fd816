package upnpdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/tanglewood-audio/upnpdb/errdef"
	"github.com/tanglewood-audio/upnpdb/log"
	"github.com/tanglewood-audio/upnpdb/upnpclient"
)

// namei walks tail (a slash-separated chain of child names, possibly empty)
// from the server's root sentinel container through successive container
// reads, returning the terminal object. It never recurses: one loop, one
// readDir per hop.
func namei(ctx context.Context, reader *dirReader, tail string) (upnpclient.DirObject, error) {
	if tail == "" {
		return reader.getMetadata(ctx, rootSentinel)
	}

	id := rootSentinel
	for {
		head, rest, _ := strings.Cut(tail, "/")
		log.Debug(ctx, "namei hop", "objectID", id, "head", head, "remaining", rest)

		children, err := reader.readDir(ctx, id)
		if err != nil {
			return upnpclient.DirObject{}, err
		}
		child, found := children.ByName(head)
		if !found {
			return upnpclient.DirObject{}, fmt.Errorf("%w: %q", errdef.NotFound, head)
		}
		if rest == "" {
			return child, nil
		}
		if child.Type != upnpclient.ObjectContainer {
			return upnpclient.DirObject{}, fmt.Errorf("%w: %q is not a container", errdef.NotFound, head)
		}
		id = child.ID
		tail = rest
	}
}
