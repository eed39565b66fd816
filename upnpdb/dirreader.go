package upnpdb

import (
	"context"

	"github.com/tanglewood-audio/upnpdb/log"
	"github.com/tanglewood-audio/upnpdb/upnpclient"
)

// dirReader performs the two blocking operations against a
// ContentDirectoryService handle. Bad-resource detection for getMetadata
// (exactly one object expected back) is enforced by the upnpclient
// implementation itself; dirReader adds request-scoped logging on top.
type dirReader struct {
	svc upnpclient.ContentDirectoryService
}

func newDirReader(svc upnpclient.ContentDirectoryService) *dirReader {
	return &dirReader{svc: svc}
}

func (r *dirReader) readDir(ctx context.Context, objectID string) (upnpclient.DirContent, error) {
	log.Debug(ctx, "readDir", "server", r.svc.FriendlyName(), "objectID", objectID)
	return r.svc.ReadDir(ctx, objectID)
}

func (r *dirReader) getMetadata(ctx context.Context, objectID string) (upnpclient.DirObject, error) {
	log.Debug(ctx, "getMetadata", "server", r.svc.FriendlyName(), "objectID", objectID)
	return r.svc.GetMetadata(ctx, objectID)
}
