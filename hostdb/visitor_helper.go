package hostdb

import "context"

// DatabaseVisitorHelper stands in for the host's generic visitor wrapper:
// it sits between the adapter and the host's real VisitSong callback so
// that group-by/aggregation semantics (e.g. folding several disc-1/disc-2
// tracks under one album row) can be layered on without the adapter itself
// knowing about them. The adapter's facade always drives one instance per
// Visit call and finalizes it with Commit once traversal completes.
//
// This release's helper is a straight pass-through: it has no aggregation
// rules of its own (that behavior belongs to the host, named as an
// external collaborator), so Commit is a no-op beyond flushing the error.
type DatabaseVisitorHelper struct {
	selection DatabaseSelection
	onSong    VisitSong
	err       error
}

// NewDatabaseVisitorHelper constructs a helper keyed to selection and the
// host's song callback. onSong may be nil, meaning the host does not want
// songs from this Visit.
func NewDatabaseVisitorHelper(selection DatabaseSelection, onSong VisitSong) *DatabaseVisitorHelper {
	return &DatabaseVisitorHelper{selection: selection, onSong: onSong}
}

// VisitSong forwards song to the wrapped callback, remembering the first
// error encountered so Commit can report it.
func (h *DatabaseVisitorHelper) VisitSong(_ context.Context, song LightSong) {
	if h.err != nil || h.onSong == nil {
		return
	}
	if err := h.onSong(song); err != nil {
		h.err = err
	}
}

// Commit finalizes the helper, applying any deferred aggregation and
// returning the first error observed by VisitSong.
func (h *DatabaseVisitorHelper) Commit() error {
	return h.err
}
