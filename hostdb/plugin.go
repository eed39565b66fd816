package hostdb

import (
	"context"
	"time"
)

// Database is the host's database-plugin contract. Every adapter
// implementation (this module ships exactly one: upnpdb.Facade) must
// satisfy it to be usable behind the host's plugin registry.
type Database interface {
	Open(ctx context.Context) error
	Close(ctx context.Context) error
	GetSong(ctx context.Context, uri string) (*LightSong, error)
	ReturnSong(song *LightSong)
	Visit(ctx context.Context, selection DatabaseSelection, onDir VisitDirectory, onSong VisitSong, onPlaylist VisitPlaylist) error
	CollectUniqueTags(ctx context.Context, selection DatabaseSelection, tagTypes []TagType) (map[TagType][]string, error)
	GetStats(ctx context.Context, selection DatabaseSelection) (Stats, error)
	GetUpdateStamp() time.Time
}

// PluginContext is what the host hands to a plugin factory: the event
// loop it must run on (represented here only as a context.Context — the
// host's real event-loop type is an external collaborator) and the parsed
// configuration block.
type PluginContext struct {
	Ctx    context.Context
	Config map[string]string
}

// PluginFactory constructs a new Database bound to pc.
type PluginFactory func(pc PluginContext) (Database, error)

// PluginInfo is the plugin vtable exposed to the host's plugin registry,
// modeled on rclone's backend-registration shape (fs.RegInfo{Name,
// Description, NewFs, Options}) since the teacher has no plugin-registry
// analogue of its own.
type PluginInfo struct {
	Name        string
	Description string
	Flags       int
	Factory     PluginFactory
}

// CollectUniqueTags is the host's generic helper: it walks the whole
// subtree rooted at selection.URI via repeated non-recursive Visit calls
// (descending into each directory Visit reports), and deduplicates the
// requested tag values out of every song encountered along the way. The
// adapter's own CollectUniqueTags method delegates to this rather than
// reimplementing deduplication. Visit's own recursive mode is reserved for
// filtered search and is deliberately not used here: an unfiltered
// "recursive" Visit only lists one level per the engine's contract, so a
// full walk must be driven from the host side, exactly as a real host
// would.
func CollectUniqueTags(ctx context.Context, db Database, selection DatabaseSelection, tagTypes []TagType) (map[TagType][]string, error) {
	want := make(map[TagType]bool, len(tagTypes))
	for _, t := range tagTypes {
		want[t] = true
	}
	seen := make(map[TagType]map[string]bool, len(tagTypes))
	out := make(map[TagType][]string, len(tagTypes))

	collect := func(song LightSong) error {
		for tag, values := range song.Tag {
			if !want[tag] {
				continue
			}
			if seen[tag] == nil {
				seen[tag] = make(map[string]bool)
			}
			for _, v := range values {
				if v == "" || seen[tag][v] {
					continue
				}
				seen[tag][v] = true
				out[tag] = append(out[tag], v)
			}
		}
		return nil
	}

	var walk func(uri string) error
	walk = func(uri string) error {
		sel := selection.Clone()
		sel.URI = uri
		sel.Recursive = false

		var subdirs []string
		err := db.Visit(ctx, sel,
			func(d LightDirectory) error { subdirs = append(subdirs, d.URI); return nil },
			collect, nil)
		if err != nil {
			return err
		}
		for _, d := range subdirs {
			if err := walk(d); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(selection.URI); err != nil {
		return nil, err
	}
	return out, nil
}
