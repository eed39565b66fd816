// Package hostdb stands in for the media-player host's side of the
// database-plugin contract: the tag vocabulary, the filter expression
// tree, the light-weight song/directory records handed across the
// boundary, and the visit callbacks. In a real deployment these types
// live in the host's own packages (its song-filter type hierarchy and
// tag-name lookup table are named as external collaborators in the
// adapter's spec); this package gives the standalone module something
// concrete to compile and test against, modeled on navidrome's `model`
// package playing the same "shared vocabulary between layers" role.
package hostdb

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// foldCaser canonicalizes a string for case-insensitive comparison. Used by
// SongFilter.Match (fold=true items) instead of a hand-rolled lower-case
// walk, matching the teacher's x/text dependency.
var foldCaser = cases.Fold()

// TagType enumerates the host's tag vocabulary. TagAny is the "any tag"
// search sentinel; the rest mirror common DIDL-Lite fields.
type TagType int

const (
	TagUnknown TagType = iota
	TagAny
	TagTitle
	TagArtist
	TagAlbum
	TagAlbumArtist
	TagGenre
	TagComposer
	TagTrack
	TagDate
)

func (t TagType) String() string {
	switch t {
	case TagAny:
		return "any"
	case TagTitle:
		return "title"
	case TagArtist:
		return "artist"
	case TagAlbum:
		return "album"
	case TagAlbumArtist:
		return "albumartist"
	case TagGenre:
		return "genre"
	case TagComposer:
		return "composer"
	case TagTrack:
		return "track"
	case TagDate:
		return "date"
	default:
		return "unknown"
	}
}

// UPnPTags maps a host TagType to the DIDL-Lite field name a MediaServer
// advertises in GetSearchCapabilities and accepts in Search criteria. This
// stands in for the host's tag-name lookup table (an external collaborator
// per the adapter's spec).
var UPnPTags = map[TagType]string{
	TagTitle:    "dc:title",
	TagArtist:   "upnp:artist",
	TagAlbum:    "upnp:album",
	TagGenre:    "upnp:genre",
	TagComposer: "upnp:author",
	TagTrack:    "upnp:originalTrackNumber",
	TagDate:     "dc:date",
	// TagAlbumArtist is intentionally absent: the search compiler normalizes
	// it to TagArtist before this table is consulted.
}

// Tags is a set of typed tag values, e.g. an item may carry several
// TagArtist values (featured artists) but usually exactly one TagTitle.
type Tags map[TagType][]string

// Get returns the first value for t, or "" if absent.
func (t Tags) Get(tag TagType) string {
	if v := t[tag]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// FilterItem is the open set of filter expression node kinds the host's
// filter vocabulary supports. Only TagSongFilter is translated into a UPnP
// search criterion; any other kind is left untouched here, and
// SongFilter.Match treats it as matching, leaving it to the host to
// re-apply.
type FilterItem interface {
	isFilterItem()
}

// TagSongFilter is a single tag filter: keep songs whose tag T equals V
// exactly, or, when FoldCase is set, whose tag T contains V after case
// folding.
type TagSongFilter struct {
	TagType  TagType
	Value    string
	FoldCase bool
}

func (TagSongFilter) isFilterItem() {}

// SongFilter is an ordered sequence of filter items combined with logical
// AND. Other item kinds (ranges, negations, ...) may appear in items but
// are ignored by the search compiler in this release.
type SongFilter struct {
	Items []FilterItem
}

// Empty reports whether the filter is nil or carries no items at all.
func (f *SongFilter) Empty() bool {
	return f == nil || len(f.Items) == 0
}

// Match reports whether song satisfies every TagSongFilter item in f.
// Non-tag-equality items always match (they are the host's responsibility
// to re-apply). Used for client-side filtering during plain (non-search)
// container listings.
func (f *SongFilter) Match(song LightSong) bool {
	if f == nil {
		return true
	}
	for _, item := range f.Items {
		tf, ok := item.(TagSongFilter)
		if !ok {
			continue
		}
		want := tf.Value
		got := song.Tag.Get(tf.TagType)
		if tf.FoldCase {
			if want != "" && !strings.Contains(foldCaser.String(got), foldCaser.String(want)) {
				return false
			}
		} else if got != want {
			return false
		}
	}
	return true
}

// DatabaseSelection is the host's request envelope for Visit: which URI to
// start at, whether to recurse, and an optional filter.
type DatabaseSelection struct {
	URI       string
	Recursive bool
	Filter    *SongFilter
}

// Clone returns a shallow copy of s; the Filter pointer is shared.
func (s DatabaseSelection) Clone() DatabaseSelection {
	return DatabaseSelection{URI: s.URI, Recursive: s.Recursive, Filter: s.Filter}
}

// LightSong is the host-visible record for one music item. URI is a
// HostPath; RealURI is the underlying stream URL.
type LightSong struct {
	URI     string
	RealURI string
	Tag     Tags
}

// LightDirectory is the host-visible record for one directory. Mtime is
// always epoch-min: this release does not track per-directory changes.
type LightDirectory struct {
	URI   string
	Mtime time.Time
}

// LightPlaylist is accepted for interface completeness (the VisitPlaylist
// callback) but is never populated: playlist-item traversal is out of
// scope for this release.
type LightPlaylist struct {
	URI string
}

// EpochMin is the constant timestamp every directory mtime and the global
// update stamp report, since UPnP has no authoritative change counter.
var EpochMin = time.Unix(0, 0).UTC()

// VisitDirectory, VisitSong and VisitPlaylist are the host's visit
// callbacks. Any of the three may be nil, meaning "do not emit this kind".
type (
	VisitDirectory func(LightDirectory) error
	VisitSong      func(LightSong) error
	VisitPlaylist  func(LightPlaylist) error
)

// Stats is the host's generic per-selection statistics record. GetStats
// always returns the zero value: UPnP has no authoritative per-selection
// statistics source.
type Stats struct {
	ArtistCount, AlbumCount, SongCount int
	TotalDuration                      time.Duration
}
