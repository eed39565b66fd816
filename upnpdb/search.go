package upnpdb

import (
	"context"
	"strings"

	"github.com/tanglewood-audio/upnpdb/hostdb"
	"github.com/tanglewood-audio/upnpdb/log"
	"github.com/tanglewood-audio/upnpdb/upnpclient"
)

// compileAndSearch translates filter into a UPnP ContentDirectory search
// string scoped at rootObjectID on svc, gated by the server's advertised
// search capabilities, and issues the search. Returns an empty result
// (without ever calling Search) if filter is empty or the server reports no
// capabilities at all.
func compileAndSearch(ctx context.Context, svc upnpclient.ContentDirectoryService, rootObjectID string, filter *hostdb.SongFilter) (upnpclient.DirContent, error) {
	if filter.Empty() {
		return nil, nil
	}

	caps, err := svc.SearchCapabilities(ctx)
	if err != nil {
		return nil, err
	}
	if len(caps) == 0 {
		log.Warn(ctx, "server advertises no search capabilities, skipping search", "server", svc.FriendlyName())
		return nil, nil
	}

	criteria := compileCriteria(ctx, filter, caps)
	if criteria == "" {
		return nil, nil
	}
	return svc.Search(ctx, rootObjectID, criteria)
}

// compileCriteria translates each filter item into a UPnP search criterion
// and joins them with "and". Filter item kinds other than TagSongFilter are
// dropped (left for the host to re-apply client-side).
func compileCriteria(ctx context.Context, filter *hostdb.SongFilter, caps []string) string {
	var clauses []string
	for _, item := range filter.Items {
		tf, ok := item.(hostdb.TagSongFilter)
		if !ok {
			log.Warn(ctx, "dropping unsupported filter item, left for client-side re-apply", "item", item)
			continue
		}
		tagType := tf.TagType
		if tagType == hostdb.TagAlbumArtist {
			tagType = hostdb.TagArtist
		}

		op := " = "
		if tf.FoldCase {
			op = " contains "
		}
		quoted := quoteCriterionValue(tf.Value)

		if tagType == hostdb.TagAny {
			clauses = append(clauses, anyTagDisjunction(caps, op, quoted))
			continue
		}

		name, known := hostdb.UPnPTags[tagType]
		if !known {
			log.Warn(ctx, "dropping filter item with unmapped tag type", "tagType", tagType)
			continue
		}
		clauses = append(clauses, name+op+quoted)
	}
	return strings.Join(clauses, " and ")
}

func anyTagDisjunction(caps []string, op, quoted string) string {
	terms := make([]string, 0, len(caps))
	for _, capability := range caps {
		terms = append(terms, capability+op+quoted)
	}
	return "(" + strings.Join(terms, " or ") + ")"
}

// quoteCriterionValue surrounds v with double quotes, escaping embedded `"`
// and `\` with a leading backslash. No other escaping is performed.
func quoteCriterionValue(v string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range v {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
