package hostdb

import "strings"

// PathTraitsUTF8 stands in for the host's UTF-8 path-join helper: a single
// type so call sites read like the host's own `PathTraitsUTF8::Build(a, b)`.
var PathTraitsUTF8 pathTraitsUTF8

type pathTraitsUTF8 struct{}

// Build joins two UTF-8 path segments with a single '/'. Unlike path.Join
// it never collapses "." or ".." segments: object names returned by a
// MediaServer are opaque strings that may legitimately look like "." or
// "..", and the host's paths are not filesystem paths.
func (pathTraitsUTF8) Build(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return strings.TrimSuffix(a, "/") + "/" + strings.TrimPrefix(b, "/")
	}
}
