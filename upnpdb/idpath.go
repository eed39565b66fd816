package upnpdb

import "strings"

// rootSentinel is the literal UPnP root object id, reused as the synthetic
// marker in HostPaths that signals "the next segment is an opaque id".
const rootSentinel = "0"

// splitIDPath detects and decodes the synthetic "0/<id>" tail form. tail ==
// "0" alone is not an ID-path; it is handled specially by the visitor
// engine.
func splitIDPath(tail string) (objectID string, ok bool) {
	rest, found := strings.CutPrefix(tail, rootSentinel+"/")
	if !found || rest == "" {
		return "", false
	}
	return rest, true
}
