// Package errdef defines the two error kinds the adapter surfaces to the
// host: NotFound, reported through the host's NOT_FOUND database error
// code, and BadResource, surfaced as a generic runtime error. Every other
// anomaly (unmapped tag, unsupported filter item, empty search
// capabilities) is absorbed by the caller and never reaches these.
package errdef

import "errors"

// NotFound is the sentinel wrapped by every "no such server/name/object"
// failure. Test with errors.Is(err, errdef.NotFound).
var NotFound = errors.New("not found")

// BadResource is the sentinel wrapped when a MediaServer returns a
// malformed or unexpected response (e.g. GetMetadata answering with zero or
// more than one object).
var BadResource = errors.New("bad resource")

// IsNotFound reports whether err (or something it wraps) is NotFound.
func IsNotFound(err error) bool { return errors.Is(err, NotFound) }

// IsBadResource reports whether err (or something it wraps) is BadResource.
func IsBadResource(err error) bool { return errors.Is(err, BadResource) }
