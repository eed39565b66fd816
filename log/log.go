// Package log is a thin context-aware wrapper around logrus.
//
// Call sites pass a context.Context plus a message and an optional list of
// key/value pairs, e.g. log.Debug(ctx, "read dir", "server", name, "id", id).
// The pairs are folded into logrus fields; an odd trailing key without a
// value is logged as-is under the key "!BADKEY".
package log

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey int

const fieldsKey ctxKey = 0

// Logger is the package-level logrus instance. Replace it (e.g. in tests)
// to capture or silence output.
var Logger = logrus.StandardLogger()

// NewContext returns a context that carries additional fields to be merged
// into every log call made with it.
func NewContext(ctx context.Context, kv ...any) context.Context {
	return context.WithValue(ctx, fieldsKey, mergeFields(fieldsFromContext(ctx), fieldsFromPairs(kv)))
}

func fieldsFromContext(ctx context.Context) logrus.Fields {
	if ctx == nil {
		return logrus.Fields{}
	}
	if f, ok := ctx.Value(fieldsKey).(logrus.Fields); ok {
		return f
	}
	return logrus.Fields{}
}

func fieldsFromPairs(kv []any) logrus.Fields {
	f := make(logrus.Fields, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = "!BADKEY"
		}
		f[key] = kv[i+1]
	}
	if len(kv)%2 == 1 {
		f["!BADKEY"] = kv[len(kv)-1]
	}
	return f
}

func mergeFields(dst, src logrus.Fields) logrus.Fields {
	out := make(logrus.Fields, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}

func entry(ctx context.Context, kv []any) *logrus.Entry {
	return Logger.WithFields(mergeFields(fieldsFromContext(ctx), fieldsFromPairs(kv)))
}

// Debug logs a diagnostic message. Used at every blocking round-trip:
// one entry per readDir/getMetadata/search/searchCapabilities call.
func Debug(ctx context.Context, msg string, kv ...any) {
	entry(ctx, kv).Debug(msg)
}

// Info logs a normal operational message.
func Info(ctx context.Context, msg string, kv ...any) {
	entry(ctx, kv).Info(msg)
}

// Warn logs an absorbed anomaly: the offending element is dropped and the
// request continues.
func Warn(ctx context.Context, msg string, kv ...any) {
	entry(ctx, kv).Warn(msg)
}

// Error logs a message together with the error that caused it. err may be
// nil, in which case the message is still logged at error level, without an
// error field.
func Error(ctx context.Context, msg string, err error, kv ...any) {
	e := entry(ctx, kv)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(msg)
}
