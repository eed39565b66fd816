package log_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanglewood-audio/upnpdb/log"
)

func withCapture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	fresh := logrus.New()
	fresh.SetOutput(&buf)
	fresh.SetFormatter(&logrus.JSONFormatter{})
	fresh.SetLevel(logrus.DebugLevel)
	log.Logger = fresh
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestDebugIncludesKeyValuePairs(t *testing.T) {
	buf := withCapture(t)
	log.Debug(context.Background(), "read dir", "server", "MS", "id", "7")

	require.Contains(t, buf.String(), `"server":"MS"`)
	assert.Contains(t, buf.String(), `"id":"7"`)
	assert.Contains(t, buf.String(), `"msg":"read dir"`)
}

func TestNewContextMergesFieldsAcrossCalls(t *testing.T) {
	buf := withCapture(t)
	ctx := log.NewContext(context.Background(), "requestId", "abc-123")
	log.Info(ctx, "visiting", "uri", "MS/Music")

	assert.Contains(t, buf.String(), `"requestId":"abc-123"`)
	assert.Contains(t, buf.String(), `"uri":"MS/Music"`)
}

func TestErrorAttachesErrField(t *testing.T) {
	buf := withCapture(t)
	log.Error(context.Background(), "getMetadata failed", assert.AnError, "id", "9")

	assert.Contains(t, buf.String(), `"error"`)
	assert.Contains(t, buf.String(), `"id":"9"`)
}

func TestOddTrailingKeyIsMarkedBad(t *testing.T) {
	buf := withCapture(t)
	log.Warn(context.Background(), "dropped filter item", "kind")

	assert.Contains(t, buf.String(), `"!BADKEY":"kind"`)
}
