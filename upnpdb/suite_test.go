package upnpdb

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/goleak"
)

// TestMain enforces that no goroutine spawned during the suite outlives it.
// upnpdb's whole Visit/GetSong path is synchronous by design, so any leak
// here is a regression, not noise to suppress.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestUpnpdb(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "upnpdb Suite")
}
