package upnpdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/tanglewood-audio/upnpdb/errdef"
	"github.com/tanglewood-audio/upnpdb/hostdb"
	"github.com/tanglewood-audio/upnpdb/log"
	"github.com/tanglewood-audio/upnpdb/upnpclient"
)

// Options is the adapter's entire configuration surface.
type Options struct {
	// Interface is the local network interface the UPnP client binds to.
	// Empty means library default (all interfaces).
	Interface string
}

// Facade implements hostdb.Database: it holds the UPnP client handle and
// device-directory instance between Open and Close.
type Facade struct {
	opts Options
	dir  upnpclient.DeviceDirectory
	reg  *registry
}

// NewFacade is the hostdb.PluginFactory bound into Info below.
func NewFacade(pc hostdb.PluginContext) (hostdb.Database, error) {
	return &Facade{opts: Options{Interface: pc.Config["interface"]}}, nil
}

// Open initializes the UPnP client for the configured interface and starts
// discovery. If discovery fails to start, the handle is released and the
// error re-raised; no partial state remains.
func (f *Facade) Open(ctx context.Context) error {
	dir, err := upnpclient.NewDeviceDirectory(f.opts.Interface)
	if err != nil {
		return fmt.Errorf("upnpdb: failed to initialize UPnP client: %w", err)
	}

	if err := dir.Start(ctx); err != nil {
		var result *multierror.Error
		result = multierror.Append(result, fmt.Errorf("upnpdb: discovery failed to start: %w", err))
		if closeErr := dir.Close(); closeErr != nil {
			result = multierror.Append(result, closeErr)
		}
		return result.ErrorOrNil()
	}

	f.dir = dir
	f.reg = newRegistry(dir)
	log.Info(ctx, "upnp adapter opened", "interface", f.opts.Interface)
	return nil
}

// Close stops discovery and releases the client. Safe to call after a
// failed Open, and idempotent.
func (f *Facade) Close(ctx context.Context) error {
	if f.dir == nil {
		return nil
	}
	var result *multierror.Error
	if err := f.dir.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	f.dir = nil
	f.reg = nil
	return result.ErrorOrNil()
}

// GetSong splits uri once at '/' into (server, tail), resolves the server,
// resolves tail (ID-path or name-path), and wraps the result as a
// heap-owned song record. The returned record must be paired with exactly
// one ReturnSong call.
func (f *Facade) GetSong(ctx context.Context, uri string) (*hostdb.LightSong, error) {
	ctx = log.NewContext(ctx, "correlationID", uuid.NewString())

	serverName, tail := splitHostPath(uri)
	if serverName == "" || tail == "" {
		return nil, fmt.Errorf("%w: malformed song uri %q", errdef.NotFound, uri)
	}

	svc, err := f.reg.getServer(serverName)
	if err != nil {
		return nil, err
	}
	reader := newDirReader(svc)

	if objectID, ok := splitIDPath(tail); ok {
		obj, err := reader.getMetadata(ctx, objectID)
		if err != nil {
			return nil, err
		}
		return newLightSong(syntheticPath(serverName, obj.ID), obj), nil
	}

	target, err := namei(ctx, reader, tail)
	if err != nil {
		return nil, err
	}
	return newLightSong(uri, target), nil
}

// ReturnSong destroys the record. Go's GC makes this a formality; clearing
// the pointee turns a double-return into an inert no-op instead of a
// use-after-free, which is the closest analogue available without a
// free-list of our own.
func (f *Facade) ReturnSong(song *hostdb.LightSong) {
	if song == nil {
		return
	}
	*song = hostdb.LightSong{}
}

// Visit copies selection, clears its URI and filter for the helper,
// constructs a visitor helper keyed to the selection and song callback,
// dispatches via the Engine, then commits the helper. The whole call is
// tagged with a correlation id so that one browse/search spanning several
// SOAP round-trips, several servers, and several recursive sub-visits can
// be traced as a single unit across the log lines it produces.
func (f *Facade) Visit(ctx context.Context, selection hostdb.DatabaseSelection, onDir hostdb.VisitDirectory, onSong hostdb.VisitSong, onPlaylist hostdb.VisitPlaylist) error {
	ctx = log.NewContext(ctx, "correlationID", uuid.NewString())

	helperSel := selection.Clone()
	helperSel.URI = ""
	helperSel.Filter = nil
	helper := hostdb.NewDatabaseVisitorHelper(helperSel, onSong)

	if err := visit(ctx, f.reg, selection, onDir, helper, onPlaylist); err != nil {
		return err
	}
	return helper.Commit()
}

// CollectUniqueTags delegates to the host's generic helper.
func (f *Facade) CollectUniqueTags(ctx context.Context, selection hostdb.DatabaseSelection, tagTypes []hostdb.TagType) (map[hostdb.TagType][]string, error) {
	return hostdb.CollectUniqueTags(ctx, f, selection, tagTypes)
}

// GetStats always returns the zero value: UPnP has no authoritative
// per-selection statistics source (Non-goals).
func (f *Facade) GetStats(ctx context.Context, selection hostdb.DatabaseSelection) (hostdb.Stats, error) {
	return hostdb.Stats{}, nil
}

// GetUpdateStamp is invariant across all operations: UPnP has no
// authoritative global change counter.
func (f *Facade) GetUpdateStamp() time.Time {
	return hostdb.EpochMin
}

// Info is the plugin vtable exposed to the host's plugin registry,
// modeled on rclone's fs.RegInfo{Name, Description, NewFs, Options}
// backend-registration shape.
var Info = hostdb.PluginInfo{
	Name:        "upnp",
	Description: "read-only UPnP/AV ContentDirectory music database adapter",
	Flags:       0,
	Factory:     NewFacade,
}
