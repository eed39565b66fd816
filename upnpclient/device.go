package upnpclient

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/tanglewood-audio/upnpdb/log"
)

const deviceFetchTimeout = 5 * time.Second

type deviceDescriptionXML struct {
	Device struct {
		FriendlyName string `xml:"friendlyName"`
		UDN          string `xml:"UDN"`
		ServiceList  struct {
			Services []struct {
				ServiceType string `xml:"serviceType"`
				ControlURL  string `xml:"controlURL"`
			} `xml:"service"`
		} `xml:"serviceList"`
	} `xml:"device"`
}

const contentDirectoryServiceType = "urn:schemas-upnp-org:service:ContentDirectory:1"

// deviceDirectory is the DeviceDirectory implementation: it runs SSDP
// discovery once per Start call, fetches and parses each responding
// device's description, and keeps a snapshot of ContentDirectoryService
// handles keyed by friendly name. It spawns no goroutines; all of Start is
// synchronous, per the adapter's single-event-loop concurrency model.
type deviceDirectory struct {
	iface   string
	client  *http.Client
	servers map[string]*soapContentDirectory
}

// NewDeviceDirectory constructs a DeviceDirectory bound to the named local
// network interface (empty string ⇒ library default, all interfaces).
func NewDeviceDirectory(iface string) (DeviceDirectory, error) {
	return &deviceDirectory{
		iface:  iface,
		client: &http.Client{Timeout: deviceFetchTimeout},
	}, nil
}

func (d *deviceDirectory) Start(ctx context.Context) error {
	locations, err := ssdpScan(ctx, d.iface)
	if err != nil {
		return err
	}

	servers := make(map[string]*soapContentDirectory, len(locations))
	for _, loc := range locations {
		svc, err := d.fetchContentDirectory(ctx, loc)
		if err != nil {
			log.Warn(ctx, "Failed to fetch device description", "location", loc, "err", err)
			continue
		}
		if svc == nil {
			continue // device has no ContentDirectory service
		}
		servers[svc.friendlyName] = svc
	}
	d.servers = servers
	log.Info(ctx, "ContentDirectory device directory started", "serverCount", len(servers))
	return nil
}

func (d *deviceDirectory) GetServer(name string) (ContentDirectoryService, error) {
	svc, ok := d.servers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDeviceNotFound, name)
	}
	return svc, nil
}

func (d *deviceDirectory) GetDirectories() []ContentDirectoryService {
	out := make([]ContentDirectoryService, 0, len(d.servers))
	for _, svc := range d.servers {
		out = append(out, svc)
	}
	return out
}

func (d *deviceDirectory) Close() error {
	d.servers = nil
	return nil
}

// fetchContentDirectory fetches and parses the device description XML at
// location, grounded on the teacher's Discovery.fetchDeviceDescription
// (server/sonos_cast/discovery.go). Returns (nil, nil) if the device has no
// ContentDirectory service.
func (d *deviceDirectory) fetchContentDirectory(ctx context.Context, location string) (*soapContentDirectory, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var desc deviceDescriptionXML
	if err := xml.Unmarshal(body, &desc); err != nil {
		return nil, fmt.Errorf("failed to parse device description: %w", err)
	}

	var controlURL string
	for _, svc := range desc.Device.ServiceList.Services {
		if svc.ServiceType == contentDirectoryServiceType {
			controlURL = svc.ControlURL
			break
		}
	}
	if controlURL == "" {
		return nil, nil
	}

	ip, port := parseIPPort(location)
	return &soapContentDirectory{
		friendlyName: desc.Device.FriendlyName,
		baseURL:      fmt.Sprintf("http://%s:%d", ip, port),
		controlURL:   controlURL,
		client:       d.client,
		limiter:      rate.NewLimiter(rate.Every(time.Second/soapActionRateLimit), soapActionBurst),
	}, nil
}

// parseIPPort extracts host and port from a URL like
// http://192.168.1.10:49152/description.xml.
func parseIPPort(location string) (string, int) {
	location = strings.TrimPrefix(location, "http://")
	location = strings.TrimPrefix(location, "https://")
	if idx := strings.Index(location, "/"); idx != -1 {
		location = location[:idx]
	}
	host, portStr, err := net.SplitHostPort(location)
	if err != nil {
		return location, 80
	}
	port := 80
	fmt.Sscanf(portStr, "%d", &port)
	return host, port
}
