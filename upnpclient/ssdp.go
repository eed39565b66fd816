package upnpclient

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/tanglewood-audio/upnpdb/log"
)

const (
	ssdpMulticastAddr        = "239.255.255.250:1900"
	contentDirectorySearchTarget = "urn:schemas-upnp-org:service:ContentDirectory:1"
	ssdpSearchTimeout        = 3 * time.Second
)

// ssdpScan performs one SSDP M-SEARCH discovery round for ContentDirectory
// devices and returns the set of distinct LOCATION URLs that responded,
// grounded on the teacher's Discovery.Scan (server/sonos_cast/discovery.go).
func ssdpScan(ctx context.Context, iface string) ([]string, error) {
	log.Debug(ctx, "Starting ContentDirectory SSDP discovery scan", "interface", iface)

	localAddr := &net.UDPAddr{IP: net.IPv4zero, Port: 0}
	if iface != "" {
		if ip, err := localAddrForInterface(iface); err == nil {
			localAddr.IP = ip
		}
	}

	conn, err := net.ListenUDP("udp4", localAddr)
	if err != nil {
		return nil, fmt.Errorf("upnpclient: failed to open SSDP socket: %w", err)
	}
	defer conn.Close()

	multicastAddr, err := net.ResolveUDPAddr("udp4", ssdpMulticastAddr)
	if err != nil {
		return nil, fmt.Errorf("upnpclient: failed to resolve SSDP multicast address: %w", err)
	}

	request := buildMSearchRequest(contentDirectorySearchTarget)
	if _, err := conn.WriteToUDP([]byte(request), multicastAddr); err != nil {
		return nil, fmt.Errorf("upnpclient: failed to send M-SEARCH: %w", err)
	}

	log.Debug(ctx, "Sent SSDP M-SEARCH for ContentDirectory devices")

	locations := make(map[string]bool)
	conn.SetReadDeadline(time.Now().Add(ssdpSearchTimeout))

	buf := make([]byte, 2048)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				break
			}
			log.Warn(ctx, "Error reading SSDP response", "err", err)
			break
		}
		if loc := parseLocationFromResponse(string(buf[:n])); loc != "" {
			locations[loc] = true
		}
	}

	out := make([]string, 0, len(locations))
	for loc := range locations {
		out = append(out, loc)
	}
	log.Info(ctx, "SSDP discovery complete", "devicesFound", len(out))
	return out, nil
}

func buildMSearchRequest(searchTarget string) string {
	return fmt.Sprintf(
		"M-SEARCH * HTTP/1.1\r\n"+
			"HOST: %s\r\n"+
			"MAN: \"ssdp:discover\"\r\n"+
			"MX: 2\r\n"+
			"ST: %s\r\n"+
			"USER-AGENT: upnpdb/1.0 UPnP/1.0\r\n"+
			"\r\n",
		ssdpMulticastAddr, searchTarget)
}

func parseLocationFromResponse(response string) string {
	scanner := bufio.NewScanner(strings.NewReader(response))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.ToUpper(line), "LOCATION:") {
			return strings.TrimSpace(line[len("LOCATION:"):])
		}
	}
	return ""
}

func localAddrForInterface(name string) (net.IP, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return nil, err
	}
	addrs, err := iface.Addrs()
	if err != nil {
		return nil, err
	}
	for _, a := range addrs {
		if ipNet, ok := a.(*net.IPNet); ok && ipNet.IP.To4() != nil {
			return ipNet.IP, nil
		}
	}
	return nil, fmt.Errorf("upnpclient: interface %q has no IPv4 address", name)
}
