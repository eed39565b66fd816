package upnpclient

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/tanglewood-audio/upnpdb/errdef"
	"github.com/tanglewood-audio/upnpdb/log"
)

// soapActionRateLimit caps how fast this client hammers a single
// MediaServer with SOAP requests: consumer electronics ContentDirectory
// implementations are frequently embedded devices with modest CPUs, and a
// deep recursive Visit can otherwise fire many Browse calls back to back.
const (
	soapActionRateLimit = 10
	soapActionBurst     = 3
)

const contentDirectoryURN = "urn:schemas-upnp-org:service:ContentDirectory:1"

// soapEnvelope and soapBody mirror the teacher's SOAP wire shapes
// (server/sonos_cast/types.go SOAPEnvelope/SOAPBody), reused verbatim since
// the SOAP 1.1 envelope is identical regardless of which service it wraps.
type soapEnvelope struct {
	XMLName       xml.Name `xml:"s:Envelope"`
	XmlnsS        string   `xml:"xmlns:s,attr"`
	EncodingStyle string   `xml:"s:encodingStyle,attr"`
	Body          soapBody `xml:"s:Body"`
}

type soapBody struct {
	Content interface{} `xml:",any"`
}

type browseAction struct {
	XMLName        xml.Name `xml:"u:Browse"`
	XmlnsU         string   `xml:"xmlns:u,attr"`
	ObjectID       string   `xml:"ObjectID"`
	BrowseFlag     string   `xml:"BrowseFlag"`
	Filter         string   `xml:"Filter"`
	StartingIndex  int      `xml:"StartingIndex"`
	RequestedCount int      `xml:"RequestedCount"`
	SortCriteria   string   `xml:"SortCriteria"`
}

type searchAction struct {
	XMLName        xml.Name `xml:"u:Search"`
	XmlnsU         string   `xml:"xmlns:u,attr"`
	ContainerID    string   `xml:"ContainerID"`
	SearchCriteria string   `xml:"SearchCriteria"`
	Filter         string   `xml:"Filter"`
	StartingIndex  int      `xml:"StartingIndex"`
	RequestedCount int      `xml:"RequestedCount"`
	SortCriteria   string   `xml:"SortCriteria"`
}

type getSearchCapabilitiesAction struct {
	XMLName xml.Name `xml:"u:GetSearchCapabilities"`
	XmlnsU  string   `xml:"xmlns:u,attr"`
}

type browseResponse struct {
	Result         string `xml:"Result"`
	NumberReturned int    `xml:"NumberReturned"`
	TotalMatches   int    `xml:"TotalMatches"`
}

type getSearchCapabilitiesResponse struct {
	SearchCaps string `xml:"SearchCaps"`
}

const (
	browseFlagDirectChildren = "BrowseDirectChildren"
	browseFlagMetadata       = "BrowseMetadata"
)

// soapContentDirectory is the ContentDirectoryService implementation: one
// HTTP+SOAP client bound to a single device's ContentDirectory control URL.
type soapContentDirectory struct {
	friendlyName string
	baseURL      string
	controlURL   string
	client       *http.Client
	limiter      *rate.Limiter
}

func (s *soapContentDirectory) FriendlyName() string { return s.friendlyName }

func (s *soapContentDirectory) ReadDir(ctx context.Context, objectID string) (DirContent, error) {
	resp, err := s.browse(ctx, objectID, browseFlagDirectChildren)
	if err != nil {
		return nil, err
	}
	return decodeDIDL(resp.Result)
}

func (s *soapContentDirectory) GetMetadata(ctx context.Context, objectID string) (DirObject, error) {
	resp, err := s.browse(ctx, objectID, browseFlagMetadata)
	if err != nil {
		return DirObject{}, err
	}
	content, err := decodeDIDL(resp.Result)
	if err != nil {
		return DirObject{}, err
	}
	if len(content) != 1 {
		return DirObject{}, fmt.Errorf("%w: GetMetadata(%q) on %q returned %d objects, want 1",
			errdef.BadResource, objectID, s.friendlyName, len(content))
	}
	return content[0], nil
}

func (s *soapContentDirectory) browse(ctx context.Context, objectID, flag string) (*browseResponse, error) {
	action := browseAction{
		XmlnsU:         contentDirectoryURN,
		ObjectID:       objectID,
		BrowseFlag:     flag,
		Filter:         "*",
		StartingIndex:  0,
		RequestedCount: 0,
		SortCriteria:   "",
	}
	body, err := s.sendAction(ctx, "Browse", action)
	if err != nil {
		return nil, err
	}
	var resp soapResponseEnvelope
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("upnpclient: failed to parse Browse response: %w", err)
	}
	return &resp.Body.BrowseResponse, nil
}

func (s *soapContentDirectory) Search(ctx context.Context, objectID, criteria string) (DirContent, error) {
	action := searchAction{
		XmlnsU:         contentDirectoryURN,
		ContainerID:    objectID,
		SearchCriteria: criteria,
		Filter:         "*",
		StartingIndex:  0,
		RequestedCount: 0,
		SortCriteria:   "",
	}
	body, err := s.sendAction(ctx, "Search", action)
	if err != nil {
		return nil, err
	}
	var resp soapResponseEnvelope
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("upnpclient: failed to parse Search response: %w", err)
	}
	return decodeDIDL(resp.Body.SearchResponse.Result)
}

func (s *soapContentDirectory) SearchCapabilities(ctx context.Context) ([]string, error) {
	action := getSearchCapabilitiesAction{XmlnsU: contentDirectoryURN}
	body, err := s.sendAction(ctx, "GetSearchCapabilities", action)
	if err != nil {
		return nil, err
	}
	var resp soapResponseEnvelope
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("upnpclient: failed to parse GetSearchCapabilities response: %w", err)
	}
	caps := resp.Body.GetSearchCapabilitiesResponse.SearchCaps
	if caps == "" {
		return nil, nil
	}
	parts := strings.Split(caps, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

// soapResponseEnvelope decodes whichever of the three response shapes this
// client issues actions for. xml.Unmarshal leaves the fields it can't match
// at their zero value, so one struct can decode all three without a
// discriminated union.
type soapResponseEnvelope struct {
	Body struct {
		BrowseResponse                browseResponse                `xml:"BrowseResponse"`
		SearchResponse                browseResponse                `xml:"SearchResponse"`
		GetSearchCapabilitiesResponse getSearchCapabilitiesResponse `xml:"GetSearchCapabilitiesResponse"`
	} `xml:"Body"`
}

// sendAction POSTs a single SOAP action to the device's ContentDirectory
// control URL and returns the raw response body, grounded on the teacher's
// AVTransport.sendAction (server/sonos_cast/avtransport.go): same envelope
// construction, SOAPACTION header shape, and fault handling.
func (s *soapContentDirectory) sendAction(ctx context.Context, actionName string, action interface{}) ([]byte, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	envelope := soapEnvelope{
		XmlnsS:        "http://schemas.xmlsoap.org/soap/envelope/",
		EncodingStyle: "http://schemas.xmlsoap.org/soap/encoding/",
		Body:          soapBody{Content: action},
	}

	body, err := xml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("upnpclient: failed to marshal SOAP envelope: %w", err)
	}
	body = append([]byte(xml.Header), body...)

	url := s.baseURL + s.controlURL
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPACTION", fmt.Sprintf("\"%s#%s\"", contentDirectoryURN, actionName))

	log.Debug(ctx, "SOAP request", "url", url, "action", actionName, "server", s.friendlyName)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		if fault := parseSOAPFault(respBody); fault != nil {
			log.Warn(ctx, "SOAP fault received", "action", actionName, "code", fault.Code, "description", fault.Description)
			return nil, fault
		}
		return nil, fmt.Errorf("upnpclient: SOAP request %s failed: %d - %s", actionName, resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// parseSOAPFault attempts to parse a SOAP fault body into a SOAPFault,
// grounded on the teacher's parseSOAPFault (same file). Returns nil if the
// body doesn't look like a UPnP fault.
func parseSOAPFault(body []byte) *SOAPFault {
	bodyStr := string(body)

	codeStart := strings.Index(bodyStr, "<errorCode>")
	if codeStart == -1 {
		return nil
	}
	codeStart += len("<errorCode>")
	codeEnd := strings.Index(bodyStr[codeStart:], "</errorCode>")
	if codeEnd == -1 {
		return nil
	}

	code, err := strconv.Atoi(bodyStr[codeStart : codeStart+codeEnd])
	if err != nil {
		return nil
	}

	description := upnpErrorDescription(code)
	if descStart := strings.Index(bodyStr, "<errorDescription>"); descStart != -1 {
		descStart += len("<errorDescription>")
		if descEnd := strings.Index(bodyStr[descStart:], "</errorDescription>"); descEnd != -1 {
			if deviceDesc := bodyStr[descStart : descStart+descEnd]; deviceDesc != "" {
				description = fmt.Sprintf("%s (%s)", description, deviceDesc)
			}
		}
	}

	return &SOAPFault{Code: code, Description: description}
}
