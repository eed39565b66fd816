package upnpclient

import (
	"errors"
	"fmt"
)

// ErrDeviceNotFound is returned by DeviceDirectory.GetServer when no known
// MediaServer has the requested friendly name.
var ErrDeviceNotFound = errors.New("upnpclient: device not found")

// UPnP ContentDirectory:4 error codes this client distinguishes by name.
// The rest are surfaced with their bare numeric code.
const (
	upnpErrorNoSuchObject       = 701
	upnpErrorInvalidCurrentTag  = 702
	upnpErrorInvalidNewTag      = 703
	upnpErrorRequiredTag        = 704
	upnpErrorReadOnlyTag        = 705
	upnpErrorParameterMismatch  = 706
	upnpErrorInvalidSearchCrit  = 708
	upnpErrorInvalidSortCrit    = 709
	upnpErrorNoSuchContainer    = 710
	upnpErrorRestrictedObject   = 711
	upnpErrorBadMetadata        = 712
	upnpErrorRestrictedParent   = 713
	upnpErrorNoSuchSourceRes    = 714
	upnpErrorResourceAccessDeny = 715
	upnpErrorTransferBusy       = 716
	upnpErrorNoSuchFileXfer     = 717
	upnpErrorNoSuchDestRes      = 718
	upnpErrorDestResAccessDeny  = 719
	upnpErrorCannotProcess      = 720
)

// SOAPFault is a parsed UPnP SOAP fault returned by a ContentDirectory
// action. It is returned as-is, and upnpdb passes it through unwrapped, so
// callers can inspect Code.
type SOAPFault struct {
	Code        int
	Description string
}

func (e *SOAPFault) Error() string {
	return fmt.Sprintf("upnpclient: SOAP fault %d: %s", e.Code, e.Description)
}

func upnpErrorDescription(code int) string {
	switch code {
	case upnpErrorNoSuchObject:
		return "no such object"
	case upnpErrorInvalidCurrentTag:
		return "invalid CurrentTagValue"
	case upnpErrorInvalidNewTag:
		return "invalid NewTagValue"
	case upnpErrorRequiredTag:
		return "required tag"
	case upnpErrorReadOnlyTag:
		return "parameter is read only"
	case upnpErrorParameterMismatch:
		return "parameter count mismatch"
	case upnpErrorInvalidSearchCrit:
		return "unsupported or invalid search criteria"
	case upnpErrorInvalidSortCrit:
		return "unsupported or invalid sort criteria"
	case upnpErrorNoSuchContainer:
		return "no such container"
	case upnpErrorRestrictedObject:
		return "restricted object"
	case upnpErrorBadMetadata:
		return "bad metadata"
	case upnpErrorRestrictedParent:
		return "restricted parent object"
	case upnpErrorNoSuchSourceRes:
		return "no such source resource"
	case upnpErrorResourceAccessDeny:
		return "source resource access denied"
	case upnpErrorTransferBusy:
		return "transfer busy"
	case upnpErrorNoSuchFileXfer:
		return "no such file transfer"
	case upnpErrorNoSuchDestRes:
		return "no such destination resource"
	case upnpErrorDestResAccessDeny:
		return "destination resource access denied"
	case upnpErrorCannotProcess:
		return "cannot process the request"
	default:
		return "unknown ContentDirectory error"
	}
}
