package upnpclient

import (
	"encoding/xml"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/tanglewood-audio/upnpdb/hostdb"
)

// The following mirror the DIDL-Lite wire shapes a ContentDirectory Browse
// or Search response embeds (HTML-escaped) in its Result element. They are
// decode-only: this client never originates DIDL-Lite, only consumes it.

type soapDIDLLite struct {
	XMLName    xml.Name       `xml:"DIDL-Lite"`
	Containers []soapObject   `xml:"container"`
	Items      []soapObject   `xml:"item"`
}

type soapObject struct {
	ID          string   `xml:"id,attr"`
	ParentID    string   `xml:"parentID,attr"`
	Title       string   `xml:"title"`
	Creator     string   `xml:"creator"`
	Album       string   `xml:"album"`
	Artist      string   `xml:"artist"`
	Genre       string   `xml:"genre"`
	Class       string   `xml:"class"`
	TrackNumber int      `xml:"originalTrackNumber"`
	Date        string   `xml:"date"`
	Resources   []soapRes `xml:"res"`
}

type soapRes struct {
	URL string `xml:",chardata"`
}

// DIDL-Lite upnp:class prefixes this client recognizes. Type comes from
// whether the object is a <container> or an <item> element; Class comes
// solely from the upnp:class string, and anything else decodes with Class
// left at ClassUnknown, so an unrecognized item is never guessed into music.
const (
	classContainerPrefix = "object.container"
	classAudioItemPrefix = "object.item.audioItem"
	classPlaylistItem    = "object.item.playlistItem"
)

// decodeDIDL parses one Browse/Search response's Result string (HTML-escaped
// DIDL-Lite XML) into a DirContent, grounded on the teacher's BrowseResponse
// handling (server/dlna/content_directory.go), inverted from encode to
// decode.
func decodeDIDL(result string) (DirContent, error) {
	unescaped := html.UnescapeString(result)

	var didl soapDIDLLite
	if err := xml.Unmarshal([]byte(unescaped), &didl); err != nil {
		return nil, fmt.Errorf("upnpclient: failed to parse DIDL-Lite: %w", err)
	}

	content := make(DirContent, 0, len(didl.Containers)+len(didl.Items))
	for _, c := range didl.Containers {
		content = append(content, toDirObject(c, ObjectContainer))
	}
	for _, it := range didl.Items {
		content = append(content, toDirObject(it, ObjectItem))
	}
	return content, nil
}

func toDirObject(o soapObject, objType ObjectType) DirObject {
	d := DirObject{
		ID:       o.ID,
		ParentID: o.ParentID,
		Name:     o.Title,
		Type:     objType,
		Class:    classifyItem(o.Class),
		Tag:      tagsFromObject(o),
	}
	if len(o.Resources) > 0 {
		d.URL = o.Resources[0].URL
	}
	return d
}

func classifyItem(class string) ItemClass {
	switch {
	case strings.HasPrefix(class, classAudioItemPrefix):
		return ClassMusic
	case strings.HasPrefix(class, classPlaylistItem):
		return ClassPlaylist
	default:
		return ClassUnknown
	}
}

func tagsFromObject(o soapObject) hostdb.Tags {
	tags := make(hostdb.Tags)
	addTag(tags, hostdb.TagTitle, o.Title)
	addTag(tags, hostdb.TagArtist, o.Artist)
	addTag(tags, hostdb.TagAlbum, o.Album)
	addTag(tags, hostdb.TagGenre, o.Genre)
	addTag(tags, hostdb.TagComposer, o.Creator)
	addTag(tags, hostdb.TagDate, o.Date)
	if o.TrackNumber > 0 {
		addTag(tags, hostdb.TagTrack, strconv.Itoa(o.TrackNumber))
	}
	return tags
}

func addTag(tags hostdb.Tags, t hostdb.TagType, v string) {
	if v == "" {
		return
	}
	tags[t] = append(tags[t], v)
}
