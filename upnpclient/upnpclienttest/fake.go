// Package upnpclienttest provides an in-memory ContentDirectoryService and
// DeviceDirectory fake so upnpdb's component tests never touch the
// network, grounded on rclone's fstest/mockdir pattern (a hand-rolled
// in-memory stand-in for an external protocol) since the teacher has no
// client-side UPnP test fixture of its own.
package upnpclienttest

import (
	"context"
	"fmt"
	"strings"

	"github.com/tanglewood-audio/upnpdb/errdef"
	"github.com/tanglewood-audio/upnpdb/hostdb"
	"github.com/tanglewood-audio/upnpdb/upnpclient"
)

// Server is a builder and fake implementation of upnpclient.ContentDirectoryService
// for exactly one MediaServer.
type Server struct {
	name     string
	caps     []string
	objects  map[string]upnpclient.DirObject
	children map[string][]string // parentID -> child IDs, in insertion order

	ReadDirCalls int
	SearchCalls  int
}

// NewServer starts an empty fake server with the given friendly name and
// the conventional UPnP root container "0".
func NewServer(name string) *Server {
	return &Server{
		name:    name,
		objects: map[string]upnpclient.DirObject{
			"0": {ID: "0", ParentID: "-1", Name: name, Type: upnpclient.ObjectContainer},
		},
		children: map[string][]string{},
	}
}

// AddContainer registers a container object and appends it to parentID's
// child list.
func (s *Server) AddContainer(id, parentID, name string) *Server {
	s.objects[id] = upnpclient.DirObject{ID: id, ParentID: parentID, Name: name, Type: upnpclient.ObjectContainer}
	s.children[parentID] = append(s.children[parentID], id)
	return s
}

// AddMusicItem registers a music item with the given URL and tags and
// appends it to parentID's child list.
func (s *Server) AddMusicItem(id, parentID, name, url string, tags hostdb.Tags) *Server {
	s.objects[id] = upnpclient.DirObject{
		ID: id, ParentID: parentID, Name: name,
		Type: upnpclient.ObjectItem, Class: upnpclient.ClassMusic,
		URL: url, Tag: tags,
	}
	s.children[parentID] = append(s.children[parentID], id)
	return s
}

// AddNonMusicItem registers an item whose class is neither music nor
// playlist, to exercise suppression of unrecognized item kinds.
func (s *Server) AddNonMusicItem(id, parentID, name string) *Server {
	s.objects[id] = upnpclient.DirObject{ID: id, ParentID: parentID, Name: name, Type: upnpclient.ObjectItem, Class: upnpclient.ClassUnknown}
	s.children[parentID] = append(s.children[parentID], id)
	return s
}

// WithSearchCapabilities sets the DIDL field names this server advertises.
// A server with none never receives a Search call.
func (s *Server) WithSearchCapabilities(caps ...string) *Server {
	s.caps = caps
	return s
}

func (s *Server) FriendlyName() string { return s.name }

func (s *Server) ReadDir(_ context.Context, objectID string) (upnpclient.DirContent, error) {
	s.ReadDirCalls++
	ids := s.children[objectID]
	out := make(upnpclient.DirContent, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.objects[id])
	}
	return out, nil
}

func (s *Server) GetMetadata(_ context.Context, objectID string) (upnpclient.DirObject, error) {
	obj, ok := s.objects[objectID]
	if !ok {
		return upnpclient.DirObject{}, fmt.Errorf("%w: no such object %q", errdef.BadResource, objectID)
	}
	return obj, nil
}

func (s *Server) SearchCapabilities(_ context.Context) ([]string, error) {
	return s.caps, nil
}

// Search evaluates a criteria string built by the search compiler against
// every item in the server, ignoring container boundaries (matching real
// ContentDirectory "All Music"-style virtual search scope); only music items
// are returned. It understands "field op "value"" terms joined by " and ",
// or a single "(" "or" "-joined disjunction for any-tag search standing on
// its own; a disjunction combined with other terms is not parsed.
func (s *Server) Search(_ context.Context, _ string, criteria string) (upnpclient.DirContent, error) {
	s.SearchCalls++
	terms, disjunction, err := parseCriteria(criteria)
	if err != nil {
		return nil, err
	}

	var out upnpclient.DirContent
	for _, obj := range s.objects {
		if obj.Type != upnpclient.ObjectItem || obj.Class != upnpclient.ClassMusic {
			continue
		}
		if matches(obj, terms, disjunction) {
			out = append(out, obj)
		}
	}
	return out, nil
}

type criterionTerm struct {
	field    string
	contains bool
	value    string
}

// parseCriteria parses the small criteria grammar the search compiler
// produces: either a single top-level disjunction wrapped in
// parentheses (the any-tag case), or a conjunction of "field op "value""
// terms joined by " and ".
func parseCriteria(criteria string) (terms []criterionTerm, disjunction bool, err error) {
	criteria = strings.TrimSpace(criteria)
	if strings.HasPrefix(criteria, "(") && strings.HasSuffix(criteria, ")") {
		inner := criteria[1 : len(criteria)-1]
		parts := strings.Split(inner, " or ")
		for _, p := range parts {
			t, err := parseTerm(p)
			if err != nil {
				return nil, false, err
			}
			terms = append(terms, t)
		}
		return terms, true, nil
	}

	for _, p := range strings.Split(criteria, " and ") {
		t, err := parseTerm(p)
		if err != nil {
			return nil, false, err
		}
		terms = append(terms, t)
	}
	return terms, false, nil
}

func parseTerm(term string) (criterionTerm, error) {
	term = strings.TrimSpace(term)
	var field, op string
	var rest string
	switch {
	case strings.Contains(term, " contains "):
		idx := strings.Index(term, " contains ")
		field, op, rest = term[:idx], "contains", term[idx+len(" contains "):]
	case strings.Contains(term, " = "):
		idx := strings.Index(term, " = ")
		field, op, rest = term[:idx], "=", term[idx+len(" = "):]
	default:
		return criterionTerm{}, fmt.Errorf("upnpclienttest: unrecognized search term %q", term)
	}
	value := unquote(rest)
	return criterionTerm{field: field, contains: op == "contains", value: value}, nil
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}

func matches(obj upnpclient.DirObject, terms []criterionTerm, disjunction bool) bool {
	if len(terms) == 0 {
		return false
	}
	for _, t := range terms {
		field := hostdb.TagType(fieldToTagType(t.field))
		got := obj.Tag.Get(field)
		var ok bool
		if t.contains {
			ok = strings.Contains(strings.ToLower(got), strings.ToLower(t.value))
		} else {
			ok = got == t.value
		}
		if ok && disjunction {
			return true
		}
		if !ok && !disjunction {
			return false
		}
	}
	return !disjunction
}

func fieldToTagType(field string) hostdb.TagType {
	for t, name := range hostdb.UPnPTags {
		if name == field {
			return t
		}
	}
	return hostdb.TagUnknown
}

// DeviceDirectory is a fake upnpclient.DeviceDirectory over a fixed set of
// Servers, with no network activity: Start is a no-op that simply makes the
// registered servers visible.
type DeviceDirectory struct {
	servers map[string]*Server
	started bool
}

// NewDeviceDirectory builds a fake directory pre-populated with servers.
func NewDeviceDirectory(servers ...*Server) *DeviceDirectory {
	m := make(map[string]*Server, len(servers))
	for _, s := range servers {
		m[s.name] = s
	}
	return &DeviceDirectory{servers: m}
}

func (d *DeviceDirectory) Start(_ context.Context) error {
	d.started = true
	return nil
}

func (d *DeviceDirectory) GetServer(name string) (upnpclient.ContentDirectoryService, error) {
	s, ok := d.servers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", upnpclient.ErrDeviceNotFound, name)
	}
	return s, nil
}

func (d *DeviceDirectory) GetDirectories() []upnpclient.ContentDirectoryService {
	out := make([]upnpclient.ContentDirectoryService, 0, len(d.servers))
	for _, s := range d.servers {
		out = append(out, s)
	}
	return out
}

func (d *DeviceDirectory) Close() error {
	d.started = false
	return nil
}
