package upnpdb

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tanglewood-audio/upnpdb/hostdb"
	"github.com/tanglewood-audio/upnpdb/upnpclient/upnpclienttest"
)

var _ = Describe("Search Compiler", func() {
	It("quotes a value, escaping backslash and double-quote", func() {
		got := quoteCriterionValue(`AC\DC "Live"`)
		Expect(got).To(Equal(`"AC\\DC \"Live\""`))
	})

	It("compiles a non-fold tag-equality filter with the = operator", func() {
		filter := &hostdb.SongFilter{Items: []hostdb.FilterItem{
			hostdb.TagSongFilter{TagType: hostdb.TagAlbum, Value: "Back in Black", FoldCase: false},
		}}
		got := compileCriteria(context.Background(), filter, []string{"dc:title", "upnp:album"})
		Expect(got).To(Equal(`upnp:album = "Back in Black"`))
	})

	It("compiles a fold-case filter with the contains operator", func() {
		filter := &hostdb.SongFilter{Items: []hostdb.FilterItem{
			hostdb.TagSongFilter{TagType: hostdb.TagArtist, Value: `AC\DC`, FoldCase: true},
		}}
		got := compileCriteria(context.Background(), filter, []string{"dc:title", "upnp:artist"})
		Expect(got).To(Equal(`upnp:artist contains "AC\\DC"`))
	})

	It("normalizes album-artist to artist", func() {
		filter := &hostdb.SongFilter{Items: []hostdb.FilterItem{
			hostdb.TagSongFilter{TagType: hostdb.TagAlbumArtist, Value: "X", FoldCase: false},
		}}
		got := compileCriteria(context.Background(), filter, []string{"upnp:artist"})
		Expect(got).To(Equal(`upnp:artist = "X"`))
	})

	It("joins an any-tag filter into a parenthesized disjunction over every capability", func() {
		filter := &hostdb.SongFilter{Items: []hostdb.FilterItem{
			hostdb.TagSongFilter{TagType: hostdb.TagAny, Value: "x", FoldCase: true},
		}}
		got := compileCriteria(context.Background(), filter, []string{"dc:title", "upnp:artist"})
		Expect(got).To(Equal(`(dc:title contains "x" or upnp:artist contains "x")`))
	})

	It("skips an unmapped tag type silently", func() {
		filter := &hostdb.SongFilter{Items: []hostdb.FilterItem{
			hostdb.TagSongFilter{TagType: hostdb.TagUnknown, Value: "x", FoldCase: false},
		}}
		got := compileCriteria(context.Background(), filter, []string{"dc:title"})
		Expect(got).To(Equal(""))
	})

	It("never issues a search when the server has no capabilities", func() {
		srv := upnpclienttest.NewServer("Empty").AddMusicItem("1", "0", "song.flac", "http://x/1", hostdb.Tags{
			hostdb.TagArtist: {"someone"},
		})
		filter := &hostdb.SongFilter{Items: []hostdb.FilterItem{
			hostdb.TagSongFilter{TagType: hostdb.TagArtist, Value: "someone", FoldCase: true},
		}}
		content, err := compileAndSearch(context.Background(), srv, "0", filter)
		Expect(err).NotTo(HaveOccurred())
		Expect(content).To(BeEmpty())
	})

	It("an absent filter also short-circuits without consulting capabilities", func() {
		srv := upnpclienttest.NewServer("Empty")
		content, err := compileAndSearch(context.Background(), srv, "0", nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(content).To(BeEmpty())
	})
})
