package upnpdb

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tanglewood-audio/upnpdb/hostdb"
)

var _ = Describe("Visit", func() {
	var f *Facade

	BeforeEach(func() {
		f = newFacadeFor(newFixtureMS())
	})

	It("lists the multi-server root with one directory per server", func() {
		var dirs []hostdb.LightDirectory
		err := f.Visit(context.Background(), hostdb.DatabaseSelection{},
			func(d hostdb.LightDirectory) error { dirs = append(dirs, d); return nil },
			nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(dirs).To(HaveLen(1))
		Expect(dirs[0].URI).To(Equal("MS"))
	})

	It("lists a container, suppressing the non-music item", func() {
		var dirs []hostdb.LightDirectory
		var songs []hostdb.LightSong
		err := f.Visit(context.Background(), hostdb.DatabaseSelection{URI: "MS"},
			func(d hostdb.LightDirectory) error { dirs = append(dirs, d); return nil },
			func(s hostdb.LightSong) error { songs = append(songs, s); return nil },
			nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(dirs).To(HaveLen(1))
		Expect(dirs[0].URI).To(Equal("MS/Music"))
		Expect(songs).To(BeEmpty())
	})

	It("resolves a song by name path", func() {
		song, err := f.GetSong(context.Background(), "MS/Music/Song.flac")
		Expect(err).NotTo(HaveOccurred())
		Expect(song.URI).To(Equal("MS/Music/Song.flac"))
		Expect(song.RealURI).To(Equal("http://host/7.flac"))
	})

	It("resolves the same song by id-path", func() {
		song, err := f.GetSong(context.Background(), "MS/0/7")
		Expect(err).NotTo(HaveOccurred())
		Expect(song.URI).To(Equal("MS/0/7"))
		Expect(song.RealURI).To(Equal("http://host/7.flac"))
	})

	It("compiles a fold-case filter into a search and resolves hits via synthetic id-paths", func() {
		filter := &hostdb.SongFilter{Items: []hostdb.FilterItem{
			hostdb.TagSongFilter{TagType: hostdb.TagArtist, Value: `AC\DC`, FoldCase: true},
		}}
		var songs []hostdb.LightSong
		err := f.Visit(context.Background(), hostdb.DatabaseSelection{URI: "MS", Recursive: true, Filter: filter},
			nil,
			func(s hostdb.LightSong) error { songs = append(songs, s); return nil },
			nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(songs).To(HaveLen(1))
		Expect(songs[0].URI).To(Equal("MS/0/7"))
	})

	It("fails not-found for an unknown server", func() {
		_, err := f.GetSong(context.Background(), "NoSuch/whatever")
		Expect(err).To(MatchError(ContainSubstring("not found")))
	})

	It("an id-path visit emits exactly one song with the matching uri", func() {
		var songs []hostdb.LightSong
		err := f.Visit(context.Background(), hostdb.DatabaseSelection{URI: "MS/0/7"},
			nil, func(s hostdb.LightSong) error { songs = append(songs, s); return nil }, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(songs).To(HaveLen(1))
		Expect(songs[0].URI).To(Equal("MS/0/7"))
		Expect(songs[0].RealURI).To(Equal("http://host/7.flac"))
	})

	It("a container listing's multiset of child URIs matches its server contents", func() {
		var dirs []hostdb.LightDirectory
		var songs []hostdb.LightSong
		err := f.Visit(context.Background(), hostdb.DatabaseSelection{URI: "MS/Music"},
			func(d hostdb.LightDirectory) error { dirs = append(dirs, d); return nil },
			func(s hostdb.LightSong) error { songs = append(songs, s); return nil },
			nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(dirs).To(BeEmpty())
		Expect(songs).To(HaveLen(1))
		Expect(songs[0].URI).To(Equal("MS/Music/Song.flac"))
	})

	It("a tail beginning with 0/ never issues readDir, only getMetadata", func() {
		srv := newFixtureMS()
		direct := newFacadeFor(srv)
		_, err := direct.GetSong(context.Background(), "MS/0/7")
		Expect(err).NotTo(HaveOccurred())
		Expect(srv.ReadDirCalls).To(Equal(0))
	})

	It("the id-path sentinel alone emits no visits", func() {
		var dirs []hostdb.LightDirectory
		var songs []hostdb.LightSong
		err := f.Visit(context.Background(), hostdb.DatabaseSelection{URI: "MS/0"},
			func(d hostdb.LightDirectory) error { dirs = append(dirs, d); return nil },
			func(s hostdb.LightSong) error { songs = append(songs, s); return nil },
			nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(dirs).To(BeEmpty())
		Expect(songs).To(BeEmpty())
	})
})
