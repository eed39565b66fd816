package upnpdb

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tanglewood-audio/upnpdb/errdef"
	"github.com/tanglewood-audio/upnpdb/hostdb"
)

var _ = Describe("Facade", func() {
	var f *Facade

	BeforeEach(func() {
		f = newFacadeFor(newFixtureMS())
	})

	It("ReturnSong clears the record so a double-return is inert", func() {
		song, err := f.GetSong(context.Background(), "MS/Music/Song.flac")
		Expect(err).NotTo(HaveOccurred())
		Expect(song.URI).NotTo(BeEmpty())

		f.ReturnSong(song)
		Expect(song.URI).To(BeEmpty())
		Expect(song.RealURI).To(BeEmpty())

		f.ReturnSong(song) // double-return must not panic
	})

	It("GetUpdateStamp never changes across operations", func() {
		before := f.GetUpdateStamp()
		_, _ = f.GetSong(context.Background(), "MS/Music/Song.flac")
		after := f.GetUpdateStamp()
		Expect(after).To(Equal(before))
		Expect(before).To(Equal(hostdb.EpochMin))
	})

	It("GetStats always returns the zero value", func() {
		stats, err := f.GetStats(context.Background(), hostdb.DatabaseSelection{})
		Expect(err).NotTo(HaveOccurred())
		Expect(stats).To(Equal(hostdb.Stats{}))
	})

	It("CollectUniqueTags deduplicates tag values across the visited songs", func() {
		tags, err := f.CollectUniqueTags(context.Background(), hostdb.DatabaseSelection{URI: "MS", Recursive: true}, []hostdb.TagType{hostdb.TagArtist})
		Expect(err).NotTo(HaveOccurred())
		Expect(tags[hostdb.TagArtist]).To(ConsistOf(`AC\DC`))
	})

	It("GetSong fails not-found for a malformed uri", func() {
		_, err := f.GetSong(context.Background(), "MS")
		Expect(err).To(MatchError(errdef.NotFound))
	})
})
