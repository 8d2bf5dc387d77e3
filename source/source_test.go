package source

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/atsume-cli/atsume/anilist"
	"github.com/atsume-cli/atsume/resolve"
	. "github.com/smartystreets/goconvey/convey"
)

type searchHost struct {
	requests  atomic.Int32
	failFirst atomic.Int32
	body      atomic.Value
	title     atomic.Value
}

func (h *searchHost) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.requests.Add(1)
	if h.failFirst.Load() > 0 {
		h.failFirst.Add(-1)
		http.Error(w, "bad gateway", http.StatusBadGateway)
		return
	}

	var req searchRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	h.title.Store(req.Title)

	_, _ = io.WriteString(w, h.body.Load().(string))
}

func TestSearch(t *testing.T) {
	Convey("Given a resolution host", t, func() {
		h := &searchHost{}
		h.body.Store(`{"results":[{"title":"Naruto","url":"/naruto","episodes":[
			{"title":"Episode 10","url":"/naruto/10"},
			{"title":"Episode 2","url":"/naruto/2"},
			{"title":"Episode 1.5","url":"/naruto/1.5"},
			{"title":"Episode 1","url":"/naruto/1"}
		]},{"title":"Naruto Shippuden","url":"/shippuden","episodes":[]}]}`)
		server := httptest.NewServer(h)
		defer server.Close()

		client, err := NewClient(server.Client(), server.URL, "/searchAnime", 3)
		So(err, ShouldBeNil)
		client.delay = 0

		Convey("Searching should post the title and sort episodes by number", func() {
			shows, err := client.Search(context.Background(), "naruto")
			So(err, ShouldBeNil)
			So(h.title.Load(), ShouldEqual, "naruto")
			So(shows, ShouldHaveLength, 2)

			titles := make([]string, 0)
			for _, e := range shows[0].Episodes {
				titles = append(titles, e.Title)
			}
			So(titles, ShouldResemble, []string{"Episode 1", "Episode 1.5", "Episode 2", "Episode 10"})

			Convey("Episodes should point back at their show", func() {
				episode := shows[0].Episodes[0]
				So(episode.Show, ShouldEqual, shows[0])
				So(episode.Reference(), ShouldEqual, resolve.Reference("/naruto/1"))
				So(episode.ElementID(), ShouldEqual, "0-Episode 1")
				So(shows[1].ElementID(), ShouldEqual, "1-Naruto Shippuden")
			})

			Convey("Episodes should be found by title", func() {
				episode, ok := shows[0].Episode("Episode 2")
				So(ok, ShouldBeTrue)
				So(episode.URL, ShouldEqual, "/naruto/2")

				_, ok = shows[0].Episode("Episode 99")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("Transport failures should be retried", func() {
			h.failFirst.Store(2)
			shows, err := client.Search(context.Background(), "naruto")
			So(err, ShouldBeNil)
			So(shows, ShouldHaveLength, 2)
			So(h.requests.Load(), ShouldEqual, 3)
		})

		Convey("A failure status from the host should not be retried", func() {
			h.body.Store(`{"status":500,"error":"scraper down"}`)
			_, err := client.Search(context.Background(), "naruto")

			var status *StatusError
			So(errors.As(err, &status), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "Got HTTP status code 500 from server. Error: scraper down.")
			So(h.requests.Load(), ShouldEqual, 1)
		})
	})
}

func TestEpisodeNumber(t *testing.T) {
	Convey("Episode numbers should come from the title", t, func() {
		So((&Episode{Title: "Episode 12"}).Number(), ShouldEqual, 12)
		So((&Episode{Title: "12.5"}).Number(), ShouldEqual, 12.5)
		So((&Episode{Title: "Special"}).Number(), ShouldEqual, 0)
	})
}

type finder struct {
	anime *anilist.Anime
	calls int
}

func (f *finder) FindClosest(context.Context, string) (*anilist.Anime, error) {
	f.calls++
	if f.anime == nil {
		return nil, anilist.ErrNotFound
	}
	return f.anime, nil
}

func TestPopulateMetadata(t *testing.T) {
	Convey("Given a show", t, func() {
		show := &Show{Title: "Mushishi"}

		Convey("Metadata should be copied from the closest Anilist entry", func() {
			al := &anilist.Anime{ID: 1, IDMal: 457, Status: "NOT_YET_RELEASED", SiteURL: "https://anilist.co/anime/1", Episodes: 26}
			al.Title.Romaji = "Mushishi"
			al.CoverImage.Medium = "cover.png"
			f := &finder{anime: al}

			So(show.PopulateMetadata(context.Background(), f), ShouldBeNil)
			So(show.Metadata.Title, ShouldEqual, "Mushishi")
			So(show.Metadata.Status, ShouldEqual, "NOT YET RELEASED")
			So(show.Metadata.Cover, ShouldEqual, "cover.png")
			So(show.Metadata.URLs, ShouldResemble, []string{"https://anilist.co/anime/1", "https://myanimelist.net/anime/457"})

			Convey("And populating again should not look it up twice", func() {
				So(show.PopulateMetadata(context.Background(), f), ShouldBeNil)
				So(f.calls, ShouldEqual, 1)
			})
		})

		Convey("A show missing from Anilist should report it", func() {
			err := show.PopulateMetadata(context.Background(), &finder{})
			So(errors.Is(err, anilist.ErrNotFound), ShouldBeTrue)
			So(show.Anilist.IsAbsent(), ShouldBeTrue)
		})
	})
}
