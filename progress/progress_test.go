package progress

import (
	"errors"
	"testing"

	"github.com/atsume-cli/atsume/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

type brokenStore struct{}

func (brokenStore) Get(string) ([]byte, bool, error) { return nil, false, errors.New("disk on fire") }
func (brokenStore) Set(string, []byte) error         { return errors.New("disk on fire") }

// switchableStore is a memory store whose writes can be made to fail.
type switchableStore struct {
	*MemoryStore
	failing bool
}

func (s *switchableStore) Set(key string, value []byte) error {
	if s.failing {
		return errors.New("disk full")
	}
	return s.MemoryStore.Set(key, value)
}

func TestRecorder(t *testing.T) {
	Convey("Given a recorder over an empty store", t, func() {
		store := NewMemoryStore()
		recorder := NewRecorder(store)

		So(recorder.LastWatched("Naruto").IsAbsent(), ShouldBeTrue)

		Convey("Recording a watch should be readable back", func() {
			So(recorder.RecordWatch("Naruto", "Episode 3"), ShouldBeNil)
			So(recorder.LastWatched("Naruto").MustGet(), ShouldEqual, "Episode 3")

			Convey("And the last write should win", func() {
				So(recorder.RecordWatch("Naruto", "Episode 4"), ShouldBeNil)
				So(recorder.LastWatched("Naruto").MustGet(), ShouldEqual, "Episode 4")
			})

			Convey("And it should be written through to the store", func() {
				data, ok, err := store.Get(Key)
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(string(data), ShouldEqual, `{"Naruto":"Episode 3"}`)

				Convey("So that a new recorder sees it", func() {
					So(NewRecorder(store).LastWatched("Naruto").MustGet(), ShouldEqual, "Episode 3")
				})
			})

			Convey("And forgetting the show should remove it", func() {
				So(recorder.Forget("Naruto"), ShouldBeNil)
				So(recorder.LastWatched("Naruto").IsAbsent(), ShouldBeTrue)
				So(NewRecorder(store).All(), ShouldBeEmpty)
			})
		})

		Convey("An empty show title should be rejected", func() {
			So(recorder.RecordWatch("", "Episode 1"), ShouldEqual, ErrEmptyShow)
		})

		Convey("Shows should be listed in order", func() {
			_ = recorder.RecordWatch("One Piece", "1")
			_ = recorder.RecordWatch("Bleach", "2")
			So(recorder.Shows(), ShouldResemble, []string{"Bleach", "One Piece"})
		})

		Convey("All should return a copy", func() {
			_ = recorder.RecordWatch("Bleach", "2")
			all := recorder.All()
			all["Bleach"] = "9"
			So(recorder.LastWatched("Bleach").MustGet(), ShouldEqual, "2")
		})
	})

	Convey("Corrupted progress should degrade to an empty mapping", t, func() {
		store := NewMemoryStore()
		_ = store.Set(Key, []byte("{not json"))

		recorder := NewRecorder(store)
		So(recorder.All(), ShouldBeEmpty)
		So(recorder.RecordWatch("Bleach", "1"), ShouldBeNil)
	})

	Convey("A failing store should not prevent startup", t, func() {
		recorder := NewRecorder(brokenStore{})
		So(recorder.All(), ShouldBeEmpty)

		Convey("But writes should report the failure", func() {
			So(recorder.RecordWatch("Bleach", "1"), ShouldNotBeNil)
			So(recorder.LastWatched("Bleach").IsAbsent(), ShouldBeTrue)
		})
	})

	Convey("Given a store that starts failing after a successful write", t, func() {
		store := &switchableStore{MemoryStore: NewMemoryStore()}
		recorder := NewRecorder(store)
		So(recorder.RecordWatch("Bleach", "1"), ShouldBeNil)
		store.failing = true

		Convey("A failed update should keep the stored episode", func() {
			So(recorder.RecordWatch("Bleach", "2"), ShouldNotBeNil)
			So(recorder.LastWatched("Bleach").MustGet(), ShouldEqual, "1")
		})

		Convey("A failed first watch should not be remembered", func() {
			So(recorder.RecordWatch("Mushishi", "3"), ShouldNotBeNil)
			So(recorder.LastWatched("Mushishi").IsAbsent(), ShouldBeTrue)
		})

		Convey("A failed forget should keep the show", func() {
			So(recorder.Forget("Bleach"), ShouldNotBeNil)
			So(recorder.LastWatched("Bleach").MustGet(), ShouldEqual, "1")
		})
	})
}

func TestGacheStore(t *testing.T) {
	Convey("Given a file backed store", t, func() {
		store := NewGacheStore("/config/progress.json")

		Convey("Values should survive reopening the file", func() {
			So(store.Set("a", []byte(`{"x":"y"}`)), ShouldBeNil)

			data, ok, err := NewGacheStore("/config/progress.json").Get("a")
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(string(data), ShouldEqual, `{"x":"y"}`)
		})

		Convey("A missing key should be absent", func() {
			_, ok, err := store.Get("missing")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})
	})
}
