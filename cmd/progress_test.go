package cmd

import (
	"testing"

	"github.com/atsume-cli/atsume/filesystem"
	"github.com/atsume-cli/atsume/progress"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestRenderProgress(t *testing.T) {
	Convey("Given two shows with progress", t, func() {
		recorder := progress.NewRecorder(progress.NewMemoryStore())
		So(recorder.RecordWatch("Mushishi", "Episode 3"), ShouldBeNil)
		So(recorder.RecordWatch("Frieren", "Episode 12"), ShouldBeNil)

		Convey("When rendered", func() {
			out := renderProgress(recorder, recorder.Shows())

			Convey("Then every show is listed with its episode", func() {
				So(out, ShouldContainSubstring, "Frieren")
				So(out, ShouldContainSubstring, "Episode 12")
				So(out, ShouldContainSubstring, "Mushishi")
				So(out, ShouldContainSubstring, "Episode 3")
			})
		})
	})
}

func TestErrUnknownKey(t *testing.T) {
	Convey("Given a misspelled config key", t, func() {
		err := errUnknownKey("remote.ulr")

		Convey("Then the closest key is suggested", func() {
			So(err.Error(), ShouldContainSubstring, "remote.url")
		})
	})
}
