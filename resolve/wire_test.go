package resolve

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNormalize(t *testing.T) {
	challenge := &challengeContent{
		PromptTexts: []string{"cat"},
		Images:      []imageOption{{FormID: "a", ImageID: "i1"}, {FormID: "b", ImageID: "i2"}},
	}
	videos := []videoOptionEntry{{Title: "720p", URL: "u", DirectSource: true}}

	Convey("Normalizing a response", t, func() {
		Convey("An error status should win over every other field", func() {
			outcome := normalize(&response{Status: 503, Error: "down", ChallengeContent: challenge, VideoOptions: videos})
			So(outcome, ShouldResemble, &Failure{Reason: "Got HTTP status code 503 from server. Error: down."})
		})

		Convey("A challenge should win over videos and host links", func() {
			outcome := normalize(&response{ChallengeContent: challenge, VideoOptions: videos, VideoHostURL: "https://host"})
			So(outcome, ShouldHaveSameTypeAs, &ChallengeRequired{})

			c := outcome.(*ChallengeRequired).Challenge
			So(c.Prompts, ShouldResemble, []string{"cat"})
			So(c.Options, ShouldResemble, []Option{
				{ID: "a", ImageID: "i1", Index: 0},
				{ID: "b", ImageID: "i2", Index: 1},
			})
		})

		Convey("Videos should win over host links", func() {
			outcome := normalize(&response{VideoOptions: videos, VideoHostURL: "https://host"})
			So(outcome, ShouldHaveSameTypeAs, &VideoReady{})
		})

		Convey("A host link alone should be unsupported", func() {
			outcome := normalize(&response{VideoHostURL: "https://host"})
			So(outcome, ShouldResemble, &HostUnsupported{HostURL: "https://host"})
		})

		Convey("A success status is not a failure", func() {
			outcome := normalize(&response{Status: 200, VideoHostURL: "https://host"})
			So(outcome, ShouldHaveSameTypeAs, &HostUnsupported{})
		})

		Convey("Nothing at all should be an empty response failure", func() {
			So(normalize(&response{}), ShouldResemble, &Failure{Reason: "empty response"})
			So(normalize(&response{VideoOptions: []videoOptionEntry{}}), ShouldResemble, &Failure{Reason: "empty response"})
		})
	})
}

func TestQuality(t *testing.T) {
	Convey("Quality should extract the number of a label", t, func() {
		So(Quality("1080p"), ShouldEqual, 1080)
		So(Quality("480p"), ShouldEqual, 480)
		So(Quality("HD 720p"), ShouldEqual, 720)
		So(Quality("auto"), ShouldEqual, 0)
		So(Quality(""), ShouldEqual, 0)
	})

	Convey("Sorting by quality should put the best first and keep ties in order", t, func() {
		sorted := sortByQuality([]videoOptionEntry{
			{Title: "480p", URL: "u1", DirectSource: true},
			{Title: "1080p", URL: "u2", DirectSource: true},
			{Title: "auto", URL: "u3"},
			{Title: "720p", URL: "u4"},
			{Title: "720p", URL: "u5"},
		})

		urls := make([]string, len(sorted))
		for i, o := range sorted {
			urls[i] = o.URL
		}

		So(urls, ShouldResemble, []string{"u2", "u4", "u5", "u1", "u3"})
		So(sorted[0].Direct, ShouldBeTrue)
	})
}
