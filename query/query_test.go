package query

import (
	"testing"

	"github.com/atsume-cli/atsume/filesystem"
	"github.com/atsume-cli/atsume/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSuggest(t *testing.T) {
	Convey("Given remembered searches", t, func() {
		viper.Set(key.SearchShowQuerySuggestions, true)
		Reset(func() { viper.Set(key.SearchShowQuerySuggestions, false) })

		So(Remember("Frieren", Searched), ShouldBeNil)
		So(Remember("  FRIEREN season 2 ", Picked), ShouldBeNil)
		So(Remember("frieren", Picked), ShouldBeNil)
		So(Remember("   ", Picked), ShouldBeNil)

		Reset(func() {
			_ = Forget("frieren")
			_ = Forget("frieren season 2")
		})

		Convey("When asking for suggestions", func() {
			many := SuggestMany("frie")

			Convey("Then they come back sanitized and ranked", func() {
				So(many, ShouldResemble, []string{"frieren", "frieren season 2"})
				So(Suggest("frie").MustGet(), ShouldEqual, "frieren")
			})
		})

		Convey("When a lower ranked query overtakes", func() {
			So(SuggestMany("frie")[0], ShouldEqual, "frieren")
			So(Remember("frieren season 2", Picked), ShouldBeNil)

			Convey("Then stale suggestions are not served", func() {
				So(SuggestMany("frie")[0], ShouldEqual, "frieren season 2")
			})
		})

		Convey("When a query is forgotten", func() {
			So(Forget("Frieren"), ShouldBeNil)

			Convey("Then it is no longer suggested", func() {
				So(SuggestMany("frie"), ShouldResemble, []string{"frieren season 2"})
			})
		})

		Convey("When suggestions are disabled", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)

			Convey("Then nothing is suggested", func() {
				So(SuggestMany("frie"), ShouldBeEmpty)
				So(Suggest("frie").IsAbsent(), ShouldBeTrue)
			})
		})
	})
}
