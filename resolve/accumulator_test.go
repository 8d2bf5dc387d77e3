package resolve

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestAccumulator(t *testing.T) {
	Convey("Given an accumulator for a two prompt challenge", t, func() {
		challenge := &Challenge{Prompts: []string{"cat", "dog"}}
		acc := NewAccumulator(len(challenge.Prompts))

		So(acc.IsComplete(), ShouldBeFalse)

		Convey("Selecting two distinct options should complete it", func() {
			So(acc.Select("a"), ShouldBeFalse)
			So(acc.IsComplete(), ShouldBeFalse)
			So(acc.Select("b"), ShouldBeFalse)
			So(acc.IsComplete(), ShouldBeTrue)

			Convey("And answers should be paired with prompts by position", func() {
				So(acc.Answers(challenge), ShouldResemble, []Answer{
					{OptionID: "a", PromptText: "cat"},
					{OptionID: "b", PromptText: "dog"},
				})
			})

			Convey("And further selections should be ignored", func() {
				acc.Select("c")
				So(acc.Len(), ShouldEqual, 2)
				So(acc.IsComplete(), ShouldBeTrue)
			})
		})

		Convey("Selecting an option twice should clear every answer", func() {
			acc.Select("a")
			So(acc.Select("a"), ShouldBeTrue)
			So(acc.Len(), ShouldEqual, 0)
			So(acc.IsComplete(), ShouldBeFalse)
		})

		Convey("Repeating an earlier option should also clear later ones", func() {
			acc.Select("a")
			acc.Select("b")
			So(acc.Select("a"), ShouldBeTrue)
			So(acc.Selected(), ShouldBeEmpty)
		})

		Convey("Reset should drop the answers", func() {
			acc.Select("a")
			acc.Reset()
			So(acc.Len(), ShouldEqual, 0)
		})

		Convey("Selected should return a copy", func() {
			acc.Select("a")
			selected := acc.Selected()
			selected[0] = "z"
			So(acc.Selected(), ShouldResemble, []string{"a"})
		})
	})

	Convey("An accumulator without prompts should never be complete", t, func() {
		acc := NewAccumulator(0)
		So(acc.IsComplete(), ShouldBeFalse)
		acc.Select("a")
		So(acc.IsComplete(), ShouldBeFalse)
	})

	Convey("The answer count should never exceed the prompt count", t, func() {
		acc := NewAccumulator(3)
		for _, id := range []string{"a", "b", "c", "d", "e", "b", "c", "d", "e", "f"} {
			acc.Select(id)
			So(acc.Len(), ShouldBeLessThanOrEqualTo, acc.Prompts())
		}
	})
}
