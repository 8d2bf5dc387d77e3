package open

import (
	"testing"

	"github.com/atsume-cli/atsume/constant"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Given an image path", t, func() {
		const input = "/tmp/atsume/images/abc"

		Convey("Then linux uses xdg-open", func() {
			cmd, ok := command(constant.Linux, input)
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"xdg-open", input})
		})

		Convey("Then darwin uses open", func() {
			cmd, ok := command(constant.Darwin, input)
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"open", input})
		})

		Convey("Then windows goes through rundll32", func() {
			cmd, ok := command(constant.Windows, input)
			So(ok, ShouldBeTrue)
			So(cmd.Args[1:], ShouldResemble, []string{"url.dll,FileProtocolHandler", input})
		})

		Convey("Then an unknown OS is refused", func() {
			_, ok := command("plan9", input)
			So(ok, ShouldBeFalse)
		})
	})
}
