package where

import (
	"testing"

	"github.com/atsume-cli/atsume/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Use in-memory filesystem for tests to avoid creating real directories
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		Convey("Config()", func() {
			path := Config()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Cache()", func() {
			path := Cache()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Logs()", func() {
			path := Logs()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})
	})
}

func TestFiles(t *testing.T) {
	Convey("File paths", t, func() {
		Convey("Progress() should live in the config directory", func() {
			So(Progress(), ShouldStartWith, Config())
		})

		Convey("Images() should be created under the cache directory", func() {
			path := Images()
			So(path, ShouldStartWith, Cache())
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		})

		Convey("Queries() should live in the cache directory", func() {
			So(Queries(), ShouldStartWith, Cache())
		})
	})
}
