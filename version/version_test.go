package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Given two versions", t, func() {
		Convey("Then newer, older and equal are ordered", func() {
			c, err := Compare("v1.2.0", "1.1.9")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 1)

			c, err = Compare("0.9.9", "1.0.0")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, -1)

			c, err = Compare("2.0.1", "v2.0.1")
			So(err, ShouldBeNil)
			So(c, ShouldEqual, 0)
		})

		Convey("Then garbage is an error", func() {
			_, err := Compare("latest", "1.0.0")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestFetchLatest(t *testing.T) {
	Convey("Given a releases endpoint", t, func() {
		serve := func(status int, body string) *httptest.Server {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(body))
			}))
			Reset(server.Close)
			return server
		}

		Convey("When it names a tag", func() {
			server := serve(http.StatusOK, `{"tag_name":"v1.4.2"}`)
			ver, err := fetchLatest(context.Background(), server.Client(), server.URL)

			Convey("Then the prefix is stripped", func() {
				So(err, ShouldBeNil)
				So(ver, ShouldEqual, "1.4.2")
			})
		})

		Convey("When it is rate limited", func() {
			server := serve(http.StatusForbidden, `{"message":"rate limited"}`)

			_, err := fetchLatest(context.Background(), server.Client(), server.URL)

			Convey("Then an error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When the tag is empty", func() {
			server := serve(http.StatusOK, `{}`)

			_, err := fetchLatest(context.Background(), server.Client(), server.URL)

			Convey("Then an error is returned", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
