package network

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/atsume-cli/atsume/constant"
	"github.com/atsume-cli/atsume/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

// countingTransport counts the requests it forwards.
type countingTransport struct {
	next  http.RoundTripper
	calls atomic.Int32
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return c.next.RoundTrip(req)
}

func TestFingerprintTransport(t *testing.T) {
	Convey("Given a fingerprint transport over a counting plain transport", t, func() {
		plain := &countingTransport{next: http.DefaultTransport}
		transport := NewFingerprintTransport(plain)
		client := &http.Client{Transport: transport}

		Convey("When an http request is sent", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, "plain "+r.Proto)
			}))
			defer server.Close()

			resp, err := client.Get(server.URL)
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			Convey("Then it goes through the plain transport", func() {
				So(string(body), ShouldEqual, "plain HTTP/1.1")
				So(int(plain.calls.Load()), ShouldEqual, 1)
			})
		})

		Convey("When an https server presents an untrusted certificate", func() {
			server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, "secret")
			}))
			defer server.Close()

			_, err := client.Get(server.URL)

			Convey("Then the request fails without touching the plain transport", func() {
				So(err, ShouldNotBeNil)
				So(int(plain.calls.Load()), ShouldEqual, 0)
			})
		})

		Convey("When a body that cannot be replayed fails over h2", func() {
			server := httptest.NewTLSServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
			defer server.Close()

			req, err := http.NewRequest(http.MethodPost, server.URL, io.NopCloser(strings.NewReader("{}")))
			So(err, ShouldBeNil)
			So(req.GetBody, ShouldBeNil)

			_, err = transport.RoundTrip(req)

			Convey("Then the http/1.1 fallback is not attempted", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "cannot be replayed")
			})
		})
	})
}

func TestNewClient(t *testing.T) {
	Convey("Given the remote.tls_fingerprint setting", t, func() {
		Reset(func() { viper.Set(key.RemoteTLSFingerprint, false) })

		Convey("When disabled the shared client is returned", func() {
			viper.Set(key.RemoteTLSFingerprint, false)
			So(NewClient(), ShouldEqual, Client)
		})

		Convey("When enabled https goes through the fingerprint transport", func() {
			viper.Set(key.RemoteTLSFingerprint, true)
			client := NewClient()
			So(client, ShouldNotEqual, Client)

			ua, ok := client.Transport.(*userAgent)
			So(ok, ShouldBeTrue)
			_, ok = ua.next.(*FingerprintTransport)
			So(ok, ShouldBeTrue)
		})
	})

	Convey("Given a request without a user agent", t, func() {
		var got string
		server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("User-Agent")
		}))
		defer server.Close()

		resp, err := Client.Get(server.URL)
		So(err, ShouldBeNil)
		_ = resp.Body.Close()

		Convey("Then the application user agent is sent", func() {
			So(got, ShouldEqual, constant.UserAgent)
		})
	})
}
