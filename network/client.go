// Package network holds the HTTP plumbing shared by every remote the application talks to.
package network

import (
	"net/http"
	"time"

	"github.com/atsume-cli/atsume/constant"
	"github.com/atsume-cli/atsume/key"
	"github.com/spf13/viper"
)

// Client is the default HTTP client shared across the application.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: &userAgent{next: newTransport()},
}

// NewClient returns the client remote calls should use.
// With remote.tls_fingerprint enabled, https requests are sent with a browser TLS fingerprint.
func NewClient() *http.Client {
	if !viper.GetBool(key.RemoteTLSFingerprint) {
		return Client
	}

	return &http.Client{
		Timeout:   time.Minute,
		Transport: &userAgent{next: NewFingerprintTransport(newTransport())},
	}
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// userAgent fills in the application user agent when the caller did not set one.
type userAgent struct {
	next http.RoundTripper
}

func (u *userAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return u.next.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", constant.UserAgent)
	return u.next.RoundTrip(req)
}
