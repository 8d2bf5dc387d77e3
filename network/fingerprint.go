package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/atsume-cli/atsume/log"
	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

// FingerprintTransport sends https requests over a uTLS connection that presents
// Chrome's ClientHello. HTTP/2 is attempted first, falling back to HTTP/1.1 when the
// handshake or the h2 exchange fails. Plain http requests go through the fallback transport.
type FingerprintTransport struct {
	h2    *http2.Transport
	h1    *http.Transport
	plain http.RoundTripper
}

// NewFingerprintTransport wraps plain, which keeps serving non-TLS requests.
func NewFingerprintTransport(plain http.RoundTripper) *FingerprintTransport {
	return &FingerprintTransport{
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialFingerprint(ctx, network, addr, nil)
			},
		},
		h1: &http.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialFingerprint(ctx, network, addr, []string{"http/1.1"})
			},
		},
		plain: plain,
	}
}

func (f *FingerprintTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return f.plain.RoundTrip(req)
	}

	resp, err := f.h2.RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	log.Debugf("h2 request to %s failed, retrying over http/1.1: %s", req.URL.Host, err)

	retry := req.Clone(req.Context())
	if req.Body != nil {
		if req.GetBody == nil {
			return nil, fmt.Errorf("h2 request failed and body cannot be replayed: %w", err)
		}

		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, fmt.Errorf("replay body: %w", bodyErr)
		}
		retry.Body = body
	}

	return f.h1.RoundTrip(retry)
}

// dialFingerprint opens a TLS connection mimicking Chrome 120.
// A nil protos advertises both h2 and http/1.1, as Chrome does.
func dialFingerprint(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
