package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/atsume-cli/atsume/log"
	"github.com/atsume-cli/atsume/network"
	"github.com/atsume-cli/atsume/where"
	"github.com/avast/retry-go/v4"
)

// Endpoint is the public Anilist GraphQL endpoint.
const Endpoint = "https://graphql.anilist.co"

// Client queries Anilist, reading through on-disk caches.
type Client struct {
	http     *http.Client
	endpoint string
	attempts uint
	delay    time.Duration
	caches   *caches
}

// NewClient returns a client posting to endpoint and caching under cacheDir.
func NewClient(httpClient *http.Client, endpoint, cacheDir string) *Client {
	return &Client{
		http:     httpClient,
		endpoint: endpoint,
		attempts: 3,
		delay:    time.Second,
		caches:   newCaches(cacheDir),
	}
}

var (
	defaultClient     *Client
	defaultClientOnce sync.Once
)

// Default returns the process-wide client for the public endpoint.
func Default() *Client {
	defaultClientOnce.Do(func() {
		defaultClient = NewClient(network.Client, Endpoint, where.Cache())
	})

	return defaultClient
}

// post sends a GraphQL query and decodes the response into out.
// Rate limiting and server errors are retried, anything else is returned as is.
func (c *Client) post(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return err
	}

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(err)
			}

			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "application/json")

			resp, err := c.http.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
				return fmt.Errorf("anilist returned status code %d", resp.StatusCode)
			case resp.StatusCode != http.StatusOK:
				return retry.Unrecoverable(fmt.Errorf("anilist returned status code %d", resp.StatusCode))
			}

			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode anilist response: %w", err))
			}

			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warnf("anilist request failed (attempt %d): %s", n+1, err)
		}),
	)
}
