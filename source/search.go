package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/atsume-cli/atsume/key"
	"github.com/atsume-cli/atsume/log"
	"github.com/atsume-cli/atsume/network"
	"github.com/avast/retry-go/v4"
	"github.com/spf13/viper"
)

// StatusError is returned when the host reports a failure status in its response.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Got HTTP status code %d from server. Error: %s.", e.Status, e.Message)
}

type searchRequest struct {
	Title string `json:"title"`
}

type searchResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Results []struct {
		Title    string `json:"title"`
		URL      string `json:"url"`
		Episodes []struct {
			Title string `json:"title"`
			URL   string `json:"url"`
		} `json:"episodes"`
	} `json:"results"`
}

// Client searches the resolution host for shows.
type Client struct {
	http     *http.Client
	endpoint string
	attempts uint
	delay    time.Duration
}

// NewClient returns a client posting searches to base+path.
func NewClient(httpClient *http.Client, base, path string, attempts uint) (*Client, error) {
	endpoint, err := url.JoinPath(base, path)
	if err != nil {
		return nil, fmt.Errorf("search endpoint: %w", err)
	}

	return &Client{
		http:     httpClient,
		endpoint: endpoint,
		attempts: max(attempts, 1),
		delay:    300 * time.Millisecond,
	}, nil
}

// Configured returns a client built from the remote.* settings.
func Configured() (*Client, error) {
	return NewClient(
		network.NewClient(),
		viper.GetString(key.RemoteURL),
		viper.GetString(key.RemoteSearchPath),
		uint(viper.GetInt(key.RemoteRetries)),
	)
}

// Search returns the shows matching title, each with its episodes sorted by number.
// Transport failures are retried. A failure status reported by the host is not.
func (c *Client) Search(ctx context.Context, title string) ([]*Show, error) {
	body, err := json.Marshal(searchRequest{Title: title})
	if err != nil {
		return nil, err
	}

	var response searchResponse
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(err)
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.http.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			response = searchResponse{}
			if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
				if resp.StatusCode > 299 {
					return fmt.Errorf("search returned status code %d", resp.StatusCode)
				}
				return retry.Unrecoverable(fmt.Errorf("decode search response: %w", err))
			}

			if response.Status > 299 {
				return retry.Unrecoverable(&StatusError{Status: response.Status, Message: response.Error})
			}

			if resp.StatusCode > 299 {
				return retry.Unrecoverable(&StatusError{Status: resp.StatusCode, Message: response.Error})
			}

			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warnf("search for %q failed (attempt %d): %s", title, n+1, err)
		}),
	)
	if err != nil {
		var status *StatusError
		if errors.As(err, &status) {
			return nil, status
		}
		return nil, err
	}

	return response.shows(), nil
}

func (r *searchResponse) shows() []*Show {
	shows := make([]*Show, len(r.Results))
	for i, result := range r.Results {
		show := &Show{Title: result.Title, URL: result.URL, Index: i}
		show.Episodes = make([]*Episode, len(result.Episodes))
		for j, e := range result.Episodes {
			show.Episodes[j] = &Episode{Title: e.Title, URL: e.URL, Show: show}
		}

		sort.SliceStable(show.Episodes, func(a, b int) bool {
			return show.Episodes[a].Number() < show.Episodes[b].Number()
		})

		shows[i] = show
	}

	return shows
}
