package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/atsume-cli/atsume/key"
	"github.com/atsume-cli/atsume/log"
	"github.com/atsume-cli/atsume/network"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// maxResponseSize caps how much of a resolution response is read.
const maxResponseSize = 4 << 20

// Endpoints locates the resolution host.
type Endpoints struct {
	Base    string
	Resolve string
	Image   string
	Proxy   string
}

// ConfiguredEndpoints reads the endpoints from the remote.* configuration keys.
func ConfiguredEndpoints() Endpoints {
	return Endpoints{
		Base:    viper.GetString(key.RemoteURL),
		Resolve: viper.GetString(key.RemoteResolvePath),
		Image:   viper.GetString(key.RemoteImagePath),
		Proxy:   viper.GetString(key.RemoteProxyPath),
	}
}

// ImageCache stores challenge images by image id.
type ImageCache interface {
	Read(id string) ([]byte, bool)
	Write(id string, data []byte) error
}

// Coordinator performs a single resolution round-trip and normalizes the host's answer.
// It keeps no state between calls and never retries.
type Coordinator struct {
	client    *http.Client
	endpoints Endpoints
	images    ImageCache
}

// NewCoordinator returns a coordinator talking to endpoints through client.
// A nil client uses network.NewClient.
func NewCoordinator(client *http.Client, endpoints Endpoints) *Coordinator {
	if client == nil {
		client = network.NewClient()
	}

	return &Coordinator{client: client, endpoints: endpoints}
}

// WithImageCache makes FetchImage consult and fill images.
func (c *Coordinator) WithImageCache(images ImageCache) *Coordinator {
	c.images = images
	return c
}

// Fetch posts the reference with the given answers and returns exactly one outcome.
// Nil answers are sent as null, which is what the first request of a session carries.
func (c *Coordinator) Fetch(ctx context.Context, ref Reference, answers []Answer) Outcome {
	logger := log.WithFields(logrus.Fields{"reference": ref, "answers": len(answers)})

	endpoint, err := url.JoinPath(c.endpoints.Base, c.endpoints.Resolve)
	if err != nil {
		return failf("invalid resolve endpoint: %s", err)
	}

	body, err := json.Marshal(request{EpisodeReference: ref, Answers: answers})
	if err != nil {
		return failf("encode request: %s", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return failf("build request: %s", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logger.Debug("requesting episode resolution")
	resp, err := c.client.Do(req)
	if err != nil {
		logger.Warnf("resolution request failed: %s", err)
		return failf("request failed: %s", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return failf("read response: %s", err)
	}

	var decoded response
	if err := json.Unmarshal(data, &decoded); err != nil {
		if resp.StatusCode > 299 {
			return failf("Got HTTP status code %d from server. Error: %s.", resp.StatusCode, http.StatusText(resp.StatusCode))
		}

		logger.Warnf("malformed resolution response: %s", err)
		return failf("malformed response: %s", err)
	}

	if resp.StatusCode > 299 && decoded.Status <= 299 {
		decoded.Status = resp.StatusCode
		if decoded.Error == "" {
			decoded.Error = http.StatusText(resp.StatusCode)
		}
	}

	outcome := normalize(&decoded)
	logger.Debugf("resolution answered with %T", outcome)
	return outcome
}

// ImageURL returns where the image of a challenge option can be fetched from.
func (c *Coordinator) ImageURL(imageID string) string {
	u, err := url.JoinPath(c.endpoints.Base, c.endpoints.Image, imageID)
	if err != nil {
		return c.endpoints.Base + c.endpoints.Image + "/" + url.PathEscape(imageID)
	}

	return u
}

// PlayableURL returns a URL a player can open. Direct sources are returned as is,
// anything else is routed through the host proxy.
func (c *Coordinator) PlayableURL(option VideoOption) string {
	if option.Direct {
		return option.URL
	}

	proxy, err := url.JoinPath(c.endpoints.Base, c.endpoints.Proxy)
	if err != nil {
		proxy = c.endpoints.Base + c.endpoints.Proxy
	}

	return proxy + "?url=" + url.QueryEscape(option.URL)
}

// FetchImage downloads the image of a challenge option.
func (c *Coordinator) FetchImage(ctx context.Context, imageID string) ([]byte, error) {
	if c.images != nil {
		if data, ok := c.images.Read(imageID); ok {
			return data, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ImageURL(imageID), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode > 299 {
		return nil, fmt.Errorf("image %s: unexpected status %s", imageID, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, err
	}

	if c.images != nil {
		if err := c.images.Write(imageID, data); err != nil {
			log.Warnf("cache image %s: %s", imageID, err)
		}
	}

	return data, nil
}
