// Package version checks GitHub for newer releases.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/atsume-cli/atsume/filesystem"
	"github.com/atsume-cli/atsume/network"
	"github.com/atsume-cli/atsume/util"
	"github.com/atsume-cli/atsume/where"
	"github.com/metafates/gache"
)

// ReleasesURL points at the latest release of the repository.
const ReleasesURL = "https://api.github.com/repos/atsume-cli/atsume/releases/latest"

var versionCacher = gache.New[string](&gache.Options{
	Path:       filepath.Join(where.Cache(), "version.json"),
	Lifetime:   time.Hour * 24 * 2,
	FileSystem: &filesystem.GacheFs{},
})

// Latest returns the newest released version without its "v" prefix.
// Answers are cached for two days.
func Latest(ctx context.Context) (string, error) {
	if ver, expired, err := versionCacher.Get(); err == nil && !expired && ver != "" {
		return ver, nil
	}

	ver, err := fetchLatest(ctx, network.Client, ReleasesURL)
	if err != nil {
		return "", err
	}

	_ = versionCacher.Set(ver)
	return ver, nil
}

func fetchLatest(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("releases: %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", err
	}

	if release.TagName == "" {
		return "", errors.New("empty tag name")
	}

	return strings.TrimPrefix(release.TagName, "v"), nil
}
