// Package source models the shows and episodes returned by the resolution host's search.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/atsume-cli/atsume/anilist"
	"github.com/atsume-cli/atsume/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Show is one search match, with its episodes in ascending order.
type Show struct {
	Title    string     `json:"title" jsonschema:"description=Title of the show as listed by the host."`
	URL      string     `json:"url" jsonschema:"description=Page of the show on the host."`
	Index    int        `json:"index" jsonschema:"description=Position of the show in the search results."`
	Episodes []*Episode `json:"episodes" jsonschema:"description=Episodes sorted by number."`

	Anilist  mo.Option[*anilist.Anime] `json:"anilist"`
	Metadata Metadata                  `json:"metadata"`
}

// Metadata is what the show page displays next to the episode list.
type Metadata struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Genres   []string `json:"genres"`
	Status   string   `json:"status"`
	Format   string   `json:"format"`
	Episodes int      `json:"episodes"`
	Score    int      `json:"score"`
	Cover    string   `json:"cover"`
	URLs     []string `json:"urls"`
}

// MetadataFinder resolves a show title to its Anilist entry.
type MetadataFinder interface {
	FindClosest(ctx context.Context, title string) (*anilist.Anime, error)
}

func (s *Show) String() string {
	return s.Title
}

// ElementID identifies the show's row in a list.
func (s *Show) ElementID() string {
	return fmt.Sprintf("%d-%s", s.Index, s.Title)
}

// Episode returns the episode with the given title.
func (s *Show) Episode(title string) (*Episode, bool) {
	return lo.Find(s.Episodes, func(e *Episode) bool {
		return e.Title == title
	})
}

// PopulateMetadata binds the show to its closest Anilist entry.
// It is a no-op once metadata is present.
func (s *Show) PopulateMetadata(ctx context.Context, finder MetadataFinder) error {
	if s.Anilist.IsPresent() {
		return nil
	}

	log.Infof("Populating metadata for %s", s.Title)
	al, err := finder.FindClosest(ctx, s.Title)
	if err != nil {
		return fmt.Errorf("metadata for %s: %w", s.Title, err)
	}

	s.Anilist = mo.Some(al)
	s.Metadata = Metadata{
		Title:    al.Name(),
		Summary:  al.Summary(),
		Genres:   al.Genres,
		Status:   strings.ReplaceAll(al.Status, "_", " "),
		Format:   al.Format,
		Episodes: al.Episodes,
		Score:    al.AverageScore,
		Cover:    lo.Ternary(al.CoverImage.Large != "", al.CoverImage.Large, al.CoverImage.Medium),
	}

	urls := []string{al.SiteURL}
	if al.IDMal != 0 {
		urls = append(urls, fmt.Sprintf("https://myanimelist.net/anime/%d", al.IDMal))
	}
	s.Metadata.URLs = lo.Compact(urls)

	return nil
}
