package anilist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atsume-cli/atsume/log"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
)

var ErrNotFound = errors.New("not found on anilist")

// maxShortenings bounds how many trailing words FindClosest drops from a title that yields no results.
const maxShortenings = 2

// FindClosest returns the anime best matching title.
// An entry carrying title among its titles or synonyms wins, otherwise the one
// with the smallest edit distance to title is picked.
func (c *Client) FindClosest(ctx context.Context, title string) (*Anime, error) {
	title = normalizedName(title)

	if id, ok := c.caches.relation.Get(title).Get(); ok {
		if id == -1 {
			return nil, fmt.Errorf("%s: %w", title, ErrNotFound)
		}

		if anime, err := c.GetByID(ctx, id); err == nil {
			return anime, nil
		}

		_ = c.caches.relation.Delete(title)
	}

	name := title
	for try := 0; ; try++ {
		animes, err := c.SearchByName(ctx, name)
		if err != nil {
			return nil, err
		}

		if len(animes) > 0 {
			closest := closestMatch(title, animes)
			log.Infof("Found closest match: %s", closest.Name())
			_ = c.caches.relation.Set(title, closest.ID)
			return closest, nil
		}

		words := strings.Fields(name)
		if try >= maxShortenings || len(words) <= 2 {
			_ = c.caches.relation.Set(title, -1)
			return nil, fmt.Errorf("%s: %w", title, ErrNotFound)
		}

		name = strings.Join(words[:len(words)-1], " ")
		log.Infof(`No results found on Anilist for "%s", trying "%s"`, title, name)
	}
}

// Bind makes title resolve to anime from now on.
func (c *Client) Bind(title string, anime *Anime) error {
	if err := c.caches.id.Set(anime.ID, anime); err != nil {
		return err
	}

	return c.caches.relation.Set(title, anime.ID)
}

func closestMatch(title string, animes []*Anime) *Anime {
	if exact, ok := lo.Find(animes, func(a *Anime) bool {
		return a.Matches(title)
	}); ok {
		return exact
	}

	distance := func(a *Anime) int {
		if len(a.Titles()) == 0 {
			return len(title) + 1
		}

		return lo.Min(lo.Map(a.Titles(), func(t string, _ int) int {
			return levenshtein.Distance(title, normalizedName(t))
		}))
	}

	return lo.MinBy(animes, func(a, b *Anime) bool {
		return distance(a) < distance(b)
	})
}
