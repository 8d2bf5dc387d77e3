package anilist

import (
	"context"
	"fmt"

	"github.com/atsume-cli/atsume/log"
	"github.com/samber/lo"
)

type searchByNameResponse struct {
	Data struct {
		Page struct {
			Media []*Anime `json:"media"`
		} `json:"page"`
	} `json:"data"`
}

type searchByIDResponse struct {
	Data struct {
		Media *Anime `json:"media"`
	} `json:"data"`
}

// GetByID returns the anime with the given id.
func (c *Client) GetByID(ctx context.Context, id int) (*Anime, error) {
	if anime := c.caches.id.Get(id); anime.IsPresent() {
		return anime.MustGet(), nil
	}

	log.Infof("Searching anilist for anime with id: %d", id)

	var response searchByIDResponse
	if err := c.post(ctx, searchByIDQuery, map[string]any{"id": id}, &response); err != nil {
		log.Error(err)
		return nil, err
	}

	anime := response.Data.Media
	if anime == nil {
		return nil, fmt.Errorf("anime with id %d: %w", id, ErrNotFound)
	}

	_ = c.caches.id.Set(id, anime)
	return anime, nil
}

// SearchByName returns the animes matching name.
// Failed searches are not repeated for a minute.
func (c *Client) SearchByName(ctx context.Context, name string) ([]*Anime, error) {
	name = normalizedName(name)

	if _, failed := c.caches.fail.Get(name).Get(); failed {
		return nil, fmt.Errorf("search for %s failed recently", name)
	}

	if ids, ok := c.caches.search.Get(name).Get(); ok {
		animes := lo.FilterMap(ids, func(id, _ int) (*Anime, bool) {
			return c.caches.id.Get(id).Get()
		})

		if len(animes) == len(ids) {
			return animes, nil
		}

		_ = c.caches.search.Delete(name)
	}

	log.Infof("Searching anilist for anime %s", name)

	var response searchByNameResponse
	if err := c.post(ctx, searchByNameQuery, map[string]any{"query": name}, &response); err != nil {
		log.Error(err)
		_ = c.caches.fail.Set(name, true)
		return nil, err
	}

	animes := lo.Compact(response.Data.Page.Media)
	log.Infof("Got response from Anilist, found %d results", len(animes))

	ids := make([]int, len(animes))
	for i, anime := range animes {
		ids[i] = anime.ID
		_ = c.caches.id.Set(anime.ID, anime)
	}
	_ = c.caches.search.Set(name, ids)

	return animes, nil
}
