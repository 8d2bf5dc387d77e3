package anilist

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/atsume-cli/atsume/filesystem"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

type cacheData[K comparable, T any] struct {
	Animes map[K]T `json:"animes"`
}

// cacher is a keyed view over a single gache file.
type cacher[K comparable, T any] struct {
	internal   *gache.Cache[*cacheData[K, T]]
	keyWrapper func(K) K
	mu         sync.RWMutex
}

func newCacher[K comparable, T any](path string, lifetime time.Duration, keyWrapper func(K) K) *cacher[K, T] {
	return &cacher[K, T]{
		internal: gache.New[*cacheData[K, T]](&gache.Options{
			Path:       path,
			Lifetime:   lifetime,
			FileSystem: &filesystem.GacheFs{},
		}),
		keyWrapper: keyWrapper,
	}
}

func (c *cacher[K, T]) Get(key K) mo.Option[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil {
		return mo.None[T]()
	}

	if value, ok := data.Animes[c.keyWrapper(key)]; ok {
		return mo.Some(value)
	}

	return mo.None[T]()
}

func (c *cacher[K, T]) Set(key K, t T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil || expired || data == nil || data.Animes == nil {
		data = &cacheData[K, T]{Animes: make(map[K]T)}
	}

	data.Animes[c.keyWrapper(key)] = t
	return c.internal.Set(data)
}

func (c *cacher[K, T]) Delete(key K) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.internal.Get()
	if err != nil {
		return err
	}

	if expired || data == nil {
		return nil
	}

	delete(data.Animes, c.keyWrapper(key))
	return c.internal.Set(data)
}

// caches groups the on-disk caches a client reads through.
type caches struct {
	// relation maps a searched title to the id it resolved to. -1 marks a title with no match.
	relation *cacher[string, int]
	search   *cacher[string, []int]
	id       *cacher[int, *Anime]
	fail     *cacher[string, bool]
}

func newCaches(dir string) *caches {
	return &caches{
		relation: newCacher[string, int](filepath.Join(dir, "anilist_relations.json"), 0, normalizedName),
		search:   newCacher[string, []int](filepath.Join(dir, "anilist_search_cache.json"), time.Hour*24*10, normalizedName),
		id:       newCacher[int, *Anime](filepath.Join(dir, "anilist_id_cache.json"), time.Hour*24*2, func(id int) int { return id }),
		fail:     newCacher[string, bool](filepath.Join(dir, "anilist_fail_cache.json"), time.Minute, normalizedName),
	}
}
