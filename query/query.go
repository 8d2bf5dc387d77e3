// Package query remembers past show searches and suggests them back, most popular first.
package query

import (
	"strings"
	"sync"

	"github.com/atsume-cli/atsume/filesystem"
	"github.com/atsume-cli/atsume/key"
	"github.com/atsume-cli/atsume/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// Weights applied by Remember.
const (
	// Searched is added when a title is submitted to the search endpoint.
	Searched = 1
	// Picked is added when a show from the results is opened.
	Picked = 2
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var (
	mu          sync.Mutex
	suggestions = make(map[string][]record)
	cacher      = gache.New[map[string]*record](
		&gache.Options{
			Path:       where.Queries(),
			FileSystem: &filesystem.GacheFs{},
		},
	)
)

func load() map[string]*record {
	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		return make(map[string]*record)
	}
	return cached
}

// Remember adds weight to the rank of q, recording it first if it is new.
func Remember(q string, weight int) error {
	q = sanitize(q)
	if q == "" {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	cached := load()
	if r, ok := cached[q]; ok {
		r.Rank += weight
	} else {
		cached[q] = &record{Rank: weight, Query: q}
	}

	clear(suggestions)
	return cacher.Set(cached)
}

// Forget drops q from the history.
func Forget(q string) error {
	mu.Lock()
	defer mu.Unlock()

	cached := load()
	delete(cached, sanitize(q))
	clear(suggestions)
	return cacher.Set(cached)
}

// Suggest returns the best ranked past query matching q.
func Suggest(q string) mo.Option[string] {
	many := SuggestMany(q)
	if len(many) == 0 {
		return mo.None[string]()
	}
	return mo.Some(many[0])
}

// SuggestMany returns past queries fuzzily matching q, highest rank first.
// It returns nothing when search.show_query_suggestions is off.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	q = sanitize(q)

	mu.Lock()
	defer mu.Unlock()

	records, ok := suggestions[q]
	if !ok {
		for _, r := range load() {
			if fuzzy.Match(q, r.Query) {
				records = append(records, *r)
			}
		}

		slices.SortFunc(records, func(a, b record) int {
			if a.Rank != b.Rank {
				return b.Rank - a.Rank
			}
			return strings.Compare(a.Query, b.Query)
		})

		suggestions[q] = records
	}

	return lo.Map(records, func(r record, _ int) string {
		return r.Query
	})
}

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
