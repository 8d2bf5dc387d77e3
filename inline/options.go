package inline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atsume-cli/atsume/source"
	"github.com/atsume-cli/atsume/util"
	"github.com/samber/lo"
)

type (
	ShowPicker     func([]*source.Show) *source.Show
	EpisodesFilter func([]*source.Episode) []*source.Episode
)

// ParseShowPicker understands "first", "last", "exact" (matching title) and "index" (value is the index).
func ParseShowPicker(kind, value string) (ShowPicker, error) {
	switch kind {
	case "first":
		return func(shows []*source.Show) *source.Show {
			if len(shows) == 0 {
				return nil
			}
			return shows[0]
		}, nil
	case "last":
		return func(shows []*source.Show) *source.Show {
			if len(shows) == 0 {
				return nil
			}
			return shows[len(shows)-1]
		}, nil
	case "exact":
		return func(shows []*source.Show) *source.Show {
			show, _ := lo.Find(shows, func(s *source.Show) bool {
				return strings.EqualFold(s.Title, value)
			})
			return show
		}, nil
	case "index":
		idx, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid index: %s", value)
		}
		return func(shows []*source.Show) *source.Show {
			if len(shows) == 0 {
				return nil
			}
			return shows[util.Min(idx, uint64(len(shows)-1))]
		}, nil
	default:
		if idx, err := strconv.ParseUint(kind, 10, 16); err == nil {
			return ParseShowPicker("index", strconv.FormatUint(idx, 10))
		}
		return nil, fmt.Errorf("unknown show selector: %s", kind)
	}
}

// ParseEpisodesFilter understands "first", "last", "all", an index, a
// "from-to" range of indexes and "@substring@".
func ParseEpisodesFilter(description string) (EpisodesFilter, error) {
	switch description {
	case "first":
		return func(episodes []*source.Episode) []*source.Episode {
			return lo.Slice(episodes, 0, 1)
		}, nil
	case "last":
		return func(episodes []*source.Episode) []*source.Episode {
			return lo.Slice(episodes, len(episodes)-1, len(episodes))
		}, nil
	case "all":
		return func(episodes []*source.Episode) []*source.Episode {
			return episodes
		}, nil
	}

	if from, to, ok := strings.Cut(description, "-"); ok {
		start, err1 := strconv.ParseUint(from, 10, 16)
		end, err2 := strconv.ParseUint(to, 10, 16)
		if err1 == nil && err2 == nil {
			return func(episodes []*source.Episode) []*source.Episode {
				return lo.Slice(episodes, int(start), int(end)+1)
			}, nil
		}
	}

	if len(description) > 1 && strings.HasPrefix(description, "@") && strings.HasSuffix(description, "@") {
		sub := strings.ToLower(description[1 : len(description)-1])
		return func(episodes []*source.Episode) []*source.Episode {
			return lo.Filter(episodes, func(e *source.Episode, _ int) bool {
				return strings.Contains(strings.ToLower(e.Title), sub)
			})
		}, nil
	}

	if idx, err := strconv.ParseUint(description, 10, 16); err == nil {
		return func(episodes []*source.Episode) []*source.Episode {
			return lo.Slice(episodes, int(idx), int(idx)+1)
		}, nil
	}

	return nil, fmt.Errorf("invalid episode filter: %s", description)
}
