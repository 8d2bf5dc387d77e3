// Package anilist looks up show metadata on the Anilist GraphQL API.
package anilist

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

type date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Anime is the subset of an Anilist media entry shown next to search results.
type Anime struct {
	Title struct {
		// Romaji is the romanized title of the anime.
		Romaji string `json:"romaji" jsonschema:"description=Romanized title of the anime."`
		// English is the english title of the anime.
		English string `json:"english" jsonschema:"description=English title of the anime."`
		// Native is the native title of the anime. (Usually in kanji)
		Native string `json:"native" jsonschema:"description=Native title of the anime. Usually in kanji."`
	} `json:"title"`
	ID          int    `json:"id" jsonschema:"description=ID of the anime on Anilist."`
	IDMal       int    `json:"idMal" jsonschema:"description=ID of the anime on MyAnimeList."`
	Description string `json:"description" jsonschema:"description=Description of the anime in html format."`
	CoverImage  struct {
		Large  string `json:"large" jsonschema:"description=URL of the large cover image."`
		Medium string `json:"medium" jsonschema:"description=URL of the medium cover image."`
		Color  string `json:"color" jsonschema:"description=Average color of the cover image."`
	} `json:"coverImage" jsonschema:"description=Cover image of the anime."`
	Genres []string `json:"genres" jsonschema:"description=Genres of the anime."`
	// Synonyms are alternative titles.
	Synonyms  []string `json:"synonyms" jsonschema:"description=Synonyms of the anime (Alternative titles)."`
	StartDate date     `json:"startDate" jsonschema:"description=Date the anime started airing."`
	// Status is one of FINISHED, RELEASING, NOT_YET_RELEASED, CANCELLED or HIATUS.
	Status       string `json:"status" jsonschema:"enum=FINISHED,enum=RELEASING,enum=NOT_YET_RELEASED,enum=CANCELLED,enum=HIATUS"`
	Format       string `json:"format" jsonschema:"description=Format of the anime such as TV or MOVIE."`
	Episodes     int    `json:"episodes" jsonschema:"description=Total number of episodes the anime has when complete."`
	SiteURL      string `json:"siteUrl" jsonschema:"description=URL of the anime on Anilist."`
	AverageScore int    `json:"averageScore" jsonschema:"description=Average score of the anime on Anilist."`
}

// Name returns the English title when there is one, the romanized title otherwise.
func (a *Anime) Name() string {
	if a.Title.English == "" {
		return a.Title.Romaji
	}

	return a.Title.English
}

// Titles returns every non-empty title and synonym.
func (a *Anime) Titles() []string {
	titles := append([]string{a.Title.English, a.Title.Romaji, a.Title.Native}, a.Synonyms...)
	return lo.Uniq(lo.Compact(titles))
}

// Matches reports whether title is one of the anime's titles, ignoring case and surrounding space.
func (a *Anime) Matches(title string) bool {
	title = normalizedName(title)
	return lo.ContainsBy(a.Titles(), func(t string) bool {
		return normalizedName(t) == title
	})
}

var htmlTag = regexp.MustCompile("<.*?>")

// Summary returns the description as plain text.
func (a *Anime) Summary() string {
	summary := strings.ReplaceAll(a.Description, "<br>", "\n")
	return strings.TrimSpace(htmlTag.ReplaceAllString(summary, ""))
}

func normalizedName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
