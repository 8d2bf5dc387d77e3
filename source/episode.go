package source

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/atsume-cli/atsume/resolve"
)

// Episode is a single episode of a show.
type Episode struct {
	Title string `json:"title" jsonschema:"description=Title of the episode."`
	URL   string `json:"url" jsonschema:"description=Episode reference passed to the resolution host."`

	Show *Show `json:"-"`
}

func (e *Episode) String() string {
	return e.Title
}

// Reference returns the opaque locator the resolution host expects.
func (e *Episode) Reference() resolve.Reference {
	return resolve.Reference(e.URL)
}

// ElementID identifies the episode's row in a list. It is unique per show.
func (e *Episode) ElementID() string {
	index := 0
	if e.Show != nil {
		index = e.Show.Index
	}

	return fmt.Sprintf("%d-%s", index, e.Title)
}

var episodeNumber = regexp.MustCompile(`\d+(\.\d+)?`)

// Number returns the first number in the title, 0 when there is none.
func (e *Episode) Number() float64 {
	n, err := strconv.ParseFloat(episodeNumber.FindString(e.Title), 64)
	if err != nil {
		return 0
	}

	return n
}
