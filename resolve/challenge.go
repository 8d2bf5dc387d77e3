// Package resolve turns an opaque episode reference into something playable.
//
// The remote host may answer a resolution request with an image-selection challenge instead of a
// video, so resolving an episode is a loop: fetch, answer the challenge if one came back, fetch again
// with the answers, until the host hands over video sources, a pass-through host link, or an error.
package resolve

import "github.com/samber/lo"

// Reference is an opaque locator (usually a URL) identifying the episode to resolve.
type Reference string

// Option is a single selectable image offered by a challenge.
type Option struct {
	// ID is the form identifier the host expects back in an answer.
	ID string `json:"id" jsonschema:"description=Form identifier submitted back to the host."`
	// ImageID keys the option's image on the image endpoint.
	ImageID string `json:"imageId" jsonschema:"description=Identifier of the option image on the image endpoint."`
	// Index is the position the host offered the option at. Image load events are correlated through it.
	Index int `json:"index" jsonschema:"description=Position of the option as offered by the host."`
}

// Challenge is a multi-prompt visual verification returned by the host.
type Challenge struct {
	// Prompts are answered in order: the Nth answer answers the Nth prompt.
	Prompts []string `json:"prompts" jsonschema:"description=Ordered prompt texts."`
	// Options are the images to choose from. Their order carries no meaning.
	Options []Option `json:"options" jsonschema:"description=Selectable images."`
}

// Option looks up an offered option by its identifier.
func (c *Challenge) Option(id string) (Option, bool) {
	if c == nil {
		return Option{}, false
	}

	return lo.Find(c.Options, func(o Option) bool {
		return o.ID == id
	})
}

// Answer binds a previously offered option to the prompt it claims to satisfy.
type Answer struct {
	OptionID   string `json:"optionId"`
	PromptText string `json:"promptText"`
}
