package resolve

import (
	"regexp"
	"sort"
	"strconv"
)

// request is the body posted to the resolution endpoint.
// Answers is serialized as null on the first request of a session.
type request struct {
	EpisodeReference Reference `json:"episodeReference"`
	Answers          []Answer  `json:"answers"`
}

type response struct {
	Status           int                `json:"status"`
	Error            string             `json:"error"`
	ChallengeContent *challengeContent  `json:"challengeContent"`
	VideoOptions     []videoOptionEntry `json:"videoOptions"`
	VideoHostURL     string             `json:"videoHostUrl"`
}

type challengeContent struct {
	PromptTexts []string      `json:"promptTexts"`
	Images      []imageOption `json:"imgIdsAndSrcs"`
}

type imageOption struct {
	FormID  string `json:"formId"`
	ImageID string `json:"imageId"`
}

type videoOptionEntry struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	DirectSource bool   `json:"directSource"`
}

// normalize maps a decoded response to exactly one outcome.
// An error status wins over everything, then a challenge, then videos, then a host link.
func normalize(resp *response) Outcome {
	switch {
	case resp.Status > 299:
		return failf("Got HTTP status code %d from server. Error: %s.", resp.Status, resp.Error)
	case resp.ChallengeContent != nil:
		return &ChallengeRequired{Challenge: resp.ChallengeContent.challenge()}
	case len(resp.VideoOptions) > 0:
		return &VideoReady{Options: sortByQuality(resp.VideoOptions)}
	case resp.VideoHostURL != "":
		return &HostUnsupported{HostURL: resp.VideoHostURL}
	default:
		return failf("empty response")
	}
}

func (c *challengeContent) challenge() *Challenge {
	challenge := &Challenge{
		Prompts: append([]string(nil), c.PromptTexts...),
		Options: make([]Option, len(c.Images)),
	}

	for i, image := range c.Images {
		challenge.Options[i] = Option{
			ID:      image.FormID,
			ImageID: image.ImageID,
			Index:   i,
		}
	}

	return challenge
}

var qualityDigits = regexp.MustCompile(`\d+`)

// Quality extracts the numeric part of a quality label: "1080p" is 1080.
// Labels without digits rank lowest.
func Quality(label string) int {
	n, err := strconv.Atoi(qualityDigits.FindString(label))
	if err != nil {
		return 0
	}

	return n
}

// sortByQuality orders options by descending quality, keeping the host order on ties.
func sortByQuality(entries []videoOptionEntry) []VideoOption {
	options := make([]VideoOption, len(entries))
	for i, e := range entries {
		options[i] = VideoOption{Title: e.Title, URL: e.URL, Direct: e.DirectSource}
	}

	sort.SliceStable(options, func(i, j int) bool {
		return Quality(options[i].Title) > Quality(options[j].Title)
	})

	return options
}
