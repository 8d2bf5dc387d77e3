package resolve

import "fmt"

// Outcome is the normalized result of one resolution round-trip.
// It is exactly one of *ChallengeRequired, *VideoReady, *HostUnsupported or *Failure.
type Outcome interface {
	outcome()
}

// ChallengeRequired means the host wants a challenge answered before handing out videos.
type ChallengeRequired struct {
	Challenge *Challenge
}

// VideoOption is a single playable source.
type VideoOption struct {
	// Title is the quality label shown to the user, e.g. "1080p".
	Title string `json:"title" jsonschema:"description=Quality label such as 1080p."`
	URL   string `json:"url" jsonschema:"description=Location of the video."`
	// Direct sources can be played as is. Others must go through the host proxy.
	Direct bool `json:"direct" jsonschema:"description=Whether the URL is playable without the proxy."`
}

// VideoReady carries the playable sources, best quality first.
type VideoReady struct {
	Options []VideoOption
}

// Best returns the highest quality option.
func (v *VideoReady) Best() (VideoOption, bool) {
	if len(v.Options) == 0 {
		return VideoOption{}, false
	}

	return v.Options[0], true
}

// HostUnsupported means the episode lives on a host that cannot be resolved.
// HostURL is handed to the user as is.
type HostUnsupported struct {
	HostURL string
}

// Failure is a terminal resolution error with a human readable reason.
type Failure struct {
	Reason string
}

func (f *Failure) Error() string {
	return f.Reason
}

func (*ChallengeRequired) outcome() {}
func (*VideoReady) outcome()        {}
func (*HostUnsupported) outcome()   {}
func (*Failure) outcome()           {}

func failf(format string, args ...any) *Failure {
	return &Failure{Reason: fmt.Sprintf(format, args...)}
}
