package inline

import (
	"reflect"

	"github.com/atsume-cli/atsume/resolve"
	"github.com/atsume-cli/atsume/source"
	"github.com/invopop/jsonschema"
)

// SearchOutput is what `search --json` prints.
type SearchOutput struct {
	Query  string         `json:"query" jsonschema:"description=Title that was searched."`
	Result []*source.Show `json:"result"`
}

// ResolveOutput is what `resolve --json` prints.
type ResolveOutput struct {
	Reference resolve.Reference `json:"reference" jsonschema:"description=Episode reference that was resolved."`
	State     string            `json:"state" jsonschema:"enum=video ready,enum=host unsupported,enum=failed"`
	Videos    []Video           `json:"videos,omitempty" jsonschema:"description=Video options, best quality first."`
	HostURL   string            `json:"hostUrl,omitempty" jsonschema:"description=Page to open when the host cannot be resolved."`
	Error     string            `json:"error,omitempty"`
}

// Video is a video option together with the URL a player can open.
type Video struct {
	resolve.VideoOption
	Playable string `json:"playable" jsonschema:"description=URL to hand to a player, proxied when needed."`
}

// Schema returns the JSON schema of v.
func Schema(v any) *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		return t.Name()
	}
	return reflector.Reflect(v)
}

func resolveOutput(ref resolve.Reference, outcome resolve.Outcome, playable func(resolve.VideoOption) string) *ResolveOutput {
	out := &ResolveOutput{Reference: ref}

	switch o := outcome.(type) {
	case *resolve.VideoReady:
		out.State = resolve.Ready.String()
		for _, v := range o.Options {
			out.Videos = append(out.Videos, Video{VideoOption: v, Playable: playable(v)})
		}
	case *resolve.HostUnsupported:
		out.State = resolve.Unsupported.String()
		out.HostURL = o.HostURL
	case *resolve.Failure:
		out.State = resolve.Failed.String()
		out.Error = o.Reason
	}

	return out
}
