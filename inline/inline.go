// Package inline runs searches and episode resolutions without the TUI, for
// scripts and one-off terminal use.
package inline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atsume-cli/atsume/log"
	"github.com/atsume-cli/atsume/resolve"
	"github.com/atsume-cli/atsume/source"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"golang.org/x/sync/errgroup"
)

// metadataWorkers bounds concurrent Anilist lookups.
const metadataWorkers = 4

// Searcher looks shows up by title.
type Searcher interface {
	Search(ctx context.Context, title string) ([]*source.Show, error)
}

type SearchOptions struct {
	Out            io.Writer
	Searcher       Searcher
	Query          string
	Json           bool
	Metadata       mo.Option[source.MetadataFinder]
	ShowPicker     mo.Option[ShowPicker]
	EpisodesFilter mo.Option[EpisodesFilter]
}

// Search prints the shows matching options.Query and their episodes.
func Search(ctx context.Context, options *SearchOptions) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	shows, err := options.Searcher.Search(ctx, options.Query)
	if err != nil {
		return err
	}

	if picker, ok := options.ShowPicker.Get(); ok {
		shows = lo.Compact([]*source.Show{picker(shows)})
	}

	if filter, ok := options.EpisodesFilter.Get(); ok {
		for _, show := range shows {
			show.Episodes = filter(show.Episodes)
		}
	}

	if finder, ok := options.Metadata.Get(); ok {
		populateMetadata(ctx, shows, finder)
	}

	if options.Json {
		return writeJson(options.Out, &SearchOutput{Query: options.Query, Result: shows})
	}

	for _, show := range shows {
		fmt.Fprintln(options.Out, show.Title)
		for _, ep := range show.Episodes {
			fmt.Fprintf(options.Out, "  %s\t%s\n", ep.Title, ep.URL)
		}
	}

	return nil
}

// populateMetadata binds shows to Anilist concurrently. A show without a match keeps empty metadata.
func populateMetadata(ctx context.Context, shows []*source.Show, finder source.MetadataFinder) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(metadataWorkers)

	for _, show := range shows {
		g.Go(func() error {
			if err := show.PopulateMetadata(ctx, finder); err != nil {
				log.Warn(err)
			}
			return nil
		})
	}

	_ = g.Wait()
}

type ResolveOptions struct {
	Out       io.Writer
	Fetcher   resolve.Fetcher
	Solver    Solver
	Reference resolve.Reference
	Json      bool
	// Playable maps a video option to the URL a player should open.
	Playable func(resolve.VideoOption) string
}

// Resolve runs a resolution of options.Reference to completion, asking
// options.Solver for every challenge prompt, and prints the outcome.
// A Failure outcome is also returned as the error.
func Resolve(ctx context.Context, options *ResolveOptions) (resolve.Outcome, error) {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	if options.Playable == nil {
		options.Playable = func(v resolve.VideoOption) string { return v.URL }
	}

	outcome, err := Run(ctx, options.Fetcher, options.Solver, options.Reference)
	if err != nil {
		return nil, err
	}

	if options.Json {
		if err := writeJson(options.Out, resolveOutput(options.Reference, outcome, options.Playable)); err != nil {
			return outcome, err
		}
	} else {
		switch o := outcome.(type) {
		case *resolve.VideoReady:
			for _, v := range o.Options {
				fmt.Fprintf(options.Out, "%s\t%s\n", v.Title, options.Playable(v))
			}
		case *resolve.HostUnsupported:
			fmt.Fprintln(options.Out, o.HostURL)
		}
	}

	if failure, ok := outcome.(*resolve.Failure); ok {
		return outcome, failure
	}

	return outcome, nil
}

// Run drives a resolution machine until it reaches a terminal state.
// The returned outcome is a *VideoReady, *HostUnsupported or *Failure.
func Run(ctx context.Context, fetcher resolve.Fetcher, solver Solver, ref resolve.Reference) (resolve.Outcome, error) {
	changed := make(chan struct{}, 1)
	machine := resolve.NewMachine(fetcher,
		resolve.WithContext(ctx),
		resolve.OnChange(func(resolve.Snapshot) {
			select {
			case changed <- struct{}{}:
			default:
			}
		}),
	)
	defer func() {
		machine.Close()
		machine.Wait()
	}()

	if err := machine.RequestResolution(ref); err != nil {
		return nil, err
	}

	for {
		snapshot := machine.Snapshot()

		switch snapshot.State {
		case resolve.Ready, resolve.Unsupported, resolve.Failed:
			return snapshot.Outcome, nil
		case resolve.Challenging:
			if solver == nil {
				return nil, errors.New("a challenge must be answered but no solver is available")
			}

			prompt, ok := snapshot.Prompt()
			if !ok {
				break
			}

			id, err := solver.Solve(ctx, prompt, snapshot.Challenge, snapshot.Selected)
			if err != nil {
				return nil, fmt.Errorf("answer challenge: %w", err)
			}

			if err := machine.Select(id); err != nil {
				return nil, err
			}
			continue
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func writeJson(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
