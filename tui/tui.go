// Package tui is the interactive terminal interface: search a title, browse
// the matching shows and their episodes, resolve an episode and play it.
package tui

import (
	"context"

	"github.com/atsume-cli/atsume/internal/cache"
	"github.com/atsume-cli/atsume/player"
	"github.com/atsume-cli/atsume/progress"
	"github.com/atsume-cli/atsume/resolve"
	"github.com/atsume-cli/atsume/source"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
)

// Searcher looks shows up by title.
type Searcher interface {
	Search(ctx context.Context, title string) ([]*source.Show, error)
}

// Resolver is the resolution host as seen by the interface.
type Resolver interface {
	resolve.Fetcher
	PlayableURL(option resolve.VideoOption) string
	FetchImage(ctx context.Context, imageID string) ([]byte, error)
}

// Options wires the interface to its collaborators.
type Options struct {
	// Query is searched right away when set.
	Query    string
	Searcher Searcher
	Resolver Resolver
	Metadata mo.Option[source.MetadataFinder]
	Recorder *progress.Recorder
	Images   *cache.Dir
	// NewPlayer starts a fresh player for every episode.
	NewPlayer func() (player.Player, error)
}

// Run starts the interface and blocks until the user quits.
func Run(options *Options) error {
	bubble := newBubble(options)
	defer bubble.shutdown()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
