// Package player hands resolved videos to an external media player.
// The only backend is mpv, driven through its JSON-IPC interface.
package player

import (
	"context"
	"fmt"

	"github.com/atsume-cli/atsume/key"
	"github.com/spf13/viper"
)

// Player is a running playback session.
type Player interface {
	// Play starts playback of url, titling the window with title.
	Play(ctx context.Context, url, title string) error
	// Loaded is closed once the player reports that the file began loading.
	Loaded() <-chan struct{}
	// Wait is closed when the player process exits.
	Wait() <-chan struct{}
	// Close stops the player and releases its resources.
	Close() error
}

// New returns the player named by player.default.
func New() (Player, error) {
	switch name := viper.GetString(key.Player); name {
	case "mpv", "":
		return NewMPV(), nil
	default:
		return nil, fmt.Errorf("unsupported player %q", name)
	}
}
