package tui

import (
	"fmt"
	"strings"

	"github.com/atsume-cli/atsume/icon"
	"github.com/atsume-cli/atsume/key"
	"github.com/atsume-cli/atsume/resolve"
	"github.com/atsume-cli/atsume/source"
	"github.com/atsume-cli/atsume/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

// watchedEntry is a show from the current results with recorded progress.
type watchedEntry struct {
	show    *source.Show
	episode string
}

// optionItem is a challenge option. order is its 1-based position in the answers, 0 when not picked.
type optionItem struct {
	option resolve.Option
	order  int
}

// videoItem is a resolved video together with the URL handed to the player.
type videoItem struct {
	video    resolve.VideoOption
	playable string
}

// listItem implements list.Item for everything shown in a list.Model.
type listItem struct {
	internal any
	marked   bool
}

func (t *listItem) Title() (title string) {
	switch e := t.internal.(type) {
	case *watchedEntry:
		title = e.show.Title
	case *optionItem:
		title = fmt.Sprintf("Image %d", e.option.Index+1)
		if e.order > 0 {
			title = fmt.Sprintf("%s %s", title, lipgloss.NewStyle().Bold(true).Foreground(style.AccentColor).Render(fmt.Sprintf("%s #%d", icon.Get(icon.Selected), e.order)))
		}
	case *videoItem:
		title = e.video.Title
		if title == "" {
			title = "Video"
		}
		if t.marked {
			title = fmt.Sprintf("%s %s", title, style.Fg(style.SuccessColor)("best"))
		}
	default:
		title = t.FilterValue()
	}

	return
}

func (t *listItem) Description() (description string) {
	switch e := t.internal.(type) {
	case *watchedEntry:
		description = fmt.Sprintf("%s %s", icon.Get(icon.Watched), e.episode)
	case *optionItem:
		description = e.option.ImageID
	case *videoItem:
		var parts []string
		if e.video.Direct {
			parts = append(parts, "direct")
		} else {
			parts = append(parts, "proxied")
		}

		if viper.GetBool(key.TUIShowURLs) {
			parts = append(parts, e.playable)
		}

		description = strings.Join(parts, " • ")
	}

	return
}

func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *watchedEntry:
		return e.show.Title
	case *optionItem:
		return e.option.ID
	case *videoItem:
		return e.video.Title
	default:
		return ""
	}
}
