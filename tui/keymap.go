package tui

import (
	"github.com/atsume-cli/atsume/color"
	"github.com/atsume-cli/atsume/resolve"
	"github.com/atsume-cli/atsume/style"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
)

type statefulKeymap struct {
	state      state
	resolution resolve.State

	quit, forceQuit,
	confirm, selectOption, clearAnswers,
	acceptSearchSuggestion,
	switchPane, lastWatched,
	openURL, openImage,
	retry,
	back,
	up, down, left, right,
	top, bottom,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		selectOption: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp(style.Fg(color.Orange)("enter"), style.Fg(color.Orange)("pick image")),
		),
		clearAnswers: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "start over"),
		),
		acceptSearchSuggestion: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "accept search suggestion"),
		),
		switchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		lastWatched: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "last watched"),
		),
		openURL: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open url"),
		),
		openImage: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "view image"),
		),
		retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "left"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "right"),
		),
		top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case loadingState:
		return to2(h(k.forceQuit, k.back))
	case searchState:
		return to2(h(k.confirm, k.acceptSearchSuggestion, k.forceQuit))
	case showsState:
		pick := withDescription(k.confirm, "episodes")
		return h(pick, k.switchPane, k.lastWatched, k.back), h(pick, k.up, k.down, k.switchPane, k.lastWatched, k.back, k.quit)
	case episodesState:
		play := withDescription(k.confirm, "resolve")
		return h(play, k.switchPane, k.lastWatched, k.back), h(play, k.up, k.down, k.top, k.bottom, k.switchPane, k.lastWatched, k.back, k.quit)
	case watchedState:
		return to2(h(withDescription(k.confirm, "jump to episode"), k.back))
	case resolveState:
		switch k.resolution {
		case resolve.Challenging:
			return h(k.selectOption, k.clearAnswers, k.openImage, k.back), h(k.selectOption, k.clearAnswers, k.openImage, k.up, k.down, k.back)
		case resolve.Ready:
			return to2(h(withDescription(k.confirm, "play"), k.openURL, k.back))
		case resolve.Unsupported:
			return to2(h(withDescription(k.confirm, "open host"), k.back))
		case resolve.Failed:
			return to2(h(k.retry, k.back))
		default:
			return to2(h(k.back, k.forceQuit))
		}
	case playState:
		return to2(h(withDescription(k.back, "stop"), k.forceQuit))
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		NextPage:             k.right,
		PrevPage:             k.left,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}

func withDescription(k key.Binding, description string) key.Binding {
	return key.NewBinding(
		key.WithKeys(k.Keys()...),
		key.WithHelp(k.Help().Key, description),
	)
}
