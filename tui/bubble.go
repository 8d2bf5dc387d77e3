package tui

import (
	"context"
	"fmt"

	"github.com/atsume-cli/atsume/anilist"
	"github.com/atsume-cli/atsume/constant"
	"github.com/atsume-cli/atsume/icon"
	"github.com/atsume-cli/atsume/internal/ui"
	"github.com/atsume-cli/atsume/key"
	"github.com/atsume-cli/atsume/player"
	"github.com/atsume-cli/atsume/resolve"
	"github.com/atsume-cli/atsume/scroll"
	"github.com/atsume-cli/atsume/source"
	"github.com/atsume-cli/atsume/style"
	"github.com/atsume-cli/atsume/util"
	"github.com/charmbracelet/bubbles/help"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// overviewLines bounds the synopsis shown above the panes.
const overviewLines = 3

type statefulBubble struct {
	state         state
	statesHistory util.Stack[state]
	loading       bool

	keymap *statefulKeymap

	// components
	spinnerC   spinner.Model
	inputC     textinput.Model
	showsC     *pane
	episodesC  *pane
	watchedC   list.Model
	challengeC list.Model
	videosC    list.Model
	helpC      help.Model

	ctx    context.Context
	cancel context.CancelFunc

	options  *Options
	machine  *resolve.Machine
	snapshot resolve.Snapshot
	changed  chan struct{}
	surface  *paneSurface
	scroller *scroll.Coordinator

	query           string
	shows           []*source.Show
	overview        mo.Option[*anilist.Anime]
	selectedShow    *source.Show
	selectedEpisode *source.Episode

	player        player.Player
	playing       *source.Episode
	playingLoaded bool

	progressStatus string
	lastError      error

	width, height    int
	searchSuggestion mo.Option[string]
	notifier         *ui.Model
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.newState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
	b.showsC.focused = s == showsState
	b.episodesC.focused = s == episodesState
	b.showsC.render()
	b.episodesC.render()
}

// newState moves to s, remembering where it came from.
func (b *statefulBubble) newState(s state) {
	if b.state == s {
		return
	}

	if !lo.Contains([]state{loadingState, playState}, b.state) {
		b.statesHistory.Push(b.state)
	}

	b.setState(s)
}

func (b *statefulBubble) previousState() {
	if b.statesHistory.Len() > 0 {
		b.setState(b.statesHistory.Pop())
	}
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	listWidth := width - xx
	listHeight := height - yy

	for _, l := range []*list.Model{&b.watchedC, &b.challengeC, &b.videosC} {
		l.SetSize(listWidth, listHeight-4)
		l.Help.Width = listWidth
	}

	paneHeight := b.height - overviewLines - 6
	b.showsC.setSize(b.width/2-1, paneHeight)
	b.episodesC.setSize(b.width-b.width/2-1, paneHeight)

	b.helpC.Width = listWidth
}

func (b *statefulBubble) startLoading() tea.Cmd {
	b.loading = true
	return b.spinnerC.Tick
}

func (b *statefulBubble) stopLoading() {
	b.loading = false
}

// shutdown releases everything that outlives the program loop.
func (b *statefulBubble) shutdown() {
	b.scroller.Stop()
	b.machine.Close()
	if b.player != nil {
		_ = b.player.Close()
	}
	b.cancel()
}

func newBubble(options *Options) *statefulBubble {
	ctx, cancel := context.WithCancel(context.Background())

	bubble := statefulBubble{
		statesHistory: util.Stack[state]{},
		keymap:        newStatefulKeymap(),
		ctx:           ctx,
		cancel:        cancel,
		options:       options,
		changed:       make(chan struct{}, 1),
		notifier:      &ui.Model{},
	}

	bubble.machine = resolve.NewMachine(options.Resolver,
		resolve.WithContext(ctx),
		resolve.OnChange(func(resolve.Snapshot) {
			select {
			case bubble.changed <- struct{}{}:
			default:
			}
		}),
	)

	type listOptions struct {
		TitleStyle mo.Option[lipgloss.Style]
	}

	makeList := func(title string, options *listOptions) list.Model {
		delegate := list.NewDefaultDelegate()
		delegate.SetSpacing(viper.GetInt(key.TUIItemSpacing))
		delegate.Styles.SelectedTitle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(style.AccentColor).
			Foreground(style.AccentColor).
			Padding(0, 0, 0, 1)
		delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("7"))
		delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

		listC := list.New([]list.Item{}, delegate, 0, 0)
		listC.KeyMap = bubble.keymap.forList()
		listC.AdditionalShortHelpKeys = bubble.keymap.ShortHelp
		listC.AdditionalFullHelpKeys = func() []bubblesKey.Binding {
			return bubble.keymap.FullHelp()[0]
		}
		listC.Title = title
		listC.Styles.NoItems = paddingStyle
		if titleStyle, ok := options.TitleStyle.Get(); ok {
			listC.Styles.Title = titleStyle
		}
		listC.SetShowPagination(false)
		listC.SetShowStatusBar(false)
		listC.SetFilteringEnabled(false)

		return listC
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	bubble.inputC = textinput.New()
	bubble.inputC.Placeholder = fmt.Sprintf("Search Anime (v%s)", constant.Version)
	bubble.inputC.CharLimit = 60
	bubble.inputC.Prompt = viper.GetString(key.TUISearchPromptString)

	bubble.showsC = newPane("Shows", "No shows matched")
	bubble.episodesC = newPane("Episodes", "Pick a show to list its episodes")
	bubble.surface = newPaneSurface(bubble.showsC, bubble.episodesC)
	bubble.scroller = scroll.Configured(bubble.surface)

	bubble.watchedC = makeList("Last Watched", &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Base).Background(style.Yellow).Padding(0, 1),
		),
	})
	bubble.watchedC.SetStatusBarItemName("show", "shows")

	bubble.challengeC = makeList("Challenge", &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Base).Background(style.Peach).Padding(0, 1),
		),
	})
	bubble.challengeC.SetStatusBarItemName("image", "images")

	bubble.videosC = makeList("Videos", &listOptions{
		TitleStyle: mo.Some(
			lipgloss.NewStyle().Foreground(style.Base).Background(style.Green).Padding(0, 1),
		),
	})
	bubble.videosC.SetStatusBarItemName("video", "videos")

	bubble.setState(searchState)

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	bubble.inputC.Focus()

	return &bubble
}

func (b *statefulBubble) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		<-b.changed
		return snapshotMsg(b.machine.Snapshot())
	}
}

// episodeMark decorates the last watched episode of the selected show.
func (b *statefulBubble) episodeMark(show *source.Show, episode *source.Episode) string {
	if b.options.Recorder == nil {
		return ""
	}

	if last, ok := b.options.Recorder.LastWatched(show.Title).Get(); ok && last == episode.Title {
		return style.Fg(style.Yellow)(icon.Get(icon.Watched))
	}

	return ""
}
