package tui

import (
	"fmt"
	"strings"

	"github.com/atsume-cli/atsume/icon"
	"github.com/atsume-cli/atsume/resolve"
	"github.com/atsume-cli/atsume/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case searchState:
		output = b.viewSearch()
	case loadingState:
		output = b.viewLoading()
	case showsState, episodesState:
		output = b.viewBrowse()
	case watchedState:
		output = listExtraPaddingStyle.Render(b.watchedC.View())
	case resolveState:
		output = b.viewResolve()
	case playState:
		output = b.viewPlay()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewSearch() string {
	input := b.inputC.View()
	if suggestion, ok := b.searchSuggestion.Get(); ok {
		input += "\n" + style.Faint(fmt.Sprintf("tab: %s", suggestion))
	}

	return b.renderLines(true, []string{
		style.Title("Search Anime"),
		"",
		input,
	})
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(true, []string{
		style.Title("Loading"),
		"",
		b.spinnerC.View() + " " + b.progressStatus,
	})
}

// viewBrowse shows the overview of the searched title above the shows and episodes panes.
func (b *statefulBubble) viewBrowse() string {
	lines := []string{style.Title(fmt.Sprintf("Results for %q", b.query)), ""}
	lines = append(lines, b.overviewLines()...)
	lines = append(lines, "", lipgloss.JoinHorizontal(lipgloss.Top, b.showsC.View(), "  ", b.episodesC.View()))

	return b.renderLines(true, lines)
}

func (b *statefulBubble) overviewLines() []string {
	anime, ok := b.overview.Get()
	if !ok {
		return lo.Times(overviewLines, func(int) string { return "" })
	}

	header := style.Bold(anime.Name())
	var facts []string
	if anime.Format != "" {
		facts = append(facts, anime.Format)
	}
	if anime.Episodes > 0 {
		facts = append(facts, fmt.Sprintf("%d episodes", anime.Episodes))
	}
	if anime.AverageScore > 0 {
		facts = append(facts, fmt.Sprintf("%d%%", anime.AverageScore))
	}
	if len(facts) > 0 {
		header += " " + style.Faint(strings.Join(facts, " • "))
	}

	summary := strings.Split(wordwrap.String(anime.Summary(), lo.Max([]int{b.width, 20})), "\n")
	summary = append(summary, lo.Times(overviewLines, func(int) string { return "" })...)
	summary = summary[:overviewLines-1]

	return append([]string{truncate.StringWithTail(header, uint(lo.Max([]int{b.width, 1})), "…")},
		lo.Map(summary, func(s string, _ int) string { return style.Faint(s) })...)
}

func (b *statefulBubble) viewResolve() string {
	switch b.snapshot.State {
	case resolve.Challenging:
		return listExtraPaddingStyle.Render(b.challengeC.View())
	case resolve.Ready:
		return listExtraPaddingStyle.Render(b.videosC.View())
	}

	lines := []string{style.Title("Resolving"), "", b.episodeTitle(), ""}

	switch b.snapshot.State {
	case resolve.Unsupported:
		lines = append(lines, icon.Get(icon.Question)+" This episode is hosted somewhere that can't be resolved.")
		if host, ok := b.snapshot.Outcome.(*resolve.HostUnsupported); ok {
			lines = append(lines, "", style.Fg(style.SecondaryColor)(host.HostURL))
		}
	case resolve.Failed:
		reason := "unknown failure"
		if failure, ok := b.snapshot.Outcome.(*resolve.Failure); ok {
			reason = failure.Reason
		}
		lines = append(lines,
			icon.Get(icon.Fail)+" Resolution failed:",
			"",
			wrap.String(style.Fg(style.ErrorColor)(reason), lo.Max([]int{b.width, 1})),
		)
	default:
		lines = append(lines, b.spinnerC.View()+" "+b.snapshot.State.String()+"...")
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewPlay() string {
	status := b.spinnerC.View() + " Waiting for the player..."
	if b.playingLoaded {
		status = icon.Get(icon.Success) + " Playing"
	}

	return b.renderLines(true, []string{
		style.Title("Now Playing"),
		"",
		style.Truncate(b.width)(fmt.Sprintf("%s %s", icon.Get(icon.Progress), style.Fg(style.AccentColor)(b.episodeTitle()))),
		"",
		style.Truncate(b.width)(status),
	})
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	message := "unknown error"
	if b.lastError != nil {
		message = b.lastError.Error()
	}

	return b.renderLines(true, []string{
		style.ErrorTitle("Error"),
		"",
		icon.Get(icon.Fail) + " An error occurred:",
		"",
		wrap.String(errorStyle.Render(message), lo.Max([]int{b.width, 1})),
	})
}

func (b *statefulBubble) episodeTitle() string {
	episode := b.selectedEpisode
	if b.state == playState && b.playing != nil {
		episode = b.playing
	}

	if episode == nil {
		return ""
	}

	return fmt.Sprintf("%s - %s", episode.Show.Title, episode.Title)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	h := lipgloss.Height(l)
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
