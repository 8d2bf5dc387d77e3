package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the background listeners and searches the initial query, if any.
func (b *statefulBubble) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, b.waitForSnapshot(), b.surface.waitForScroll()}

	if q := b.options.Query; q != "" {
		b.inputC.SetValue(q)
		b.progressStatus = fmt.Sprintf("Searching for %s...", q)
		b.newState(loadingState)
		cmds = append(cmds, b.search(q), b.startLoading())
	}

	return tea.Batch(cmds...)
}
