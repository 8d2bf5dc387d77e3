// Package ui shows short lived notifications at the bottom of the TUI.
package ui

import (
	"strings"
	"time"

	"github.com/atsume-cli/atsume/style"
	tea "github.com/charmbracelet/bubbletea"
)

// Lifetime is how long a notification stays visible.
const Lifetime = 3 * time.Second

// Notification carries the text to show.
type Notification struct {
	Text string
	id   int
}

type expiredMsg struct{ id int }

// Model keeps at most one notification. A newer one replaces the old and
// extends its lifetime.
type Model struct {
	text string
	id   int
}

// Notify returns a command that shows text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return Notification{Text: text}
	}
}

// Update reports whether msg belonged to the notifier.
func (m *Model) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case Notification:
		m.id++
		m.text = msg.Text
		id := m.id
		return tea.Tick(Lifetime, func(time.Time) tea.Msg {
			return expiredMsg{id: id}
		}), true
	case expiredMsg:
		if msg.id == m.id {
			m.text = ""
		}
		return nil, true
	}
	return nil, false
}

// Text returns the visible notification, if any.
func (m *Model) Text() string {
	return m.text
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.text == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + style.Faint(m.text)
	return strings.Join(lines, "\n")
}
