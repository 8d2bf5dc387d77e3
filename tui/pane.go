package tui

import (
	"strings"

	"github.com/atsume-cli/atsume/style"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// row is one line of a pane. Every row is one line tall.
type row struct {
	id    string
	label string
	mark  string
	item  any
}

// pane is a scrollable column of rows with a cursor. Unlike list.Model its
// scroll offset can be set independently of the cursor.
type pane struct {
	title    string
	empty    string
	rows     []row
	cursor   int
	focused  bool
	viewport viewport.Model
}

func newPane(title, empty string) *pane {
	return &pane{
		title:    title,
		empty:    empty,
		viewport: viewport.New(0, 0),
	}
}

func (p *pane) setRows(rows []row) {
	p.rows = rows
	p.cursor = 0
	p.viewport.SetYOffset(0)
	p.render()
}

func (p *pane) setSize(width, height int) {
	p.viewport.Width = width
	p.viewport.Height = lo.Max([]int{height - 2, 1})
	p.render()
}

func (p *pane) index(id string) (int, bool) {
	_, i, ok := lo.FindIndexOf(p.rows, func(r row) bool {
		return r.id == id
	})
	return i, ok
}

func (p *pane) selected() (row, bool) {
	if p.cursor < 0 || p.cursor >= len(p.rows) {
		return row{}, false
	}
	return p.rows[p.cursor], true
}

// move shifts the cursor by delta, wrapping around, and keeps it visible.
func (p *pane) move(delta int) {
	if len(p.rows) == 0 {
		return
	}

	p.cursor = ((p.cursor+delta)%len(p.rows) + len(p.rows)) % len(p.rows)
	p.follow()
}

func (p *pane) selectIndex(i int) {
	if i < 0 || i >= len(p.rows) {
		return
	}
	p.cursor = i
	p.follow()
}

func (p *pane) follow() {
	switch top := p.viewport.YOffset; {
	case p.cursor < top:
		p.viewport.SetYOffset(p.cursor)
	case p.cursor >= top+p.viewport.Height:
		p.viewport.SetYOffset(p.cursor - p.viewport.Height + 1)
	}
	p.render()
}

// scrollTo sets the first visible line and puts the cursor on id.
func (p *pane) scrollTo(id string, top int) {
	i, ok := p.index(id)
	if !ok {
		return
	}

	p.cursor = i
	p.render()
	p.viewport.SetYOffset(lo.Max([]int{top, 0}))
}

// center puts the cursor on id and scrolls it to the middle of the pane.
func (p *pane) center(id string) {
	i, ok := p.index(id)
	if !ok {
		return
	}

	p.cursor = i
	p.render()
	p.viewport.SetYOffset(lo.Max([]int{i - (p.viewport.Height-1)/2, 0}))
}

func (p *pane) render() {
	lines := lo.Map(p.rows, func(r row, i int) string {
		label := r.label
		if r.mark != "" {
			label += " " + r.mark
		}

		if i == p.cursor {
			c := style.FaintColor
			if p.focused {
				c = style.AccentColor
			}
			return lipgloss.NewStyle().Foreground(c).Bold(p.focused).Render("▌ " + label)
		}

		return "  " + label
	})

	p.viewport.SetContent(strings.Join(lines, "\n"))
}

func (p *pane) View() string {
	bg := style.Surface
	if p.focused {
		bg = style.AccentColor
	}

	title := lipgloss.NewStyle().Foreground(style.Base).Background(bg).Padding(0, 1).Render(p.title)

	body := p.viewport.View()
	if len(p.rows) == 0 {
		body = style.Faint(p.empty)
	}

	return lipgloss.NewStyle().Width(p.viewport.Width).Render(title + "\n\n" + body)
}
