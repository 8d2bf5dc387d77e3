package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// scrollMsg asks the bubble to center the row with this id.
type scrollMsg string

// paneSurface exposes panes to the scroll coordinator. Offset and SetScrollTop
// run on the update loop. ScrollIntoView runs on a timer goroutine, so it only
// records the target and wakes waitForScroll.
type paneSurface struct {
	panes []*pane

	mu     sync.Mutex
	target string
	wake   chan struct{}
}

func newPaneSurface(panes ...*pane) *paneSurface {
	return &paneSurface{
		panes: panes,
		wake:  make(chan struct{}, 1),
	}
}

func (s *paneSurface) locate(id string) (*pane, int, bool) {
	for _, p := range s.panes {
		if i, ok := p.index(id); ok {
			return p, i, true
		}
	}
	return nil, 0, false
}

func (s *paneSurface) Offset(id string) (top, height int, ok bool) {
	_, i, ok := s.locate(id)
	if !ok {
		return 0, 0, false
	}
	return i, 1, true
}

func (s *paneSurface) SetScrollTop(id string, top int) {
	if p, _, ok := s.locate(id); ok {
		p.scrollTo(id, top)
	}
}

func (s *paneSurface) ScrollIntoView(id string) {
	s.mu.Lock()
	s.target = id
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// center scrolls the pane holding id so that id is in the middle.
func (s *paneSurface) center(id string) {
	if p, _, ok := s.locate(id); ok {
		p.center(id)
	}
}

func (s *paneSurface) waitForScroll() tea.Cmd {
	return func() tea.Msg {
		<-s.wake

		s.mu.Lock()
		defer s.mu.Unlock()
		return scrollMsg(s.target)
	}
}
