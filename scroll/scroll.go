// Package scroll reveals two list entries at once without one scroll cancelling the other.
//
// The first target is revealed with an immediate positional jump, which cannot be cancelled.
// The second is revealed with an animated scroll that only fires after a debounce delay,
// so it is the only animated scroll pending when it runs.
package scroll

import (
	"sync"
	"time"

	"github.com/atsume-cli/atsume/key"
	"github.com/spf13/viper"
)

// DefaultDelay is how long SmoothScrollTo waits before scrolling.
const DefaultDelay = 500 * time.Millisecond

// Surface is a scrollable view of identifiable elements.
// ScrollIntoView may be called from a timer goroutine.
type Surface interface {
	// Offset returns the element's distance from the top of its scroll container and its height.
	Offset(id string) (top, height int, ok bool)
	// SetScrollTop moves the container of id to top without animating.
	SetScrollTop(id string, top int)
	// ScrollIntoView starts an animated scroll that centers id.
	ScrollIntoView(id string)
}

// Coordinator orders the jump and the smooth scroll on a surface.
type Coordinator struct {
	surface Surface
	delay   time.Duration

	mu         sync.Mutex
	timer      *time.Timer
	pending    string
	generation uint64
	stopped    bool
}

// New returns a coordinator waiting delay before every smooth scroll.
// A non-positive delay uses DefaultDelay.
func New(surface Surface, delay time.Duration) *Coordinator {
	if delay <= 0 {
		delay = DefaultDelay
	}

	return &Coordinator{surface: surface, delay: delay}
}

// Configured returns a coordinator using the scroll.debounce_ms setting.
func Configured(surface Surface) *Coordinator {
	return New(surface, time.Duration(viper.GetInt(key.ScrollDebounceMs))*time.Millisecond)
}

// JumpTo immediately scrolls the container of id so that it sits one element height below the top edge.
// It reports whether the element was found.
func (c *Coordinator) JumpTo(id string) bool {
	top, height, ok := c.surface.Offset(id)
	if !ok {
		return false
	}

	c.surface.SetScrollTop(id, top-height)
	return true
}

// SmoothScrollTo schedules an animated scroll to id after the debounce delay.
// A later call replaces any scroll still waiting.
func (c *Coordinator) SmoothScrollTo(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}

	if c.timer != nil {
		c.timer.Stop()
	}

	c.generation++
	generation := c.generation
	c.pending = id
	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(generation)
	})
}

// Pending returns the element a smooth scroll is waiting for.
func (c *Coordinator) Pending() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.pending, c.pending != ""
}

// Stop cancels the waiting scroll. Later SmoothScrollTo calls are ignored.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	c.pending = ""
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coordinator) fire(generation uint64) {
	c.mu.Lock()
	if c.stopped || generation != c.generation {
		c.mu.Unlock()
		return
	}

	id := c.pending
	c.pending = ""
	c.timer = nil
	c.mu.Unlock()

	c.surface.ScrollIntoView(id)
}
