package scroll

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

type element struct {
	top, height int
}

type fakeSurface struct {
	mu        sync.Mutex
	elements  map[string]element
	scrollTop map[string]int
	centered  chan string
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{
		elements: map[string]element{
			"show-3":    {top: 300, height: 50},
			"episode-7": {top: 700, height: 20},
		},
		scrollTop: make(map[string]int),
		centered:  make(chan string, 8),
	}
}

func (f *fakeSurface) Offset(id string) (int, int, bool) {
	e, ok := f.elements[id]
	return e.top, e.height, ok
}

func (f *fakeSurface) SetScrollTop(id string, top int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.scrollTop[id] = top
}

func (f *fakeSurface) ScrollIntoView(id string) {
	f.centered <- id
}

func (f *fakeSurface) top(id string) (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	top, ok := f.scrollTop[id]
	return top, ok
}

func waitCentered(f *fakeSurface, timeout time.Duration) (string, bool) {
	select {
	case id := <-f.centered:
		return id, true
	case <-time.After(timeout):
		return "", false
	}
}

func TestJumpTo(t *testing.T) {
	Convey("Given a coordinator", t, func() {
		surface := newFakeSurface()
		c := New(surface, 10*time.Millisecond)

		Convey("Jumping should place the element one height below the top", func() {
			So(c.JumpTo("show-3"), ShouldBeTrue)
			top, ok := surface.top("show-3")
			So(ok, ShouldBeTrue)
			So(top, ShouldEqual, 250)
		})

		Convey("Jumping to an unknown element should do nothing", func() {
			So(c.JumpTo("nope"), ShouldBeFalse)
			_, ok := surface.top("nope")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSmoothScrollTo(t *testing.T) {
	defer goleak.VerifyNone(t)

	Convey("Given a coordinator with a short delay", t, func() {
		surface := newFakeSurface()
		c := New(surface, 20*time.Millisecond)
		defer c.Stop()

		Convey("The smooth scroll should fire after the delay", func() {
			c.SmoothScrollTo("episode-7")
			pending, ok := c.Pending()
			So(ok, ShouldBeTrue)
			So(pending, ShouldEqual, "episode-7")

			id, fired := waitCentered(surface, time.Second)
			So(fired, ShouldBeTrue)
			So(id, ShouldEqual, "episode-7")

			_, ok = c.Pending()
			So(ok, ShouldBeFalse)
		})

		Convey("Only the last of several quick requests should fire", func() {
			c.SmoothScrollTo("episode-1")
			c.SmoothScrollTo("episode-2")
			c.SmoothScrollTo("episode-7")

			id, fired := waitCentered(surface, time.Second)
			So(fired, ShouldBeTrue)
			So(id, ShouldEqual, "episode-7")

			_, again := waitCentered(surface, 100*time.Millisecond)
			So(again, ShouldBeFalse)
		})

		Convey("A jump followed by a smooth scroll should both land", func() {
			So(c.JumpTo("show-3"), ShouldBeTrue)
			c.SmoothScrollTo("episode-7")

			id, fired := waitCentered(surface, time.Second)
			So(fired, ShouldBeTrue)
			So(id, ShouldEqual, "episode-7")

			top, _ := surface.top("show-3")
			So(top, ShouldEqual, 250)
		})

		Convey("Stopping should cancel the waiting scroll", func() {
			c.SmoothScrollTo("episode-7")
			c.Stop()

			_, fired := waitCentered(surface, 100*time.Millisecond)
			So(fired, ShouldBeFalse)

			Convey("And later requests should be ignored", func() {
				c.SmoothScrollTo("episode-7")
				_, ok := c.Pending()
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestNew(t *testing.T) {
	Convey("A non-positive delay should fall back to the default", t, func() {
		So(New(newFakeSurface(), 0).delay, ShouldEqual, DefaultDelay)
		So(New(newFakeSurface(), -time.Second).delay, ShouldEqual, DefaultDelay)
	})
}
