package input

import (
	"time"

	"github.com/vovakirdan/blockfall/internal/clock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// recorder collects fired action names in order.
type recorder struct {
	got []string
}

func (r *recorder) actions(names ...string) Actions {
	a := Actions{}
	for _, name := range names {
		a[name] = func() { r.got = append(r.got, name) }
	}
	return a
}

func (r *recorder) count(name string) int {
	n := 0
	for _, g := range r.got {
		if g == name {
			n++
		}
	}
	return n
}

func newTouchHarness(cfg Config) (*Bus, *clock.Manual, *TouchRecognizer) {
	bus := NewBus(Capabilities{Touch: true})
	sched := clock.NewManual(epoch)
	return bus, sched, NewTouchRecognizer(bus, sched, cfg)
}

func newDesktopHarness(cfg Config) (*Bus, *clock.Manual, *DesktopRecognizer) {
	bus := NewBus(Capabilities{})
	sched := clock.NewManual(epoch)
	sched.SetFrameInterval(16 * time.Millisecond)
	return bus, sched, NewDesktopRecognizer(bus, sched, cfg)
}

func touchStart(b *Bus, x, y float64) { b.Emit(Event{Kind: EventTouchStart, X: x, Y: y}) }
func touchMove(b *Bus, x, y float64)  { b.Emit(Event{Kind: EventTouchMove, X: x, Y: y}) }
func touchEnd(b *Bus, x, y float64)   { b.Emit(Event{Kind: EventTouchEnd, X: x, Y: y}) }
