package input

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/blockfall/internal/clock"
)

func TestDispatcherSelectsTouch(t *testing.T) {
	bus := NewBus(Capabilities{Touch: true})
	d := NewDispatcher(bus, clock.NewManual(epoch), DefaultConfig())
	rec := &recorder{}
	d.HandleActions(rec.actions(ActionTap, KeyArrowUp))

	assert.Equal(t, ModeTouch, d.Mode())
	assert.Equal(t, "touch", d.Mode().String())

	bus.Emit(Event{Kind: EventKeyDown, Code: KeyArrowUp})
	touchStart(bus, 0, 0)
	touchEnd(bus, 0, 0)

	assert.Equal(t, []string{ActionTap}, rec.got)
}

func TestDispatcherSelectsDesktop(t *testing.T) {
	bus := NewBus(Capabilities{})
	d := NewDispatcher(bus, clock.NewManual(epoch), DefaultConfig())
	rec := &recorder{}
	d.HandleActions(rec.actions(ActionTap, KeyArrowUp))

	assert.Equal(t, ModeDesktop, d.Mode())
	assert.Equal(t, "desktop", d.Mode().String())

	touchStart(bus, 0, 0)
	touchEnd(bus, 0, 0)
	bus.Emit(Event{Kind: EventKeyDown, Code: KeyArrowUp})

	assert.Equal(t, []string{KeyArrowUp}, rec.got)
}

func TestParallelDispatchersWithThresholds(t *testing.T) {
	bus := NewBus(Capabilities{Touch: true})
	sched := clock.NewManual(epoch)
	rec := &recorder{}

	coarse := NewDispatcher(bus, sched, Config{SwipeThreshold: 40}).
		HandleActions(Actions{ActionSwipeLeft: func() { rec.got = append(rec.got, "left") }})
	fine := NewDispatcher(bus, sched, Config{SwipeThreshold: 20}).
		HandleActions(Actions{ActionSwipeDown: func() { rec.got = append(rec.got, "down") }})
	once := NewDispatcher(bus, sched, Config{SwipeThreshold: 0}).
		HandleActions(Actions{ActionSwipeUp: func() { rec.got = append(rec.got, "up") }})

	touchStart(bus, 100, 100)
	touchMove(bus, 100, 125)
	touchMove(bus, 100, 150)
	touchMove(bus, 100, 175)
	touchEnd(bus, 100, 175)

	assert.Equal(t, 3, rec.count("down"))

	touchStart(bus, 100, 100)
	touchMove(bus, 100, 70)
	touchMove(bus, 100, 20)
	touchEnd(bus, 100, 20)

	assert.Equal(t, 1, rec.count("up"))
	assert.Equal(t, 0, rec.count("left"))

	coarse.Destroy()
	fine.Destroy()
	once.Destroy()
	once.Destroy()
	assert.Equal(t, 0, bus.Len())
}
