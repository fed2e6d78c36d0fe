package tetris

import (
	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/input"
)

// InputConfig holds the recognizer settings of the three gesture
// dispatchers.
type InputConfig struct {
	Move   input.Config
	Drop   input.Config
	Rotate input.Config
}

// DefaultInputConfig returns thresholds of 40px for sideways moves, 20px for
// drops and a one-shot swipe for rotation.
func DefaultInputConfig() InputConfig {
	with := func(threshold float64) input.Config {
		cfg := input.DefaultConfig()
		cfg.SwipeThreshold = threshold
		return cfg
	}
	return InputConfig{
		Move:   with(40),
		Drop:   with(20),
		Rotate: with(0),
	}
}

// InputFromGame builds the dispatcher settings from the loaded config.
func InputFromGame(in config.InputConfig) (InputConfig, error) {
	var (
		out InputConfig
		err error
	)
	if out.Move, err = in.Dispatcher(config.DispatcherMove); err != nil {
		return out, err
	}
	if out.Drop, err = in.Dispatcher(config.DispatcherDrop); err != nil {
		return out, err
	}
	if out.Rotate, err = in.Dispatcher(config.DispatcherRotate); err != nil {
		return out, err
	}
	return out, nil
}

// bindInput attaches one dispatcher per gesture class to the input target.
// Each class repeats at its own distance, so a long sideways drag moves
// several columns while an upward swipe rotates only once.
func (e *Engine) bindInput() {
	if e.target == nil {
		return
	}
	e.unbindInput()

	rotate := func() { e.Rotate() }
	down := func() { e.MoveDown() }
	left := func() { e.MoveLeft() }
	right := func() { e.MoveRight() }

	move := input.NewDispatcher(e.target, e.sched, e.inputCfg.Move).
		HandleActions(input.Actions{
			input.KeyArrowUp:        rotate,
			input.KeyArrowDown:      down,
			input.KeyArrowLeft:      left,
			input.KeyArrowRight:     right,
			input.KeySpace:          down,
			input.ActionTap:         rotate,
			input.ActionSwipeLeft:   left,
			input.ActionSwipeRight:  right,
			input.ActionClick:       rotate,
			input.ActionScrollDown:  down,
			input.ActionScrollLeft:  left,
			input.ActionScrollRight: right,
		})
	drop := input.NewDispatcher(e.target, e.sched, e.inputCfg.Drop).
		HandleActions(input.Actions{
			input.ActionSwipeDown: down,
		})
	turn := input.NewDispatcher(e.target, e.sched, e.inputCfg.Rotate).
		HandleActions(input.Actions{
			input.ActionSwipeUp: rotate,
		})

	e.dispatchers = []*input.Dispatcher{move, drop, turn}
}

func (e *Engine) unbindInput() {
	for _, d := range e.dispatchers {
		d.Destroy()
	}
	e.dispatchers = nil
}
