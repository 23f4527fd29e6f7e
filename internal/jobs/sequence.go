package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/jefersongoes36-cmd/DigitalNexusSolutions/internal/clock"
)

// Step runs Run once After has elapsed since the sequence started.
type Step struct {
	After time.Duration
	Run   func()
}

// StartSequence schedules every step on clk and returns a cancel func.
// Cancelling, or cancelling ctx, guarantees no further step runs even if
// its timer has already fired and is waiting to enter Run.
func StartSequence(ctx context.Context, clk clock.Clock, steps []Step) (cancel func()) {
	if clk == nil {
		clk = clock.Real()
	}

	var (
		mu       sync.Mutex
		canceled bool
		timers   = make([]*clock.Timer, 0, len(steps))
	)

	cancel = func() {
		mu.Lock()
		defer mu.Unlock()
		if canceled {
			return
		}
		canceled = true
		for _, timer := range timers {
			timer.Stop()
		}
	}

	mu.Lock()
	for _, step := range steps {
		run := step.Run
		timers = append(timers, clk.AfterFunc(step.After, func() {
			mu.Lock()
			if canceled {
				mu.Unlock()
				return
			}
			mu.Unlock()
			run()
		}))
	}
	mu.Unlock()

	if ctx != nil {
		stop := context.AfterFunc(ctx, cancel)
		prev := cancel
		cancel = func() {
			stop()
			prev()
		}
	}
	return cancel
}
