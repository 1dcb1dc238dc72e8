package watcher

import (
	"context"
	"time"

	"github.com/svgfx/fegraph/pkg/logging"
)

// Debouncer collapses rapid change events so the document is not reloaded
// once per write during a burst of saves.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a new event debouncer. An event is released after
// quietPeriod without further input, or after maxWait at the latest.
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing events with debouncing
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Debouncer) run(ctx context.Context) {
	var (
		timer        *time.Timer
		maxWaitTimer *time.Timer
		pending      *ChangeEvent
		eventCount   int
	)

	flush := func() {
		if pending == nil {
			return
		}
		logging.Debug("flushing document changes", "ops", eventCount)
		d.output <- *pending
		pending = nil
		eventCount = 0

		if timer != nil {
			timer.Stop()
		}
		if maxWaitTimer != nil {
			maxWaitTimer.Stop()
		}
		timer = nil
		maxWaitTimer = nil
	}

	timerC := func(t *time.Timer) <-chan time.Time {
		if t == nil {
			return nil
		}
		return t.C
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			close(d.output)
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				close(d.output)
				return
			}

			if pending == nil {
				copied := event
				pending = &copied
			} else {
				pending.Ops = append(pending.Ops, event.Ops...)
				pending.Timestamp = event.Timestamp
			}
			eventCount += len(event.Ops)

			if timer == nil {
				timer = time.NewTimer(d.quietPeriod)
			} else {
				timer.Reset(d.quietPeriod)
			}
			if maxWaitTimer == nil {
				maxWaitTimer = time.NewTimer(d.maxWait)
			}

		case <-timerC(timer):
			flush()

		case <-timerC(maxWaitTimer):
			flush()
		}
	}
}

// Output returns the channel of debounced events
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}
