package render

import (
	"context"
	"time"
)

// Step is one unit of the final reveal: apply a change, then pause.
type Step struct {
	Apply func(Surface)
	Pause time.Duration
}

// Scheduler decides how long pauses between steps really take.
type Scheduler interface {
	Pause(ctx context.Context, d time.Duration) error
}

// Immediate never waits. Tests and non-interactive output use it.
type Immediate struct{}

func (Immediate) Pause(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// Paced waits for the real duration of each pause.
type Paced struct{}

func (Paced) Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Pacing holds the pauses used when revealing a finalized message.
type Pacing struct {
	Text        time.Duration
	Card        time.Duration
	ListLoading time.Duration
	ListCard    time.Duration
}

// DefaultPacing matches the reveal rhythm of the web client.
var DefaultPacing = Pacing{
	Text:        150 * time.Millisecond,
	Card:        250 * time.Millisecond,
	ListLoading: 800 * time.Millisecond,
	ListCard:    150 * time.Millisecond,
}

// RunSteps applies every step in order. Once a pause fails, for example
// because ctx was cancelled, the remaining steps are applied without
// waiting so the surface always settles. It returns the first pause error.
func RunSteps(ctx context.Context, sched Scheduler, surface Surface, steps []Step) error {
	var firstErr error
	for _, step := range steps {
		step.Apply(surface)
		if firstErr != nil {
			continue
		}
		if err := sched.Pause(ctx, step.Pause); err != nil {
			firstErr = err
		}
	}
	return firstErr
}
