// Package monitor runs the periodic dose-reminder and risk-revaluation loops
// over the patient store.
package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/yourname/wardwatch/internal"
	"github.com/yourname/wardwatch/internal/metrics"
)

const (
	DefaultReminderInterval = 10 * time.Second
	DefaultMonitorInterval  = 15 * time.Second
)

// Sleeper waits between ticks. It returns early with ctx.Err() on cancellation.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Options carries the collaborators shared by both loops. Zero values fall
// back to the system clock, a no-op logger and a real timer.
type Options struct {
	Clock    internal.Clock
	Logger   internal.Logger
	Metrics  *metrics.Recorder
	Interval time.Duration
	Sleeper  Sleeper
}

func (o Options) withDefaults(interval time.Duration) Options {
	if o.Clock == nil {
		o.Clock = internal.SystemClock{}
	}
	if o.Logger == nil {
		o.Logger = internal.NewNopLogger()
	}
	if o.Interval <= 0 {
		o.Interval = interval
	}
	if o.Sleeper == nil {
		o.Sleeper = TimerSleeper{}
	}
	return o
}

// Poll runs tick, then sleeps for interval, until ctx is cancelled. Ticks
// run back-to-back; a slow tick delays the next one. A failed tick is
// logged and counted, never fatal. Cancellation returns nil.
func Poll(ctx context.Context, loop string, opts Options, tick func(context.Context) error) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		err := tick(ctx)
		opts.Metrics.Tick(loop, err)
		if err != nil {
			opts.Logger.Errorf("%s: tick failed: %v", loop, err)
		}
		if err := opts.Sleeper.Sleep(ctx, opts.Interval); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}
