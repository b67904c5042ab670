package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yourname/wardwatch/internal"
)

var t0 = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func intp(v int) *int { return &v }

func vitals(sys, dia, pulse int) *internal.VitalReading {
	return &internal.VitalReading{Systolic: intp(sys), Diastolic: intp(dia), Pulse: intp(pulse)}
}

// stepSleeper advances the clock by each requested interval and cancels the
// loop after limit sleeps.
type stepSleeper struct {
	clock  *internal.ManualClock
	cancel context.CancelFunc
	limit  int
	calls  int32
}

func (s *stepSleeper) Sleep(ctx context.Context, d time.Duration) error {
	n := atomic.AddInt32(&s.calls, 1)
	s.clock.Advance(d)
	if int(n) >= s.limit {
		s.cancel()
		return ctx.Err()
	}
	return nil
}

type recordingAlerter struct {
	mu       sync.Mutex
	calls    int32
	patients []string
	levels   []internal.RiskLevel
}

func (r *recordingAlerter) Notify(ctx context.Context, p *internal.PatientRecord, result internal.RiskResult) {
	atomic.AddInt32(&r.calls, 1)
	r.mu.Lock()
	r.patients = append(r.patients, p.ID)
	r.levels = append(r.levels, result.Level)
	r.mu.Unlock()
}

func (r *recordingAlerter) Count() int { return int(atomic.LoadInt32(&r.calls)) }
