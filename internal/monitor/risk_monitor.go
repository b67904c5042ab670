package monitor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/yourname/wardwatch/internal"
	"github.com/yourname/wardwatch/internal/metrics"
	"github.com/yourname/wardwatch/internal/notify"
	"github.com/yourname/wardwatch/internal/risk"
	"github.com/yourname/wardwatch/internal/storage"
)

// Transition records a change of a patient's risk level.
type Transition struct {
	Patient *internal.PatientRecord
	From    *internal.RiskLevel // nil on first classification
	To      internal.RiskResult
}

func (t Transition) String() string {
	from := "none"
	if t.From != nil {
		from = t.From.String()
	}
	return fmt.Sprintf("Risk update for %s (%s): %s -> %s [%s]",
		t.Patient.Name, t.Patient.ID, from, t.To.Level, t.To.Reason())
}

// Reassess re-evaluates every complete reading and updates lastRisk only
// where the level differs from the stored one. Unchanged levels leave the
// record untouched, including its assessedAt stamp.
func Reassess(patients internal.PatientSet, now time.Time) []Transition {
	var changed []Transition
	for _, p := range patients.Sorted() {
		result, err := risk.AssessReading(p.Vitals, now)
		if err != nil {
			continue
		}
		var from *internal.RiskLevel
		if p.LastRisk != nil {
			if p.LastRisk.Level == result.Level {
				continue
			}
			lvl := p.LastRisk.Level
			from = &lvl
		}
		p.LastRisk = &result
		p.UpdatedAt = now
		changed = append(changed, Transition{Patient: p.Clone(), From: from, To: result})
	}
	return changed
}

type RiskMonitor struct {
	guard    *storage.Guard
	notifier notify.Alerter
	out      io.Writer
	opts     Options
}

func NewRiskMonitor(guard *storage.Guard, notifier notify.Alerter, out io.Writer, opts Options) *RiskMonitor {
	return &RiskMonitor{guard: guard, notifier: notifier, out: out, opts: opts.withDefaults(DefaultMonitorInterval)}
}

// Tick persists all transitions in one write, then reports them. Entering
// HIGH notifies once; staying HIGH on later ticks does not.
func (m *RiskMonitor) Tick(ctx context.Context) ([]Transition, error) {
	now := m.opts.Clock.Now()
	var changed []Transition
	err := m.guard.Update(ctx, func(patients internal.PatientSet) (bool, error) {
		changed = Reassess(patients, now)
		return len(changed) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	for _, t := range changed {
		fmt.Fprintln(m.out, t.String())
		m.opts.Metrics.Transition(t.To.Level)
		if t.To.Level == internal.RiskHigh {
			m.notifier.Notify(ctx, t.Patient, t.To)
		}
	}
	m.opts.Logger.Debugf("risk monitor: %d transition(s) at %s", len(changed), now.Format(time.RFC3339))
	return changed, nil
}

func (m *RiskMonitor) Run(ctx context.Context) error {
	fmt.Fprintf(m.out, "Risk monitor running every %s. Press Ctrl+C to stop.\n", m.opts.Interval)
	err := Poll(ctx, metrics.LoopMonitor, m.opts, func(ctx context.Context) error {
		_, err := m.Tick(ctx)
		return err
	})
	fmt.Fprintln(m.out, "Risk monitor stopped.")
	return err
}
