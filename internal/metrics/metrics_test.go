package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/yourname/wardwatch/internal"
)

func TestRecorder(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.Tick(LoopReminder, nil)
	r.Tick(LoopReminder, nil)
	r.Tick(LoopMonitor, errors.New("load failed"))
	r.Reminders(3)
	r.Reminders(0)
	r.Transition(internal.RiskHigh)
	r.Transition(internal.RiskMedium)
	r.Transition(internal.RiskHigh)
	r.Alert()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ticks.WithLabelValues(LoopReminder)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.ticks.WithLabelValues(LoopMonitor)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tickFailures.WithLabelValues(LoopMonitor)))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.reminders))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.transitions.WithLabelValues("HIGH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.alerts))
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Tick(LoopMonitor, nil)
		r.Reminders(1)
		r.Transition(internal.RiskLow)
		r.Alert()
	})
}
