// Package metrics exposes monitoring-loop and alert counters to prometheus.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/yourname/wardwatch/internal"
)

const namespace = "wardwatch"

const (
	LoopReminder = "dose_reminder"
	LoopMonitor  = "risk_monitor"
)

type Recorder struct {
	ticks        *prometheus.CounterVec
	tickFailures *prometheus.CounterVec
	reminders    prometheus.Counter
	transitions  *prometheus.CounterVec
	alerts       prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loop_ticks_total",
			Help:      "Completed polling loop ticks.",
		}, []string{"loop"}),
		tickFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loop_tick_failures_total",
			Help:      "Polling loop ticks that failed to load or save records.",
		}, []string{"loop"}),
		reminders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dose_reminders_total",
			Help:      "Dose reminders emitted.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "risk_transitions_total",
			Help:      "Risk level changes detected by the monitor, by new level.",
		}, []string{"level"}),
		alerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "High-risk alerts raised.",
		}),
	}
	reg.MustRegister(r.ticks, r.tickFailures, r.reminders, r.transitions, r.alerts)
	return r
}

func (r *Recorder) Tick(loop string, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.tickFailures.WithLabelValues(loop).Inc()
		return
	}
	r.ticks.WithLabelValues(loop).Inc()
}

func (r *Recorder) Reminders(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.reminders.Add(float64(n))
}

func (r *Recorder) Transition(level internal.RiskLevel) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(level.String()).Inc()
}

func (r *Recorder) Alert() {
	if r == nil {
		return
	}
	r.alerts.Inc()
}
