// Package risk turns vital-sign measurements into a risk level with
// structured, human-readable justifications.
package risk

import (
	"fmt"

	"github.com/yourname/wardwatch/internal"
)

const (
	SignalBloodPressure = "blood_pressure"
	SignalPulse         = "pulse"
)

type bpRule struct {
	match func(sys, dia int) bool
	level internal.RiskLevel
	label string
}

// Ranges overlap at their boundaries; the first matching rule wins.
var bloodPressureRules = []bpRule{
	{
		match: func(sys, dia int) bool { return sys >= 180 || dia >= 120 },
		level: internal.RiskHigh,
		label: "Hypertensive crisis",
	},
	{
		match: func(sys, dia int) bool { return sys < 80 || dia < 50 },
		level: internal.RiskHigh,
		label: "Severe hypotension",
	},
	{
		match: func(sys, dia int) bool {
			return between(sys, 121, 139) || between(dia, 81, 89) ||
				between(sys, 80, 89) || between(dia, 50, 59)
		},
		level: internal.RiskMedium,
		label: "Abnormal BP",
	},
	{
		match: func(sys, dia int) bool { return between(sys, 90, 120) && between(dia, 60, 80) },
		level: internal.RiskLow,
		label: "Normal BP",
	},
}

var bloodPressureFallback = bpRule{level: internal.RiskMedium, label: "Borderline BP"}

type pulseRule struct {
	match func(p int) bool
	level internal.RiskLevel
	label string
}

var pulseRules = []pulseRule{
	{match: func(p int) bool { return p <= 39 }, level: internal.RiskHigh, label: "Severe bradycardia"},
	{match: func(p int) bool { return p >= 130 }, level: internal.RiskHigh, label: "Severe tachycardia"},
	{match: func(p int) bool { return between(p, 40, 59) }, level: internal.RiskMedium, label: "Bradycardia"},
	{match: func(p int) bool { return between(p, 101, 129) }, level: internal.RiskMedium, label: "Tachycardia"},
	{match: func(p int) bool { return between(p, 60, 100) }, level: internal.RiskLow, label: "Normal pulse"},
}

// Not reachable for integer input; kept so the classifier stays total.
var pulseFallback = pulseRule{level: internal.RiskMedium, label: "Borderline pulse"}

func between(v, lo, hi int) bool { return v >= lo && v <= hi }

// ClassifyBloodPressure applies the blood-pressure rules in order.
func ClassifyBloodPressure(systolic, diastolic int) internal.Clause {
	rule := bloodPressureFallback
	for _, r := range bloodPressureRules {
		if r.match(systolic, diastolic) {
			rule = r
			break
		}
	}
	return internal.Clause{
		Signal: SignalBloodPressure,
		Rule:   rule.label,
		Value:  fmt.Sprintf("%d/%d mmHg", systolic, diastolic),
		Level:  rule.level,
	}
}

// ClassifyPulse applies the pulse rules in order.
func ClassifyPulse(pulse int) internal.Clause {
	rule := pulseFallback
	for _, r := range pulseRules {
		if r.match(pulse) {
			rule = r
			break
		}
	}
	return internal.Clause{
		Signal: SignalPulse,
		Rule:   rule.label,
		Value:  fmt.Sprintf("%d bpm", pulse),
		Level:  rule.level,
	}
}
