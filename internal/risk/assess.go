package risk

import (
	"errors"
	"time"

	"github.com/yourname/wardwatch/internal"
)

var ErrIncompleteReading = errors.New("risk: vitals reading is incomplete")

// Combine returns the more severe of two levels.
func Combine(a, b internal.RiskLevel) internal.RiskLevel {
	if a > b {
		return a
	}
	return b
}

// Assess is the single entry point for turning a complete reading into a
// RiskResult. The result depends only on the inputs apart from AssessedAt.
func Assess(systolic, diastolic, pulse int, now time.Time) internal.RiskResult {
	bp := ClassifyBloodPressure(systolic, diastolic)
	pr := ClassifyPulse(pulse)
	return internal.RiskResult{
		Level:      Combine(bp.Level, pr.Level),
		Clauses:    []internal.Clause{bp, pr},
		AssessedAt: now,
	}
}

// AssessReading evaluates a stored reading. Partial readings are rejected.
func AssessReading(v *internal.VitalReading, now time.Time) (internal.RiskResult, error) {
	if !v.Complete() {
		return internal.RiskResult{}, ErrIncompleteReading
	}
	return Assess(*v.Systolic, *v.Diastolic, *v.Pulse, now), nil
}
