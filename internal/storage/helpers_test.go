package storage

import (
	"time"

	"github.com/yourname/wardwatch/internal"
)

var testNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func intp(v int) *int { return &v }

func samplePatients() internal.PatientSet {
	return internal.PatientSet{
		"p1": {
			ID:            "p1",
			Name:          "Ada",
			Disease:       "hypertension",
			Medicine:      "amlodipine",
			IntervalHours: 8,
			NextDoseAt:    testNow.Add(8 * time.Hour),
			Doctor:        internal.DoctorContact{Name: "Dr. Lee", Phone: "555-0101"},
			Vitals:        &internal.VitalReading{Systolic: intp(190), Diastolic: intp(70), Pulse: intp(75)},
			LastRisk:      &internal.RiskResult{Level: internal.RiskHigh, AssessedAt: testNow},
			CreatedAt:     testNow,
			UpdatedAt:     testNow,
		},
		"p2": {
			ID:            "p2",
			Name:          "Bo",
			IntervalHours: 12,
			NextDoseAt:    testNow.Add(12 * time.Hour),
			CreatedAt:     testNow,
			UpdatedAt:     testNow,
		},
	}
}
