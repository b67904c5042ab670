package internal

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// RiskLevel is totally ordered: RiskLow < RiskMedium < RiskHigh.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

func (l RiskLevel) String() string {
	switch l {
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	default:
		return fmt.Sprintf("RiskLevel(%d)", int(l))
	}
}

func ParseRiskLevel(s string) (RiskLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW":
		return RiskLow, nil
	case "MEDIUM":
		return RiskMedium, nil
	case "HIGH":
		return RiskHigh, nil
	}
	return RiskLow, fmt.Errorf("unknown risk level %q", s)
}

func (l RiskLevel) MarshalText() ([]byte, error) {
	if l < RiskLow || l > RiskHigh {
		return nil, fmt.Errorf("invalid risk level %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *RiskLevel) UnmarshalText(b []byte) error {
	v, err := ParseRiskLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Clause is one signal's contribution to a risk result.
type Clause struct {
	Signal string    `json:"signal"` // blood_pressure, pulse
	Rule   string    `json:"rule"`
	Value  string    `json:"value"`
	Level  RiskLevel `json:"level"`
}

func (c Clause) Text() string {
	return c.Rule + ": " + c.Value
}

// ReasonSeparator joins clause texts when a result is rendered as one line.
const ReasonSeparator = "; "

type RiskResult struct {
	Level      RiskLevel `json:"level"`
	Clauses    []Clause  `json:"clauses"`
	AssessedAt time.Time `json:"assessed_at"`
}

func (r RiskResult) Reasons() []string {
	out := make([]string, len(r.Clauses))
	for i, c := range r.Clauses {
		out[i] = c.Text()
	}
	return out
}

func (r RiskResult) Reason() string {
	return strings.Join(r.Reasons(), ReasonSeparator)
}

// VitalReading is evaluated only when all three measurements are present.
type VitalReading struct {
	Systolic   *int       `json:"systolic,omitempty"`  // mmHg
	Diastolic  *int       `json:"diastolic,omitempty"` // mmHg
	Pulse      *int       `json:"pulse,omitempty"`     // bpm
	MeasuredAt *time.Time `json:"measured_at,omitempty"`
}

func (v *VitalReading) Complete() bool {
	return v != nil && v.Systolic != nil && v.Diastolic != nil && v.Pulse != nil
}

// VitalsEntry is one recorded reading together with its assessment.
type VitalsEntry struct {
	Reading VitalReading `json:"reading"`
	Risk    RiskResult   `json:"risk"`
}

// MaxVitalsHistory bounds PatientRecord.VitalsHistory; older entries drop off.
const MaxVitalsHistory = 50

type DoctorContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type PatientRecord struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Disease       string        `json:"disease"`
	Medicine      string        `json:"medicine"`
	IntervalHours int           `json:"interval_hours"`
	NextDoseAt    time.Time     `json:"next_dose_at"`
	Doctor        DoctorContact `json:"doctor"`
	Vitals        *VitalReading `json:"vitals,omitempty"`
	LastRisk      *RiskResult   `json:"last_risk,omitempty"`
	// VitalsHistory holds manual readings, oldest first. Vitals stays the
	// reading the monitor evaluates.
	VitalsHistory []VitalsEntry `json:"vitals_history,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (p *PatientRecord) Interval() time.Duration {
	return time.Duration(p.IntervalHours) * time.Hour
}

// Clone returns a deep copy so callers never share mutable state with a store.
func (p *PatientRecord) Clone() *PatientRecord {
	if p == nil {
		return nil
	}
	c := *p
	if p.Vitals != nil {
		v := p.Vitals.Clone()
		c.Vitals = &v
	}
	if p.LastRisk != nil {
		r := p.LastRisk.Clone()
		c.LastRisk = &r
	}
	if p.VitalsHistory != nil {
		c.VitalsHistory = make([]VitalsEntry, len(p.VitalsHistory))
		for i, e := range p.VitalsHistory {
			c.VitalsHistory[i] = VitalsEntry{Reading: e.Reading.Clone(), Risk: e.Risk.Clone()}
		}
	}
	return &c
}

// RecordVitals appends an entry, dropping the oldest beyond MaxVitalsHistory.
func (p *PatientRecord) RecordVitals(e VitalsEntry) {
	p.VitalsHistory = append(p.VitalsHistory, e)
	if n := len(p.VitalsHistory); n > MaxVitalsHistory {
		p.VitalsHistory = append([]VitalsEntry(nil), p.VitalsHistory[n-MaxVitalsHistory:]...)
	}
}

func (v VitalReading) Clone() VitalReading {
	return VitalReading{
		Systolic:   cloneInt(v.Systolic),
		Diastolic:  cloneInt(v.Diastolic),
		Pulse:      cloneInt(v.Pulse),
		MeasuredAt: cloneTime(v.MeasuredAt),
	}
}

func (r RiskResult) Clone() RiskResult {
	r.Clauses = append([]Clause(nil), r.Clauses...)
	return r
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	n := *t
	return &n
}

// PatientSet is the full record set keyed by patient id.
type PatientSet map[string]*PatientRecord

func (s PatientSet) Clone() PatientSet {
	out := make(PatientSet, len(s))
	for id, p := range s {
		out[id] = p.Clone()
	}
	return out
}

// Sorted returns the records ordered by id.
func (s PatientSet) Sorted() []*PatientRecord {
	out := make([]*PatientRecord, 0, len(s))
	for _, p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Operator is the authenticated caller of the HTTP API.
type Operator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
