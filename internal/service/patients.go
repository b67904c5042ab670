package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/yourname/wardwatch/internal"
	"github.com/yourname/wardwatch/internal/notify"
	"github.com/yourname/wardwatch/internal/risk"
	"github.com/yourname/wardwatch/internal/storage"
)

// Patients implements the operator flows on top of the guarded store.
// Every mutation is a single load-mutate-save cycle; a failed validation
// leaves the store untouched.
type Patients struct {
	guard    *storage.Guard
	alerts   storage.AlertLog
	notifier notify.Alerter
	clock    internal.Clock
	logger   internal.Logger
}

func NewPatients(guard *storage.Guard, alerts storage.AlertLog, notifier notify.Alerter, clock internal.Clock, logger internal.Logger) *Patients {
	return &Patients{guard: guard, alerts: alerts, notifier: notifier, clock: clock, logger: logger}
}

func notFound(id string) error {
	return fmt.Errorf("%w: %q", internal.ErrNotFound, id)
}

func (s *Patients) Admit(ctx context.Context, req AdmitRequest) (*internal.PatientRecord, error) {
	if err := ValidateAdmitRequest(&req); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var created *internal.PatientRecord
	err := s.guard.Update(ctx, func(patients internal.PatientSet) (bool, error) {
		if _, exists := patients[req.ID]; exists {
			return false, fmt.Errorf("%w: %q", internal.ErrDuplicateID, req.ID)
		}
		p := &internal.PatientRecord{
			ID:            req.ID,
			Name:          req.Name,
			Disease:       strings.TrimSpace(req.Disease),
			Medicine:      strings.TrimSpace(req.Medicine),
			IntervalHours: req.IntervalHours,
			Doctor: internal.DoctorContact{
				Name:  strings.TrimSpace(req.Doctor.Name),
				Phone: strings.TrimSpace(req.Doctor.Phone),
				Email: strings.TrimSpace(req.Doctor.Email),
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		p.NextDoseAt = now.Add(p.Interval())
		patients[p.ID] = p
		created = p.Clone()
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infof("admitted patient %s", created.ID)
	return created, nil
}

// UpdateVitals stores a complete reading and its assessment. Entering a HIGH
// assessment notifies immediately.
func (s *Patients) UpdateVitals(ctx context.Context, id string, req VitalsRequest) (*internal.PatientRecord, error) {
	if err := ValidateVitalsRequest(&req); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var updated *internal.PatientRecord
	err := s.guard.Update(ctx, func(patients internal.PatientSet) (bool, error) {
		p, ok := patients[id]
		if !ok {
			return false, notFound(id)
		}
		sys, dia, pulse := *req.Systolic, *req.Diastolic, *req.Pulse
		measured := now
		reading := internal.VitalReading{Systolic: &sys, Diastolic: &dia, Pulse: &pulse, MeasuredAt: &measured}
		result := risk.Assess(sys, dia, pulse, now)
		p.Vitals = &reading
		p.LastRisk = &result
		p.RecordVitals(internal.VitalsEntry{Reading: reading.Clone(), Risk: result.Clone()})
		p.UpdatedAt = now
		updated = p.Clone()
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infof("vitals updated for patient %s: %s", id, updated.LastRisk.Level)
	if updated.LastRisk.Level == internal.RiskHigh {
		s.notifier.Notify(ctx, updated, *updated.LastRisk)
	}
	return updated, nil
}

// Edit applies the set fields. A new interval re-anchors the next dose to
// now + interval, but never moves it earlier.
func (s *Patients) Edit(ctx context.Context, id string, req EditRequest) (*internal.PatientRecord, error) {
	if err := ValidateEditRequest(&req); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	var updated *internal.PatientRecord
	err := s.guard.Update(ctx, func(patients internal.PatientSet) (bool, error) {
		p, ok := patients[id]
		if !ok {
			return false, notFound(id)
		}
		setString(&p.Name, req.Name)
		setString(&p.Disease, req.Disease)
		setString(&p.Medicine, req.Medicine)
		setString(&p.Doctor.Name, req.DoctorName)
		setString(&p.Doctor.Phone, req.DoctorPhone)
		setString(&p.Doctor.Email, req.DoctorEmail)
		if req.IntervalHours != nil {
			p.IntervalHours = *req.IntervalHours
			if next := now.Add(p.Interval()); next.After(p.NextDoseAt) {
				p.NextDoseAt = next
			}
		}
		p.UpdatedAt = now
		updated = p.Clone()
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func (s *Patients) Delete(ctx context.Context, id string) error {
	err := s.guard.Update(ctx, func(patients internal.PatientSet) (bool, error) {
		if _, ok := patients[id]; !ok {
			return false, notFound(id)
		}
		delete(patients, id)
		return true, nil
	})
	if err != nil {
		return err
	}
	s.logger.Infof("deleted patient %s", id)
	return nil
}

func (s *Patients) Get(ctx context.Context, id string) (*internal.PatientRecord, error) {
	var found *internal.PatientRecord
	err := s.guard.View(ctx, func(patients internal.PatientSet) error {
		p, ok := patients[id]
		if !ok {
			return notFound(id)
		}
		found = p.Clone()
		return nil
	})
	return found, err
}

// History returns the recorded readings of one patient, oldest first.
func (s *Patients) History(ctx context.Context, id string) ([]internal.VitalsEntry, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.VitalsHistory == nil {
		return []internal.VitalsEntry{}, nil
	}
	return p.VitalsHistory, nil
}

// List returns all records ordered by id.
func (s *Patients) List(ctx context.Context) ([]*internal.PatientRecord, error) {
	var out []*internal.PatientRecord
	err := s.guard.View(ctx, func(patients internal.PatientSet) error {
		out = patients.Clone().Sorted()
		return nil
	})
	return out, err
}

// Alerts returns the alert history, oldest first.
func (s *Patients) Alerts(ctx context.Context) ([]string, error) {
	return s.alerts.Lines(ctx)
}
