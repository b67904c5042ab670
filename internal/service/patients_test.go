package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/wardwatch/internal"
	"github.com/yourname/wardwatch/internal/storage"
)

var t0 = time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

type recordingAlerter struct {
	mu    sync.Mutex
	calls []internal.RiskResult
}

func (r *recordingAlerter) Notify(ctx context.Context, p *internal.PatientRecord, result internal.RiskResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, result)
}

type fixture struct {
	svc     *Patients
	mem     *storage.MemoryStore
	alerts  *storage.MemoryAlertLog
	alerter *recordingAlerter
	clock   *internal.ManualClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		mem:     storage.NewMemoryStore(nil),
		alerts:  storage.NewMemoryAlertLog(),
		alerter: &recordingAlerter{},
		clock:   internal.NewManualClock(t0),
	}
	f.svc = NewPatients(storage.NewGuard(f.mem), f.alerts, f.alerter, f.clock, internal.NewNopLogger())
	return f
}

func admitReq(id string) AdmitRequest {
	return AdmitRequest{
		ID: id, Name: "Ada Lovelace", Disease: "hypertension", Medicine: "amlodipine",
		IntervalHours: 8, Doctor: DoctorInput{Name: "Dr. Lee", Phone: "555-0101"},
	}
}

func TestAdmit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, err := f.svc.Admit(ctx, admitReq(" p1 "))
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, t0.Add(8*time.Hour), p.NextDoseAt)
	assert.Equal(t, t0, p.CreatedAt)
	assert.Equal(t, t0, p.UpdatedAt)
	assert.Nil(t, p.Vitals)
	assert.Nil(t, p.LastRisk)

	_, err = f.svc.Admit(ctx, admitReq("p1"))
	assert.ErrorIs(t, err, internal.ErrDuplicateID)
	assert.Equal(t, 1, f.mem.Saves())
}

func TestAdmit_ValidationAbortsWithoutWrite(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	bad := []AdmitRequest{
		func() AdmitRequest { r := admitReq(""); return r }(),
		func() AdmitRequest { r := admitReq("a b"); return r }(),
		func() AdmitRequest { r := admitReq("p2"); r.Name = " "; return r }(),
		func() AdmitRequest { r := admitReq("p3"); r.IntervalHours = 0; return r }(),
		func() AdmitRequest { r := admitReq("p4"); r.IntervalHours = -4; return r }(),
	}
	for _, r := range bad {
		_, err := f.svc.Admit(ctx, r)
		assert.ErrorIs(t, err, internal.ErrInvalidInput, "%+v", r)
	}
	assert.Equal(t, 0, f.mem.Saves())
	assert.Equal(t, 0, f.mem.Loads())
}

func TestUpdateVitals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Admit(ctx, admitReq("p1"))
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	p, err := f.svc.UpdateVitals(ctx, "p1", NewVitalsRequest(110, 70, 55))
	require.NoError(t, err)
	require.True(t, p.Vitals.Complete())
	assert.Equal(t, internal.RiskMedium, p.LastRisk.Level)
	assert.Equal(t, t0.Add(time.Minute), p.LastRisk.AssessedAt)
	assert.Equal(t, t0.Add(time.Minute), *p.Vitals.MeasuredAt)
	assert.Equal(t, t0.Add(time.Minute), p.UpdatedAt)
	assert.Empty(t, f.alerter.calls)

	p, err = f.svc.UpdateVitals(ctx, "p1", NewVitalsRequest(190, 70, 75))
	require.NoError(t, err)
	assert.Equal(t, internal.RiskHigh, p.LastRisk.Level)
	require.Len(t, f.alerter.calls, 1)
	assert.Contains(t, f.alerter.calls[0].Reason(), "Hypertensive crisis: 190/70 mmHg")
}

func TestUpdateVitals_PartialReadingRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Admit(ctx, admitReq("p1"))
	require.NoError(t, err)
	saves := f.mem.Saves()

	systolic := 120
	_, err = f.svc.UpdateVitals(ctx, "p1", VitalsRequest{Systolic: &systolic})
	assert.ErrorIs(t, err, internal.ErrInvalidInput)
	assert.Equal(t, saves, f.mem.Saves())
	assert.Empty(t, f.alerter.calls)

	p, err := f.svc.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p.Vitals)
	assert.Nil(t, p.LastRisk)
	assert.Empty(t, p.VitalsHistory)
}

func TestUpdateVitals_RecordsHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Admit(ctx, admitReq("p1"))
	require.NoError(t, err)

	history, err := f.svc.History(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = f.svc.UpdateVitals(ctx, "p1", NewVitalsRequest(115, 75, 80))
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	p, err := f.svc.UpdateVitals(ctx, "p1", NewVitalsRequest(110, 70, 55))
	require.NoError(t, err)

	require.Len(t, p.VitalsHistory, 2)
	assert.Equal(t, internal.RiskLow, p.VitalsHistory[0].Risk.Level)
	assert.Equal(t, 80, *p.VitalsHistory[0].Reading.Pulse)
	assert.Equal(t, internal.RiskMedium, p.VitalsHistory[1].Risk.Level)
	assert.Equal(t, t0.Add(time.Hour), *p.VitalsHistory[1].Reading.MeasuredAt)
	assert.Equal(t, 55, *p.Vitals.Pulse, "latest reading stays the one the monitor evaluates")

	history, err = f.svc.History(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, p.VitalsHistory, history)

	_, err = f.svc.History(ctx, "ghost")
	assert.ErrorIs(t, err, internal.ErrNotFound)
}

func TestUpdateVitals_UnknownPatient(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpdateVitals(context.Background(), "ghost", NewVitalsRequest(120, 80, 70))
	assert.ErrorIs(t, err, internal.ErrNotFound)
	assert.Equal(t, 0, f.mem.Saves())
}

func TestEdit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Admit(ctx, admitReq("p1"))
	require.NoError(t, err)

	name, email := "Ada King", "lee@example.org"
	f.clock.Advance(time.Hour)
	p, err := f.svc.Edit(ctx, "p1", EditRequest{Name: &name, DoctorEmail: &email})
	require.NoError(t, err)
	assert.Equal(t, "Ada King", p.Name)
	assert.Equal(t, "lee@example.org", p.Doctor.Email)
	assert.Equal(t, "Dr. Lee", p.Doctor.Name)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, t0.Add(time.Hour), p.UpdatedAt)
	assert.Equal(t, t0.Add(8*time.Hour), p.NextDoseAt)
}

func TestEdit_IntervalReanchorsForwardOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Admit(ctx, admitReq("p1")) // next dose t0+8h
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	longer := 12
	p, err := f.svc.Edit(ctx, "p1", EditRequest{IntervalHours: &longer})
	require.NoError(t, err)
	assert.Equal(t, 12, p.IntervalHours)
	assert.Equal(t, t0.Add(13*time.Hour), p.NextDoseAt)

	shorter := 2
	p, err = f.svc.Edit(ctx, "p1", EditRequest{IntervalHours: &shorter})
	require.NoError(t, err)
	assert.Equal(t, 2, p.IntervalHours)
	assert.Equal(t, t0.Add(13*time.Hour), p.NextDoseAt, "next dose never moves earlier")
}

func TestEdit_Invalid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Admit(ctx, admitReq("p1"))
	require.NoError(t, err)

	blank, zero := "  ", 0
	_, err = f.svc.Edit(ctx, "p1", EditRequest{Name: &blank})
	assert.ErrorIs(t, err, internal.ErrInvalidInput)
	_, err = f.svc.Edit(ctx, "p1", EditRequest{IntervalHours: &zero})
	assert.ErrorIs(t, err, internal.ErrInvalidInput)
	_, err = f.svc.Edit(ctx, "nobody", EditRequest{})
	assert.ErrorIs(t, err, internal.ErrNotFound)
	assert.Equal(t, 1, f.mem.Saves())
}

func TestDeleteGetList(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, id := range []string{"p3", "p1", "p2"} {
		_, err := f.svc.Admit(ctx, admitReq(id))
		require.NoError(t, err)
	}

	list, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "p1", list[0].ID)
	assert.Equal(t, "p3", list[2].ID)

	require.NoError(t, f.svc.Delete(ctx, "p2"))
	assert.ErrorIs(t, f.svc.Delete(ctx, "p2"), internal.ErrNotFound)

	_, err = f.svc.Get(ctx, "p2")
	assert.ErrorIs(t, err, internal.ErrNotFound)
	p, err := f.svc.Get(ctx, "p3")
	require.NoError(t, err)
	assert.Equal(t, "p3", p.ID)
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Admit(ctx, admitReq("p1"))
	require.NoError(t, err)
	p, _ := f.svc.Get(ctx, "p1")
	p.Name = "mutated"
	again, _ := f.svc.Get(ctx, "p1")
	assert.Equal(t, "Ada Lovelace", again.Name)
}

func TestAlerts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	lines, err := f.svc.Alerts(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	require.NoError(t, f.alerts.Append(ctx, "one"))
	lines, err = f.svc.Alerts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, lines)
}
