package monitor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/yourname/wardwatch/internal"
	"github.com/yourname/wardwatch/internal/metrics"
	"github.com/yourname/wardwatch/internal/storage"
)

// Reminder is one dose that fell due during a tick.
type Reminder struct {
	PatientID  string
	Name       string
	Medicine   string
	DueAt      time.Time
	NextDoseAt time.Time
}

func (r Reminder) String() string {
	medicine := r.Medicine
	if medicine == "" {
		medicine = "scheduled medicine"
	}
	return fmt.Sprintf("Reminder: give %s to %s (%s), due %s. Next dose at %s.",
		medicine, r.Name, r.PatientID,
		r.DueAt.Format("2006-01-02 15:04"), r.NextDoseAt.Format("2006-01-02 15:04"))
}

// RescheduleDue advances every record whose next dose is at or before now to
// now + its interval and returns the reminders in patient id order. Records
// without a positive interval are left untouched.
func RescheduleDue(patients internal.PatientSet, now time.Time, logger internal.Logger) []Reminder {
	var due []Reminder
	for _, p := range patients.Sorted() {
		if p.NextDoseAt.After(now) {
			continue
		}
		if p.IntervalHours <= 0 {
			logger.Warnf("dose reminder: patient %s has no valid interval (%d hours), skipping", p.ID, p.IntervalHours)
			continue
		}
		r := Reminder{
			PatientID: p.ID,
			Name:      p.Name,
			Medicine:  p.Medicine,
			DueAt:     p.NextDoseAt,
		}
		p.NextDoseAt = now.Add(p.Interval())
		p.UpdatedAt = now
		r.NextDoseAt = p.NextDoseAt
		due = append(due, r)
	}
	return due
}

type DoseReminder struct {
	guard *storage.Guard
	out   io.Writer
	opts  Options
}

func NewDoseReminder(guard *storage.Guard, out io.Writer, opts Options) *DoseReminder {
	return &DoseReminder{guard: guard, out: out, opts: opts.withDefaults(DefaultReminderInterval)}
}

// Tick reschedules due doses and persists the set once if anything changed.
// Reminders are printed only after the write succeeds.
func (d *DoseReminder) Tick(ctx context.Context) ([]Reminder, error) {
	now := d.opts.Clock.Now()
	var due []Reminder
	err := d.guard.Update(ctx, func(patients internal.PatientSet) (bool, error) {
		due = RescheduleDue(patients, now, d.opts.Logger)
		return len(due) > 0, nil
	})
	if err != nil {
		return nil, err
	}
	for _, r := range due {
		fmt.Fprintln(d.out, r.String())
	}
	d.opts.Metrics.Reminders(len(due))
	d.opts.Logger.Debugf("dose reminder: %d reminder(s) at %s", len(due), now.Format(time.RFC3339))
	return due, nil
}

// Run polls until ctx is cancelled.
func (d *DoseReminder) Run(ctx context.Context) error {
	fmt.Fprintf(d.out, "Dose reminder running every %s. Press Ctrl+C to stop.\n", d.opts.Interval)
	err := Poll(ctx, metrics.LoopReminder, d.opts, func(ctx context.Context) error {
		_, err := d.Tick(ctx)
		return err
	})
	fmt.Fprintln(d.out, "Dose reminder stopped.")
	return err
}
