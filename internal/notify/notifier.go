// Package notify renders high-risk alerts to the operator console and the
// append-only alert log.
package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourname/wardwatch/internal"
	"github.com/yourname/wardwatch/internal/metrics"
	"github.com/yourname/wardwatch/internal/storage"
)

const (
	TimeLayout  = "2006-01-02 15:04:05"
	Placeholder = "(not provided)"
)

// Alerter is what loops and services depend on.
type Alerter interface {
	Notify(ctx context.Context, patient *internal.PatientRecord, result internal.RiskResult)
}

type Notifier struct {
	out     io.Writer
	log     storage.AlertLog
	clock   internal.Clock
	logger  internal.Logger
	metrics *metrics.Recorder
	newID   func() string
}

func New(out io.Writer, log storage.AlertLog, clock internal.Clock, logger internal.Logger, rec *metrics.Recorder) *Notifier {
	return &Notifier{
		out:     out,
		log:     log,
		clock:   clock,
		logger:  logger,
		metrics: rec,
		newID:   uuid.NewString,
	}
}

// Notify prints the alert block and appends one flattened line to the alert
// log. Every call produces output; failures are logged, never returned.
func (n *Notifier) Notify(ctx context.Context, patient *internal.PatientRecord, result internal.RiskResult) {
	a := Alert{
		ID:      n.newID(),
		Patient: patient.Clone(),
		Level:   result.Level,
		Reason:  result.Reason(),
		At:      n.clock.Now(),
	}
	if _, err := io.WriteString(n.out, a.Block()); err != nil {
		n.logger.Errorf("notify: failed to print alert %s: %v", a.ID, err)
	}
	if err := n.log.Append(ctx, a.Line()); err != nil {
		n.logger.Errorf("notify: failed to append alert %s for %s: %v", a.ID, patient.ID, err)
	}
	n.metrics.Alert()
	n.logger.Infof("alert %s raised for patient %s at level %s", a.ID, patient.ID, a.Level)
}

// Alert is one rendered notification.
type Alert struct {
	ID      string
	Patient *internal.PatientRecord
	Level   internal.RiskLevel
	Reason  string
	At      time.Time
}

func (a Alert) Block() string {
	p := a.Patient
	var b strings.Builder
	rule := strings.Repeat("=", 56)
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "  %s RISK ALERT\n", a.Level)
	fmt.Fprintf(&b, "%s\n", rule)
	fmt.Fprintf(&b, "  Alert ID : %s\n", a.ID)
	fmt.Fprintf(&b, "  Patient  : %s (%s)\n", orPlaceholder(p.Name), p.ID)
	fmt.Fprintf(&b, "  Disease  : %s\n", orPlaceholder(p.Disease))
	fmt.Fprintf(&b, "  Risk     : %s\n", a.Level)
	fmt.Fprintf(&b, "  Reason   : %s\n", orPlaceholder(a.Reason))
	fmt.Fprintf(&b, "  Doctor   : %s\n", orPlaceholder(p.Doctor.Name))
	fmt.Fprintf(&b, "  Phone    : %s\n", orPlaceholder(p.Doctor.Phone))
	fmt.Fprintf(&b, "  Email    : %s\n", orPlaceholder(p.Doctor.Email))
	fmt.Fprintf(&b, "  Time     : %s\n", a.At.Format(TimeLayout))
	fmt.Fprintf(&b, "%s\n", rule)
	return b.String()
}

func (a Alert) Line() string {
	p := a.Patient
	return fmt.Sprintf("%s - [%s] %s risk alert for %s (%s), disease: %s; reason: %s; doctor: %s, phone: %s, email: %s",
		a.At.Format(TimeLayout), a.ID, a.Level,
		orPlaceholder(p.Name), p.ID, orPlaceholder(p.Disease), orPlaceholder(a.Reason),
		orPlaceholder(p.Doctor.Name), orPlaceholder(p.Doctor.Phone), orPlaceholder(p.Doctor.Email))
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder
	}
	return s
}

var _ Alerter = (*Notifier)(nil)
