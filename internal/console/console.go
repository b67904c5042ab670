// Package console is the single-operator menu over the patient services.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/yourname/wardwatch/internal"
	"github.com/yourname/wardwatch/internal/service"
)

// Loop is a long-running monitor entered from the menu.
type Loop interface {
	Run(ctx context.Context) error
}

var errInputClosed = errors.New("input closed")

const timeLayout = "2006-01-02 15:04"

type Console struct {
	in       *bufio.Scanner
	out      io.Writer
	patients *service.Patients
	reminder Loop
	monitor  Loop
	logger   internal.Logger
	// interrupt derives the context a loop runs under; cancelling it
	// returns to the menu.
	interrupt func(context.Context) (context.Context, context.CancelFunc)
}

func New(in io.Reader, out io.Writer, patients *service.Patients, reminder, monitor Loop, logger internal.Logger) *Console {
	return &Console{
		in:       bufio.NewScanner(in),
		out:      out,
		patients: patients,
		reminder: reminder,
		monitor:  monitor,
		logger:   logger,
		interrupt: func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt)
		},
	}
}

type action struct {
	key   string
	label string
	run   func(*Console, context.Context) error
}

var actions = []action{
	{"1", "Admit patient", (*Console).admit},
	{"2", "Update vitals", (*Console).updateVitals},
	{"3", "Edit patient", (*Console).edit},
	{"4", "Delete patient", (*Console).remove},
	{"5", "List patients", (*Console).list},
	{"6", "View patient", (*Console).view},
	{"7", "View alerts", (*Console).alerts},
	{"8", "Run dose reminders", (*Console).runReminder},
	{"9", "Run risk monitor", (*Console).runMonitor},
}

// Run shows the menu until the operator exits, input ends or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		c.menu()
		choice, err := c.prompt("Choice")
		if err != nil {
			return nil
		}
		if choice == "0" || strings.EqualFold(choice, "q") {
			fmt.Fprintln(c.out, "Goodbye.")
			return nil
		}
		act, ok := lookup(choice)
		if !ok {
			fmt.Fprintf(c.out, "Unknown option %q.\n", choice)
			continue
		}
		if err := act.run(c, ctx); err != nil {
			if errors.Is(err, errInputClosed) {
				return nil
			}
			c.logger.Debugf("console %s: %v", act.label, err)
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
	}
	return nil
}

func lookup(key string) (action, bool) {
	for _, a := range actions {
		if a.key == key {
			return a, true
		}
	}
	return action{}, false
}

func (c *Console) menu() {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "=== Ward Watch ===")
	for _, a := range actions {
		fmt.Fprintf(c.out, "%s) %s\n", a.key, a.label)
	}
	fmt.Fprintln(c.out, "0) Exit")
}

func (c *Console) prompt(label string) (string, error) {
	fmt.Fprintf(c.out, "%s: ", label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(c.in.Text()), nil
}

// promptKeep shows the current value; an empty answer keeps it.
func (c *Console) promptKeep(label, current string) (*string, error) {
	v, err := c.prompt(fmt.Sprintf("%s [%s]", label, current))
	if err != nil || v == "" {
		return nil, err
	}
	return &v, nil
}

func (c *Console) admit(ctx context.Context) error {
	var req service.AdmitRequest
	var err error
	if req.ID, err = c.prompt("Patient ID"); err != nil {
		return err
	}
	if req.Name, err = c.prompt("Name"); err != nil {
		return err
	}
	if req.Disease, err = c.prompt("Disease"); err != nil {
		return err
	}
	if req.Medicine, err = c.prompt("Medicine"); err != nil {
		return err
	}
	raw, err := c.prompt("Dose interval (hours)")
	if err != nil {
		return err
	}
	if req.IntervalHours, err = service.ParseInterval(raw); err != nil {
		return err
	}
	if req.Doctor.Name, err = c.prompt("Doctor name"); err != nil {
		return err
	}
	if req.Doctor.Phone, err = c.prompt("Doctor phone"); err != nil {
		return err
	}
	if req.Doctor.Email, err = c.prompt("Doctor email"); err != nil {
		return err
	}
	p, err := c.patients.Admit(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Admitted %s (%s). Next dose at %s.\n", p.Name, p.ID, p.NextDoseAt.Format(timeLayout))
	return nil
}

func (c *Console) updateVitals(ctx context.Context) error {
	id, err := c.prompt("Patient ID")
	if err != nil {
		return err
	}
	var raw [3]string
	for i, label := range []string{"Systolic", "Diastolic", "Pulse"} {
		if raw[i], err = c.prompt(label); err != nil {
			return err
		}
	}
	req, err := service.ParseVitals(raw[0], raw[1], raw[2])
	if err != nil {
		return err
	}
	p, err := c.patients.UpdateVitals(ctx, id, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Risk for %s: %s (%s)\n", p.Name, p.LastRisk.Level, p.LastRisk.Reason())
	return nil
}

func (c *Console) edit(ctx context.Context) error {
	id, err := c.prompt("Patient ID")
	if err != nil {
		return err
	}
	p, err := c.patients.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Leave a field empty to keep it.")
	var req service.EditRequest
	fields := []struct {
		label   string
		current string
		dst     **string
	}{
		{"Name", p.Name, &req.Name},
		{"Disease", p.Disease, &req.Disease},
		{"Medicine", p.Medicine, &req.Medicine},
		{"Doctor name", p.Doctor.Name, &req.DoctorName},
		{"Doctor phone", p.Doctor.Phone, &req.DoctorPhone},
		{"Doctor email", p.Doctor.Email, &req.DoctorEmail},
	}
	for _, f := range fields {
		if *f.dst, err = c.promptKeep(f.label, f.current); err != nil {
			return err
		}
	}
	raw, err := c.promptKeep("Dose interval (hours)", fmt.Sprint(p.IntervalHours))
	if err != nil {
		return err
	}
	if raw != nil {
		hours, err := service.ParseInterval(*raw)
		if err != nil {
			return err
		}
		req.IntervalHours = &hours
	}
	if _, err := c.patients.Edit(ctx, id, req); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Updated %s.\n", id)
	return nil
}

func (c *Console) remove(ctx context.Context) error {
	id, err := c.prompt("Patient ID")
	if err != nil {
		return err
	}
	confirm, err := c.prompt(fmt.Sprintf("Delete %s? (y/N)", id))
	if err != nil {
		return err
	}
	if !strings.EqualFold(confirm, "y") {
		fmt.Fprintln(c.out, "Cancelled.")
		return nil
	}
	if err := c.patients.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Deleted %s.\n", id)
	return nil
}

func (c *Console) list(ctx context.Context) error {
	patients, err := c.patients.List(ctx)
	if err != nil {
		return err
	}
	if len(patients) == 0 {
		fmt.Fprintln(c.out, "No patients.")
		return nil
	}
	for _, p := range patients {
		fmt.Fprintf(c.out, "%-10s %-20s %-8s next dose %s\n", p.ID, p.Name, riskLabel(p), p.NextDoseAt.Format(timeLayout))
	}
	return nil
}

func riskLabel(p *internal.PatientRecord) string {
	if p.LastRisk == nil {
		return "-"
	}
	return p.LastRisk.Level.String()
}

func (c *Console) view(ctx context.Context) error {
	id, err := c.prompt("Patient ID")
	if err != nil {
		return err
	}
	p, err := c.patients.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "ID        : %s\n", p.ID)
	fmt.Fprintf(c.out, "Name      : %s\n", p.Name)
	fmt.Fprintf(c.out, "Disease   : %s\n", p.Disease)
	fmt.Fprintf(c.out, "Medicine  : %s every %dh, next at %s\n", p.Medicine, p.IntervalHours, p.NextDoseAt.Format(timeLayout))
	fmt.Fprintf(c.out, "Doctor    : %s / %s / %s\n", p.Doctor.Name, p.Doctor.Phone, p.Doctor.Email)
	if v := p.Vitals; v != nil && v.Complete() {
		fmt.Fprintf(c.out, "Vitals    : %d/%d mmHg, %d bpm\n", *v.Systolic, *v.Diastolic, *v.Pulse)
	}
	if r := p.LastRisk; r != nil {
		fmt.Fprintf(c.out, "Risk      : %s (%s) at %s\n", r.Level, r.Reason(), r.AssessedAt.Format(time.RFC3339))
	}
	if len(p.VitalsHistory) > 0 {
		fmt.Fprintf(c.out, "History   : %d reading(s)\n", len(p.VitalsHistory))
		for _, e := range p.VitalsHistory {
			fmt.Fprintf(c.out, "  %s  %s  %s\n", e.Risk.AssessedAt.Format(timeLayout), e.Risk.Level, e.Risk.Reason())
		}
	}
	return nil
}

func (c *Console) alerts(ctx context.Context) error {
	lines, err := c.patients.Alerts(ctx)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(c.out, "No alerts.")
		return nil
	}
	for _, l := range lines {
		fmt.Fprintln(c.out, l)
	}
	return nil
}

func (c *Console) runReminder(ctx context.Context) error { return c.runLoop(ctx, c.reminder) }
func (c *Console) runMonitor(ctx context.Context) error  { return c.runLoop(ctx, c.monitor) }

// runLoop blocks in the loop until interrupted, then returns to the menu.
func (c *Console) runLoop(ctx context.Context, loop Loop) error {
	loopCtx, stop := c.interrupt(ctx)
	defer stop()
	return loop.Run(loopCtx)
}
