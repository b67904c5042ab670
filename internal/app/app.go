// Package app assembles the stores, loops and services shared by the
// console and the HTTP server.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/yourname/wardwatch/internal"
	"github.com/yourname/wardwatch/internal/config"
	"github.com/yourname/wardwatch/internal/metrics"
	"github.com/yourname/wardwatch/internal/monitor"
	"github.com/yourname/wardwatch/internal/notify"
	"github.com/yourname/wardwatch/internal/service"
	"github.com/yourname/wardwatch/internal/storage"
)

type App struct {
	logger   internal.Logger
	store    storage.PatientStore
	registry *prometheus.Registry
	patients *service.Patients
	reminder *monitor.DoseReminder
	monitor  *monitor.RiskMonitor
}

// StorageOptions maps the configuration onto the backend factory.
func StorageOptions(cfg *config.Config) storage.Options {
	return storage.Options{
		Backend:     cfg.StorageBackend,
		File:        cfg.PatientsFile,
		SQLitePath:  cfg.SQLitePath,
		PostgresDSN: cfg.PostgresDSN,
		S3: storage.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Key:       cfg.S3Key,
			PathStyle: cfg.S3PathStyle,
		},
	}
}

// dataDirs lists the local directories the alert log and the selected
// backend write into.
func dataDirs(cfg *config.Config) []string {
	paths := []string{cfg.AlertsFile}
	switch cfg.StorageBackend {
	case storage.BackendFile, "":
		paths = append(paths, cfg.PatientsFile)
	case storage.BackendSQLite:
		paths = append(paths, cfg.SQLitePath)
	}
	var dirs []string
	for _, p := range paths {
		if dir := filepath.Dir(p); dir != "." && dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// New opens the configured store and wires everything on top of it.
// Operator-facing output (reminders, risk updates, alerts) goes to out.
func New(ctx context.Context, cfg *config.Config, logger internal.Logger, out io.Writer) (*App, error) {
	for _, dir := range dataDirs(cfg) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	store, err := storage.Open(ctx, StorageOptions(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StorageBackend, err)
	}
	alerts, err := storage.NewFileAlertLog(cfg.AlertsFile)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open alert log: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.New(reg)

	clock := internal.SystemClock{}
	guard := storage.NewGuard(store)
	notifier := notify.New(out, alerts, clock, logger, rec)

	return &App{
		logger:   logger,
		store:    store,
		registry: reg,
		patients: service.NewPatients(guard, alerts, notifier, clock, logger),
		reminder: monitor.NewDoseReminder(guard, out, monitor.Options{
			Clock: clock, Logger: logger, Metrics: rec, Interval: cfg.ReminderPoll,
		}),
		monitor: monitor.NewRiskMonitor(guard, notifier, out, monitor.Options{
			Clock: clock, Logger: logger, Metrics: rec, Interval: cfg.MonitorPoll,
		}),
	}, nil
}

func (a *App) Logger() internal.Logger         { return a.logger }
func (a *App) Patients() *service.Patients     { return a.patients }
func (a *App) Reminder() *monitor.DoseReminder { return a.reminder }
func (a *App) Monitor() *monitor.RiskMonitor   { return a.monitor }
func (a *App) Registry() *prometheus.Registry  { return a.registry }
func (a *App) Close() error                    { return a.store.Close() }
