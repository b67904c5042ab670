package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/wardwatch/internal"
	"github.com/yourname/wardwatch/internal/config"
	"github.com/yourname/wardwatch/internal/service"
	"github.com/yourname/wardwatch/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Env:            "development",
		LogLevel:       "info",
		StorageBackend: storage.BackendFile,
		PatientsFile:   filepath.Join(dir, "data", "patients.json"),
		AlertsFile:     filepath.Join(dir, "data", "alerts.log"),
		SQLitePath:     filepath.Join(dir, "data", "wardwatch.db"),
		S3Key:          "patients.json",
		ReminderPoll:   10 * time.Second,
		MonitorPoll:    15 * time.Second,
	}
}

func TestStorageOptions(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageBackend = storage.BackendS3
	cfg.S3Bucket = "ward"
	cfg.S3PathStyle = true

	opts := StorageOptions(cfg)
	assert.Equal(t, storage.BackendS3, opts.Backend)
	assert.Equal(t, cfg.PatientsFile, opts.File)
	assert.Equal(t, "ward", opts.S3.Bucket)
	assert.Equal(t, "patients.json", opts.S3.Key)
	assert.True(t, opts.S3.PathStyle)
}

func TestNew_WiresFileBackend(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	out := &bytes.Buffer{}

	a, err := New(ctx, cfg, internal.NewNopLogger(), out)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Patients().Admit(ctx, service.AdmitRequest{ID: "p1", Name: "Asha", IntervalHours: 6})
	require.NoError(t, err)
	_, err = a.Patients().UpdateVitals(ctx, "p1", service.NewVitalsRequest(190, 100, 130))
	require.NoError(t, err)

	// a second process sees the same records and alert history
	b, err := New(ctx, cfg, internal.NewNopLogger(), &bytes.Buffer{})
	require.NoError(t, err)
	defer b.Close()
	list, err := b.Patients().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, internal.RiskHigh, list[0].LastRisk.Level)

	lines, err := b.Patients().Alerts(ctx)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
	assert.Contains(t, out.String(), "Asha")

	transitions, err := a.Monitor().Tick(ctx)
	require.NoError(t, err)
	assert.Empty(t, transitions, "level already recorded by the manual update")

	families, err := a.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestDataDirs(t *testing.T) {
	cfg := &config.Config{
		PatientsFile: "records/patients.json",
		AlertsFile:   "logs/alerts.log",
		SQLitePath:   "db/wardwatch.db",
	}
	for backend, want := range map[string][]string{
		storage.BackendFile:     {"logs", "records"},
		"":                      {"logs", "records"},
		storage.BackendSQLite:   {"logs", "db"},
		storage.BackendPostgres: {"logs"},
		storage.BackendS3:       {"logs"},
		storage.BackendMemory:   {"logs"},
	} {
		cfg.StorageBackend = backend
		assert.Equal(t, want, dataDirs(cfg), "backend %q", backend)
	}

	cfg.AlertsFile = "alerts.log"
	cfg.StorageBackend = storage.BackendPostgres
	assert.Empty(t, dataDirs(cfg))
}

func TestNew_OnlyCreatesSelectedBackendDirs(t *testing.T) {
	root := t.TempDir()
	cfg := testConfig(t)
	cfg.StorageBackend = storage.BackendMemory
	cfg.PatientsFile = filepath.Join(root, "records", "patients.json")
	cfg.SQLitePath = filepath.Join(root, "db", "wardwatch.db")
	cfg.AlertsFile = filepath.Join(root, "logs", "alerts.log")

	a, err := New(context.Background(), cfg, internal.NewNopLogger(), &bytes.Buffer{})
	require.NoError(t, err)
	defer a.Close()

	assert.DirExists(t, filepath.Join(root, "logs"))
	assert.NoDirExists(t, filepath.Join(root, "records"))
	assert.NoDirExists(t, filepath.Join(root, "db"))
}

func TestNew_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageBackend = "tape"
	_, err := New(context.Background(), cfg, internal.NewNopLogger(), &bytes.Buffer{})
	assert.Error(t, err)
}
