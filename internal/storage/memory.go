package storage

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/yourname/wardwatch/internal"
)

// MemoryStore is a process-local PatientStore. LoadErr and SaveErr, when set,
// are returned instead of touching the data.
type MemoryStore struct {
	mu       sync.Mutex
	patients internal.PatientSet

	LoadErr error
	SaveErr error

	loads int32
	saves int32
}

func NewMemoryStore(seed internal.PatientSet) *MemoryStore {
	if seed == nil {
		seed = internal.PatientSet{}
	}
	return &MemoryStore{patients: seed.Clone()}
}

func (m *MemoryStore) Load(ctx context.Context) (internal.PatientSet, error) {
	atomic.AddInt32(&m.loads, 1)
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.patients.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, patients internal.PatientSet) error {
	atomic.AddInt32(&m.saves, 1)
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	m.patients = patients.Clone()
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Loads() int { return int(atomic.LoadInt32(&m.loads)) }
func (m *MemoryStore) Saves() int { return int(atomic.LoadInt32(&m.saves)) }

var _ PatientStore = (*MemoryStore)(nil)

// MemoryAlertLog keeps alert lines in memory.
type MemoryAlertLog struct {
	mu        sync.Mutex
	lines     []string
	AppendErr error
}

func NewMemoryAlertLog() *MemoryAlertLog {
	return &MemoryAlertLog{}
}

func (l *MemoryAlertLog) Append(ctx context.Context, line string) error {
	if l.AppendErr != nil {
		return l.AppendErr
	}
	l.mu.Lock()
	l.lines = append(l.lines, line)
	l.mu.Unlock()
	return nil
}

func (l *MemoryAlertLog) Lines(ctx context.Context) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.lines...), nil
}

var _ AlertLog = (*MemoryAlertLog)(nil)
