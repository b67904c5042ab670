package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/yourname/wardwatch/internal"
)

// FileStore keeps the record set in a single JSON document on disk.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger internal.Logger
}

func NewFileStore(path string, logger internal.Logger) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("storage: patients file path required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &FileStore{path: path, logger: logger}, nil
}

func (s *FileStore) Load(ctx context.Context) (internal.PatientSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return internal.PatientSet{}, nil
		}
		return nil, err
	}
	patients, err := decodeSet(data)
	if err != nil {
		if !errors.Is(err, errEmptyDocument) {
			s.logger.Warnf("storage: %s is unreadable, starting with an empty set: %v", s.path, err)
		}
		return internal.PatientSet{}, nil
	}
	return patients, nil
}

func (s *FileStore) Save(ctx context.Context, patients internal.PatientSet) error {
	data, err := encodeSet(patients)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := atomicWriteFile(s.path, data); err != nil {
		s.logger.Errorf("storage: error saving %s: %v", s.path, err)
		return err
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func atomicWriteFile(filePath string, data []byte) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

var _ PatientStore = (*FileStore)(nil)
