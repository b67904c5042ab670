package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/yourname/wardwatch/internal"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStore snapshots the record set into one table, one JSON payload per
// patient. Every Save replaces the table contents in a single transaction.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	path   string
	logger internal.Logger
}

func NewSQLiteStore(path string, logger internal.Logger) (*SQLiteStore, error) {
	if path == "" {
		path = "wardwatch.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS patients (
		id TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create patients table: %w", err)
	}
	return &SQLiteStore{db: db, path: path, logger: logger}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (internal.PatientSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, payload FROM patients`)
	if err != nil {
		return nil, fmt.Errorf("select patients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	patients := internal.PatientSet{}
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		p, err := decodeRecord(payload)
		if err != nil || p.ID != id {
			s.logger.Warnf("storage: skipping unreadable sqlite row %q: %v", id, err)
			continue
		}
		patients[id] = p
	}
	return patients, rows.Err()
}

func (s *SQLiteStore) Save(ctx context.Context, patients internal.PatientSet) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM patients`); err != nil {
		return fmt.Errorf("clear patients: %w", err)
	}
	for id, p := range patients {
		payload, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO patients (id, payload) VALUES (?, ?)`, id, payload); err != nil {
			return fmt.Errorf("insert %s: %w", id, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ PatientStore = (*SQLiteStore)(nil)
