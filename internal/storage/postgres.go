package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yourname/wardwatch/internal"
)

type PostgresStore struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStore(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS patients (
		id TEXT PRIMARY KEY,
		doc JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`); err != nil {
		pool.Close()
		logger.Errorf("failed to create patients table: %v", err)
		return nil, err
	}
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (p *PostgresStore) Load(ctx context.Context) (internal.PatientSet, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, doc FROM patients`)
	if err != nil {
		p.logger.Errorf("failed to query patients: %v", err)
		return nil, err
	}
	defer rows.Close()

	patients := internal.PatientSet{}
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			p.logger.Errorf("failed to scan patient: %v", err)
			return nil, err
		}
		rec, err := decodeRecord(doc)
		if err != nil || rec.ID != id {
			p.logger.Warnf("skipping unreadable patient row %q: %v", id, err)
			continue
		}
		patients[id] = rec
	}
	return patients, rows.Err()
}

// Save replaces the stored set: rows missing from patients are removed and
// the rest are upserted, all in one transaction.
func (p *PostgresStore) Save(ctx context.Context, patients internal.PatientSet) error {
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		ids := make([]string, 0, len(patients))
		for id := range patients {
			ids = append(ids, id)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM patients WHERE NOT (id = ANY($1))`, ids); err != nil {
			p.logger.Errorf("failed to prune patients: %v", err)
			return err
		}
		batch := &pgx.Batch{}
		for id, rec := range patients {
			doc, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encode %s: %w", id, err)
			}
			batch.Queue(`INSERT INTO patients (id, doc, updated_at) VALUES ($1, $2, $3)
				ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
				id, doc, rec.UpdatedAt)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			p.logger.Errorf("failed to upsert patients: %v", err)
			return err
		}
		return nil
	})
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

var _ PatientStore = (*PostgresStore)(nil)
