package storage

import (
	"context"
	"fmt"

	"github.com/yourname/wardwatch/internal"
)

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
	BackendMemory   = "memory"
)

type Options struct {
	Backend     string
	File        string
	SQLitePath  string
	PostgresDSN string
	S3          S3Config
}

// Open builds the PatientStore selected by opts.Backend.
func Open(ctx context.Context, opts Options, logger internal.Logger) (PatientStore, error) {
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.File, logger)
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath, logger)
	case BackendPostgres:
		return NewPostgresStore(ctx, opts.PostgresDSN, logger)
	case BackendS3:
		return NewS3Store(ctx, opts.S3, logger)
	case BackendMemory:
		return NewMemoryStore(nil), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", opts.Backend)
	}
}
