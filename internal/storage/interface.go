package storage

import (
	"context"

	"github.com/yourname/wardwatch/internal"
)

// PatientStore loads and saves the whole record set. Load returns an empty
// set when the backing resource is absent or cannot be parsed.
type PatientStore interface {
	Load(ctx context.Context) (internal.PatientSet, error)
	Save(ctx context.Context, patients internal.PatientSet) error
	Close() error
}

// AlertLog is a durable, append-only sequence of single-line alerts.
type AlertLog interface {
	Append(ctx context.Context, line string) error
	Lines(ctx context.Context) ([]string, error)
}
