package storage

import (
	"context"
	"sync"

	"github.com/yourname/wardwatch/internal"
)

// Guard serializes load-mutate-save cycles against one store so that loops
// and interactive edits never interleave inside a cycle.
type Guard struct {
	store PatientStore
	mu    sync.Mutex
}

func NewGuard(store PatientStore) *Guard {
	return &Guard{store: store}
}

func (g *Guard) Store() PatientStore { return g.store }

// View loads the set and hands it to fn. Changes made by fn are discarded.
func (g *Guard) View(ctx context.Context, fn func(internal.PatientSet) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	patients, err := g.store.Load(ctx)
	if err != nil {
		return err
	}
	return fn(patients)
}

// Update loads the set, applies fn and writes the whole set back once if fn
// reports a change. Nothing is written when fn fails.
func (g *Guard) Update(ctx context.Context, fn func(internal.PatientSet) (bool, error)) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	patients, err := g.store.Load(ctx)
	if err != nil {
		return err
	}
	changed, err := fn(patients)
	if err != nil || !changed {
		return err
	}
	return g.store.Save(ctx, patients)
}
