package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourname/wardwatch/internal"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	logger := internal.NewNopLogger()
	dir := t.TempDir()

	s, err := Open(ctx, Options{Backend: BackendFile, File: filepath.Join(dir, "p.json")}, logger)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(ctx, Options{Backend: BackendSQLite, SQLitePath: filepath.Join(dir, "p.db")}, logger)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	s, err = Open(ctx, Options{Backend: BackendMemory}, logger)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = Open(ctx, Options{Backend: "floppy"}, logger)
	assert.Error(t, err)
}
