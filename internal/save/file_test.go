package save_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/blackwall/internal/save"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "save_data.dat")
	store := save.NewFileStore(path)

	want := sampleSnapshot()
	require.NoError(t, store.Save(ctx, "ignored", want))

	got, err := store.Load(ctx, "other key")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestFileStoreMissing(t *testing.T) {
	store := save.NewFileStore(filepath.Join(t.TempDir(), "none.dat"))

	_, err := store.Load(context.Background(), "")
	assert.ErrorIs(t, err, save.ErrNotFound)
}

func TestFileStoreVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.dat")
	require.NoError(t, os.WriteFile(path, []byte("4\n999\n"), 0o644))

	_, err := save.NewFileStore(path).Load(context.Background(), "")
	assert.ErrorIs(t, err, save.ErrVersionMismatch)
}

func TestNewFileStoreDefaultPath(t *testing.T) {
	assert.Equal(t, save.DefaultPath, save.NewFileStore("").Path)
}
