package save

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tomz197/blackwall/internal/game"
)

// DefaultPath is where the local game keeps its save.
const DefaultPath = "save_data.dat"

// FileStore keeps a single save at a fixed path. Keys are ignored.
type FileStore struct {
	Path string
}

// NewFileStore returns a store writing to path (DefaultPath when empty).
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{Path: path}
}

// Compile-time check that FileStore implements Store.
var _ Store = (*FileStore)(nil)

// Save writes the snapshot through a temporary file so a crash never leaves
// a truncated save behind.
func (f *FileStore) Save(_ context.Context, _ string, s game.Snapshot) error {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return fmt.Errorf("encode save: %w", err)
	}

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create save directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close save: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("replace save: %w", err)
	}
	return nil
}

// Load reads the save. A missing file yields ErrNotFound.
func (f *FileStore) Load(_ context.Context, _ string) (game.Snapshot, error) {
	file, err := os.Open(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return game.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("open save: %w", err)
	}
	defer file.Close()

	s, err := Decode(file)
	if err != nil {
		return game.Snapshot{}, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	return s, nil
}
