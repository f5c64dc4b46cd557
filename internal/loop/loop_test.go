package loop

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/blackwall/internal/game"
)

func runOptions(store *memStore) Options {
	return Options{
		Store:    store,
		Key:      "local",
		Rand:     fixedRand{},
		TermSize: func() (int, int, error) { return 100, 30, nil },
		NoColor:  true,
	}
}

func TestRunSavesOnQuit(t *testing.T) {
	store := newMemStore()
	var out bytes.Buffer

	err := Run(context.Background(), bufio.NewReader(strings.NewReader("  q")), &out, runOptions(store))
	require.NoError(t, err)

	snap, ok := store.get("local")
	require.True(t, ok)
	assert.Equal(t, 2.0, snap.Bank)
	assert.Contains(t, out.String(), "\033[?1049l", "alternate screen is left")
}

func TestRunQuitsOnEOF(t *testing.T) {
	store := newMemStore()
	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(), bufio.NewReader(strings.NewReader(" ")), io.Discard, runOptions(store))
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not stop at end of input")
	}
	snap, _ := store.get("local")
	assert.Equal(t, 1.0, snap.Bank)
}

func TestRunResumesSave(t *testing.T) {
	store := newMemStore()
	g := game.New(game.DefaultBalance(), fixedRand{})
	for range 1000 {
		g.Click()
	}
	require.NoError(t, store.Save(context.Background(), "local", g.Snapshot()))

	err := Run(context.Background(), bufio.NewReader(strings.NewReader("bq")), io.Discard, runOptions(store))
	require.NoError(t, err)

	snap, _ := store.get("local")
	assert.Equal(t, 0.0, snap.Bank)
	assert.Equal(t, 1, snap.MultipliersBought)
	assert.InDelta(t, 1.1, snap.Multiplier, 1e-9)
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	store := newMemStore()
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, bufio.NewReader(pr), io.Discard, runOptions(store))
	}()

	// Pipe writes return once the reader has taken the bytes.
	_, err := pw.Write([]byte("   "))
	require.NoError(t, err)
	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
	snap, ok := store.get("local")
	require.True(t, ok, "progress should be saved on interrupt")
	assert.Equal(t, 3.0, snap.Bank)
}
