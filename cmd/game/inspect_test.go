package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/blackwall/internal/config"
	"github.com/tomz197/blackwall/internal/game"
	"github.com/tomz197/blackwall/internal/save"
)

func TestInspectPrintsSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save_data.dat")
	snap := game.Snapshot{
		Version:    game.SaveVersion,
		Bank:       12500,
		Multiplier: 1.2,
		Counts:     []int{3, 1},
	}
	require.NoError(t, save.NewFileStore(path).Save(context.Background(), "", snap))

	var out bytes.Buffer
	require.NoError(t, runInspect(context.Background(), &out, config.Game{SavePath: path}))

	assert.Contains(t, out.String(), "12.50K")
	assert.Contains(t, out.String(), "x1.20")
	assert.Contains(t, out.String(), "Ping")
	assert.Contains(t, out.String(), "Neural Link")
	assert.Contains(t, out.String(), "22.81", "next Ping costs 15 x 1.15^3")
}

func TestInspectMissingSave(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "none.dat")
	require.NoError(t, runInspect(context.Background(), &out, config.Game{SavePath: path}))
	assert.Contains(t, out.String(), "No save at")
}

func TestInspectReportsVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.dat")
	require.NoError(t, os.WriteFile(path, []byte("4\n100\n1\n0\n0\n0\n0\n"), 0o644))

	var out bytes.Buffer
	require.NoError(t, runInspect(context.Background(), &out, config.Game{SavePath: path}))
	assert.Contains(t, out.String(), "another version")
}

func TestInspectRejectsBadBalance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cost_scale: -1\n"), 0o644))

	err := runInspect(context.Background(), &bytes.Buffer{}, config.Game{BalancePath: path})
	assert.ErrorContains(t, err, "failed to load balance")
}

func TestRootFlagsOverrideEnvironment(t *testing.T) {
	cfg := config.Game{SavePath: "from-env.dat", LogLevel: "info"}
	cmd := newRootCmd(&cfg)
	require.NoError(t, cmd.ParseFlags([]string{"--save", "from-flag.dat", "--log-level", "debug"}))

	assert.Equal(t, "from-flag.dat", cfg.SavePath)
	assert.Equal(t, "debug", cfg.LogLevel)
}
