package save_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/blackwall/internal/game"
	"github.com/tomz197/blackwall/internal/save"
)

func sampleSnapshot() game.Snapshot {
	return game.Snapshot{
		Version:           game.SaveVersion,
		Bank:              123456.789012345,
		Multiplier:        1.3000000000000003,
		BaseYield:         57.3,
		MultipliersBought: 3,
		ClickSharesBought: 2,
		ClickShare:        0.02,
		Counts:            []int{12, 5, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	}
}

func TestEncodeLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, save.Encode(&buf, game.Snapshot{
		Version:    game.SaveVersion,
		Bank:       42.5,
		Multiplier: 1,
		Counts:     []int{3, 1},
	}))

	assert.Equal(t, "5\n42.5\n1\n0\n0\n0\n0\n3\n1\n", buf.String())
}

func TestEncodeDecodeIsLossless(t *testing.T) {
	want := sampleSnapshot()
	var buf bytes.Buffer
	require.NoError(t, save.Encode(&buf, want))

	got, err := save.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeVersionMismatch(t *testing.T) {
	_, err := save.Decode(strings.NewReader("4\n100\n1\n"))
	assert.ErrorIs(t, err, save.ErrVersionMismatch)
}

func TestDecodeAcceptsAnyWhitespace(t *testing.T) {
	got, err := save.Decode(strings.NewReader("5 10 1.1\t2\n1 0 0.00 7 8"))
	require.NoError(t, err)

	assert.Equal(t, 10.0, got.Bank)
	assert.Equal(t, 1.1, got.Multiplier)
	assert.Equal(t, []int{7, 8}, got.Counts)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"version not a number", "five\n"},
		{"truncated", "5\n10\n1\n"},
		{"bad float", "5\nlots\n1\n0\n0\n0\n0\n"},
		{"nan bank", "5\nNaN\n1\n0\n0\n0\n0\n"},
		{"infinite bank", "5\n+Inf\n1\n0\n0\n0\n0\n"},
		{"infinite multiplier", "5\n10\n-Inf\n0\n0\n0\n0\n"},
		{"nan click share", "5\n10\n1\n0\n0\n0\nnan\n"},
		{"negative purchases", "5\n10\n1\n0\n-1\n0\n0\n"},
		{"negative count", "5\n10\n1\n0\n0\n0\n0\n3\n-2\n"},
		{"garbage count", "5\n10\n1\n0\n0\n0\n0\nx\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := save.Decode(strings.NewReader(tt.input))
			assert.Error(t, err)
			assert.NotErrorIs(t, err, save.ErrVersionMismatch)
		})
	}
}
