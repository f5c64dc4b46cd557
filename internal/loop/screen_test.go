package loop

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/blackwall/internal/game"
	"github.com/tomz197/blackwall/internal/input"
	"github.com/tomz197/blackwall/internal/loop/config"
)

func plainStyles() Styles {
	return NewStyles(NewRenderer(io.Discard, true))
}

// render draws s without any escape sequences.
func render(s *Session, v View) string {
	return ansi.Strip(Render(s, v, plainStyles()))
}

// spawnRand makes the first cache spawn immediately.
type spawnRand struct{}

func (spawnRand) IntN(int) int { return 0 }

func TestRenderShowsStatsAndShop(t *testing.T) {
	s := newSession(t, nil)
	s.Apply(context.Background(), clicks(20))

	out := render(s, View{Width: 120, Height: 40})

	assert.Contains(t, out, "BLACKWALL BREACH")
	assert.Contains(t, out, "20.00")
	assert.Contains(t, out, "[ BLACK MARKET ]")
	assert.Contains(t, out, "Ping")
	assert.Contains(t, out, "Cost: 15.00 DATA")
	assert.Contains(t, out, "+++ BREACHED FOR: 1.00 DATA +++")
	assert.Contains(t, out, "x1.00")
}

func TestRenderFitsTerminal(t *testing.T) {
	s := newSession(t, nil)
	sizes := []struct{ w, h int }{
		{120, 40},
		{80, 24},
		{50, 30},
		{200, 60},
		{0, 0},
	}
	for _, size := range sizes {
		out := render(s, View{Width: size.w, Height: size.h})
		wantW, wantH := size.w, size.h
		if wantW <= 0 || wantW > config.MaxTermWidth {
			wantW = config.MaxTermWidth
		}
		if wantH <= 0 || wantH > config.MaxTermHeight {
			wantH = config.MaxTermHeight
		}
		assert.LessOrEqual(t, lipgloss.Width(out), wantW, "width for %dx%d", size.w, size.h)
		assert.LessOrEqual(t, lipgloss.Height(out), wantH, "height for %dx%d", size.w, size.h)
	}
}

func TestRenderMarksCursorRow(t *testing.T) {
	s := newSession(t, nil)
	s.Apply(context.Background(), []input.Command{{Action: input.ActionCursorDown}})

	out := render(s, View{Width: 120, Height: 40})
	assert.Contains(t, out, "> [2] Neural Link")
	assert.Contains(t, out, "  [1] Ping")
}

func TestRenderShowsSignalPrompt(t *testing.T) {
	s := NewSession(game.New(game.DefaultBalance(), spawnRand{}), nil, "v", nil)
	s.Game.Tick(0.1)
	require.True(t, func() bool { c := s.Game.Cache(); return c.Available() }())

	out := render(s, View{Width: 120, Height: 40})
	assert.Contains(t, out, "ANOMALOUS SIGNAL DETECTED")

	s.Apply(context.Background(), []input.Command{{Action: input.ActionCatch}})
	out = render(s, View{Width: 120, Height: 40})
	assert.NotContains(t, out, "ANOMALOUS SIGNAL DETECTED")
	assert.Contains(t, out, "BREACH PROTOCOL: 777x DATA MINING FOR 30s! (30s)")
}

func TestRenderShowsSavedNotice(t *testing.T) {
	s := newSession(t, newMemStore())
	require.NoError(t, s.Save(context.Background()))

	out := render(s, View{Width: 120, Height: 40})
	assert.Contains(t, out, "[ SYSTEM: PROGRESS SAVED ]")
}

func TestRenderLeaderboard(t *testing.T) {
	s := newSession(t, nil)
	view := View{
		Width:  120,
		Height: 40,
		Online: 2,
		Leaderboard: []LeaderRow{
			{Name: "judy", Bank: 12500, Online: true},
			{Name: "a-very-long-netrunner-handle", Bank: 10},
			{Name: "v", Bank: 1, Online: true, Self: true},
		},
	}
	out := render(s, view)

	assert.Contains(t, out, "[ NETRUNNERS ONLINE: 2 ]")
	assert.Contains(t, out, "1.*judy")
	assert.Contains(t, out, "12.50K")
	assert.Contains(t, out, "a-very-long-netr ")
	assert.NotContains(t, out, "a-very-long-netrunner-handle")
}

func TestRenderLeaderboardTruncatesWideNames(t *testing.T) {
	s := newSession(t, nil)
	view := View{
		Width:       120,
		Height:      40,
		Online:      1,
		Leaderboard: []LeaderRow{{Name: "ルーシールーシールーシー", Bank: 7, Online: true}},
	}
	out := render(s, view)

	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, "1.*ルーシールーシー 7.00")
	assert.NotContains(t, out, "ルーシールーシール")
}

func TestRenderNoticeReplacesGame(t *testing.T) {
	s := newSession(t, nil)
	view := View{
		Width:  100,
		Height: 30,
		Notice: &Notice{Title: "SERVER SHUTTING DOWN", Lines: []string{"Bye"}},
	}
	out := render(s, view)

	assert.Contains(t, out, "SERVER SHUTTING DOWN")
	assert.Contains(t, out, "Bye")
	assert.NotContains(t, out, "[ BLACK MARKET ]")
}

func TestRenderStacksOnNarrowTerminal(t *testing.T) {
	s := newSession(t, nil)
	out := render(s, View{Width: 50, Height: 40})

	lines := strings.Split(out, "\n")
	terminal, market := -1, -1
	for i, line := range lines {
		if strings.Contains(line, "[ TERMINAL ]") {
			terminal = i
		}
		if strings.Contains(line, "[ BLACK MARKET ]") {
			market = i
		}
	}
	require.NotEqual(t, -1, terminal)
	require.NotEqual(t, -1, market)
	assert.Less(t, terminal, market, "shop is stacked below the stats")
}

func TestWindowKeepsCursorVisible(t *testing.T) {
	tests := []struct {
		n, cursor, visible int
		start, end         int
	}{
		{13, 0, 20, 0, 13},
		{13, 0, 5, 0, 5},
		{13, 6, 5, 4, 9},
		{13, 12, 5, 8, 13},
		{13, 12, 1, 12, 13},
	}
	for _, tt := range tests {
		start, end := window(tt.n, tt.cursor, tt.visible)
		assert.Equal(t, tt.start, start, "start for %+v", tt)
		assert.Equal(t, tt.end, end, "end for %+v", tt)
		assert.True(t, tt.cursor >= start && tt.cursor < end)
	}
}

func TestRenderBankGraph(t *testing.T) {
	s := newSession(t, nil)
	out := render(s, View{Width: 120, Height: 40})
	assert.NotContains(t, out, "DATA BANK, LAST")

	s.Advance(context.Background(), 0)
	s.Apply(context.Background(), clicks(10))
	s.Advance(context.Background(), time.Second)

	out = render(s, View{Width: 120, Height: 40})
	assert.Contains(t, out, "DATA BANK, LAST 1s:")
	assert.Contains(t, out, "▀")
	assert.Contains(t, out, "▄")
}
