package game_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/blackwall/internal/game"
)

// fixedRand always answers its own value, clamped into range.
type fixedRand int

func (f fixedRand) IntN(n int) int {
	if int(f) >= n {
		return n - 1
	}
	return int(f)
}

func newGame(t *testing.T) *game.Game {
	t.Helper()
	return game.New(game.DefaultBalance(), fixedRand(20))
}

func TestClickYieldsBaseAmount(t *testing.T) {
	g := newGame(t)

	got := g.Click()

	assert.Equal(t, 1.0, got)
	assert.Equal(t, 1.0, g.Bank())
	assert.Equal(t, 1.0, g.LastClick())
	assert.True(t, g.FeedbackVisible())
}

func TestBuildingCostScalesGeometrically(t *testing.T) {
	g := newGame(t)
	g.Restore(game.Snapshot{Version: game.SaveVersion, Bank: 1e6, Multiplier: 1})

	for n := 0; n < 10; n++ {
		want := 15 * math.Pow(1.15, float64(n))
		assert.InDelta(t, want, g.BuildingCost(0), 1e-9, "unit %d", n)
		require.True(t, g.BuyBuilding(0))
	}

	b, ok := g.Building(0)
	require.True(t, ok)
	assert.Equal(t, 10, b.Count)
	assert.GreaterOrEqual(t, g.Bank(), 0.0)
}

func TestBuyBuildingRejectsUnaffordable(t *testing.T) {
	g := newGame(t)
	for i := 0; i < 14; i++ {
		g.Click()
	}

	assert.False(t, g.BuyBuilding(0))
	assert.Equal(t, 14.0, g.Bank())

	g.Click()
	assert.True(t, g.BuyBuilding(0))
	assert.Equal(t, 0.0, g.Bank())
	assert.InDelta(t, 0.1, g.BaseYield(), 1e-12)
}

func TestBuyBuildingIgnoresUnknownIndex(t *testing.T) {
	g := newGame(t)
	g.Restore(game.Snapshot{Version: game.SaveVersion, Bank: 1e30, Multiplier: 1})

	assert.False(t, g.BuyBuilding(-1))
	assert.False(t, g.BuyBuilding(g.NumBuildings()))
	assert.True(t, math.IsInf(g.BuildingCost(99), 1))
	assert.Equal(t, 1e30, g.Bank())
}

func TestBaseYieldIsSumOfOwnedSources(t *testing.T) {
	g := newGame(t)
	g.Restore(game.Snapshot{Version: game.SaveVersion, Bank: 1e9, Multiplier: 1})

	require.True(t, g.BuyBuilding(0))
	require.True(t, g.BuyBuilding(0))
	require.True(t, g.BuyBuilding(1))
	require.True(t, g.BuyBuilding(2))

	assert.InDelta(t, 2*0.1+1+8, g.BaseYield(), 1e-9)
}

func TestTickAccruesWithMultiplier(t *testing.T) {
	g := newGame(t)
	g.Restore(game.Snapshot{
		Version:    game.SaveVersion,
		Multiplier: 1.5,
		Counts:     []int{0, 2},
	})

	g.Tick(4)

	assert.InDelta(t, 2*1.0*4*1.5, g.Bank(), 1e-9)
	assert.InDelta(t, 3.0, g.YieldPerSecond(), 1e-9)
}

func TestTickIgnoresBadDelta(t *testing.T) {
	g := newGame(t)
	g.Restore(game.Snapshot{Version: game.SaveVersion, Multiplier: 1, Counts: []int{0, 1}})

	g.Tick(-3)
	g.Tick(math.NaN())

	assert.Equal(t, 0.0, g.Bank())
}

func TestBuyMultiplier(t *testing.T) {
	g := newGame(t)
	g.Restore(game.Snapshot{Version: game.SaveVersion, Bank: 2500, Multiplier: 1})

	assert.Equal(t, 1000.0, g.MultiplierCost())
	require.True(t, g.BuyMultiplier())
	assert.Equal(t, 1500.0, g.MultiplierCost())
	assert.InDelta(t, 1.1, g.Multiplier(), 1e-12)
	require.True(t, g.BuyMultiplier())
	assert.InDelta(t, 1.2, g.Multiplier(), 1e-12)
	assert.False(t, g.BuyMultiplier())
	assert.Equal(t, 0.0, g.Bank())
}

func TestBuyClickShareAddsYieldToClicks(t *testing.T) {
	g := newGame(t)
	g.Restore(game.Snapshot{Version: game.SaveVersion, Bank: 500, Multiplier: 2, Counts: []int{0, 10}})

	require.True(t, g.BuyClickShare())
	assert.InDelta(t, 0.01, g.ClickShare(), 1e-12)
	assert.InDelta(t, 900.0, g.ClickShareCost(), 1e-9)

	// 10 links * 1 D/s * x2 = 20 D/s, 1% of that is 0.2.
	assert.InDelta(t, 1.2, g.Click(), 1e-9)
}

func TestAutosaveEventEveryInterval(t *testing.T) {
	g := newGame(t)

	assert.False(t, g.Tick(29.5).Has(game.EventAutosave))
	assert.True(t, g.Tick(0.5).Has(game.EventAutosave))
	assert.False(t, g.Tick(1).Has(game.EventAutosave))
	assert.False(t, g.SavedNoticeVisible())

	g.MarkSaved()
	assert.True(t, g.SavedNoticeVisible())
	g.Tick(2)
	assert.False(t, g.SavedNoticeVisible())
}

func TestFeedbackExpires(t *testing.T) {
	g := newGame(t)
	g.Click()

	g.Tick(0.2)
	assert.True(t, g.FeedbackVisible())
	g.Tick(0.2)
	assert.False(t, g.FeedbackVisible())
}

func TestSnapshotRoundTrip(t *testing.T) {
	g := newGame(t)
	g.Restore(game.Snapshot{Version: game.SaveVersion, Bank: 1e7, Multiplier: 1})
	require.True(t, g.BuyBuilding(3))
	require.True(t, g.BuyMultiplier())
	require.True(t, g.BuyClickShare())

	snap := g.Snapshot()
	other := game.New(game.DefaultBalance(), rand.New(rand.NewPCG(1, 2)))
	require.True(t, other.Restore(snap))

	assert.Equal(t, snap, other.Snapshot())
	assert.Equal(t, g.BaseYield(), other.BaseYield())
}

func TestRestoreRejectsVersionMismatch(t *testing.T) {
	g := newGame(t)
	g.Click()
	before := g.Snapshot()

	ok := g.Restore(game.Snapshot{Version: 4, Bank: 1e9, Multiplier: 9, Counts: []int{5}})

	assert.False(t, ok)
	assert.Equal(t, before, g.Snapshot())
}

func TestRestoreRejectsNegativeCounts(t *testing.T) {
	g := newGame(t)

	assert.False(t, g.Restore(game.Snapshot{Version: game.SaveVersion, Multiplier: 1, Counts: []int{1, -1}}))
	assert.Equal(t, 0.0, g.BaseYield())
}

func TestRestoreRejectsNonFiniteValues(t *testing.T) {
	tests := []struct {
		name string
		snap game.Snapshot
	}{
		{"nan bank", game.Snapshot{Version: game.SaveVersion, Bank: math.NaN(), Multiplier: 1}},
		{"infinite bank", game.Snapshot{Version: game.SaveVersion, Bank: math.Inf(1), Multiplier: 1}},
		{"infinite multiplier", game.Snapshot{Version: game.SaveVersion, Multiplier: math.Inf(1)}},
		{"nan click share", game.Snapshot{Version: game.SaveVersion, Multiplier: 1, ClickShare: math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t)
			g.Click()
			before := g.Snapshot()

			assert.False(t, g.Restore(tt.snap))
			assert.Equal(t, before, g.Snapshot())
			assert.False(t, g.BuyBuilding(g.NumBuildings()-1))
		})
	}
}

func TestRestoreToleratesCatalogSizeChanges(t *testing.T) {
	g := newGame(t)
	counts := make([]int, g.NumBuildings()+3)
	counts[0] = 4

	require.True(t, g.Restore(game.Snapshot{Version: game.SaveVersion, Multiplier: 1, Counts: counts}))
	assert.InDelta(t, 0.4, g.BaseYield(), 1e-12)

	require.True(t, g.Restore(game.Snapshot{Version: game.SaveVersion, Multiplier: 1}))
	assert.Equal(t, 0.0, g.BaseYield())
}
