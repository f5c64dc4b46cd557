package game

import "math"

// SaveVersion tags persisted snapshots. Saves with another version are discarded.
const SaveVersion = 5

// Snapshot is the persisted part of a Game.
type Snapshot struct {
	Version           int
	Bank              float64
	Multiplier        float64
	BaseYield         float64 // Informational; recomputed from Counts on restore
	MultipliersBought int
	ClickSharesBought int
	ClickShare        float64
	Counts            []int // Owned units per source, in catalog order
}

// Snapshot captures the persisted state.
func (g *Game) Snapshot() Snapshot {
	counts := make([]int, len(g.buildings))
	for i := range g.buildings {
		counts[i] = g.buildings[i].Count
	}
	return Snapshot{
		Version:           SaveVersion,
		Bank:              g.bank,
		Multiplier:        g.multiplier,
		BaseYield:         g.baseYield,
		MultipliersBought: g.multipliersBought,
		ClickSharesBought: g.clickSharesBought,
		ClickShare:        g.clickShare,
		Counts:            counts,
	}
}

// Restore replaces the persisted state with s. A snapshot with a different
// version, or with negative values, is ignored and Restore returns false.
// Counts beyond the catalog are dropped; missing counts become zero.
// Transient effects (feedback, boost, cache) are left running.
func (g *Game) Restore(s Snapshot) bool {
	if s.Version != SaveVersion || !s.valid() {
		return false
	}
	g.bank = s.Bank
	g.multiplier = s.Multiplier
	g.multipliersBought = s.MultipliersBought
	g.clickSharesBought = s.ClickSharesBought
	g.clickShare = s.ClickShare
	for i := range g.buildings {
		g.buildings[i].Count = 0
		if i < len(s.Counts) {
			g.buildings[i].Count = s.Counts[i]
		}
	}
	g.recomputeYield()
	return true
}

func (s Snapshot) valid() bool {
	if !finite(s.Bank) || !finite(s.Multiplier) || !finite(s.ClickShare) {
		return false
	}
	if s.Bank < 0 || s.Multiplier < 0 || s.ClickShare < 0 ||
		s.MultipliersBought < 0 || s.ClickSharesBought < 0 {
		return false
	}
	for _, c := range s.Counts {
		if c < 0 {
			return false
		}
	}
	return true
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
