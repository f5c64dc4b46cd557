package server

import (
	"cmp"
	"slices"
)

// Entry is a single leaderboard line.
type Entry struct {
	Username       string
	Bank           float64
	YieldPerSecond float64
	Online         bool
}

// Snapshot is an immutable view of the hub for rendering. Clients must not
// modify it.
type Snapshot struct {
	Players     int
	Leaderboard []Entry // Top entries, richest first
}

// stats is the last report of a connected player.
type stats struct {
	bank float64
	yps  float64
}

// rankEntries sorts entries richest first, ties by name, and keeps the top n.
func rankEntries(entries []Entry, n int) []Entry {
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := cmp.Compare(b.Bank, a.Bank); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
