// Package config centralizes the tunables of the terminal loops.
// Simulation balance lives in game.Balance.
package config

import "time"

// Client rendering
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS // ~16ms between frames
)

// Hub tick rate (leaderboard refresh)
const (
	HubTickRate = 4
	HubTickTime = time.Second / HubTickRate
)

// Layout
const (
	MinTermWidth  = 60 // Below this the panels are stacked
	MaxTermWidth  = 120
	MaxTermHeight = 40
)

// Leaderboard
const (
	LeaderboardSize    = 5
	LeaderboardRefresh = 5 * time.Second // How often offline players are re-read from the store
	MaxUsernameLength  = 16              // Maximum display length for player usernames
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
	ShutdownTimeout        = 15 * time.Second
)

// Inactivity (SSH sessions only; the game keeps accruing while idle)
const (
	InactivityWarnUser       = 15 * 60 // Seconds
	InactivityDisconnectUser = 20 * 60 // Seconds
)

// Bank history graph
const (
	TraceSamples  = 60          // One sample per TraceInterval
	TraceInterval = time.Second // Sampling period of the bank history
	GraphHeight   = 3           // Rows; each row holds two pixels
)
