package client

import (
	"time"

	"github.com/tomz197/blackwall/internal/input"
)

// GameState represents the current phase for a client.
type GameState int

const (
	GameStatePlaying  GameState = iota // Breaching
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-connection loop state. The simulation itself lives in
// the client's session.
type ClientState struct {
	Input         input.Input
	GameState     GameState     // This client's phase
	Running       bool          // Client loop running
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStatePlaying,
		Running:   true,
	}
}
