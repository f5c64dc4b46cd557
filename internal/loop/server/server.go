// Package server hosts the shared side of multi-player breaching: who is
// connected and the leaderboard. Every player runs their own simulation; the
// hub only sees the stats they report.
package server

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/blackwall/internal/loop/config"
	"github.com/tomz197/blackwall/internal/save"
)

// ErrAlreadyConnected is returned when a username already has a live session.
var ErrAlreadyConnected = errors.New("player already connected")

// GameServer is the interface clients use to communicate with the hub.
// Decouples the Client from the concrete Hub so it can be tested alone.
type GameServer interface {
	Register(username string) (*ClientHandle, error)
	Unregister(clientID int)
	Report(clientID int, bank, yieldPerSecond float64)
	Snapshot() *Snapshot
}

// Ranker lists the richest stored saves, online or not.
type Ranker interface {
	Top(ctx context.Context, n int) ([]save.RankedSave, error)
}

// Hub tracks connected players and publishes the leaderboard.
type Hub struct {
	snapshot     atomic.Pointer[Snapshot]
	clients      map[int]*ClientHandle
	usernames    map[string]int
	stats        map[int]stats
	nextClientID int
	reportCh     chan report
	mu           sync.RWMutex

	ranker      Ranker
	offline     []save.RankedSave
	lastRefresh time.Time
	logger      *log.Logger
}

// Compile-time check that Hub implements GameServer.
var _ GameServer = (*Hub)(nil)

// ClientHandle represents a client's connection to the hub.
type ClientHandle struct {
	ID       int
	Username string
	EventsCh chan ClientEvent // Events sent to the client
}

// ClientEvent represents an event sent from the hub to a client.
type ClientEvent struct {
	Type ClientEventType
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventServerShutdown ClientEventType = iota
)

type report struct {
	clientID int
	stats    stats
}

// NewHub creates a hub. ranker may be nil, in which case only connected
// players are ranked.
func NewHub(ranker Ranker, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	h := &Hub{
		clients:      make(map[int]*ClientHandle),
		usernames:    make(map[string]int),
		stats:        make(map[int]stats),
		nextClientID: 1,
		reportCh:     make(chan report, 256),
		ranker:       ranker,
		logger:       logger,
	}
	h.snapshot.Store(&Snapshot{})
	return h
}

// Run refreshes the leaderboard at the hub tick rate. Blocks until the
// context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(config.HubTickTime)
	defer ticker.Stop()

	for {
		h.tick(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// tick folds pending reports into the stats and publishes a new snapshot.
func (h *Hub) tick(ctx context.Context) {
	h.collectReports()
	h.refreshOffline(ctx)
	h.createSnapshot()
}

// Shutdown gracefully shuts down the hub by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the hub context after Shutdown returns.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.mu.RLock()
	for _, handle := range h.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			if h.Players() == 0 {
				return
			}
		}
	}
}

// Register adds a client for username. A username can only be connected
// once at a time.
func (h *Hub) Register(username string) (*ClientHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, taken := h.usernames[username]; taken {
		return nil, ErrAlreadyConnected
	}

	handle := &ClientHandle{
		ID:       h.nextClientID,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}
	h.nextClientID++
	h.clients[handle.ID] = handle
	h.usernames[username] = handle.ID
	h.logger.Info("player connected", "player", username, "id", handle.ID)
	return handle, nil
}

// Unregister removes a client and closes its event channel.
func (h *Hub) Unregister(clientID int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, ok := h.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(h.clients, clientID)
	delete(h.usernames, handle.Username)
	delete(h.stats, clientID)
	h.logger.Info("player disconnected", "player", handle.Username, "id", clientID)
}

// Report sends a client's current stats to the hub.
func (h *Hub) Report(clientID int, bank, yieldPerSecond float64) {
	select {
	case h.reportCh <- report{clientID: clientID, stats: stats{bank: bank, yps: yieldPerSecond}}:
	default:
		// Report channel full, drop; the next frame reports again
	}
}

// Snapshot returns the current leaderboard snapshot.
func (h *Hub) Snapshot() *Snapshot {
	return h.snapshot.Load()
}

// Players returns the number of connected clients.
func (h *Hub) Players() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) collectReports() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for {
		select {
		case r := <-h.reportCh:
			// Reports racing an unregister are dropped
			if _, ok := h.clients[r.clientID]; ok {
				h.stats[r.clientID] = r.stats
			}
		default:
			return
		}
	}
}

// refreshOffline re-reads the stored leaderboard when it is stale.
func (h *Hub) refreshOffline(ctx context.Context) {
	if h.ranker == nil || time.Since(h.lastRefresh) < config.LeaderboardRefresh {
		return
	}
	h.lastRefresh = time.Now()

	// Fetch enough rows that connected players cannot crowd out everyone else.
	top, err := h.ranker.Top(ctx, config.LeaderboardSize+h.Players())
	if err != nil {
		h.logger.Error("failed to refresh leaderboard", "err", err)
		return
	}
	h.offline = top
}

// createSnapshot merges live stats with stored saves and publishes the result.
func (h *Hub) createSnapshot() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := make([]Entry, 0, len(h.clients)+len(h.offline))
	for id, handle := range h.clients {
		st := h.stats[id]
		entries = append(entries, Entry{
			Username:       handle.Username,
			Bank:           st.bank,
			YieldPerSecond: st.yps,
			Online:         true,
		})
	}
	for _, saved := range h.offline {
		if _, online := h.usernames[saved.Player]; online {
			continue
		}
		entries = append(entries, Entry{Username: saved.Player, Bank: saved.Bank})
	}

	h.snapshot.Store(&Snapshot{
		Players:     len(h.clients),
		Leaderboard: rankEntries(entries, config.LeaderboardSize),
	})
}
