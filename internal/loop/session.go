package loop

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/blackwall/internal/game"
	"github.com/tomz197/blackwall/internal/input"
	"github.com/tomz197/blackwall/internal/loop/config"
	"github.com/tomz197/blackwall/internal/save"
)

// ErrSaveRejected means a stored snapshot decoded but could not be applied.
var ErrSaveRejected = errors.New("save rejected")

// Session is one player's run: the simulation, where it is saved, and the
// shop cursor. Gameplay failures never surface to the player; they are logged.
type Session struct {
	Game   *game.Game
	Cursor int    // Highlighted shop row
	Bank   *Trace // Recent DATA bank, drawn as a graph

	store  save.Store
	key    string
	logger *log.Logger
}

// NewSession binds g to a store under key. A nil logger discards output.
func NewSession(g *game.Game, store save.Store, key string, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		Game:   g,
		Bank:   NewTrace(config.TraceSamples, config.TraceInterval),
		store:  store,
		key:    key,
		logger: logger,
	}
}

// Key returns the save key (player name) of the session.
func (s *Session) Key() string {
	return s.key
}

// Apply performs commands in order and reports whether one asked to quit.
func (s *Session) Apply(ctx context.Context, cmds []input.Command) (quit bool) {
	for _, c := range cmds {
		switch c.Action {
		case input.ActionQuit:
			quit = true
		case input.ActionClick:
			s.Game.Click()
		case input.ActionBuyMultiplier:
			s.Game.BuyMultiplier()
		case input.ActionBuyClickShare:
			s.Game.BuyClickShare()
		case input.ActionBuyBuilding:
			if c.Index < s.Game.NumBuildings() {
				s.Cursor = c.Index
			}
			s.Game.BuyBuilding(c.Index)
		case input.ActionBuySelected:
			s.Game.BuyBuilding(s.Cursor)
		case input.ActionCursorUp:
			s.moveCursor(-1)
		case input.ActionCursorDown:
			s.moveCursor(1)
		case input.ActionSave:
			_ = s.Save(ctx)
		case input.ActionLoad:
			_ = s.Load(ctx)
		case input.ActionCatch:
			if s.Game.CatchCache() {
				s.logger.Debug("cache intercepted", "player", s.key)
			}
		}
	}
	return quit
}

// Advance runs the simulation for dt and performs the autosave it asks for.
func (s *Session) Advance(ctx context.Context, dt time.Duration) game.Event {
	ev := s.Game.Tick(dt.Seconds())
	s.Bank.Observe(dt, s.Game.Bank())
	if ev.Has(game.EventAutosave) {
		_ = s.Save(ctx)
	}
	if ev.Has(game.EventCacheSpawned) {
		s.logger.Debug("cache spawned", "player", s.key)
	}
	if ev.Has(game.EventCacheExpired) {
		s.logger.Debug("cache expired uncaught", "player", s.key)
	}
	return ev
}

// Save persists the game and shows the saved notice on success.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, s.key, s.Game.Snapshot()); err != nil {
		s.logger.Error("save failed", "player", s.key, "err", err)
		return err
	}
	s.Game.MarkSaved()
	s.logger.Debug("progress saved", "player", s.key, "bank", s.Game.Bank())
	return nil
}

// Load replaces the game state with the stored one. Missing and incompatible
// saves leave the state untouched.
func (s *Session) Load(ctx context.Context) error {
	if s.store == nil {
		return save.ErrNotFound
	}
	snap, err := s.store.Load(ctx, s.key)
	switch {
	case errors.Is(err, save.ErrNotFound):
		s.logger.Debug("no save to load", "player", s.key)
		return err
	case errors.Is(err, save.ErrVersionMismatch):
		s.logger.Warn("ignoring save from another version", "player", s.key, "err", err)
		return err
	case err != nil:
		s.logger.Error("load failed", "player", s.key, "err", err)
		return err
	}
	if !s.Game.Restore(snap) {
		s.logger.Warn("ignoring invalid save", "player", s.key)
		return ErrSaveRejected
	}
	s.Bank.Reset()
	s.logger.Info("progress loaded", "player", s.key, "bank", s.Game.Bank())
	return nil
}

func (s *Session) moveCursor(delta int) {
	n := s.Game.NumBuildings()
	if n == 0 {
		return
	}
	s.Cursor = ((s.Cursor+delta)%n + n) % n
}
