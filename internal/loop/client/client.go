// Package client runs one SSH player's breach session against the shared hub.
package client

import (
	"bufio"
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/blackwall/internal/draw"
	"github.com/tomz197/blackwall/internal/game"
	"github.com/tomz197/blackwall/internal/input"
	"github.com/tomz197/blackwall/internal/loop"
	"github.com/tomz197/blackwall/internal/loop/config"
	"github.com/tomz197/blackwall/internal/loop/server"
	"github.com/tomz197/blackwall/internal/save"
)

// Client handles simulation, rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	session      *loop.Session
	styles       loop.Styles
	chunkWriter  *draw.ChunkWriter // Accumulates frames for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Store        save.Store
	Balance      game.Balance
	Logger       *log.Logger
	Rand         game.Rand
	NoColor      bool
}

// NewClient registers username with the hub and prepares its session. It
// fails with server.ErrAlreadyConnected when the username is already playing.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) (*Client, error) {
	handle, err := gs.Register(opts.Username)
	if err != nil {
		return nil, err
	}

	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	balance := opts.Balance
	if balance.Buildings == nil {
		balance = game.DefaultBalance()
	}

	logger = logger.With("player", opts.Username)
	session := loop.NewSession(game.New(balance, rng), opts.Store, opts.Username, logger)

	return &Client{
		server:       gs,
		handle:       handle,
		state:        NewClientState(),
		session:      session,
		styles:       loop.NewStyles(loop.NewRenderer(w, opts.NoColor)),
		chunkWriter:  draw.NewChunkWriter(w),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		logger:       logger,
	}, nil
}

// Run starts the client loop. Blocks until the client disconnects, ctx is
// done or the server stops. Progress is saved on the way out.
func (c *Client) Run(ctx context.Context) error {
	_ = c.session.Load(ctx)

	draw.EnterAltScreen(c.writer)
	draw.HideCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer func() {
		draw.ShowCursor(c.writer)
		draw.ExitAltScreen(c.writer)
	}()

	lastTime := time.Now()

	for c.state.Running && ctx.Err() == nil {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		c.processInput(ctx)

		// Check for server events
		c.processServerEvents(ctx)

		// Handle game state
		switch c.state.GameState {
		case GameStatePlaying:
			c.updatePlayingState(ctx)
		case GameStateShutdown:
			c.updateShutdownState()
		}

		// Draw frame
		if err := c.drawFrame(); err != nil {
			c.finish(ctx)
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}

	c.finish(ctx)
	draw.ClearScreen(c.writer)
	return nil
}

// finish saves and leaves the hub. The save must outlive a dropped connection.
func (c *Client) finish(ctx context.Context) {
	_ = c.session.Save(context.WithoutCancel(ctx))
	c.server.Unregister(c.handle.ID)
}

// processInput reads input and applies it to the session.
func (c *Client) processInput(ctx context.Context) {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive player")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.GameState == GameStateShutdown {
		if c.state.Input.Quit() {
			c.state.Running = false
		}
		return
	}
	if c.session.Apply(ctx, c.state.Input.Commands) {
		c.state.Running = false
	}
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents(ctx context.Context) {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Hub closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
				_ = c.session.Save(ctx)
			}
		default:
			return
		}
	}
}

// updatePlayingState advances the simulation and reports to the hub.
func (c *Client) updatePlayingState(ctx context.Context) {
	c.session.Advance(ctx, c.state.delta)
	g := c.session.Game
	c.server.Report(c.handle.ID, g.Bank(), g.YieldPerSecond())
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
