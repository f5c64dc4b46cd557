// Package loop runs a breach session in a terminal: input, simulation,
// persistence and rendering.
package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/blackwall/internal/draw"
	"github.com/tomz197/blackwall/internal/game"
	"github.com/tomz197/blackwall/internal/input"
	"github.com/tomz197/blackwall/internal/loop/config"
	"github.com/tomz197/blackwall/internal/save"
)

// Options configures a local run.
type Options struct {
	Store    save.Store
	Key      string // Save key; empty for a file store
	Balance  game.Balance
	Logger   *log.Logger
	Rand     game.Rand
	TermSize draw.TermSizeFunc
	NoColor  bool
}

func (o Options) withDefaults() Options {
	if o.Balance.Buildings == nil {
		o.Balance = game.DefaultBalance()
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.TermSize == nil {
		o.TermSize = draw.DefaultTermSizeFunc
	}
	return o
}

// Run starts the single-player loop with the standard Input → Update → Draw
// cycle. It returns when the player quits, the input ends or ctx is done, and
// saves before returning.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts Options) error {
	opts = opts.withDefaults()
	session := NewSession(game.New(opts.Balance, opts.Rand), opts.Store, opts.Key, opts.Logger)
	_ = session.Load(ctx)

	stream := input.StartStream(r)
	cw := draw.NewChunkWriter(w)
	styles := NewStyles(NewRenderer(w, opts.NoColor))

	draw.EnterAltScreen(w)
	draw.HideCursor(w)
	draw.ClearScreen(w)
	defer func() {
		draw.ShowCursor(w)
		draw.ExitAltScreen(w)
	}()

	// The final save must outlive an interrupt.
	defer session.Save(context.WithoutCancel(ctx))

	lastTime := time.Now()
	for ctx.Err() == nil {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		// ===== INPUT PHASE =====
		in := input.ReadInput(stream)
		if session.Apply(ctx, in.Commands) {
			break
		}

		// ===== UPDATE PHASE =====
		session.Advance(ctx, delta)

		// ===== DRAW PHASE =====
		width, height, err := draw.TerminalSizeRawWith(opts.TermSize)
		if err != nil {
			width, height = config.MaxTermWidth, config.MaxTermHeight
		}
		cw.WriteFrame(Render(session, View{Width: width, Height: height}, styles))
		if err := cw.Flush(); err != nil {
			return fmt.Errorf("failed to draw frame: %w", err)
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(w)
	return nil
}
