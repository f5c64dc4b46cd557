package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/blackwall/internal/config"
	"github.com/tomz197/blackwall/internal/draw"
	"github.com/tomz197/blackwall/internal/game"
	"github.com/tomz197/blackwall/internal/loop/client"
	loopconfig "github.com/tomz197/blackwall/internal/loop/config"
	"github.com/tomz197/blackwall/internal/loop/server"
	"github.com/tomz197/blackwall/internal/save"
)

// app holds what every SSH session shares.
type app struct {
	hub     *server.Hub
	store   *save.SQLiteStore
	balance game.Balance
	logger  *log.Logger
	noColor bool
}

func main() {
	var cfg config.SSH
	if err := config.ParseEnv(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(os.Stderr, cfg.LogLevel, "ssh")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		logger.Warn("failed to get working directory", "err", workErr)
	}
	logger.Info("ssh config", "addr", cfg.Addr(), "hostKeyPath", cfg.HostKeyPath, "db", cfg.DBPath, "workingDir", workingDir)

	balance := game.DefaultBalance()
	if cfg.BalancePath != "" {
		if balance, err = game.LoadBalance(cfg.BalancePath); err != nil {
			logger.Fatal("failed to load balance", "path", cfg.BalancePath, "err", err)
		}
	}

	store, err := save.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open save database", "err", err)
	}
	defer store.Close()

	// Shared hub: connected players and the leaderboard
	hubCtx, cancelHub := context.WithCancel(context.Background())
	a := &app{
		hub:     server.NewHub(store, logger.WithPrefix("hub")),
		store:   store,
		balance: balance,
		logger:  logger,
		noColor: cfg.NoColor,
	}
	go a.hub.Run(hubCtx)
	logger.Info("hub started")

	opts := []ssh.Option{
		wish.WithAddress(cfg.Addr()),
		wish.WithMiddleware(
			a.gameMiddleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if cfg.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.HostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting ssh server", "addr", cfg.Addr())
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")

	// Notify players, give them time to see their progress was saved, then stop the hub
	logger.Info("notifying connected players about shutdown", "players", a.hub.Players())
	a.hub.Shutdown(loopconfig.ShutdownTimeout)
	cancelHub()
	logger.Info("hub stopped")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}

// gameMiddleware handles SSH sessions and runs the game client.
func (a *app) gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		logger := a.logger.With("player", sess.User())
		logger.Info("new game session", "terminal", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		reader := bufio.NewReader(sess)
		clientOpts := client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Store:        a.store,
			Balance:      a.balance,
			Logger:       a.logger,
			NoColor:      a.noColor,
		}

		c, err := client.NewClient(a.hub, reader, sess, clientOpts)
		if errors.Is(err, server.ErrAlreadyConnected) {
			fmt.Fprintf(sess, "%s is already breaching from another terminal.\r\n", sess.User())
			logger.Warn("refused second session")
			return
		}
		if err != nil {
			logger.Error("failed to start client", "err", err)
			return
		}

		if err := c.Run(sess.Context()); err != nil {
			logger.Error("game error", "err", err)
		}

		logger.Info("session ended")
		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
