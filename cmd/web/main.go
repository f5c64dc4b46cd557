package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomz197/blackwall/internal/config"
	"github.com/tomz197/blackwall/internal/save"
)

func main() {
	var cfg config.Web
	if err := config.ParseEnv(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(os.Stderr, cfg.LogLevel, "web")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	store, err := save.OpenSQLite(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open save database", "err", err)
	}
	defer store.Close()

	h := &handler{
		ranker:     store,
		sshCommand: cfg.SSHCommand(),
		logger:     logger,
	}
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting web server", "addr", "http://"+cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down web server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
