package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tomz197/blackwall/internal/config"
	"github.com/tomz197/blackwall/internal/game"
	"github.com/tomz197/blackwall/internal/loop"
	"github.com/tomz197/blackwall/internal/save"
)

func main() {
	var cfg config.Game
	if err := config.ParseEnv(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(&cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the CLI. Flags default to the environment values in cfg.
func newRootCmd(cfg *config.Game) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "breach",
		Short: "BLACKWALL BREACH: breach the BlackWall for DATA",
		Long: `An idle terminal game. Breach with SPACE, buy quickhacks that mine
DATA for you, and intercept anomalous signals for a burst of power.
Progress is saved to a local file every 30 seconds and on exit.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGame(*cfg)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.SavePath, "save", cfg.SavePath, "save file path")
	flags.StringVar(&cfg.BalancePath, "balance", cfg.BalancePath, "YAML balance file (built-in balance when empty)")
	rootCmd.Flags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "append logs to this file (discarded when empty)")
	rootCmd.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	rootCmd.Flags().BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colors")

	rootCmd.AddCommand(newInspectCmd(cfg))
	return rootCmd
}

func loadBalance(path string) (game.Balance, error) {
	if path == "" {
		return game.DefaultBalance(), nil
	}
	balance, err := game.LoadBalance(path)
	if err != nil {
		return game.Balance{}, fmt.Errorf("failed to load balance: %w", err)
	}
	return balance, nil
}

func runGame(cfg config.Game) error {
	balance, err := loadBalance(cfg.BalancePath)
	if err != nil {
		return err
	}

	// The screen owns stdout, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := config.NewLogger(logOut, cfg.LogLevel, "breach")
	if err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("stdin is not a terminal")
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	logger.Info("session started", "save", cfg.SavePath)
	err = loop.Run(ctx, bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Store:   save.NewFileStore(cfg.SavePath),
		Balance: balance,
		Logger:  logger,
		NoColor: cfg.NoColor,
	})
	if err != nil {
		logger.Error("game error", "err", err)
		return fmt.Errorf("game error: %w", err)
	}
	logger.Info("session ended")
	return nil
}
