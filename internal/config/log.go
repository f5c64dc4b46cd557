package config

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger returns a structured logger writing to w at the named level
// ("debug", "info", "warn", "error").
func NewLogger(w io.Writer, level, prefix string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	}), nil
}
