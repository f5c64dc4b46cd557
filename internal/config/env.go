// Package config provides shared configuration for the breach binaries.
package config

import (
	"fmt"
	"net"
	"strconv"

	"github.com/caarlos0/env/v11"
)

// Game configures the local single-player binary.
type Game struct {
	SavePath    string `env:"BREACH_SAVE_PATH" envDefault:"save_data.dat"`
	BalancePath string `env:"BREACH_BALANCE"`
	LogFile     string `env:"BREACH_LOG_FILE"`
	LogLevel    string `env:"BREACH_LOG_LEVEL" envDefault:"info"`
	NoColor     bool   `env:"NO_COLOR"`
}

// SSH configures the multi-player SSH server.
type SSH struct {
	Host        string `env:"SSH_HOST" envDefault:"::"`
	Port        int    `env:"SSH_PORT" envDefault:"2222"`
	HostKeyPath string `env:"SSH_HOST_KEY" envDefault:"/app/keys/host_key"`
	DBPath      string `env:"BREACH_DB_PATH" envDefault:"data/breach.db"`
	BalancePath string `env:"BREACH_BALANCE"`
	LogLevel    string `env:"BREACH_LOG_LEVEL" envDefault:"info"`
	NoColor     bool   `env:"NO_COLOR"`
}

// Addr returns the listen address.
func (c SSH) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Web configures the landing page server.
type Web struct {
	Host           string `env:"WEB_HOST" envDefault:"0.0.0.0"`
	Port           int    `env:"WEB_PORT" envDefault:"8080"`
	DBPath         string `env:"BREACH_DB_PATH" envDefault:"data/breach.db"`
	SSHDisplayHost string `env:"SSH_DISPLAY_HOST" envDefault:"your-server.com"`
	SSHDisplayPort int    `env:"SSH_DISPLAY_PORT" envDefault:"2222"`
	LogLevel       string `env:"BREACH_LOG_LEVEL" envDefault:"info"`
}

// Addr returns the listen address.
func (c Web) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SSHCommand is the command players should type to connect.
func (c Web) SSHCommand() string {
	if c.SSHDisplayPort == 22 {
		return "ssh " + c.SSHDisplayHost
	}
	return fmt.Sprintf("ssh -p %d %s", c.SSHDisplayPort, c.SSHDisplayHost)
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
