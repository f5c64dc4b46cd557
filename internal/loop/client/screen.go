package client

import (
	"fmt"
	"math"
	"time"

	"github.com/tomz197/blackwall/internal/draw"
	"github.com/tomz197/blackwall/internal/loop"
	"github.com/tomz197/blackwall/internal/loop/config"
	"github.com/tomz197/blackwall/internal/loop/server"
)

// drawFrame renders the current frame and flushes it to the connection.
func (c *Client) drawFrame() error {
	width, height, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		width, height = config.MaxTermWidth, config.MaxTermHeight
	}

	snapshot := c.server.Snapshot()
	view := loop.View{
		Width:       width,
		Height:      height,
		Online:      snapshot.Players,
		Leaderboard: c.leaderRows(snapshot),
		Notice:      c.notice(),
	}

	c.chunkWriter.WriteFrame(loop.Render(c.session, view, c.styles))
	return c.chunkWriter.Flush()
}

// leaderRows converts the hub leaderboard for display, marking this player.
func (c *Client) leaderRows(snapshot *server.Snapshot) []loop.LeaderRow {
	rows := make([]loop.LeaderRow, len(snapshot.Leaderboard))
	for i, e := range snapshot.Leaderboard {
		rows[i] = loop.LeaderRow{
			Name:   e.Username,
			Bank:   e.Bank,
			Online: e.Online,
			Self:   e.Username == c.username,
		}
	}
	return rows
}

// notice returns the full-screen message to show instead of the game, if any.
func (c *Client) notice() *loop.Notice {
	if c.state.GameState == GameStateShutdown {
		return &loop.Notice{
			Title: "SERVER SHUTTING DOWN",
			Lines: []string{
				"Your progress has been saved.",
				fmt.Sprintf("Disconnecting in %d seconds...", int(math.Ceil(max(c.state.shutdownTimer, 0)))),
				"",
				"Press Q to leave now",
			},
		}
	}

	if c.state.isInactive {
		remaining := config.InactivityDisconnectUser - time.Since(c.lastInput).Seconds()
		return &loop.Notice{
			Title: "INACTIVITY WARNING",
			Lines: []string{
				"You have been inactive for too long.",
				fmt.Sprintf("You will be disconnected in %d seconds.", int(max(remaining, 0))),
				"",
				"Press any key to continue",
			},
		}
	}
	return nil
}
