package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/tomz197/blackwall/internal/draw"
	"github.com/tomz197/blackwall/internal/loop/config"
	"github.com/tomz197/blackwall/internal/save"
)

//go:embed index.html
var htmlPage string

var pageTemplate = template.Must(template.New("index").Parse(htmlPage))

// ranker lists the richest saves.
type ranker interface {
	Top(ctx context.Context, n int) ([]save.RankedSave, error)
}

// leaderEntry is one leaderboard row as served to browsers.
type leaderEntry struct {
	Rank        int       `json:"rank"`
	Player      string    `json:"player"`
	Bank        float64   `json:"bank"`
	BankDisplay string    `json:"bank_display"`
	UpdatedAt   time.Time `json:"updated_at"`
	LastSeen    string    `json:"last_seen"`
}

type pageData struct {
	SSHCommand  string
	Leaderboard []leaderEntry
}

type handler struct {
	ranker     ranker
	sshCommand string
	logger     *log.Logger
}

func (h *handler) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /api/leaderboard", h.leaderboard)
	mux.HandleFunc("GET /healthz", h.healthz)
	return mux
}

func (h *handler) top(ctx context.Context) ([]leaderEntry, error) {
	rows, err := h.ranker.Top(ctx, config.LeaderboardSize)
	if err != nil {
		return nil, err
	}
	entries := make([]leaderEntry, len(rows))
	for i, r := range rows {
		entries[i] = leaderEntry{
			Rank:        i + 1,
			Player:      r.Player,
			Bank:        r.Bank,
			BankDisplay: draw.FormatNumber(r.Bank),
			UpdatedAt:   r.UpdatedAt,
			LastSeen:    humanize.Time(r.UpdatedAt),
		}
	}
	return entries, nil
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	entries, err := h.top(r.Context())
	if err != nil {
		// The page is still useful without the leaderboard
		h.logger.Error("failed to load leaderboard", "err", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := pageData{SSHCommand: h.sshCommand, Leaderboard: entries}
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.Error("failed to render page", "err", err)
	}
}

func (h *handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.top(r.Context())
	if err != nil {
		h.logger.Error("failed to load leaderboard", "err", err)
		http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
		return
	}
	if entries == nil {
		entries = []leaderEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		h.logger.Error("failed to encode leaderboard", "err", err)
	}
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}
