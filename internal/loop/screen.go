package loop

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/tomz197/blackwall/internal/draw"
	"github.com/tomz197/blackwall/internal/game"
	"github.com/tomz197/blackwall/internal/input"
	"github.com/tomz197/blackwall/internal/loop/config"
)

// Lines taken by the shop title block and per source row.
const (
	shopHeaderLines = 3
	shopRowLines    = 2
)

// LeaderRow is one leaderboard line.
type LeaderRow struct {
	Name   string
	Bank   float64
	Online bool
	Self   bool
}

// Notice replaces the whole screen with a centered message box.
type Notice struct {
	Title string
	Lines []string
}

// View carries what the screen needs beyond the session itself.
type View struct {
	Width, Height int
	Leaderboard   []LeaderRow // Empty in local mode
	Online        int
	Notice        *Notice
}

// Styles is the palette of the breach screen, bound to one renderer.
type Styles struct {
	renderer *lipgloss.Renderer

	Panel        lipgloss.Style
	Title        lipgloss.Style
	Label        lipgloss.Style
	Value        lipgloss.Style
	Affordable   lipgloss.Style
	Unaffordable lipgloss.Style
	Feedback     lipgloss.Style
	Saved        lipgloss.Style
	Signal       lipgloss.Style
	Boost        lipgloss.Style
	Target       lipgloss.Style
	Cursor       lipgloss.Style
	Help         lipgloss.Style
	Self         lipgloss.Style
	Graph        lipgloss.Style
}

// NewRenderer returns a renderer for w with a fixed color profile. The
// profile is never detected from w: over SSH there is no local terminal to ask.
func NewRenderer(w io.Writer, noColor bool) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	} else {
		r.SetColorProfile(termenv.ANSI)
	}
	return r
}

// NewStyles builds the palette on r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		renderer: r,

		Panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("5")).
			Padding(0, 1),
		Title:        r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Label:        r.NewStyle().Foreground(lipgloss.Color("6")),
		Value:        r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")),
		Affordable:   r.NewStyle().Foreground(lipgloss.Color("10")),
		Unaffordable: r.NewStyle().Foreground(lipgloss.Color("9")),
		Feedback:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		Saved:        r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		Signal:       r.NewStyle().Bold(true).Blink(true).Foreground(lipgloss.Color("14")),
		Boost:        r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Target:       r.NewStyle().Bold(true).Reverse(true),
		Cursor:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Help:         r.NewStyle().Faint(true),
		Self:         r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Graph:        r.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// Render draws the full screen for s, clamped to the view size.
func Render(s *Session, v View, st Styles) string {
	width, height := config.MaxTermWidth, config.MaxTermHeight
	if v.Width > 0 {
		width = min(v.Width, config.MaxTermWidth)
	}
	if v.Height > 0 {
		height = min(v.Height, config.MaxTermHeight)
	}

	var out string
	if v.Notice != nil {
		out = lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, renderNotice(*v.Notice, width, st))
	} else {
		out = renderGame(s, v, width, height, st)
	}
	return st.renderer.NewStyle().MaxWidth(width).MaxHeight(height).Render(out)
}

func renderGame(s *Session, v View, width, height int, st Styles) string {
	g := s.Game
	header := renderHeader(g, width, st)

	if width < config.MinTermWidth {
		stats := statsLines(s, v, innerWidth(width), st)
		statsPanel := panel(stats, width, 0, st)
		avail := height - lipgloss.Height(header) - lipgloss.Height(statsPanel) - 2
		shopPanel := panel(shopLines(s, avail, st), width, 0, st)
		return lipgloss.JoinVertical(lipgloss.Left, header, statsPanel, shopPanel)
	}

	left := width / 2
	right := width - left
	stats := statsLines(s, v, innerWidth(left), st)
	avail := height - lipgloss.Height(header) - 2
	shop := shopLines(s, avail, st)
	rows := max(len(stats), len(shop))
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		panel(stats, left, rows, st),
		panel(shop, right, rows, st),
	)
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func renderHeader(g *game.Game, width int, st Styles) string {
	title := st.Title.Render("// BLACKWALL BREACH //")
	if g.SavedNoticeVisible() {
		title = spread(title, st.Saved.Render("[ SYSTEM: PROGRESS SAVED ]"), innerWidth(width))
	}

	var feedback, signal string
	if g.FeedbackVisible() {
		feedback = st.Feedback.Render(fmt.Sprintf("+++ BREACHED FOR: %s DATA +++", draw.FormatNumber(g.LastClick())))
	}
	if c := g.Cache(); c.Available() {
		signal = st.Signal.Render(fmt.Sprintf(
			">>> ANOMALOUS SIGNAL DETECTED: PRESS [G] TO INTERCEPT (%.1fs) <<<", c.ExpiresIn))
	}
	return panel([]string{title, feedback, signal}, width, 0, st)
}

func statsLines(s *Session, v View, width int, st Styles) []string {
	g := s.Game
	lines := []string{
		st.Title.Render("[ TERMINAL ]"),
		"",
		st.Label.Render("TARGET: ") + st.Value.Render("BlackWall ICE"),
		st.Target.Render(" PRESS [SPACE] TO BREACH "),
		"",
		st.Label.Render("DATA BANK:    ") + st.Value.Render(draw.FormatNumber(g.Bank())),
		st.Label.Render("DATA/SEC:     ") + st.Value.Render(draw.FormatNumber(g.YieldPerSecond())),
	}
	if g.BoostRemaining() > 0 {
		lines = append(lines, st.Boost.Render(fmt.Sprintf("%s (%.0fs)", g.Alert(), math.Ceil(g.BoostRemaining()))))
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, graphLines(s.Bank, width, st)...)

	lines = append(lines,
		"",
		fmt.Sprintf("[B] OVERCLOCK MULTIPLIER  x%.2f", g.Multiplier()),
		"    "+costText(g, g.MultiplierCost(), st),
		"",
		fmt.Sprintf("[C] DATA/SEC SHARE PER BREACH  %g%%", math.Round(g.ClickShare()*10000)/100),
		"    "+costText(g, g.ClickShareCost(), st),
	)

	if len(v.Leaderboard) > 0 {
		lines = append(lines, "", st.Title.Render(fmt.Sprintf("[ NETRUNNERS ONLINE: %d ]", v.Online)))
		for i, row := range v.Leaderboard {
			name := ansi.Truncate(row.Name, config.MaxUsernameLength, "")
			pad := strings.Repeat(" ", max(config.MaxUsernameLength-ansi.StringWidth(name), 0))
			mark := " "
			if row.Online {
				mark = "*"
			}
			line := fmt.Sprintf("%d.%s%s%s %s", i+1, mark, name, pad, draw.FormatNumber(row.Bank))
			if row.Self {
				line = st.Self.Render(line)
			}
			lines = append(lines, line)
		}
	}

	lines = append(lines, "", st.Help.Render("[S] SAVE  [L] LOAD  [Q] QUIT"))
	return lines
}

// graphLines plots the bank history once there are two samples to connect.
func graphLines(t *Trace, width int, st Styles) []string {
	samples := t.Samples()
	if len(samples) < 2 {
		return nil
	}
	lines := []string{"", st.Label.Render(fmt.Sprintf("DATA BANK, LAST %ds:", len(samples)-1))}
	for _, row := range draw.Plot(samples, width, config.GraphHeight) {
		lines = append(lines, st.Graph.Render(row))
	}
	return lines
}

// shopLines lists the sources that fit in avail lines, scrolled to keep the
// cursor visible.
func shopLines(s *Session, avail int, st Styles) []string {
	g := s.Game
	lines := []string{
		st.Title.Render("[ BLACK MARKET ]"),
		st.Help.Render("QUICKHACKS  (UP/DOWN select, ENTER buy)"),
		"",
	}

	visible := max((avail-shopHeaderLines)/shopRowLines, 1)
	start, end := window(g.NumBuildings(), s.Cursor, visible)
	for i := start; i < end; i++ {
		b, _ := g.Building(i)
		marker := "  "
		if i == s.Cursor {
			marker = st.Cursor.Render("> ")
		}
		lines = append(lines,
			fmt.Sprintf("%s[%c] %s", marker, input.BuildingKey(i), st.Value.Render(b.Name)),
			fmt.Sprintf("      owned %-6s +%s/s  ", draw.FormatCount(b.Count), draw.FormatNumber(b.BaseYield))+
				costText(g, b.NextCost(), st),
		)
	}
	return lines
}

// window returns the half-open range of n rows to show so that cursor is
// visible and roughly centered.
func window(n, cursor, visible int) (start, end int) {
	if visible >= n {
		return 0, n
	}
	start = clamp(cursor-visible/2, 0, n-visible)
	return start, start + visible
}

func renderNotice(n Notice, width int, st Styles) string {
	lines := []string{st.Title.Render(n.Title), ""}
	lines = append(lines, n.Lines...)
	boxWidth := min(width, max(lipgloss.Width(strings.Join(lines, "\n"))+4, 40))
	return panel(lines, boxWidth, 0, st)
}

func costText(g *game.Game, cost float64, st Styles) string {
	style := st.Unaffordable
	if g.CanAfford(cost) {
		style = st.Affordable
	}
	return style.Render("Cost: " + draw.FormatNumber(cost) + " DATA")
}

// panel boxes lines into a bordered block width cells wide. rows, when
// positive, pads the content to that many lines.
func panel(lines []string, width, rows int, st Styles) string {
	inner := innerWidth(width)
	fitted := make([]string, len(lines))
	for i, line := range lines {
		fitted[i] = ansi.Truncate(line, inner, "")
	}
	style := st.Panel.Width(width - 2)
	if rows > 0 {
		style = style.Height(rows)
	}
	return style.Render(strings.Join(fitted, "\n"))
}

// innerWidth is the content width of a panel width cells wide.
func innerWidth(width int) int {
	return max(width-4, 1)
}

func spread(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
