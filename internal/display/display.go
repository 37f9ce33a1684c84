// Package display renders table state and hand results for terminals.
package display

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/quantumholdem/internal/game"
	"github.com/lox/quantumholdem/poker"
)

// Styles holds the lipgloss styles used by a Renderer.
type Styles struct {
	Header    lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style
	Undefined lipgloss.Style
	Actor     lipgloss.Style
	Folded    lipgloss.Style
	Winner    lipgloss.Style
	Info      lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header:    r.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Bold(true).Padding(0, 1),
		RedCard:   r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		BlackCard: r.NewStyle().Foreground(lipgloss.Color("#A0A0A0")).Bold(true),
		Undefined: r.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true),
		Actor:     r.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		Folded:    r.NewStyle().Foreground(lipgloss.Color("#626262")),
		Winner:    r.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		Info:      r.NewStyle().Foreground(lipgloss.Color("#626262")),
	}
}

// Renderer formats game state for one output.
type Renderer struct {
	styles    Styles
	showState bool
}

// Option configures a Renderer.
type Option func(*rendererConfig)

type rendererConfig struct {
	color     bool
	showState bool
}

// WithColor forces color output on or off. By default the output's own
// profile is detected.
func WithColor(on bool) Option {
	return func(c *rendererConfig) { c.color = on }
}

// WithStates appends each card's raw qubit state to its face.
func WithStates() Option {
	return func(c *rendererConfig) { c.showState = true }
}

// New returns a Renderer for w.
func New(w io.Writer, opts ...Option) *Renderer {
	cfg := rendererConfig{color: true}
	for _, o := range opts {
		o(&cfg)
	}
	r := lipgloss.NewRenderer(w)
	if !cfg.color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{styles: newStyles(r), showState: cfg.showState}
}

// Card renders a single card view.
func (r *Renderer) Card(c game.CardView) string {
	face := c.Card
	if r.showState {
		face += " " + c.State
	}
	switch {
	case !c.Defined:
		return r.styles.Undefined.Render(face)
	case c.Sign > 0:
		return r.styles.RedCard.Render(face)
	default:
		return r.styles.BlackCard.Render(face)
	}
}

// Cards renders views separated by spaces.
func (r *Renderer) Cards(cards []game.CardView) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = r.Card(c)
	}
	return strings.Join(parts, " ")
}

func (r *Renderer) pokerCards(cards []poker.Card) string {
	views := make([]game.CardView, len(cards))
	for i, c := range cards {
		views[i] = game.CardView{Card: c.String(), State: c.State(), Sign: int(c.Sign), Defined: c.Defined()}
	}
	return r.Cards(views)
}

// Snapshot renders the table as seen by the snapshot's viewer.
func (r *Renderer) Snapshot(snap game.Snapshot) string {
	var b strings.Builder

	header := fmt.Sprintf("Hand #%d  %s  Pot %d  Blinds %d/%d",
		snap.HandNumber, snap.Phase, snap.Pot, snap.SmallBlind, snap.BigBlind)
	b.WriteString(r.styles.Header.Render(header))
	b.WriteString("\n")

	board := r.styles.Info.Render("(none)")
	if len(snap.Board) > 0 {
		board = r.Cards(snap.Board)
	}
	fmt.Fprintf(&b, "Board: %s\n", board)

	for _, s := range snap.Seats {
		b.WriteString(r.seat(snap, s))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) seat(snap game.Snapshot, s game.SeatView) string {
	var markers []string
	if s.Dealer {
		markers = append(markers, "D")
	}
	if s.SmallBlind {
		markers = append(markers, "SB")
	}
	if s.BigBlind {
		markers = append(markers, "BB")
	}

	cards := strings.TrimSpace(strings.Repeat("[] ", s.CardCount))
	if s.HoleCards != nil {
		cards = r.Cards(s.HoleCards)
	}

	line := fmt.Sprintf("%d %-12s %6d  bet %-5d %-8s %s",
		s.Position, s.Name, s.Chips, s.Bet, strings.Join(markers, ","), cards)

	var status []string
	if s.AllIn {
		status = append(status, "all-in")
	}
	if s.Collapsed {
		status = append(status, "collapsed")
	}
	if s.SittingOut {
		status = append(status, "out")
	}
	if len(status) > 0 {
		line += " (" + strings.Join(status, ", ") + ")"
	}

	switch {
	case s.Position == snap.Actor:
		return r.styles.Actor.Render("> " + line)
	case s.Folded || s.SittingOut:
		return r.styles.Folded.Render("  " + line)
	default:
		return "  " + line
	}
}

// HandResult renders how a hand finished. names maps seat numbers to
// display names and may be nil.
func (r *Renderer) HandResult(res *game.HandResult, names []string) string {
	if res == nil {
		return ""
	}
	name := func(seat int) string {
		if seat >= 0 && seat < len(names) && names[seat] != "" {
			return names[seat]
		}
		return fmt.Sprintf("Seat %d", seat)
	}

	var b strings.Builder
	b.WriteString(r.styles.Header.Render(fmt.Sprintf("Hand #%d result", res.HandNumber)))
	b.WriteString("\n")

	switch {
	case res.Aborted:
		fmt.Fprintf(&b, "Aborted: %s\n", res.Reason)
		return b.String()
	case res.Uncontested:
		b.WriteString("Won uncontested\n")
	}
	if len(res.Board) > 0 {
		fmt.Fprintf(&b, "Board: %s\n", r.pokerCards(res.Board))
	}

	seats := make([]int, 0, len(res.Revealed))
	for seat := range res.Revealed {
		seats = append(seats, seat)
	}
	sort.Ints(seats)
	for _, seat := range seats {
		line := fmt.Sprintf("%s: %s", name(seat), r.pokerCards(res.Revealed[seat]))
		if v, ok := res.Hands[seat]; ok {
			line += " " + r.styles.Info.Render(v.Label)
		}
		b.WriteString(line + "\n")
	}

	for _, a := range res.Awards {
		winners := make([]string, len(a.Winners))
		for i, w := range a.Winners {
			winners[i] = fmt.Sprintf("%s +%d", name(w), a.Shares[w])
		}
		label := "Main pot"
		if a.Pot > 0 {
			label = fmt.Sprintf("Side pot %d", a.Pot)
		}
		b.WriteString(r.styles.Winner.Render(fmt.Sprintf("%s (%d): %s", label, a.Amount, strings.Join(winners, ", "))))
		b.WriteString("\n")
	}
	return b.String()
}

// Standing is one row of a chip count table.
type Standing struct {
	Name  string `json:"name"`
	Chips int    `json:"chips"`
	Delta int    `json:"delta"`
}

// Standings renders chip counts, largest stack first.
func (r *Renderer) Standings(rows []Standing) string {
	rows = append([]Standing(nil), rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Chips > rows[j].Chips })

	var b strings.Builder
	b.WriteString(r.styles.Header.Render("Standings"))
	b.WriteString("\n")
	for i, row := range rows {
		line := fmt.Sprintf("%2d. %-12s %7d  %+d", i+1, row.Name, row.Chips, row.Delta)
		if row.Delta > 0 {
			line = r.styles.Winner.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
