// Package tui is the terminal front-end: a bubbletea program that renders
// the cube as an unfolded net and drives the rules engine and the AI.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jaminalder/cube-tic-tac-toe/internal/ai"
	"github.com/jaminalder/cube-tic-tac-toe/internal/domain"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	xStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	oStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("208"))

	highlightStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("58"))

	cursorStyle = lipgloss.NewStyle().
			Reverse(true)

	faceStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)

	activeFaceStyle = faceStyle.
			BorderForeground(lipgloss.Color("205"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Messages
type aiDoneMsg struct{ res ai.Result }

// net lists the faces row by row as the cube unfolds; -1 is a gap.
var net = [3][4]int{
	{-1, 4, -1, -1},
	{3, 0, 2, 1},
	{-1, 5, -1, -1},
}

var faceNames = [domain.NumFaces]string{"front", "back", "right", "left", "top", "bottom"}

// Model
type Model struct {
	game   domain.Game
	engine *ai.Engine
	delay  time.Duration

	cursor   domain.Coord
	armed    bool // enter picks a bomb cell instead of placing
	thinking bool
	cancel   context.CancelFunc
	last     *ai.Decision

	err      error
	quitting bool
}

// New returns a model awaiting mode selection.
func New(engine *ai.Engine, delay time.Duration) *Model {
	if engine == nil {
		engine = ai.New(ai.DefaultDepth)
	}
	return &Model{
		game:   domain.Reset(),
		engine: engine,
		delay:  delay,
		cursor: domain.Coord{Face: 0, Cell: domain.CenterCell},
	}
}

// Game returns the current game.
func (m *Model) Game() domain.Game { return m.game }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case aiDoneMsg:
		m.applyAI(msg.res)
	}
	return m, nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		m.stopAI()
		m.quitting = true
		return tea.Quit
	case "r":
		m.stopAI()
		m.game = m.game.Reset()
		m.armed = false
		m.last = nil
		m.err = nil
		return nil
	}

	if m.game.Phase == domain.AwaitingMode {
		switch key {
		case "s", "1":
			return m.chooseMode(domain.ModeSingle)
		case "m", "2":
			return m.chooseMode(domain.ModeMulti)
		}
		return nil
	}

	switch key {
	case "1", "2", "3", "4", "5", "6":
		m.cursor.Face = int(key[0] - '1')
		return nil
	case "tab":
		m.cursor.Face = (m.cursor.Face + 1) % domain.NumFaces
		return nil
	case "up", "k":
		m.moveCursor(-1, 0)
		return nil
	case "down", "j":
		m.moveCursor(1, 0)
		return nil
	case "left", "h":
		m.moveCursor(0, -1)
		return nil
	case "right", "l":
		m.moveCursor(0, 1)
		return nil
	}

	if m.thinking || m.game.Over() {
		return nil
	}
	switch key {
	case "b":
		if m.game.Bomb(m.seat()).Available() {
			m.armed = true
			m.err = nil
		} else {
			m.err = domain.ErrBombConsumed
		}
	case "esc":
		m.game = m.game.CancelBomb(m.seat())
		m.armed = false
	case "enter", " ":
		return m.submit()
	}
	return nil
}

func (m *Model) moveCursor(dr, dc int) {
	row, col := m.cursor.Cell/3, m.cursor.Cell%3
	row = (row + dr + 3) % 3
	col = (col + dc + 3) % 3
	m.cursor.Cell = row*3 + col
}

// seat is the side keyboard input plays for.
func (m *Model) seat() domain.Mark {
	if m.game.Mode == domain.ModeSingle {
		return domain.X
	}
	return m.game.Turn
}

func (m *Model) chooseMode(mode domain.Mode) tea.Cmd {
	g, err := m.game.ChooseMode(mode)
	m.err = err
	if err == nil {
		m.game = g
	}
	return m.maybeThink()
}

func (m *Model) submit() tea.Cmd {
	var (
		g   domain.Game
		err error
	)
	if m.armed || m.game.Phase == domain.BombSelecting {
		g, err = m.game.SelectBomb(m.cursor, m.seat())
		if err == nil || errors.Is(err, domain.ErrInvalidBombSelection) {
			m.game = g
		}
		if m.game.Phase != domain.BombSelecting {
			m.armed = false
		}
	} else {
		g, _, err = m.game.Play(m.cursor, m.seat())
		if err == nil {
			m.game = g
		}
	}
	m.err = err
	if err != nil {
		return nil
	}
	return m.maybeThink()
}

// maybeThink starts the computer's search when it is to move.
func (m *Model) maybeThink() tea.Cmd {
	g := m.game
	if g.Mode != domain.ModeSingle || g.Phase != domain.Playing || g.Turn != domain.O {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.thinking = true
	engine, delay := m.engine, m.delay
	return func() tea.Msg {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return aiDoneMsg{ai.Result{Err: ctx.Err(), Version: g.Version}}
			}
		}
		return aiDoneMsg{<-engine.DecideAsync(ctx, g)}
	}
}

func (m *Model) stopAI() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.thinking = false
}

func (m *Model) applyAI(res ai.Result) {
	if res.Version != m.game.Version {
		return // the game moved on; drop the stale answer
	}
	m.stopAI()
	if res.Err != nil {
		m.err = res.Err
		return
	}
	g, err := res.Decision.Apply(m.game)
	if err != nil {
		m.err = err
		return
	}
	m.game = g
	d := res.Decision
	m.last = &d
}

func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Cube Tic-Tac-Toe"))
	b.WriteString("\n\n")

	if m.game.Phase == domain.AwaitingMode {
		b.WriteString("Choose a mode: [s] single player  [m] two players\n\n")
		b.WriteString(helpStyle.Render("q: quit"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(statusStyle.Render(m.status()))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("Bombs  X: %s  O: %s",
		bombLabel(m.game.Bomb(domain.X)), bombLabel(m.game.Bomb(domain.O)))))
	b.WriteString("\n\n")
	b.WriteString(m.renderNet())
	b.WriteString("\n")

	if m.last != nil {
		b.WriteString(fmt.Sprintf("Computer: %s\n", m.last))
	}
	if m.armed || m.game.Phase == domain.BombSelecting {
		picks := len(m.game.Bomb(m.game.Turn).Selection())
		b.WriteString(fmt.Sprintf("Bomb armed: pick three cells of one line (%d/3)\n", picks))
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("1-6/tab: face  arrows: move  enter: place  b: bomb  esc: cancel  r: reset  q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) status() string {
	g := m.game
	switch {
	case g.Winner != domain.Empty:
		return g.Winner.String() + " wins!"
	case g.Draw():
		return "Draw"
	case m.thinking:
		return "Computer is thinking..."
	}
	return fmt.Sprintf("%s to move (%s)", g.Turn, g.Mode)
}

func bombLabel(bm domain.Bomb) string {
	if bm.Available() {
		return "ready"
	}
	return "used"
}

func (m *Model) renderNet() string {
	snap := m.game.Snapshot()
	faces := make([]string, domain.NumFaces)
	for f := range faces {
		faces[f] = m.renderFace(f, snap)
	}
	gap := lipgloss.NewStyle().
		Width(lipgloss.Width(faces[0])).
		Height(lipgloss.Height(faces[0])).
		Render("")

	rows := make([]string, 0, len(net))
	for _, row := range net {
		cols := make([]string, 0, len(row))
		for _, f := range row {
			if f < 0 {
				cols = append(cols, gap)
				continue
			}
			cols = append(cols, faces[f])
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderFace(f int, snap domain.Snapshot) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d %-6s\n", f+1, faceNames[f]))
	for i := 0; i < domain.CellsPerFace; i++ {
		c := domain.Coord{Face: f, Cell: i}
		s := renderMark(snap.Board.At(c))
		if snap.Highlighted(c) {
			s = highlightStyle.Render(s)
		}
		if c == m.cursor {
			s = cursorStyle.Render(s)
		}
		b.WriteString(s)
		switch {
		case i%3 < 2:
			b.WriteString(" ")
		case i < domain.CellsPerFace-1:
			b.WriteString("\n")
		}
	}
	style := faceStyle
	if f == m.cursor.Face {
		style = activeFaceStyle
	}
	return style.Render(b.String())
}

func renderMark(mk domain.Mark) string {
	switch mk {
	case domain.X:
		return xStyle.Render("X")
	case domain.O:
		return oStyle.Render("O")
	}
	return "·"
}

// Run starts the terminal program and blocks until the user quits.
func Run(ctx context.Context, engine *ai.Engine, delay time.Duration) error {
	p := tea.NewProgram(New(engine, delay), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
