package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jaminalder/cube-tic-tac-toe/internal/ai"
	"github.com/jaminalder/cube-tic-tac-toe/internal/domain"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press feeds keys to m and returns the command produced by the last one.
func press(t *testing.T, m *Model, keys ...string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(key(k))
	}
	return cmd
}

func TestModeSelection(t *testing.T) {
	m := New(ai.New(1), 0)
	if !strings.Contains(m.View(), "Choose a mode") {
		t.Fatalf("expected the mode prompt")
	}
	press(t, m, "x") // ignored
	press(t, m, "m")
	if g := m.Game(); g.Mode != domain.ModeMulti || g.Phase != domain.Playing {
		t.Fatalf("expected a multi game, got %v %v", g.Mode, g.Phase)
	}
	if !strings.Contains(m.View(), "X to move") {
		t.Fatalf("expected X to move in view:\n%s", m.View())
	}
}

func TestCursorAndPlacement(t *testing.T) {
	m := New(ai.New(1), 0)
	press(t, m, "m")
	// face 5 (top, index 4), then up and left from the center: cell 0
	press(t, m, "5", "up", "left", "enter")
	g := m.Game()
	if g.Board[4][0] != domain.X || g.Board[3][0] != domain.X || g.Board[1][2] != domain.X {
		t.Fatalf("expected 4-0 and its mirrors to hold X")
	}
	if g.Turn != domain.O {
		t.Fatalf("expected O to move")
	}
	// wrapping: left from column 0 goes to column 2
	press(t, m, "left")
	if m.cursor != (domain.Coord{Face: 4, Cell: 2}) {
		t.Fatalf("unexpected cursor %v", m.cursor)
	}
	press(t, m, "tab")
	if m.cursor.Face != 5 {
		t.Fatalf("tab should move to the next face, got %v", m.cursor)
	}

	// 3-0 took X through the mirror
	m.cursor = domain.Coord{Face: 3, Cell: 0}
	press(t, m, "enter")
	if m.err == nil || !strings.Contains(m.View(), "Error") {
		t.Fatalf("expected an occupied error")
	}
}

func TestBombSelection(t *testing.T) {
	m := New(ai.New(1), 0)
	press(t, m, "m")
	m.cursor = domain.Coord{Face: 0, Cell: 3}
	press(t, m, "enter") // X
	m.cursor = domain.Coord{Face: 1, Cell: 4}
	press(t, m, "enter") // O

	press(t, m, "1", "b")
	if !m.armed || !strings.Contains(m.View(), "Bomb armed") {
		t.Fatalf("expected bomb armed")
	}
	for _, c := range []int{3, 4, 5} {
		m.cursor = domain.Coord{Face: 0, Cell: c}
		press(t, m, "enter")
	}
	g := m.Game()
	if g.Bomb(domain.X).Available() || m.armed {
		t.Fatalf("expected X's bomb spent and disarmed")
	}
	if g.Board[0][3] != domain.Empty || g.Turn != domain.O {
		t.Fatalf("expected the row cleared and O to move")
	}

	// O arms, picks once, then cancels
	press(t, m, "b", "enter", "esc")
	if g := m.Game(); g.Phase != domain.Playing || !g.Bomb(domain.O).Available() || m.armed {
		t.Fatalf("cancel should keep O's bomb, phase=%v", g.Phase)
	}
}

func TestSinglePlayerRunsAI(t *testing.T) {
	m := New(ai.New(1), 0)
	press(t, m, "s")
	cmd := press(t, m, "enter")
	if cmd == nil || !m.thinking {
		t.Fatalf("expected the computer to start thinking")
	}
	if !strings.Contains(m.View(), "thinking") {
		t.Fatalf("expected thinking status")
	}
	// keys that change the board are ignored while thinking
	press(t, m, "right", "enter")
	if m.Game().Moves != 1 {
		t.Fatalf("human moved while the computer was thinking")
	}

	msg := cmd()
	m.Update(msg)
	g := m.Game()
	if g.Moves != 2 || g.Turn != domain.X || m.thinking || m.last == nil {
		t.Fatalf("expected the computer's move applied, moves=%d turn=%v", g.Moves, g.Turn)
	}
	if !strings.Contains(m.View(), "Computer: place") {
		t.Fatalf("expected the computer's move in view:\n%s", m.View())
	}
}

func TestResetDropsStaleAIResult(t *testing.T) {
	m := New(ai.New(1), 0)
	press(t, m, "s")
	cmd := press(t, m, "enter")
	press(t, m, "r")
	if m.thinking || m.Game().Phase != domain.AwaitingMode {
		t.Fatalf("reset should stop the search and return to mode selection")
	}
	press(t, m, "s")
	m.Update(cmd())
	if g := m.Game(); g.Moves != 0 || g.Turn != domain.X {
		t.Fatalf("stale result applied: moves=%d", g.Moves)
	}
}

func TestQuit(t *testing.T) {
	m := New(nil, 0)
	cmd := press(t, m, "q")
	if cmd == nil || !m.quitting {
		t.Fatalf("expected quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
