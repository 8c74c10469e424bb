package domain

import (
	"errors"
	"testing"
)

// helper to apply a sequence of moves, alternating from the current turn
func playMoves(t *testing.T, g Game, moves []Coord) Game {
	t.Helper()
	for i, c := range moves {
		next, _, err := g.Play(c, g.Turn)
		if err != nil {
			t.Fatalf("move %d (%v) failed: %v", i, c, err)
		}
		g = next
	}
	return g
}

// boardWith builds a board holding exactly the given marks, without mirroring.
func boardWith(marks map[Coord]Mark) Board {
	var b Board
	for c, m := range marks {
		b[c.Face][c.Cell] = m
	}
	return b
}

func TestNewGameInitialState(t *testing.T) {
	g := New(ModeMulti)
	if g.Phase != Playing {
		t.Fatalf("expected playing phase, got %v", g.Phase)
	}
	if g.Turn != X {
		t.Fatalf("expected initial turn X, got %v", g.Turn)
	}
	if g.Mode != ModeMulti {
		t.Fatalf("expected multi mode, got %v", g.Mode)
	}
	if g.Over() || g.Winner != Empty {
		t.Fatalf("expected game not over")
	}
	if g.Board != (Board{}) {
		t.Fatalf("expected empty board, got %v", g.Board)
	}
	if !g.Bomb(X).Available() || !g.Bomb(O).Available() {
		t.Fatalf("expected both bombs available")
	}
}

func TestModeSelection(t *testing.T) {
	g := Reset()
	if g.Phase != AwaitingMode {
		t.Fatalf("expected awaiting mode, got %v", g.Phase)
	}
	if _, _, err := g.Play(Coord{0, 4}, X); !errors.Is(err, ErrModeNotChosen) {
		t.Fatalf("expected ErrModeNotChosen, got %v", err)
	}
	if _, err := g.ChooseMode(ModeNone); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
	g, err := g.ChooseMode(ModeSingle)
	if err != nil {
		t.Fatalf("choose mode: %v", err)
	}
	if g.Mode != ModeSingle || g.Phase != Playing {
		t.Fatalf("unexpected state after mode selection: mode=%v phase=%v", g.Mode, g.Phase)
	}
	if _, err := g.ChooseMode(ModeMulti); !errors.Is(err, ErrModeAlreadyChosen) {
		t.Fatalf("expected ErrModeAlreadyChosen, got %v", err)
	}

	g = playMoves(t, g, []Coord{{0, 4}})
	r := g.Reset()
	if r.Phase != AwaitingMode || r.Mode != ModeNone || r.Board != (Board{}) {
		t.Fatalf("reset should return to mode selection with an empty board")
	}
	if r.Version <= g.Version {
		t.Fatalf("reset must advance the version: %d -> %d", g.Version, r.Version)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"single": ModeSingle, "multi": ModeMulti}
	for s, want := range cases {
		got, err := ParseMode(s)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", s, got, err)
		}
	}
	if _, err := ParseMode("solo"); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}

func TestPlayOutOfRange(t *testing.T) {
	g := New(ModeMulti)
	cases := []Coord{{-1, 0}, {0, -1}, {6, 0}, {0, 9}, {7, 12}}
	for _, c := range cases {
		if _, _, err := g.Play(c, X); !errors.Is(err, ErrOutOfRange) {
			t.Fatalf("expected ErrOutOfRange for %v, got %v", c, err)
		}
	}
}

func TestPlayOccupied(t *testing.T) {
	g := playMoves(t, New(ModeMulti), []Coord{{0, 0}})
	if _, _, err := g.Play(Coord{0, 0}, O); !errors.Is(err, ErrCellOccupied) {
		t.Fatalf("expected ErrCellOccupied on same cell, got %v", err)
	}
	// mirrors of 0-0 are occupied too
	if _, _, err := g.Play(Coord{4, 6}, O); !errors.Is(err, ErrCellOccupied) {
		t.Fatalf("expected ErrCellOccupied on mirrored cell, got %v", err)
	}
}

func TestPlayWrongTurn(t *testing.T) {
	g := New(ModeMulti)
	if _, _, err := g.Play(Coord{0, 4}, O); !errors.Is(err, ErrWrongTurn) {
		t.Fatalf("expected ErrWrongTurn, got %v", err)
	}
	if _, _, err := g.Play(Coord{0, 4}, Empty); !errors.Is(err, ErrWrongTurn) {
		t.Fatalf("expected ErrWrongTurn for empty mark, got %v", err)
	}
}

func TestTurnFlipsAfterValidMove(t *testing.T) {
	g := New(ModeMulti)
	next, touched, err := g.Play(Coord{1, 4}, X)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if next.Turn != O {
		t.Fatalf("expected turn to flip to O, got %v", next.Turn)
	}
	if len(touched) != 1 || touched[0] != (Coord{1, 4}) {
		t.Fatalf("center placement should touch only itself, got %v", touched)
	}
	if g.Turn != X || g.Board != (Board{}) {
		t.Fatalf("receiver must not change")
	}
}

func TestPlayMirrorsCornerCell(t *testing.T) {
	g := New(ModeMulti)
	next, touched, err := g.Play(Coord{0, 0}, X)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	want := []Coord{{0, 0}, {4, 6}, {3, 2}}
	if len(touched) != len(want) {
		t.Fatalf("expected %d touched cells, got %v", len(want), touched)
	}
	for i, c := range want {
		if touched[i] != c {
			t.Fatalf("touched[%d] = %v, want %v", i, touched[i], c)
		}
		if next.Board.At(c) != X {
			t.Fatalf("expected X at %v", c)
		}
	}
	changed := 0
	for f := range next.Board {
		for i := range next.Board[f] {
			if next.Board[f][i] != g.Board[f][i] {
				changed++
			}
		}
	}
	if changed != 3 {
		t.Fatalf("expected exactly 3 cells to change, got %d", changed)
	}
}

func TestRejectedMoveLeavesGameUntouched(t *testing.T) {
	g := playMoves(t, New(ModeMulti), []Coord{{0, 0}, {1, 4}, {2, 1}})
	before := g.Board
	attempts := []struct {
		c    Coord
		side Mark
	}{
		{Coord{0, 0}, O},
		{Coord{9, 0}, O},
		{Coord{0, 4}, X},
	}
	for _, a := range attempts {
		next, touched, err := g.Play(a.c, a.side)
		if err == nil {
			t.Fatalf("expected %v by %v to fail", a.c, a.side)
		}
		if next.Board != before || touched != nil || next.Version != g.Version {
			t.Fatalf("rejected move %v mutated state", a.c)
		}
	}
}

func TestTwoLinesDoNotEndGame(t *testing.T) {
	g := New(ModeMulti)
	g.Board = boardWith(map[Coord]Mark{
		{0, 1}: X, {0, 4}: X, {0, 7}: X,
		{1, 1}: X, {1, 4}: X,
	})
	g.Turn = X
	next, _, err := g.Play(Coord{1, 7}, X)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if next.Over() {
		t.Fatalf("two completed lines must not end the game")
	}
	if next.Turn != O {
		t.Fatalf("expected O to move, got %v", next.Turn)
	}
}

func TestThirdLineAcrossFacesWins(t *testing.T) {
	g := New(ModeMulti)
	g.Board = boardWith(map[Coord]Mark{
		{0, 1}: X, {0, 4}: X, {0, 7}: X,
		{1, 1}: X, {1, 4}: X, {1, 7}: X,
		{2, 3}: X, {2, 5}: X,
	})
	next, _, err := g.Play(Coord{2, 4}, X)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if !next.Over() || next.Winner != X {
		t.Fatalf("expected X to win; over=%v winner=%v", next.Over(), next.Winner)
	}
	res, ok := next.Win()
	if !ok || res.Winner != X || len(res.Cells) != 9 {
		t.Fatalf("expected 9 winning cells, got %v ok=%v", res.Cells, ok)
	}
	if _, _, err := next.Play(Coord{3, 4}, O); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if _, err := next.SelectBomb(Coord{3, 4}, O); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver for bomb, got %v", err)
	}
}

func TestDrawOnFullBoard(t *testing.T) {
	// X O X / X O O / O X X has no line
	pattern := [CellsPerFace]Mark{X, O, X, X, O, O, O, X, X}
	g := New(ModeMulti)
	for f := range g.Board {
		g.Board[f] = pattern
	}
	g.Board[5][CenterCell] = Empty
	g.Turn = O
	next, _, err := g.Play(Coord{5, CenterCell}, O)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if !next.Draw() || !next.Over() {
		t.Fatalf("expected a draw, phase=%v winner=%v", next.Phase, next.Winner)
	}
}

func TestSnapshotHighlightsWin(t *testing.T) {
	g := New(ModeMulti)
	g.Board = boardWith(map[Coord]Mark{
		{0, 0}: O, {0, 4}: O, {0, 8}: O,
		{0, 2}: O, {0, 6}: O,
		{3, 1}: O, {3, 4}: O,
	})
	g.Turn = O
	next, _, err := g.Play(Coord{3, 7}, O)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	s := next.Snapshot()
	if s.Winner != O || s.Phase != GameOver {
		t.Fatalf("expected O to win, got %v in %v", s.Winner, s.Phase)
	}
	// both diagonals share the center, which must appear once
	if len(s.Highlight) != 8 {
		t.Fatalf("expected 8 distinct highlighted cells, got %d: %v", len(s.Highlight), s.Highlight)
	}
	if !s.Highlighted(Coord{0, 4}) || !s.Highlighted(Coord{3, 7}) {
		t.Fatalf("expected win cells highlighted")
	}
}
