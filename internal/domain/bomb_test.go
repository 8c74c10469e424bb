package domain

import (
	"errors"
	"testing"
)

func selectAll(t *testing.T, g Game, side Mark, picks ...Coord) (Game, error) {
	t.Helper()
	var err error
	for i, c := range picks {
		g, err = g.SelectBomb(c, side)
		if err != nil && i < len(picks)-1 {
			t.Fatalf("pick %d (%v) failed early: %v", i, c, err)
		}
	}
	return g, err
}

func TestBombClearsLineAndMirrors(t *testing.T) {
	g := playMoves(t, New(ModeMulti), []Coord{
		{0, 0}, {1, 4}, // X corner: 0-0, 4-6, 3-2
		{0, 1}, {2, 4}, // X edge: 0-1, 4-7
		{0, 2}, // X corner: 0-2, 4-8, 2-0
	})
	if g.Turn != O {
		t.Fatalf("expected O to move")
	}
	g, err := selectAll(t, g, O, Coord{0, 2}, Coord{0, 0}, Coord{0, 1})
	if err != nil {
		t.Fatalf("bomb failed: %v", err)
	}
	cleared := []Coord{{0, 0}, {0, 1}, {0, 2}, {4, 6}, {3, 2}, {4, 7}, {4, 8}, {2, 0}}
	for _, c := range cleared {
		if g.Board.At(c) != Empty {
			t.Fatalf("expected %v cleared, got %v", c, g.Board.At(c))
		}
	}
	if g.Board.At(Coord{1, 4}) != O || g.Board.At(Coord{2, 4}) != O {
		t.Fatalf("cells outside the clear set must survive")
	}
	if g.Bomb(O).Available() || !g.Bomb(X).Available() {
		t.Fatalf("only O's bomb should be spent")
	}
	if g.Turn != X || g.Phase != Playing {
		t.Fatalf("expected X to move after the bomb, got turn=%v phase=%v", g.Turn, g.Phase)
	}
}

func TestBombIsOneShot(t *testing.T) {
	g := New(ModeMulti)
	g, err := selectAll(t, g, X, Coord{3, 0}, Coord{3, 4}, Coord{3, 8})
	if err != nil {
		t.Fatalf("first bomb failed: %v", err)
	}
	g = playMoves(t, g, []Coord{{1, 4}})
	if g.Turn != X {
		t.Fatalf("expected X to move again, got %v", g.Turn)
	}
	for _, c := range []Coord{{3, 0}, {5, 4}} {
		if _, err := g.SelectBomb(c, X); !errors.Is(err, ErrBombConsumed) {
			t.Fatalf("expected ErrBombConsumed, got %v", err)
		}
	}
}

func TestBombSelectionProgress(t *testing.T) {
	g := New(ModeMulti)
	g, err := g.SelectBomb(Coord{0, 0}, X)
	if err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	if g.Phase != BombSelecting {
		t.Fatalf("expected bomb selecting phase, got %v", g.Phase)
	}
	s := g.Snapshot()
	if len(s.Selection) != 1 || len(s.Highlight) != 3 {
		t.Fatalf("expected 1 pick and 3 highlighted cells, got %v / %v", s.Selection, s.Highlight)
	}
	for _, c := range []Coord{{0, 0}, {4, 6}, {3, 2}} {
		if !s.Highlighted(c) {
			t.Fatalf("expected %v highlighted", c)
		}
	}
	if _, err := g.SelectBomb(Coord{0, 1}, O); !errors.Is(err, ErrWrongTurn) {
		t.Fatalf("expected ErrWrongTurn, got %v", err)
	}

	c := g.CancelBomb(X)
	if c.Phase != Playing || c.Bomb(X).Selecting() || !c.Bomb(X).Available() {
		t.Fatalf("cancel should drop the selection and keep the bomb")
	}
}

func TestInvalidBombSelectionKeepsBomb(t *testing.T) {
	base := playMoves(t, New(ModeMulti), []Coord{{0, 4}, {1, 4}, {2, 4}, {3, 4}})
	cases := map[string][]Coord{
		"mixed faces": {{0, 0}, {0, 1}, {1, 2}},
		"not a line":  {{0, 0}, {0, 1}, {0, 5}},
		"repeat pick": {{0, 0}, {0, 0}, {0, 1}},
	}
	for name, picks := range cases {
		g, err := selectAll(t, base, X, picks...)
		if !errors.Is(err, ErrInvalidBombSelection) {
			t.Fatalf("%s: expected ErrInvalidBombSelection, got %v", name, err)
		}
		if g.Board != base.Board {
			t.Fatalf("%s: board changed on a rejected bomb", name)
		}
		if !g.Bomb(X).Available() || g.Bomb(X).Selecting() {
			t.Fatalf("%s: bomb should stay available with an empty selection", name)
		}
		if g.Phase != Playing || g.Turn != X {
			t.Fatalf("%s: expected X still to move, got %v %v", name, g.Turn, g.Phase)
		}
	}
}

func TestBombRejectsOutOfRangeWithoutChange(t *testing.T) {
	g := New(ModeMulti)
	next, err := g.SelectBomb(Coord{0, 9}, X)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if next.Version != g.Version || next.Phase != g.Phase {
		t.Fatalf("rejected pick changed the game")
	}
}

func TestBombRejectedAfterGameOver(t *testing.T) {
	g := New(ModeMulti)
	g.Board = boardWith(map[Coord]Mark{
		{0, 1}: X, {0, 4}: X, {0, 7}: X,
		{1, 1}: X, {1, 4}: X, {1, 7}: X,
		{2, 3}: X, {2, 5}: X,
	})
	over, _, err := g.Play(Coord{2, 4}, X)
	if err != nil || !over.Over() {
		t.Fatalf("setup: expected a finished game, err=%v", err)
	}

	next, err := over.SelectBomb(Coord{0, 1}, O)
	if !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
	if next.Version != over.Version || next.Phase != GameOver || next.Board != over.Board {
		t.Fatalf("rejected pick changed the game")
	}
	if !next.Bomb(O).Available() || next.Bomb(O).Selecting() {
		t.Fatalf("O's bomb must stay untouched")
	}
}

func TestPlayAbandonsBombSelection(t *testing.T) {
	g := New(ModeMulti)
	g, err := g.SelectBomb(Coord{2, 0}, X)
	if err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	g, _, err = g.Play(Coord{2, 4}, X)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if g.Phase != Playing || g.Bomb(X).Selecting() || !g.Bomb(X).Available() {
		t.Fatalf("placing a mark should abandon the selection without spending the bomb")
	}
	if g.Turn != O {
		t.Fatalf("expected O to move, got %v", g.Turn)
	}
}

func TestBombLineValidation(t *testing.T) {
	if _, err := BombLine([3]Coord{{0, 0}, {0, 4}, {0, 8}}); err != nil {
		t.Fatalf("diagonal should be valid: %v", err)
	}
	if _, err := BombLine([3]Coord{{0, 0}, {0, 4}, {0, 9}}); !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
	if _, err := BombLine([3]Coord{{0, 0}, {4, 6}, {3, 2}}); !errors.Is(err, ErrInvalidBombSelection) {
		t.Fatalf("a mirror group is not a line: %v", err)
	}
}

func TestClearSetOfCenterColumn(t *testing.T) {
	cells := ClearSet(FaceLine{Face: 1, Line: Line{1, 4, 7}})
	want := []Coord{{1, 1}, {4, 1}, {1, 4}, {1, 7}, {5, 7}}
	if len(cells) != len(want) {
		t.Fatalf("expected %v, got %v", want, cells)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Fatalf("cell %d = %v, want %v", i, cells[i], want[i])
		}
	}
}
