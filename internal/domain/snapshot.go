package domain

// Snapshot is the read-only view a display needs.
type Snapshot struct {
	Board   Board
	Mode    Mode
	Phase   Phase
	Turn    Mark
	Winner  Mark
	Draw    bool
	Moves   int
	Version uint64
	// Highlight holds the winning cells once the game is won, otherwise the
	// current bomb selection with its mirrors. Each cell appears once.
	Highlight []Coord
	// Selection is the current player's bomb picks in order.
	Selection     []Coord
	BombAvailable [2]bool // indexed by mark: [0] is X, [1] is O
}

// Snapshot captures g for display.
func (g Game) Snapshot() Snapshot {
	s := Snapshot{
		Board:   g.Board,
		Mode:    g.Mode,
		Phase:   g.Phase,
		Turn:    g.Turn,
		Winner:  g.Winner,
		Draw:    g.Draw(),
		Moves:   g.Moves,
		Version: g.Version,
		BombAvailable: [2]bool{
			!g.Bombs[0].Used,
			!g.Bombs[1].Used,
		},
	}
	switch {
	case g.Winner != Empty:
		s.Highlight = dedupe(g.WinCells)
	case g.Phase == BombSelecting:
		bm := g.Bomb(g.Turn)
		s.Highlight = bm.Highlight()
		s.Selection = bm.Selection()
	}
	return s
}

// Highlighted reports whether c is part of the highlight set.
func (s Snapshot) Highlighted(c Coord) bool {
	for _, h := range s.Highlight {
		if h == c {
			return true
		}
	}
	return false
}

func dedupe(cells []Coord) []Coord {
	out := make([]Coord, 0, len(cells))
	seen := make(map[Coord]bool, len(cells))
	for _, c := range cells {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}
