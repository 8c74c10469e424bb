package domain

// Undo records what a placement overwrote so it can be reverted.
type Undo struct {
	n     int
	cells [3]Coord
	prev  [3]Mark
}

// Touched returns the primary cell followed by its mirrors.
func (u Undo) Touched() []Coord {
	out := make([]Coord, u.n)
	copy(out, u.cells[:u.n])
	return out
}

// Place writes m at c and at every mirror of c, overwriting whatever the
// mirrors held. It does no validation; use ApplyMove for rule checks.
func (b *Board) Place(c Coord, m Mark) Undo {
	var u Undo
	u.cells[0], u.prev[0] = c, b[c.Face][c.Cell]
	b[c.Face][c.Cell] = m
	u.n = 1
	for _, mc := range mirrorTable[c.Face][c.Cell] {
		u.cells[u.n], u.prev[u.n] = mc, b[mc.Face][mc.Cell]
		b[mc.Face][mc.Cell] = m
		u.n++
	}
	return u
}

// Revert restores the cells recorded by u, last write first.
func (b *Board) Revert(u Undo) {
	for i := u.n - 1; i >= 0; i-- {
		c := u.cells[i]
		b[c.Face][c.Cell] = u.prev[i]
	}
}

// ApplyMove validates and performs a placement on a copy of b. It returns
// the new board and every cell it changed. On error b is returned as is.
func ApplyMove(b Board, c Coord, m Mark) (Board, []Coord, error) {
	if !c.Valid() {
		return b, nil, ErrOutOfRange
	}
	if m != X && m != O {
		return b, nil, ErrWrongTurn
	}
	if b.At(c) != Empty {
		return b, nil, ErrCellOccupied
	}
	u := b.Place(c, m)
	return b, u.Touched(), nil
}
