package domain

// BombPicks is the number of cells that make up a bomb selection.
const BombPicks = 3

// Bomb is one player's single-use bomb and its in-progress selection.
type Bomb struct {
	Used  bool
	picks [BombPicks]Coord
	n     int
}

// Available reports whether the bomb can still be detonated.
func (bm Bomb) Available() bool { return !bm.Used }

// Selecting reports whether a selection is in progress.
func (bm Bomb) Selecting() bool { return bm.n > 0 }

// Selection returns the picked cells in pick order.
func (bm Bomb) Selection() []Coord {
	out := make([]Coord, bm.n)
	copy(out, bm.picks[:bm.n])
	return out
}

// Highlight returns the picked cells together with their mirrors. It is
// display data only; validation never looks at it.
func (bm Bomb) Highlight() []Coord {
	return withMirrors(bm.picks[:bm.n])
}

func (bm Bomb) pick(c Coord) Bomb {
	bm.picks[bm.n] = c
	bm.n++
	return bm
}

func (bm Bomb) cleared() Bomb {
	return Bomb{Used: bm.Used}
}

// BombLine checks that three picks form one of the eight lines of a single
// face and returns that line.
func BombLine(sel [BombPicks]Coord) (FaceLine, error) {
	face := sel[0].Face
	for _, c := range sel {
		if !c.Valid() {
			return FaceLine{}, ErrOutOfRange
		}
		if c.Face != face {
			return FaceLine{}, ErrInvalidBombSelection
		}
	}
	ln, ok := MatchLine(sel[0].Cell, sel[1].Cell, sel[2].Cell)
	if !ok {
		return FaceLine{}, ErrInvalidBombSelection
	}
	return FaceLine{Face: face, Line: ln}, nil
}

// ClearSet returns the cells a bomb on fl empties: the line plus the mirrors
// of each of its cells.
func ClearSet(fl FaceLine) []Coord {
	c := fl.Coords()
	return withMirrors(c[:])
}

// Detonate empties the clear set of fl and returns it.
func (b *Board) Detonate(fl FaceLine) []Coord {
	cells := ClearSet(fl)
	for _, c := range cells {
		b[c.Face][c.Cell] = Empty
	}
	return cells
}

func withMirrors(cells []Coord) []Coord {
	out := make([]Coord, 0, 3*len(cells))
	seen := make(map[Coord]bool, 3*len(cells))
	add := func(c Coord) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range cells {
		add(c)
		for _, m := range mirrorTable[c.Face][c.Cell] {
			add(m)
		}
	}
	return out
}
