package domain

import "fmt"

// Mark represents the content of a single cell.
type Mark uint8

const (
	Empty Mark = iota
	X          // player A, always moves first
	O          // player B, the computer seat in single-player games
)

func (m Mark) String() string {
	switch m {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "."
	}
}

// Opponent returns the other player's mark. Empty has no opponent.
func (m Mark) Opponent() Mark {
	switch m {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

// ParseMark accepts "X" or "O" in either case.
func ParseMark(s string) (Mark, error) {
	switch s {
	case "X", "x":
		return X, nil
	case "O", "o":
		return O, nil
	}
	return Empty, fmt.Errorf("unknown mark %q", s)
}

const (
	NumFaces     = 6
	CellsPerFace = 9
	NumCells     = NumFaces * CellsPerFace
	CenterCell   = 4
)

// Coord addresses one cell of the cube. Cells are numbered row-major:
//
//	0 1 2
//	3 4 5
//	6 7 8
type Coord struct {
	Face int
	Cell int
}

// Valid reports whether c lies on the cube.
func (c Coord) Valid() bool {
	return c.Face >= 0 && c.Face < NumFaces && c.Cell >= 0 && c.Cell < CellsPerFace
}

func (c Coord) String() string { return fmt.Sprintf("%d-%d", c.Face, c.Cell) }

func (c Coord) less(o Coord) bool {
	if c.Face != o.Face {
		return c.Face < o.Face
	}
	return c.Cell < o.Cell
}

// Board is the 6x9 grid of marks. It is a plain value: assigning a Board
// copies it.
type Board [NumFaces][CellsPerFace]Mark

// At returns the mark at c. c must be valid.
func (b *Board) At(c Coord) Mark { return b[c.Face][c.Cell] }

// Full reports whether no empty cell remains.
func (b *Board) Full() bool {
	for f := range b {
		for _, m := range b[f] {
			if m == Empty {
				return false
			}
		}
	}
	return true
}

// EmptyCount returns the number of empty cells.
func (b *Board) EmptyCount() int {
	n := 0
	for f := range b {
		for _, m := range b[f] {
			if m == Empty {
				n++
			}
		}
	}
	return n
}

func (b Board) String() string {
	out := make([]byte, 0, NumFaces*(CellsPerFace+4))
	for f := range b {
		for i, m := range b[f] {
			if i > 0 && i%3 == 0 {
				out = append(out, '/')
			}
			out = append(out, m.String()...)
		}
		if f < NumFaces-1 {
			out = append(out, ' ')
		}
	}
	return string(out)
}
