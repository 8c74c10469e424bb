package domain

// Faces are laid out as front (0), back (1), right (2), left (3), top (4)
// and bottom (5). Every non-center cell sits on a physical edge or corner
// of the cube and is shared with one (edge) or two (corner) cells on the
// neighbouring faces.
var mirrorTable = [NumFaces][CellsPerFace][]Coord{
	0: {
		0: {{4, 6}, {3, 2}},
		1: {{4, 7}},
		2: {{4, 8}, {2, 0}},
		3: {{3, 5}},
		5: {{2, 3}},
		6: {{5, 0}, {3, 8}},
		7: {{5, 1}},
		8: {{5, 2}, {2, 6}},
	},
	1: {
		0: {{2, 2}, {4, 2}},
		1: {{4, 1}},
		2: {{4, 0}, {3, 0}},
		3: {{2, 5}},
		5: {{3, 3}},
		6: {{2, 8}, {5, 8}},
		7: {{5, 7}},
		8: {{5, 6}, {3, 6}},
	},
	2: {
		0: {{4, 8}, {0, 2}},
		1: {{4, 5}},
		2: {{1, 0}, {4, 2}},
		3: {{0, 5}},
		5: {{1, 3}},
		6: {{5, 2}, {0, 8}},
		7: {{5, 5}},
		8: {{1, 6}, {5, 8}},
	},
	3: {
		0: {{4, 0}, {1, 2}},
		1: {{4, 3}},
		2: {{0, 0}, {4, 6}},
		3: {{1, 5}},
		5: {{0, 3}},
		6: {{5, 6}, {1, 8}},
		7: {{5, 3}},
		8: {{0, 6}, {5, 0}},
	},
	4: {
		0: {{3, 0}, {1, 2}},
		1: {{1, 1}},
		2: {{2, 2}, {1, 0}},
		3: {{3, 1}},
		5: {{2, 1}},
		6: {{0, 0}, {3, 2}},
		7: {{0, 1}},
		8: {{0, 2}, {2, 0}},
	},
	5: {
		0: {{0, 6}, {3, 8}},
		1: {{0, 7}},
		2: {{2, 6}, {0, 8}},
		3: {{3, 7}},
		5: {{2, 7}},
		6: {{1, 8}, {3, 6}},
		7: {{1, 7}},
		8: {{2, 8}, {1, 6}},
	},
}

// canonical maps every cell to the lowest coordinate of its mirror group.
var canonical [NumFaces][CellsPerFace]Coord

func init() {
	for f := 0; f < NumFaces; f++ {
		for i := 0; i < CellsPerFace; i++ {
			c := Coord{f, i}
			low := c
			for _, m := range mirrorTable[f][i] {
				if m.less(low) {
					low = m
				}
			}
			canonical[f][i] = low
		}
	}
}

// Mirrors returns the cells that copy a mark placed at c. The result is a
// fresh slice; it is empty for centers and for invalid coordinates.
func Mirrors(c Coord) []Coord {
	if !c.Valid() {
		return nil
	}
	src := mirrorTable[c.Face][c.Cell]
	out := make([]Coord, len(src))
	copy(out, src)
	return out
}

// HasMirrors reports whether a mark at c propagates to other faces. This is
// true for every cell except the center of a face.
func HasMirrors(c Coord) bool {
	return c.Valid() && len(mirrorTable[c.Face][c.Cell]) > 0
}

// Canonical returns the representative of c's mirror group: the lowest
// coordinate among c and its mirrors. Placing at any member of a group
// produces the same board.
func Canonical(c Coord) Coord { return canonical[c.Face][c.Cell] }

// Group returns c followed by its mirrors.
func Group(c Coord) []Coord {
	return append([]Coord{c}, mirrorTable[c.Face][c.Cell]...)
}
