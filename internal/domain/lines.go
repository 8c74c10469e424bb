package domain

// Line is a row, column or diagonal of a face as three cell indices.
type Line [3]int

// Lines are the eight winning triples of a face.
var Lines = [8]Line{
	// rows
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	// cols
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	// diags
	{0, 4, 8}, {2, 4, 6},
}

// LinesToWin is the number of completed lines, summed over all faces,
// that ends the game.
const LinesToWin = 3

// FaceLine is a line anchored on a specific face.
type FaceLine struct {
	Face int
	Line Line
}

// Coords expands the line to cube coordinates.
func (fl FaceLine) Coords() [3]Coord {
	return [3]Coord{
		{fl.Face, fl.Line[0]},
		{fl.Face, fl.Line[1]},
		{fl.Face, fl.Line[2]},
	}
}

// MatchLine reports the line made of exactly the given indices, in any order.
func MatchLine(a, b, c int) (Line, bool) {
	for _, ln := range Lines {
		if sameSet(ln, a, b, c) {
			return ln, true
		}
	}
	return Line{}, false
}

func sameSet(ln Line, a, b, c int) bool {
	var seen [3]bool
	for _, v := range [3]int{a, b, c} {
		found := false
		for i, x := range ln {
			if !seen[i] && x == v {
				seen[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FaceLines returns the completed lines on one face: all three cells
// non-empty and identical.
func FaceLines(b *Board, face int) []Line {
	var out []Line
	cells := &b[face]
	for _, ln := range Lines {
		if m := cells[ln[0]]; m != Empty && m == cells[ln[1]] && m == cells[ln[2]] {
			out = append(out, ln)
		}
	}
	return out
}

// CompletedLines returns every completed line owned by side, face by face.
func CompletedLines(b *Board, side Mark) []FaceLine {
	var out []FaceLine
	for f := 0; f < NumFaces; f++ {
		for _, ln := range FaceLines(b, f) {
			if b[f][ln[0]] == side {
				out = append(out, FaceLine{Face: f, Line: ln})
			}
		}
	}
	return out
}

// CountLines returns how many completed lines each player owns.
func CountLines(b *Board) (x, o int) {
	for f := range b {
		cells := &b[f]
		for _, ln := range Lines {
			m := cells[ln[0]]
			if m == Empty || m != cells[ln[1]] || m != cells[ln[2]] {
				continue
			}
			if m == X {
				x++
			} else {
				o++
			}
		}
	}
	return x, o
}

// Winner returns the player owning at least LinesToWin completed lines,
// testing X before O, or Empty.
func Winner(b *Board) Mark {
	x, o := CountLines(b)
	switch {
	case x >= LinesToWin:
		return X
	case o >= LinesToWin:
		return O
	}
	return Empty
}

// WinResult describes the outcome of a cube-level win check.
type WinResult struct {
	Winner Mark
	// Cells lists every cell of the winner's completed lines. A cell shared
	// by two lines appears twice.
	Cells []Coord
}

// CheckCubeWin aggregates completed lines over all six faces. A single
// face's three-in-a-row does not end the game on its own.
func CheckCubeWin(b *Board) WinResult {
	w := Winner(b)
	if w == Empty {
		return WinResult{}
	}
	lines := CompletedLines(b, w)
	cells := make([]Coord, 0, 3*len(lines))
	for _, fl := range lines {
		c := fl.Coords()
		cells = append(cells, c[:]...)
	}
	return WinResult{Winner: w, Cells: cells}
}
