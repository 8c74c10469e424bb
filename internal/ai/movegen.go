package ai

import (
	"sort"

	"github.com/jaminalder/cube-tic-tac-toe/internal/domain"
)

// movePriority orders candidate cells: center, then corners, then edges.
var movePriority = [domain.CellsPerFace]int{
	2, 1, 2,
	1, 3, 1,
	2, 1, 2,
}

type group struct {
	rep     domain.Coord
	members []domain.Coord
}

// groups lists every mirror group once, best priority first.
var groups []group

func init() {
	seen := make(map[domain.Coord]bool)
	for f := 0; f < domain.NumFaces; f++ {
		for i := 0; i < domain.CellsPerFace; i++ {
			rep := domain.Canonical(domain.Coord{Face: f, Cell: i})
			if !seen[rep] {
				seen[rep] = true
				groups = append(groups, group{rep: rep, members: domain.Group(rep)})
			}
		}
	}
	sort.SliceStable(groups, func(a, b int) bool {
		return movePriority[groups[a].rep.Cell] > movePriority[groups[b].rep.Cell]
	})
}

// Moves returns the placements available on b in search order. Cells of one
// mirror group lead to the same board, so a fully empty group yields only
// its representative; a partially filled group yields each empty member.
func Moves(b *domain.Board) []domain.Coord {
	return appendMoves(make([]domain.Coord, 0, len(groups)), b)
}

func appendMoves(dst []domain.Coord, b *domain.Board) []domain.Coord {
	for _, g := range groups {
		free := 0
		for _, c := range g.members {
			if b.At(c) == domain.Empty {
				free++
			}
		}
		switch {
		case free == 0:
		case free == len(g.members):
			dst = append(dst, g.rep)
		default:
			for _, c := range g.members {
				if b.At(c) == domain.Empty {
					dst = append(dst, c)
				}
			}
		}
	}
	return dst
}

// promote moves first to the front of moves if present.
func promote(moves []domain.Coord, first domain.Coord) {
	for i, c := range moves {
		if c == first {
			copy(moves[1:i+1], moves[:i])
			moves[0] = first
			return
		}
	}
}
