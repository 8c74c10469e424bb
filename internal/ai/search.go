package ai

import (
	"context"

	"github.com/jaminalder/cube-tic-tac-toe/internal/domain"
)

type boundType uint8

const (
	boundExact boundType = iota
	boundLower
	boundUpper
)

// ttKey identifies a node. The ply fixes both the side to move and the
// distance used in terminal scores, so entries are only shared between
// transpositions that are genuinely equivalent.
type ttKey struct {
	board domain.Board
	ply   int8
}

type ttEntry struct {
	depth   int8 // remaining depth the score was searched to
	bound   boundType
	score   int
	move    domain.Coord
	hasMove bool
}

const (
	// cancelCheckInterval is how many nodes are searched between context checks.
	cancelCheckInterval = 1024
	// maxTableEntries bounds the transposition table; it is emptied when full.
	maxTableEntries = 1 << 18
)

// searcher owns one board and one transposition table for a single
// decision. It is not safe for concurrent use.
type searcher struct {
	ctx     context.Context
	board   domain.Board
	me      domain.Mark
	table   map[ttKey]ttEntry
	limit   int // table size that triggers a clear
	nodes   int
	aborted bool
	noTable bool
}

func newSearcher(ctx context.Context, b domain.Board, me domain.Mark) *searcher {
	return &searcher{
		ctx:   ctx,
		board: b,
		me:    me,
		table: make(map[ttKey]ttEntry),
		limit: maxTableEntries,
	}
}

// search runs alpha-beta on s.board to the given remaining depth. The AI
// maximizes on even plies and the opponent minimizes on odd ones. It
// returns the score and, when the node has children, the best move.
func (s *searcher) search(ply, depth, alpha, beta int) (int, domain.Coord, bool) {
	s.nodes++
	if s.nodes%cancelCheckInterval == 0 && s.ctx.Err() != nil {
		s.aborted = true
	}
	if s.aborted {
		return 0, domain.Coord{}, false
	}

	if w := domain.Winner(&s.board); w != domain.Empty {
		return terminalScore(w, s.me, ply), domain.Coord{}, false
	}

	alphaOrig, betaOrig := alpha, beta
	key := ttKey{board: s.board, ply: int8(ply)}
	var hashMove domain.Coord
	hasHashMove := false
	if !s.noTable {
		if entry, ok := s.table[key]; ok {
			hashMove, hasHashMove = entry.move, entry.hasMove
			if int(entry.depth) >= depth {
				switch entry.bound {
				case boundExact:
					return entry.score, entry.move, entry.hasMove
				case boundLower:
					alpha = max(alpha, entry.score)
				case boundUpper:
					beta = min(beta, entry.score)
				}
				if beta <= alpha {
					return entry.score, entry.move, entry.hasMove
				}
			}
		}
	}

	if depth == 0 {
		if s.board.Full() {
			return 0, domain.Coord{}, false
		}
		score := Evaluate(&s.board, s.me)
		s.store(key, 0, score, alphaOrig, betaOrig, domain.Coord{}, false)
		return score, domain.Coord{}, false
	}
	moves := Moves(&s.board)
	if len(moves) == 0 {
		return 0, domain.Coord{}, false
	}
	if hasHashMove {
		promote(moves, hashMove)
	}

	maximizing := ply%2 == 0
	side := s.me
	best := -infinity
	if !maximizing {
		side = s.me.Opponent()
		best = infinity
	}
	var bestMove domain.Coord
	for _, c := range moves {
		undo := s.board.Place(c, side)
		score, _, _ := s.search(ply+1, depth-1, alpha, beta)
		s.board.Revert(undo)
		if s.aborted {
			return 0, domain.Coord{}, false
		}
		if maximizing {
			if score > best {
				best, bestMove = score, c
			}
			alpha = max(alpha, best)
		} else {
			if score < best {
				best, bestMove = score, c
			}
			beta = min(beta, best)
		}
		if beta <= alpha {
			break
		}
	}
	s.store(key, depth, best, alphaOrig, betaOrig, bestMove, true)
	return best, bestMove, true
}

func (s *searcher) store(key ttKey, depth, score, alphaOrig, betaOrig int, move domain.Coord, hasMove bool) {
	if s.noTable {
		return
	}
	bound := boundExact
	switch {
	case score <= alphaOrig:
		bound = boundUpper
	case score >= betaOrig:
		bound = boundLower
	}
	if len(s.table) >= s.limit {
		clear(s.table)
	}
	s.table[key] = ttEntry{depth: int8(depth), bound: bound, score: score, move: move, hasMove: hasMove}
}

// iterate searches depth 1, 2, ... up to maxDepth, keeping the result of the
// deepest pass that finished. It stops early once a forced result is found
// or the context is done.
func (s *searcher) iterate(maxDepth int) (result, bool) {
	var best result
	found := false
	for depth := 1; depth <= maxDepth; depth++ {
		if s.ctx.Err() != nil {
			break
		}
		score, move, ok := s.search(0, depth, -infinity, infinity)
		if s.aborted || !ok {
			break
		}
		best = result{move: move, score: score, depth: depth}
		found = true
		if decisive(score) {
			break
		}
	}
	return best, found
}

type result struct {
	move  domain.Coord
	score int
	depth int
}
