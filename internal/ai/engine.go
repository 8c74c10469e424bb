// Package ai picks moves for the computer seat: an iterative-deepening
// minimax search with alpha-beta pruning, a per-search transposition table,
// a line-based evaluator, and a policy for spending the bomb.
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jaminalder/cube-tic-tac-toe/internal/domain"
)

const (
	DefaultDepth = 4
	// DefaultBudget is how long one decision may search before the deepest
	// finished pass is played.
	DefaultBudget = 2 * time.Second
	// MaxDepth bounds the configurable depth; a game never lasts longer.
	MaxDepth = domain.NumCells
)

// ErrNoMoves is returned when the board has no empty cell left.
var ErrNoMoves = errors.New("ai: no legal moves")

// Kind tells a placement from a bomb.
type Kind uint8

const (
	Place Kind = iota
	UseBomb
)

func (k Kind) String() string {
	if k == UseBomb {
		return "bomb"
	}
	return "place"
}

// Decision is what the AI wants to do on its turn.
type Decision struct {
	Kind  Kind
	Coord domain.Coord    // set for Place
	Cells [3]domain.Coord // set for UseBomb, in pick order
	Line  domain.FaceLine // set for UseBomb

	// Search statistics, zero for bomb decisions.
	Score    int
	Depth    int
	Nodes    int
	Duration time.Duration
}

func (d Decision) String() string {
	if d.Kind == UseBomb {
		return fmt.Sprintf("bomb %v %v %v", d.Cells[0], d.Cells[1], d.Cells[2])
	}
	return fmt.Sprintf("place %v", d.Coord)
}

// Apply plays d for the side to move in g.
func (d Decision) Apply(g domain.Game) (domain.Game, error) {
	side := g.Turn
	if d.Kind == Place {
		next, _, err := g.Play(d.Coord, side)
		return next, err
	}
	for _, c := range d.Cells {
		var err error
		if g, err = g.SelectBomb(c, side); err != nil {
			return g, err
		}
	}
	return g, nil
}

// Engine is a stateless move picker. A single Engine may serve concurrent
// Decide calls; every call owns its own board copy and table.
type Engine struct {
	Depth int
	// Budget caps the wall time of one decision. Zero means no cap.
	Budget time.Duration
}

// New returns an engine searching up to depth plies, clamped to [1, MaxDepth],
// within DefaultBudget.
func New(depth int) *Engine {
	if depth < 1 {
		depth = 1
	}
	if depth > MaxDepth {
		depth = MaxDepth
	}
	return &Engine{Depth: depth, Budget: DefaultBudget}
}

// Decide picks the move for the side to move in g. It honours ctx and the
// engine's budget: when either runs out mid-search the result of the
// deepest finished pass is returned, or the context error if not even
// depth 1 finished.
func (e *Engine) Decide(ctx context.Context, g domain.Game) (Decision, error) {
	switch g.Phase {
	case domain.AwaitingMode:
		return Decision{}, domain.ErrModeNotChosen
	case domain.GameOver:
		return Decision{}, domain.ErrGameOver
	}
	start := time.Now()
	me := g.Turn

	if fl, ok := bombPlan(&g.Board, me, g.Bomb(me)); ok {
		return Decision{Kind: UseBomb, Cells: fl.Coords(), Line: fl, Duration: time.Since(start)}, nil
	}

	if len(Moves(&g.Board)) == 0 {
		return Decision{}, ErrNoMoves
	}
	if e.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Budget)
		defer cancel()
	}
	depth := min(e.Depth, g.Board.EmptyCount())
	s := newSearcher(ctx, g.Board, me)
	res, ok := s.iterate(depth)
	if !ok {
		if err := ctx.Err(); err != nil {
			return Decision{}, err
		}
		return Decision{}, ErrNoMoves
	}
	return Decision{
		Kind:     Place,
		Coord:    res.move,
		Score:    res.score,
		Depth:    res.depth,
		Nodes:    s.nodes,
		Duration: time.Since(start),
	}, nil
}

// Result carries an asynchronous decision together with the version of the
// game it was computed for.
type Result struct {
	Decision Decision
	Err      error
	Version  uint64
}

// DecideAsync runs Decide on its own goroutine. The channel receives exactly
// one Result and is then closed. Cancel ctx to stop the search early.
func (e *Engine) DecideAsync(ctx context.Context, g domain.Game) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		d, err := e.Decide(ctx, g)
		out <- Result{Decision: d, Err: err, Version: g.Version}
	}()
	return out
}
