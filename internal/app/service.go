package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jaminalder/cube-tic-tac-toe/internal/ai"
	"github.com/jaminalder/cube-tic-tac-toe/internal/domain"
)

// Seats in single-player mode.
const (
	Human    = domain.X
	Computer = domain.O
)

// Errors exposed by the service layer.
var (
	ErrNotFound   = errors.New("game not found")
	ErrNotAPlayer = errors.New("not a player")
	ErrClosed     = errors.New("service closed")
)

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID       string
	Game     domain.Game
	Thinking bool // the computer is searching for its move
	Created  time.Time
	Updated  time.Time
}

// Seat returns the side a move submitted now should be played for: the
// human in single-player mode, the side to move otherwise.
func (gs GameState) Seat() domain.Mark {
	if gs.Game.Mode == domain.ModeSingle {
		return Human
	}
	return gs.Game.Turn
}

type subscriber struct {
	mu     sync.Mutex
	ch     chan []byte
	closed bool
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

// offer delivers b without blocking. It reports false when the subscriber
// is closed or its buffer is full.
func (s *subscriber) offer(b []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- b:
		return true
	default:
		return false
	}
}

// Option configures a Service.
type Option func(*Service)

// WithRenderer sets the function that encodes broadcast payloads.
func WithRenderer(renderer func(GameState) []byte) Option {
	return func(s *Service) { s.setRenderer(renderer) }
}

// WithEngine sets the engine that plays the computer seat.
func WithEngine(e *ai.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithAIDelay makes the computer wait before it starts searching.
func WithAIDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = max(d, 0) }
}

// Service manages games, subscribers and the computer opponent.
type Service struct {
	mu      sync.Mutex
	games   map[string]*GameState
	subs    map[string]map[*subscriber]struct{}
	thinker map[string]context.CancelFunc
	render  func(GameState) []byte
	engine  *ai.Engine
	delay   time.Duration
	log     *slog.Logger
	closed  bool

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// NewService creates a service. Without options it renders nothing, logs
// nowhere and searches at ai.DefaultDepth.
func NewService(opts ...Option) *Service {
	ctx, stop := context.WithCancel(context.Background())
	s := &Service{
		games:   make(map[string]*GameState),
		subs:    make(map[string]map[*subscriber]struct{}),
		thinker: make(map[string]context.CancelFunc),
		render:  func(GameState) []byte { return nil },
		engine:  ai.New(ai.DefaultDepth),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:     ctx,
		stop:    stop,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setRenderer(renderer)
}

func (s *Service) setRenderer(renderer func(GameState) []byte) {
	if renderer == nil {
		renderer = func(GameState) []byte { return nil }
	}
	s.render = renderer
}

// CreateGame creates and registers a new game. ModeNone leaves the game
// waiting for ChooseMode.
func (s *Service) CreateGame(mode domain.Mode) (*GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	g := domain.Reset()
	if mode != domain.ModeNone {
		var err error
		if g, err = g.ChooseMode(mode); err != nil {
			return nil, err
		}
	}
	id := uuid.NewString()
	now := time.Now()
	gs := &GameState{ID: id, Game: g, Created: now, Updated: now}
	s.games[id] = gs
	s.log.Info("game created", "game", id, "mode", g.Mode)
	cp := *gs
	return &cp, nil
}

// Get returns a copy of the game state if present.
func (s *Service) Get(id string) (*GameState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	cp := *gs
	return &cp, true
}

// ChooseMode fixes the mode of a game awaiting it.
func (s *Service) ChooseMode(id string, mode domain.Mode) (*GameState, error) {
	return s.update(id, func(gs *GameState) (domain.Game, error) {
		return gs.Game.ChooseMode(mode)
	})
}

// Play places side's mark at c. In single-player mode only the human seat
// may be submitted.
func (s *Service) Play(id string, side domain.Mark, c domain.Coord) (*GameState, error) {
	return s.update(id, func(gs *GameState) (domain.Game, error) {
		if err := checkSeat(gs, side); err != nil {
			return gs.Game, err
		}
		g, _, err := gs.Game.Play(c, side)
		return g, err
	})
}

// SelectBomb adds c to side's bomb selection. An invalid line is reported
// with domain.ErrInvalidBombSelection and the cleared selection is kept.
func (s *Service) SelectBomb(id string, side domain.Mark, c domain.Coord) (*GameState, error) {
	return s.update(id, func(gs *GameState) (domain.Game, error) {
		if err := checkSeat(gs, side); err != nil {
			return gs.Game, err
		}
		return gs.Game.SelectBomb(c, side)
	})
}

// CancelBomb drops side's pending bomb selection.
func (s *Service) CancelBomb(id string, side domain.Mark) (*GameState, error) {
	return s.update(id, func(gs *GameState) (domain.Game, error) {
		if err := checkSeat(gs, side); err != nil {
			return gs.Game, err
		}
		return gs.Game.CancelBomb(side), nil
	})
}

// Reset returns a game to mode selection, abandoning any search in flight.
func (s *Service) Reset(id string) (*GameState, error) {
	return s.update(id, func(gs *GameState) (domain.Game, error) {
		s.cancelThinkingLocked(gs)
		return gs.Game.Reset(), nil
	})
}

func checkSeat(gs *GameState, side domain.Mark) error {
	if side != domain.X && side != domain.O {
		return ErrNotAPlayer
	}
	if gs.Game.Mode != domain.ModeSingle {
		return nil
	}
	if side == Computer {
		return ErrNotAPlayer
	}
	if gs.Thinking {
		return fmt.Errorf("%w: computer is thinking", domain.ErrWrongTurn)
	}
	return nil
}

// update applies fn to the game under the lock, stores the result when fn
// succeeded or rejected a bomb selection, broadcasts, and hands the turn to
// the computer when it is due.
func (s *Service) update(id string, fn func(*GameState) (domain.Game, error)) (*GameState, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	g, err := fn(gs)
	if err != nil && !errors.Is(err, domain.ErrInvalidBombSelection) {
		cp := *gs
		s.mu.Unlock()
		return &cp, err
	}
	gs.Game = g
	gs.Updated = time.Now()
	s.startThinkingLocked(gs)

	cp := *gs
	subs := s.copySubsLocked(id)
	payload := s.render(cp)
	s.mu.Unlock()

	s.fanout(id, subs, payload)
	return &cp, err
}

// startThinkingLocked launches the computer's search when it is to move.
func (s *Service) startThinkingLocked(gs *GameState) {
	g := gs.Game
	if g.Mode != domain.ModeSingle || g.Phase == domain.GameOver || g.Phase == domain.AwaitingMode || g.Turn != Computer {
		return
	}
	s.cancelThinkingLocked(gs)
	ctx, cancel := context.WithCancel(s.ctx)
	s.thinker[gs.ID] = cancel
	gs.Thinking = true
	s.wg.Add(1)
	go s.think(ctx, gs.ID, g)
}

func (s *Service) cancelThinkingLocked(gs *GameState) {
	if cancel, ok := s.thinker[gs.ID]; ok {
		cancel()
		delete(s.thinker, gs.ID)
	}
	gs.Thinking = false
}

func (s *Service) think(ctx context.Context, id string, g domain.Game) {
	defer s.wg.Done()
	if s.delay > 0 {
		t := time.NewTimer(s.delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return
		}
	}
	res := <-s.engine.DecideAsync(ctx, g)
	if ctx.Err() != nil {
		s.log.Debug("ai search abandoned", "game", id, "version", res.Version)
		return
	}
	s.applyDecision(id, res)
}

// applyDecision plays the computer's move if the game has not moved on
// since the search started.
func (s *Service) applyDecision(id string, res ai.Result) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok || s.closed {
		s.mu.Unlock()
		s.log.Debug("ai result for a removed game", "game", id)
		return
	}
	if gs.Game.Version != res.Version {
		s.mu.Unlock()
		s.log.Info("discarding stale ai result", "game", id, "computed_for", res.Version, "current", gs.Game.Version)
		return
	}
	delete(s.thinker, id)
	gs.Thinking = false

	if res.Err != nil {
		s.mu.Unlock()
		s.log.Error("ai failed", "game", id, "err", res.Err)
		return
	}
	d := res.Decision
	g, err := d.Apply(gs.Game)
	if err != nil {
		s.mu.Unlock()
		s.log.Error("ai move rejected", "game", id, "decision", d.String(), "err", err)
		return
	}
	gs.Game = g
	gs.Updated = time.Now()
	s.log.Info("ai moved", "game", id, "decision", d.String(),
		"score", d.Score, "depth", d.Depth, "nodes", d.Nodes, "dur", d.Duration.Round(time.Millisecond))

	cp := *gs
	subs := s.copySubsLocked(id)
	payload := s.render(cp)
	s.mu.Unlock()

	s.fanout(id, subs, payload)
}

// Subscribe registers a subscriber for a game. Returns a channel and an unsubscribe func.
// For an unknown game the channel is already closed.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		ch := make(chan []byte)
		close(ch)
		return ch, func() {}
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, 1)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub
}

// Close stops every search in flight and waits for them to return. Later
// calls that change games fail with ErrClosed.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	s.stop()
	s.mu.Unlock()
	s.wg.Wait()
}

// fanout delivers payload without blocking; slow subscribers are dropped.
func (s *Service) fanout(id string, subs map[*subscriber]struct{}, payload []byte) {
	var toDrop []*subscriber
	for sub := range subs {
		if !sub.offer(payload) {
			sub.close()
			toDrop = append(toDrop, sub)
		}
	}
	if len(toDrop) == 0 {
		return
	}
	s.log.Debug("dropping slow subscribers", "game", id, "count", len(toDrop))
	s.mu.Lock()
	for _, sub := range toDrop {
		if set, ok := s.subs[id]; ok {
			delete(set, sub)
		}
	}
	s.mu.Unlock()
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
	out := make(map[*subscriber]struct{})
	if set, ok := s.subs[id]; ok {
		for k := range set {
			out[k] = struct{}{}
		}
	}
	return out
}
