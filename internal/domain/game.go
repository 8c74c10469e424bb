package domain

import "errors"

// Mode selects who plays the O seat.
type Mode uint8

const (
	ModeNone   Mode = iota
	ModeSingle      // O is played by the computer
	ModeMulti       // both seats are human
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeMulti:
		return "multi"
	default:
		return "none"
	}
}

// ParseMode accepts "single" and "multi".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "single":
		return ModeSingle, nil
	case "multi":
		return ModeMulti, nil
	}
	return ModeNone, ErrInvalidMode
}

// Phase is the controller state.
type Phase uint8

const (
	AwaitingMode Phase = iota
	Playing
	BombSelecting
	GameOver
)

func (p Phase) String() string {
	switch p {
	case AwaitingMode:
		return "awaiting_mode"
	case Playing:
		return "playing"
	case BombSelecting:
		return "bomb_selecting"
	case GameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Game holds the full state of a cube match. It is a value: every operation
// returns a new Game and leaves the receiver untouched.
type Game struct {
	Board    Board
	Mode     Mode
	Phase    Phase
	Turn     Mark
	Winner   Mark
	WinCells []Coord
	Bombs    [2]Bomb
	Moves    int
	// Version increases with every accepted change, resets included.
	Version uint64
}

// Errors returned by domain operations.
var (
	ErrOutOfRange           = errors.New("coordinate out of range")
	ErrCellOccupied         = errors.New("cell occupied")
	ErrGameOver             = errors.New("game over")
	ErrWrongTurn            = errors.New("wrong player turn")
	ErrBombConsumed         = errors.New("bomb already used")
	ErrInvalidBombSelection = errors.New("bomb selection is not a line on one face")
	ErrModeNotChosen        = errors.New("game mode not chosen")
	ErrModeAlreadyChosen    = errors.New("game mode already chosen")
	ErrInvalidMode          = errors.New("invalid game mode")
)

// New returns a game in the given mode with X to move. An invalid mode
// yields a game still awaiting mode selection.
func New(mode Mode) Game {
	g, err := Reset().ChooseMode(mode)
	if err != nil {
		return Reset()
	}
	return g
}

// Reset returns an empty game awaiting mode selection.
func Reset() Game {
	return Game{Phase: AwaitingMode}
}

// Reset clears g back to mode selection while keeping the version moving
// forward, so results computed for the old game can be recognised as stale.
func (g Game) Reset() Game {
	n := Reset()
	n.Version = g.Version + 1
	return n
}

// ChooseMode fixes the mode for the rest of the game.
func (g Game) ChooseMode(mode Mode) (Game, error) {
	if g.Phase != AwaitingMode {
		return g, ErrModeAlreadyChosen
	}
	if mode != ModeSingle && mode != ModeMulti {
		return g, ErrInvalidMode
	}
	g.Mode = mode
	g.Phase = Playing
	g.Turn = X
	g.Version++
	return g, nil
}

// Over reports whether the game has ended.
func (g Game) Over() bool { return g.Phase == GameOver }

// Draw reports a finished game without a winner.
func (g Game) Draw() bool { return g.Phase == GameOver && g.Winner == Empty }

// Bomb returns side's bomb.
func (g Game) Bomb(side Mark) Bomb {
	if side != X && side != O {
		return Bomb{}
	}
	return g.Bombs[side-1]
}

// Win returns the cube win result once the game is decided.
func (g Game) Win() (WinResult, bool) {
	if g.Winner == Empty {
		return WinResult{}, false
	}
	return WinResult{Winner: g.Winner, Cells: append([]Coord(nil), g.WinCells...)}, true
}

func (g Game) playable(side Mark) error {
	switch g.Phase {
	case AwaitingMode:
		return ErrModeNotChosen
	case GameOver:
		return ErrGameOver
	}
	if side != g.Turn {
		return ErrWrongTurn
	}
	return nil
}

// Play places side's mark at c and mirrors it. It returns the new game and
// every cell that changed. A pending bomb selection is abandoned without
// spending the bomb.
func (g Game) Play(c Coord, side Mark) (Game, []Coord, error) {
	if g.Phase == GameOver {
		return g, nil, ErrGameOver
	}
	if !c.Valid() {
		return g, nil, ErrOutOfRange
	}
	if err := g.playable(side); err != nil {
		return g, nil, err
	}
	board, touched, err := ApplyMove(g.Board, c, side)
	if err != nil {
		return g, nil, err
	}
	g.Board = board
	g.Bombs[side-1] = g.Bombs[side-1].cleared()
	g.Moves++
	g.Version++
	return g.settle(), touched, nil
}

// SelectBomb adds c to side's bomb selection. The third pick resolves the
// bomb: a line on one face is cleared together with its mirrors and the
// turn passes. An invalid third pick fails with ErrInvalidBombSelection;
// the returned game then has an empty selection and the bomb is still
// available. Every other error returns g unchanged.
func (g Game) SelectBomb(c Coord, side Mark) (Game, error) {
	if g.Phase == GameOver {
		return g, ErrGameOver
	}
	if !c.Valid() {
		return g, ErrOutOfRange
	}
	if err := g.playable(side); err != nil {
		return g, err
	}
	bm := g.Bombs[side-1]
	if bm.Used {
		return g, ErrBombConsumed
	}
	if bm.n >= BombPicks {
		g.Bombs[side-1] = bm.cleared()
		g.Phase = Playing
		g.Version++
		return g, ErrInvalidBombSelection
	}

	bm = bm.pick(c)
	g.Version++
	if bm.n < BombPicks {
		g.Bombs[side-1] = bm
		g.Phase = BombSelecting
		return g, nil
	}

	fl, err := BombLine(bm.picks)
	if err != nil {
		g.Bombs[side-1] = bm.cleared()
		g.Phase = Playing
		return g, ErrInvalidBombSelection
	}
	g.Board.Detonate(fl)
	g.Bombs[side-1] = Bomb{Used: true}
	return g.settle(), nil
}

// CancelBomb drops side's in-progress selection. It is a no-op when no
// selection is pending.
func (g Game) CancelBomb(side Mark) Game {
	if g.Phase != BombSelecting || side != g.Turn {
		return g
	}
	g.Bombs[side-1] = g.Bombs[side-1].cleared()
	g.Phase = Playing
	g.Version++
	return g
}

// settle checks the board after a placement or detonation and either ends
// the game or hands the turn over.
func (g Game) settle() Game {
	g.Phase = Playing
	if res := CheckCubeWin(&g.Board); res.Winner != Empty {
		g.Winner = res.Winner
		g.WinCells = res.Cells
		g.Phase = GameOver
		return g
	}
	if g.Board.Full() {
		g.Winner = Empty
		g.Phase = GameOver
		return g
	}
	g.Turn = g.Turn.Opponent()
	return g
}
