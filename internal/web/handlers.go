package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jaminalder/cube-tic-tac-toe/internal/app"
	"github.com/jaminalder/cube-tic-tac-toe/internal/domain"
)

var errBadRequest = errors.New("malformed request")

type handlers struct {
	svc *app.Service
	tpl *templates
	log *slog.Logger
}

func (h *handlers) renderBoard(gs app.GameState, armed bool, errMsg string) []byte {
	return renderTemplate(h.tpl.board, "", newBoardView(gs, armed, errMsg))
}

// renderEvent is the service renderer: the board fragment pushed over SSE.
func (h *handlers) renderEvent(gs app.GameState) []byte {
	return h.renderBoard(gs, false, "")
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, "", nil))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	mode := domain.ModeNone
	if v := r.Form.Get("mode"); v != "" {
		m, err := domain.ParseMode(v)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		mode = m
	}
	gs, err := h.svc.CreateGame(mode)
	if err != nil {
		h.log.Error("create game", "err", err)
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	if wantsJSON(r) {
		writeJSON(w, http.StatusCreated, newStateJSON(*gs))
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	data := newBoardView(*gs, false, "")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	// Render page with embedded board container
	_, _ = w.Write(renderTemplate(h.tpl.game, "", data))
}

// board returns the fragment alone; ?bomb=1 arms bomb selection.
func (h *handlers) board(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	armed := r.URL.Query().Get("bomb") == "1"
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(*gs, armed, ""))
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorJSON{Error: app.ErrNotFound.Error()})
		return
	}
	writeJSON(w, http.StatusOK, newStateJSON(*gs))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(id string, gs *app.GameState, c domain.Coord) (*app.GameState, error) {
		return h.svc.Play(id, gs.Seat(), c)
	})
}

func (h *handlers) bomb(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(id string, gs *app.GameState, c domain.Coord) (*app.GameState, error) {
		return h.svc.SelectBomb(id, gs.Seat(), c)
	})
}

func (h *handlers) cancelBomb(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(id string, gs *app.GameState, _ domain.Coord) (*app.GameState, error) {
		return h.svc.CancelBomb(id, gs.Seat())
	})
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(id string, _ *app.GameState, _ domain.Coord) (*app.GameState, error) {
		return h.svc.Reset(id)
	})
}

func (h *handlers) mode(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(id string, gs *app.GameState, _ domain.Coord) (*app.GameState, error) {
		m, err := domain.ParseMode(r.Form.Get("mode"))
		if err != nil {
			return gs, err
		}
		return h.svc.ChooseMode(id, m)
	})
}

type action func(id string, gs *app.GameState, c domain.Coord) (*app.GameState, error)

// act runs a state-changing request and answers with the board fragment,
// or with JSON when the client asks for it.
func (h *handlers) act(w http.ResponseWriter, r *http.Request, fn action) {
	id := chi.URLParam(r, "id")
	gs, ok := h.svc.Get(id)
	if !ok {
		h.fail(w, r, app.ErrNotFound)
		return
	}
	_ = r.ParseForm()
	c, err := parseCoord(r)
	var next *app.GameState
	if err == nil || !needsCoord(r) {
		next, err = fn(id, gs, c)
	}
	if next == nil {
		next = gs
	}

	if wantsJSON(r) {
		if err != nil && !errors.Is(err, domain.ErrInvalidBombSelection) {
			writeJSON(w, statusFor(err), errorJSON{Error: err.Error()})
			return
		}
		st := newStateJSON(*next)
		if err != nil {
			st.Error = err.Error()
		}
		writeJSON(w, statusFor(err), st)
		return
	}
	var errMsg string
	if err != nil {
		errMsg = errorMessage(err)
		h.log.Debug("rejected", "game", id, "path", r.URL.Path, "err", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(*next, false, errMsg))
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if wantsJSON(r) {
		writeJSON(w, statusFor(err), errorJSON{Error: err.Error()})
		return
	}
	http.Error(w, errorMessage(err), statusFor(err))
}

func needsCoord(r *http.Request) bool {
	p := r.URL.Path
	return strings.HasSuffix(p, "/play") || strings.HasSuffix(p, "/bomb")
}

func parseCoord(r *http.Request) (domain.Coord, error) {
	f, err1 := strconv.Atoi(r.Form.Get("face"))
	c, err2 := strconv.Atoi(r.Form.Get("cell"))
	if err1 != nil || err2 != nil {
		return domain.Coord{}, errBadRequest
	}
	return domain.Coord{Face: f, Cell: c}, nil
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return "Game not found"
	case errors.Is(err, app.ErrNotAPlayer):
		return "That seat belongs to the computer"
	case errors.Is(err, domain.ErrWrongTurn):
		return "Not your turn"
	case errors.Is(err, domain.ErrCellOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrOutOfRange):
		return "Out of bounds"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is over"
	case errors.Is(err, domain.ErrBombConsumed):
		return "Bomb already used"
	case errors.Is(err, domain.ErrInvalidBombSelection):
		return "A bomb must hit one row, column or diagonal of a single face"
	case errors.Is(err, domain.ErrModeNotChosen):
		return "Choose a mode first"
	case errors.Is(err, domain.ErrModeAlreadyChosen):
		return "Mode already chosen"
	case errors.Is(err, domain.ErrInvalidMode):
		return "Unknown mode"
	default:
		return "Invalid move"
	}
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, app.ErrNotAPlayer):
		return http.StatusForbidden
	case errors.Is(err, app.ErrClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrOutOfRange),
		errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, domain.ErrInvalidBombSelection):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusConflict
	}
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub := h.svc.Subscribe(ctx, id)
	defer unsub()
	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	// Initial flush of headers
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, "board", b)
			flusher.Flush()
		}
	}
}

// writeEvent frames payload as one SSE event, one data line per line.
func writeEvent(w io.Writer, name string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", name)
	for _, line := range strings.Split(strings.TrimSpace(string(payload)), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorJSON struct {
	Error string `json:"error"`
}

type stateJSON struct {
	ID        string          `json:"id"`
	Mode      string          `json:"mode"`
	Phase     string          `json:"phase"`
	Turn      string          `json:"turn"`
	Winner    string          `json:"winner,omitempty"`
	Draw      bool            `json:"draw"`
	Moves     int             `json:"moves"`
	Version   uint64          `json:"version"`
	Thinking  bool            `json:"thinking"`
	Faces     [6]string       `json:"faces"` // nine marks per face, '.' for empty
	Highlight []string        `json:"highlight,omitempty"`
	Selection []string        `json:"selection,omitempty"`
	Bombs     map[string]bool `json:"bombs"`
	Error     string          `json:"error,omitempty"`
}

func newStateJSON(gs app.GameState) stateJSON {
	snap := gs.Game.Snapshot()
	st := stateJSON{
		ID:       gs.ID,
		Mode:     snap.Mode.String(),
		Phase:    snap.Phase.String(),
		Draw:     snap.Draw,
		Moves:    snap.Moves,
		Version:  snap.Version,
		Thinking: gs.Thinking,
		Bombs: map[string]bool{
			domain.X.String(): snap.BombAvailable[0],
			domain.O.String(): snap.BombAvailable[1],
		},
	}
	if snap.Phase != domain.AwaitingMode {
		st.Turn = snap.Turn.String()
	}
	if snap.Winner != domain.Empty {
		st.Winner = snap.Winner.String()
	}
	for f := range snap.Board {
		var sb strings.Builder
		for _, m := range snap.Board[f] {
			sb.WriteString(m.String())
		}
		st.Faces[f] = sb.String()
	}
	for _, c := range snap.Highlight {
		st.Highlight = append(st.Highlight, c.String())
	}
	for _, c := range snap.Selection {
		st.Selection = append(st.Selection, c.String())
	}
	return st
}
