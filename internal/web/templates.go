package web

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/jaminalder/cube-tic-tac-toe/internal/app"
	"github.com/jaminalder/cube-tic-tac-toe/internal/domain"
)

type templates struct {
	base  *template.Template
	game  *template.Template
	board *template.Template
	index *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"lower": strings.ToLower,
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(baseTemplate))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(indexTemplate))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div sse-swap="board" hx-target="#board" hx-swap="outerHTML">{{template "board" .}}</div>
</div>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

// faceNames and netPos lay the faces out as an unfolded cube:
//
//	   top
//	left front right back
//	  bottom
var (
	faceNames = [domain.NumFaces]string{"front", "back", "right", "left", "top", "bottom"}
	netPos    = [domain.NumFaces][2]int{{2, 2}, {2, 4}, {2, 3}, {2, 1}, {1, 2}, {3, 2}}
)

type cellView struct {
	Face, Cell int
	Mark       string
	Highlight  bool
	Disabled   bool
}

type faceView struct {
	Name     string
	Row, Col int
	Cells    []cellView
}

// boardView is the data behind the board fragment.
type boardView struct {
	ID       string
	Mode     string
	Awaiting bool
	Over     bool
	Status   string
	Armed    bool // clicks select bomb cells instead of placing
	CanBomb  bool
	Picks    int
	Bombs    [2]bool
	Thinking bool
	Faces    []faceView
	Error    string
}

func newBoardView(gs app.GameState, armed bool, errMsg string) boardView {
	g := gs.Game
	snap := g.Snapshot()
	seat := gs.Seat()
	v := boardView{
		ID:       gs.ID,
		Mode:     g.Mode.String(),
		Awaiting: g.Phase == domain.AwaitingMode,
		Over:     g.Over(),
		Armed:    armed || g.Phase == domain.BombSelecting,
		Picks:    len(snap.Selection),
		Bombs:    snap.BombAvailable,
		Thinking: gs.Thinking,
		Error:    errMsg,
	}
	v.CanBomb = !v.Over && !v.Awaiting && !gs.Thinking && g.Bomb(seat).Available() && seat == g.Turn
	v.Status = status(gs)
	for f := 0; f < domain.NumFaces; f++ {
		fv := faceView{Name: faceNames[f], Row: netPos[f][0], Col: netPos[f][1]}
		for i := 0; i < domain.CellsPerFace; i++ {
			c := domain.Coord{Face: f, Cell: i}
			m := snap.Board.At(c)
			cv := cellView{Face: f, Cell: i, Highlight: snap.Highlighted(c)}
			if m != domain.Empty {
				cv.Mark = m.String()
			}
			// occupied cells stay clickable while arming: a bomb may target them
			cv.Disabled = v.Over || v.Awaiting || gs.Thinking || (m != domain.Empty && !v.Armed)
			fv.Cells = append(fv.Cells, cv)
		}
		v.Faces = append(v.Faces, fv)
	}
	return v
}

func status(gs app.GameState) string {
	g := gs.Game
	switch {
	case g.Phase == domain.AwaitingMode:
		return "Choose a mode"
	case g.Winner != domain.Empty:
		return g.Winner.String() + " wins"
	case g.Draw():
		return "Draw"
	case gs.Thinking:
		return "Computer is thinking"
	case g.Phase == domain.BombSelecting:
		return g.Turn.String() + " is aiming the bomb"
	}
	return g.Turn.String() + " to move"
}

const baseTemplate = `<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Cube Tic-Tac-Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org@1.9.12/dist/ext/sse.js"></script>
<style>
.net{display:grid;grid-template-columns:repeat(4,auto);gap:12px;justify-content:start}
.face{display:grid;grid-template-columns:repeat(3,40px);gap:2px}
.face form{margin:0}
.face button{width:40px;height:40px;font-size:20px}
.hl button{background:#ffd75e}
.alert{color:#b00}
</style>
</head><body>{{template "content" .}}</body></html>`

const indexTemplate = `<h1>Cube Tic-Tac-Toe</h1>
<form action="/game" method="post">
  <button name="mode" value="single">Single player</button>
  <button name="mode" value="multi">Two players</button>
</form>`

const boardTemplate = `
<div id="board">
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  <p class="status">{{.Status}}</p>
  {{if .Awaiting}}
  <form hx-post="/game/{{.ID}}/mode" hx-target="#board" hx-swap="outerHTML" method="post">
    <button name="mode" value="single">Single player</button>
    <button name="mode" value="multi">Two players</button>
  </form>
  {{else}}
  <p class="bombs">Bomb X: {{if index .Bombs 0}}ready{{else}}used{{end}} &middot; Bomb O: {{if index .Bombs 1}}ready{{else}}used{{end}}</p>
  <div class="net">
    {{range .Faces}}
    <div class="face face-{{.Name}}" style="grid-row:{{.Row}};grid-column:{{.Col}}" title="{{.Name}}">
      {{range .Cells}}
      <form hx-post="/game/{{$.ID}}/{{if $.Armed}}bomb{{else}}play{{end}}" hx-target="#board" hx-swap="outerHTML" method="post"{{if .Highlight}} class="hl"{{end}}>
        <input type="hidden" name="face" value="{{.Face}}">
        <input type="hidden" name="cell" value="{{.Cell}}">
        <button type="submit" class="mark-{{lower .Mark}}"{{if .Disabled}} disabled{{end}}>{{.Mark}}</button>
      </form>
      {{end}}
    </div>
    {{end}}
  </div>
  {{if .Armed}}
  <p>Bomb: pick three cells of one line ({{.Picks}}/3)</p>
  <form hx-post="/game/{{.ID}}/bomb/cancel" hx-target="#board" hx-swap="outerHTML" method="post"><button>Cancel bomb</button></form>
  {{else if .CanBomb}}
  <button hx-get="/game/{{.ID}}/board?bomb=1" hx-target="#board" hx-swap="outerHTML">Use bomb</button>
  {{end}}
  {{end}}
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post"><button>Reset</button></form>
</div>
`
