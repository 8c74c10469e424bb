package ai

import "github.com/jaminalder/cube-tic-tac-toe/internal/domain"

// minLinesForBomb is how many completed lines the AI must own before it
// considers spending its bomb.
const minLinesForBomb = 2

// bombPlan decides whether me should detonate its bomb now. It fires when
// the bomb is unused, me owns at least two completed lines, and some line
// holds exactly two of me's marks and one empty cell. The target is the
// first of me's completed lines.
func bombPlan(b *domain.Board, me domain.Mark, bomb domain.Bomb) (domain.FaceLine, bool) {
	if !bomb.Available() {
		return domain.FaceLine{}, false
	}
	completed := domain.CompletedLines(b, me)
	if len(completed) < minLinesForBomb {
		return domain.FaceLine{}, false
	}
	if !hasAlmostLine(b, me) {
		return domain.FaceLine{}, false
	}
	return completed[0], true
}

func hasAlmostLine(b *domain.Board, me domain.Mark) bool {
	for f := range b {
		cells := &b[f]
		for _, ln := range domain.Lines {
			own, empty := 0, 0
			for _, i := range ln {
				switch cells[i] {
				case me:
					own++
				case domain.Empty:
					empty++
				}
			}
			if own == 2 && empty == 1 {
				return true
			}
		}
	}
	return false
}
