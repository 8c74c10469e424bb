package ai

import "github.com/jaminalder/cube-tic-tac-toe/internal/domain"

const (
	// blockPenalty is charged for every opponent line holding two marks and
	// none of ours. It sits an order of magnitude above a two-mark line bonus.
	blockPenalty = 1000

	// winUnit scales terminal scores above anything Evaluate can return:
	// at most 48 lines * 1000 plus positional weights.
	winUnit = 100_000
	// winBase is the ply horizon of the terminal score: a win found at ply p
	// scores (winBase - p) * winUnit.
	winBase = 100

	infinity = (winBase + 1) * winUnit
)

// lineReward[n] is the bonus for an uncontested line holding n marks.
var lineReward = [4]int{0, 10, 100, 1000}

// cellWeight is the positional tiebreak by role: corners, then edges, then
// the center.
var cellWeight = [domain.CellsPerFace]int{
	3, 2, 3,
	2, 1, 2,
	3, 2, 3,
}

// Evaluate scores b from me's point of view. Positive favours me.
func Evaluate(b *domain.Board, me domain.Mark) int {
	score := 0
	for f := range b {
		cells := &b[f]
		for _, ln := range domain.Lines {
			own, opp := 0, 0
			for _, i := range ln {
				switch cells[i] {
				case domain.Empty:
				case me:
					own++
				default:
					opp++
				}
			}
			switch {
			case own > 0 && opp == 0:
				score += lineReward[own]
			case opp == 2 && own == 0:
				score -= blockPenalty
			case opp > 0 && own == 0:
				score -= lineReward[opp]
			}
		}
		for i, m := range cells {
			switch m {
			case domain.Empty:
			case me:
				score += cellWeight[i]
			default:
				score -= cellWeight[i]
			}
		}
	}
	return score
}

// terminalScore scores a decided position reached at ply.
func terminalScore(winner, me domain.Mark, ply int) int {
	s := (winBase - ply) * winUnit
	if winner == me {
		return s
	}
	return -s
}

// decisive reports whether score comes from a won or lost position.
func decisive(score int) bool {
	return score >= winUnit || score <= -winUnit
}
