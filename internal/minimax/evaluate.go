package minimax

import (
	"smart_horses/internal/domain/game"
)

const (
	// WinScore is returned for decided terminal states.
	WinScore = 10000

	weightScore     = 100
	weightMobility  = 10
	weightProximity = 5
	weightCenter    = 3
	stuckScore      = 400
)

// Evaluate scores a state from white's point of view. Terminal states short
// out to +-WinScore or 0; otherwise the five weighted factors are summed:
// score differential, mobility differential, proximity to positive squares,
// center control, and a flat no-move term per stuck side. Evaluate reads only
// the given state, so independent clones can be scored concurrently.
func Evaluate(s *game.GameState) float64 {
	if s.GameOver {
		switch s.Winner {
		case game.WinnerWhite:
			return WinScore
		case game.WinnerBlack:
			return -WinScore
		default:
			return 0
		}
	}

	scoreDiff := float64(s.WhiteScore - s.BlackScore)

	whiteMoves := len(s.LegalMoves(game.SideWhite))
	blackMoves := len(s.LegalMoves(game.SideBlack))
	mobilityDiff := float64(whiteMoves - blackMoves)

	var whiteProx, blackProx float64
	for _, vs := range s.Board.ValuableSquares() {
		v := float64(vs.Value)
		whiteProx += proximity(s.WhiteKnight, vs.Position, v)
		blackProx += proximity(s.BlackKnight, vs.Position, v)
	}

	var center float64
	if s.WhiteKnight.IsCenter() {
		center++
	}
	if s.BlackKnight.IsCenter() {
		center--
	}

	eval := weightScore*scoreDiff +
		weightMobility*mobilityDiff +
		weightProximity*(whiteProx-blackProx) +
		weightCenter*center

	if whiteMoves == 0 {
		eval -= stuckScore
	}
	if blackMoves == 0 {
		eval += stuckScore
	}
	return eval
}

// proximity rewards closing in on a positive square. Standing on the square
// counts double its value instead of dividing by zero.
func proximity(knight, square game.Position, value float64) float64 {
	d := knight.ManhattanTo(square)
	if d == 0 {
		return value * 2
	}
	return value / float64(d)
}
