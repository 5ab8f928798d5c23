// Package minimax implements the machine's move engine: a depth-limited
// minimax search with alpha-beta pruning over cloned game states.
package minimax

import (
	"math"

	"smart_horses/internal/domain/game"
)

// Result of one search run.
type Result struct {
	Evaluation float64        `json:"evaluation"`
	Move       *game.Position `json:"move"`
	Nodes      int            `json:"nodes_evaluated"`
	Depth      int            `json:"depth_reached"`
}

// Search runs the engine for whichever side is to move; white maximizes,
// black minimizes. The input state is never mutated: every branch works on
// its own clone. A result without a move means the side to move is stuck and
// the penalty path applies instead.
func Search(s *game.GameState, depth int) Result {
	sr := &searcher{}
	maximizing := s.Turn == game.SideWhite
	value, move := sr.alphabeta(s, depth, math.Inf(-1), math.Inf(1), maximizing)
	return Result{
		Evaluation: value,
		Move:       move,
		Nodes:      sr.nodes,
		Depth:      depth,
	}
}

type searcher struct {
	nodes int
}

// alphabeta is the textbook scheme (see the alpha-beta pruning article on
// Wikipedia):
//
//	function alphabeta(node, depth, α, β, maximizingPlayer):
//	    if depth == 0 or node is terminal: return h(node)
//	    for each child of node:
//	        value := max/min(value, alphabeta(child, depth-1, α, β, flip))
//	        α := max(α, value) / β := min(β, value)
//	        if β <= α: break
//
// Strictly greater (resp. smaller) comparisons keep the first move on ties,
// so the chosen move is deterministic for a fixed state. The node counter
// includes leaves.
func (sr *searcher) alphabeta(s *game.GameState, depth int, alpha, beta float64, maximizing bool) (float64, *game.Position) {
	sr.nodes++

	moves := s.LegalMoves(s.Turn)
	if depth == 0 || s.GameOver || len(moves) == 0 {
		return Evaluate(s), nil
	}

	side := s.Turn
	var best *game.Position

	if maximizing {
		value := math.Inf(-1)
		for _, mv := range moves {
			child := s.Clone()
			if _, err := child.ApplyMove(side, mv); err != nil {
				continue
			}
			childValue, _ := sr.alphabeta(child, depth-1, alpha, beta, false)
			if childValue > value {
				value = childValue
				m := mv
				best = &m
			}
			alpha = math.Max(alpha, value)
			if beta <= alpha {
				break
			}
		}
		return value, best
	}

	value := math.Inf(1)
	for _, mv := range moves {
		child := s.Clone()
		if _, err := child.ApplyMove(side, mv); err != nil {
			continue
		}
		childValue, _ := sr.alphabeta(child, depth-1, alpha, beta, true)
		if childValue < value {
			value = childValue
			m := mv
			best = &m
		}
		beta = math.Min(beta, value)
		if beta <= alpha {
			break
		}
	}
	return value, best
}
