package minimax

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart_horses/internal/domain/game"
)

func freshGame(seed int64) *game.GameState {
	return game.NewGameState(game.DifficultyBeginner, rand.New(rand.NewSource(seed)))
}

func TestSearchFreshGameNodeBounds(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		res := Search(freshGame(seed), 2)
		require.NotNil(t, res.Move, "seed %d", seed)
		assert.GreaterOrEqual(t, res.Nodes, 10, "seed %d: a depth-2 tree is never trivial", seed)
		assert.Less(t, res.Nodes, 200, "seed %d: pruning keeps depth 2 under 200 nodes", seed)
		assert.Equal(t, 2, res.Depth)
	}
}

func TestSearchDeeperVisitsMoreNodes(t *testing.T) {
	s := freshGame(42)
	shallow := Search(s, 2)
	deep := Search(s, 4)
	assert.Greater(t, deep.Nodes, shallow.Nodes)
}

func TestSearchDeterministic(t *testing.T) {
	s := freshGame(17)
	first := Search(s, 4)
	second := Search(s, 4)
	assert.Equal(t, first, second)
}

func TestSearchDoesNotMutateState(t *testing.T) {
	s := freshGame(5)
	before := s.Clone()
	Search(s, 4)
	assert.Equal(t, before, s)
}

func TestSearchPicksTheCapture(t *testing.T) {
	s := bareState()
	s.Board.SetValue(game.Position{Row: 1, Col: 2}, 10)

	res := Search(s, 2)
	require.NotNil(t, res.Move)
	assert.Equal(t, game.Position{Row: 1, Col: 2}, *res.Move, "ten points dwarf every positional term")
	assert.Greater(t, res.Evaluation, 500.0)
}

func TestSearchForBlackMinimizes(t *testing.T) {
	s := bareState()
	s.Turn = game.SideBlack
	s.Board.SetValue(game.Position{Row: 5, Col: 6}, 10)

	res := Search(s, 2)
	require.NotNil(t, res.Move)
	assert.Equal(t, game.Position{Row: 5, Col: 6}, *res.Move, "black grabs the points to push the score down")
	assert.Less(t, res.Evaluation, -500.0)
}

// Both white replies score identically on an empty board, so the first move
// in knight-offset order must win the tie.
func TestSearchTieBreaksOnFirstMove(t *testing.T) {
	s := bareState()
	res := Search(s, 1)
	require.NotNil(t, res.Move)
	assert.Equal(t, game.Position{Row: 1, Col: 2}, *res.Move)
	assert.Equal(t, 30.0, res.Evaluation)
	assert.Equal(t, 3, res.Nodes, "root plus two children")
}

func TestSearchStuckRootHasNoMove(t *testing.T) {
	s := bareState()
	s.Board.Destroy(game.Position{Row: 1, Col: 2})
	s.Board.Destroy(game.Position{Row: 2, Col: 1})

	res := Search(s, 2)
	assert.Nil(t, res.Move, "a stuck side goes through the penalty path instead")
	assert.Equal(t, 1, res.Nodes)
	assert.Equal(t, Evaluate(s), res.Evaluation)
}

func TestSearchDepthZeroIsALeaf(t *testing.T) {
	s := freshGame(9)
	res := Search(s, 0)
	assert.Nil(t, res.Move)
	assert.Equal(t, 1, res.Nodes)
	assert.Equal(t, Evaluate(s), res.Evaluation)
}

func TestSearchTerminalRootIsALeaf(t *testing.T) {
	s := bareState()
	s.GameOver = true
	s.Winner = game.WinnerWhite

	res := Search(s, 4)
	assert.Nil(t, res.Move)
	assert.Equal(t, 1, res.Nodes)
	assert.Equal(t, float64(WinScore), res.Evaluation)
}

// exhaustive is plain minimax without pruning, used as the reference value.
func exhaustive(s *game.GameState, depth int, maximizing bool, nodes *int) float64 {
	*nodes++
	moves := s.LegalMoves(s.Turn)
	if depth == 0 || s.GameOver || len(moves) == 0 {
		return Evaluate(s)
	}

	side := s.Turn
	if maximizing {
		value := math.Inf(-1)
		for _, mv := range moves {
			child := s.Clone()
			if _, err := child.ApplyMove(side, mv); err != nil {
				continue
			}
			value = math.Max(value, exhaustive(child, depth-1, false, nodes))
		}
		return value
	}

	value := math.Inf(1)
	for _, mv := range moves {
		child := s.Clone()
		if _, err := child.ApplyMove(side, mv); err != nil {
			continue
		}
		value = math.Min(value, exhaustive(child, depth-1, true, nodes))
	}
	return value
}

// Pruning may only skip work, never change the root value.
func TestAlphaBetaMatchesExhaustiveMinimax(t *testing.T) {
	for seed := int64(1); seed <= 3; seed++ {
		s := freshGame(seed)

		res := Search(s, 3)
		var plainNodes int
		want := exhaustive(s, 3, s.Turn == game.SideWhite, &plainNodes)

		assert.InDelta(t, want, res.Evaluation, 1e-12, "seed %d", seed)
		assert.LessOrEqual(t, res.Nodes, plainNodes, "seed %d", seed)
	}
}
