package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smart_horses/internal/bootstrap"
	"smart_horses/internal/domain/game"
	"smart_horses/internal/errors"
)

func newTestUseCase(defaultDifficulty string) *GameUseCase {
	return NewGameUseCase(bootstrap.Config{DefaultDifficulty: defaultDifficulty}, zap.NewNop().Sugar())
}

// whiteToMove has both knights in opposite corners of an empty beginner
// board. Each side has exactly two legal moves.
func whiteToMove() *game.GameState {
	return &game.GameState{
		GameID:      "uc-test",
		Turn:        game.SideWhite,
		Difficulty:  game.DifficultyBeginner,
		MaxDepth:    game.DifficultyBeginner.Depth(),
		WhiteKnight: game.Position{Row: 0, Col: 0},
		BlackKnight: game.Position{Row: 7, Col: 7},
	}
}

func blackToMove() *game.GameState {
	s := whiteToMove()
	s.Turn = game.SideBlack
	return s
}

func TestCreateGamePerDifficulty(t *testing.T) {
	uc := newTestUseCase("beginner")
	testcases := []struct {
		difficulty string
		depth      int
	}{
		{"beginner", 2},
		{"amateur", 4},
		{"expert", 6},
	}
	for _, tc := range testcases {
		t.Run(tc.difficulty, func(t *testing.T) {
			rep, err := uc.CreateGame(tc.difficulty)
			require.NoError(t, err)

			s := rep.State
			assert.Len(t, s.GameID, 36, "game id is a uuid")
			assert.Equal(t, game.Difficulty(tc.difficulty), s.Difficulty)
			assert.Equal(t, tc.depth, s.MaxDepth)
			assert.False(t, s.GameOver)

			// on a fresh board white always has a move, so the opening
			// half-turn is a real move and burns exactly one square
			require.NotNil(t, rep.MachineFirstMove)
			assert.Equal(t, *rep.MachineFirstMove, s.WhiteKnight)
			assert.Equal(t, 1, s.Board.Statistics().Destroyed)
			assert.Equal(t, game.SideBlack, s.Turn)
		})
	}
}

func TestCreateGameUnknownDifficulty(t *testing.T) {
	uc := newTestUseCase("beginner")
	_, err := uc.CreateGame("grandmaster")
	assert.ErrorIs(t, err, errors.ErrUnknownDifficulty)
}

func TestCreateGameDefaultsFromConfig(t *testing.T) {
	uc := newTestUseCase("expert")
	rep, err := uc.CreateGame("")
	require.NoError(t, err)
	assert.Equal(t, game.DifficultyExpert, rep.State.Difficulty)
}

func TestCreateGameFallsBackToBeginner(t *testing.T) {
	uc := newTestUseCase("")
	rep, err := uc.CreateGame("")
	require.NoError(t, err)
	assert.Equal(t, game.DifficultyBeginner, rep.State.Difficulty)
}

func TestPlayerMoveWrongTurn(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := whiteToMove()
	_, err := uc.PlayerMove(s, game.Position{Row: 5, Col: 6})
	assert.ErrorIs(t, err, errors.ErrOutOfTurn)
}

func TestPlayerMoveFinishedGame(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := blackToMove()
	s.GameOver = true
	s.Winner = game.WinnerWhite
	_, err := uc.PlayerMove(s, game.Position{Row: 5, Col: 6})
	assert.ErrorIs(t, err, errors.ErrGameFinished)
}

func TestPlayerMoveInvalidDestination(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := blackToMove()
	before := s.Clone()

	_, err := uc.PlayerMove(s, game.Position{Row: 4, Col: 4})
	assert.ErrorIs(t, err, errors.ErrInvalidMove)
	assert.Equal(t, before, s)
}

func TestPlayerMoveThenMachineReplies(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := blackToMove()
	s.Board.SetValue(game.Position{Row: 6, Col: 5}, 3)

	rep, err := uc.PlayerMove(s, game.Position{Row: 6, Col: 5})
	require.NoError(t, err)

	assert.Equal(t, 3, rep.Outcome.PointsGained)
	assert.Equal(t, 3, s.BlackScore)
	assert.Equal(t, game.Position{Row: 6, Col: 5}, s.BlackKnight)
	assert.Equal(t, game.CellDestroyed, s.Board.At(game.Position{Row: 7, Col: 7}))

	require.NotNil(t, rep.Machine)
	require.NotNil(t, rep.Machine.Move, "white had moves, so the machine answered with one")
	assert.False(t, rep.Machine.PenaltyApplied)
	assert.GreaterOrEqual(t, rep.Machine.Nodes, 1)
	assert.Equal(t, s.MaxDepth, rep.Machine.Depth)
	assert.Equal(t, game.SideBlack, s.Turn, "back to the player after the reply")
}

func TestPlayerMoveEndsTheGame(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := blackToMove()
	s.BlackKnight = game.Position{Row: 0, Col: 0}
	s.WhiteKnight = game.Position{Row: 7, Col: 7}
	// white is boxed in, and black's landing square leads nowhere
	for _, p := range []game.Position{{Row: 5, Col: 6}, {Row: 6, Col: 5},
		{Row: 0, Col: 4}, {Row: 2, Col: 0}, {Row: 2, Col: 4}, {Row: 3, Col: 1}, {Row: 3, Col: 3}} {
		s.Board.Destroy(p)
	}

	rep, err := uc.PlayerMove(s, game.Position{Row: 1, Col: 2})
	require.NoError(t, err)

	assert.Nil(t, rep.Machine, "no machine reply once the game is over")
	require.True(t, s.GameOver)
	assert.Equal(t, game.WinnerTie, s.Winner)
}

func TestPlayerMoveMachinePenalty(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := blackToMove()
	s.BlackKnight = game.Position{Row: 0, Col: 0}
	s.WhiteKnight = game.Position{Row: 7, Col: 7}
	s.Board.Destroy(game.Position{Row: 5, Col: 6})
	s.Board.Destroy(game.Position{Row: 6, Col: 5})

	rep, err := uc.PlayerMove(s, game.Position{Row: 1, Col: 2})
	require.NoError(t, err)

	require.NotNil(t, rep.Machine)
	assert.True(t, rep.Machine.PenaltyApplied)
	assert.Nil(t, rep.Machine.Move)
	assert.Zero(t, rep.Machine.Nodes, "the penalty path never searches")
	assert.Equal(t, -game.NoMovePenalty, s.WhiteScore)
	assert.Equal(t, game.SideBlack, s.Turn)
	assert.False(t, s.GameOver)
}

func TestMachineTurnSearchesAndApplies(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := whiteToMove()
	legalBefore := s.LegalMoves(game.SideWhite)

	reply, err := uc.MachineTurn(s)
	require.NoError(t, err)

	require.NotNil(t, reply.Move)
	assert.Contains(t, legalBefore, *reply.Move)
	require.NotNil(t, reply.Outcome)
	assert.Equal(t, *reply.Move, reply.Outcome.NewPosition)
	assert.GreaterOrEqual(t, reply.Nodes, 1)
	assert.Equal(t, s.MaxDepth, reply.Depth)
	assert.Equal(t, game.SideBlack, s.Turn)
}

func TestMachineTurnPenaltyPath(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := whiteToMove()
	s.Board.Destroy(game.Position{Row: 1, Col: 2})
	s.Board.Destroy(game.Position{Row: 2, Col: 1})

	reply, err := uc.MachineTurn(s)
	require.NoError(t, err)

	assert.True(t, reply.PenaltyApplied)
	assert.Nil(t, reply.Move)
	assert.Zero(t, reply.Nodes)
	assert.Equal(t, -game.NoMovePenalty, s.WhiteScore)
	assert.Equal(t, game.SideBlack, s.Turn)
}

func TestMachineTurnFinishedGame(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := whiteToMove()
	s.GameOver = true
	s.Winner = game.WinnerTie

	_, err := uc.MachineTurn(s)
	assert.ErrorIs(t, err, errors.ErrGameFinished)
}

func TestBestMoveDoesNotMutate(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := whiteToMove()
	before := s.Clone()

	res := uc.BestMove(s)
	require.NotNil(t, res.Move)
	assert.Equal(t, before, s)
}

func TestValidMovesDefaultsToBlack(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := blackToMove()

	rep, err := uc.ValidMoves(s, "")
	require.NoError(t, err)
	assert.Equal(t, game.SideBlack, rep.Knight)
	assert.Equal(t, s.BlackKnight, rep.Position)
	assert.Equal(t, s.LegalMoves(game.SideBlack), rep.Moves)
	assert.False(t, rep.PenaltyApplied)
}

func TestValidMovesUnknownKnight(t *testing.T) {
	uc := newTestUseCase("beginner")
	_, err := uc.ValidMoves(blackToMove(), "green")
	assert.ErrorIs(t, err, errors.ErrUnknownSide)
}

func TestValidMovesWhiteListing(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := blackToMove()

	rep, err := uc.ValidMoves(s, "white")
	require.NoError(t, err)
	assert.Equal(t, game.SideWhite, rep.Knight)
	assert.Len(t, rep.Moves, 2)
	assert.False(t, rep.PenaltyApplied, "white is not the side to move, nothing is applied")
}

func TestValidMovesPenaltyAndMachineAnswer(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := blackToMove()
	s.BlackKnight = game.Position{Row: 0, Col: 0}
	s.WhiteKnight = game.Position{Row: 7, Col: 7}
	s.Board.Destroy(game.Position{Row: 1, Col: 2})
	s.Board.Destroy(game.Position{Row: 2, Col: 1})

	rep, err := uc.ValidMoves(s, "black")
	require.NoError(t, err)

	assert.Empty(t, rep.Moves)
	assert.True(t, rep.PenaltyApplied)
	assert.Equal(t, -game.NoMovePenalty, s.BlackScore)
	require.NotNil(t, rep.MachineMove, "white answers the forced pass with one move")
	assert.Equal(t, *rep.MachineMove, s.WhiteKnight)
	assert.Equal(t, game.SideBlack, s.Turn)
	assert.False(t, s.GameOver)
}

func TestValidMovesBothStuckEndsGame(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := blackToMove()
	s.BlackKnight = game.Position{Row: 0, Col: 0}
	s.WhiteKnight = game.Position{Row: 7, Col: 7}
	for _, p := range []game.Position{{Row: 1, Col: 2}, {Row: 2, Col: 1},
		{Row: 5, Col: 6}, {Row: 6, Col: 5}} {
		s.Board.Destroy(p)
	}

	rep, err := uc.ValidMoves(s, "black")
	require.NoError(t, err)

	assert.True(t, rep.PenaltyApplied)
	assert.Nil(t, rep.MachineMove)
	require.True(t, s.GameOver)
	assert.Equal(t, game.WinnerWhite, s.Winner, "black's penalty decides the tie")
}

func TestValidMovesStuckButNotToMove(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := whiteToMove() // white's turn
	s.BlackKnight = game.Position{Row: 0, Col: 7}
	s.Board.Destroy(game.Position{Row: 1, Col: 5})
	s.Board.Destroy(game.Position{Row: 2, Col: 6})
	before := s.Clone()

	rep, err := uc.ValidMoves(s, "black")
	require.NoError(t, err)
	assert.Empty(t, rep.Moves)
	assert.False(t, rep.PenaltyApplied, "penalties wait for the stuck side's turn")
	assert.Equal(t, before, s)
}

func TestStatistics(t *testing.T) {
	uc := newTestUseCase("beginner")
	s := whiteToMove()
	s.WhiteScore = 7
	s.BlackScore = 3
	s.Board.SetValue(game.Position{Row: 0, Col: 2}, 5)
	s.Board.SetValue(game.Position{Row: 5, Col: 5}, 10)
	s.Board.SetValue(game.Position{Row: 2, Col: 2}, -3)
	s.Board.Destroy(game.Position{Row: 3, Col: 3})
	s.Board.Destroy(game.Position{Row: 4, Col: 4})

	rep := uc.Statistics(s)
	assert.Equal(t, 2, rep.Board.Destroyed)
	assert.Equal(t, 62, rep.Board.AvailableSquares)
	assert.Equal(t, 15, rep.Board.TotalPositiveValue)
	assert.Equal(t, -3, rep.Board.TotalNegativeValue)
	assert.Equal(t, []game.ValuableSquare{
		{Position: game.Position{Row: 0, Col: 2}, Value: 5},
		{Position: game.Position{Row: 5, Col: 5}, Value: 10},
	}, rep.ValuableSquares)
	assert.Equal(t, 2, rep.WhiteMobility)
	assert.Equal(t, 2, rep.BlackMobility)
	assert.Equal(t, 4, rep.ScoreDiff)
}
