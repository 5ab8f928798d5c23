package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smart_horses/internal/bootstrap"
	"smart_horses/internal/domain/game"
	"smart_horses/internal/errors"
	"smart_horses/internal/minimax"
)

// GameUseCase orchestrates turns: it decides between the penalty path and
// the search engine, applies the chosen moves and reports search
// diagnostics. The API is stateless, so it holds no game state between
// calls.
type GameUseCase struct {
	cfg bootstrap.Config
	log *zap.SugaredLogger
}

func NewGameUseCase(cfg bootstrap.Config, log *zap.SugaredLogger) *GameUseCase {
	return &GameUseCase{cfg: cfg, log: log}
}

// MachineReply describes what the machine did on its half of a turn: either
// an applied move or a forced pass, plus what the search saw.
type MachineReply struct {
	Move           *game.Position    `json:"move"`
	Outcome        *game.MoveOutcome `json:"outcome,omitempty"`
	PenaltyApplied bool              `json:"penalty_applied"`
	Evaluation     float64           `json:"evaluation"`
	Nodes          int               `json:"nodes_evaluated"`
	Depth          int               `json:"depth_reached"`
}

type NewGameReport struct {
	State            *game.GameState
	MachineFirstMove *game.Position
	PenaltyApplied   bool
}

type PlayerMoveReport struct {
	State   *game.GameState
	Outcome game.MoveOutcome
	Machine *MachineReply // nil when the game ended on the player's move
}

type ValidMovesReport struct {
	Knight         game.Side
	Position       game.Position
	Moves          []game.Position
	PenaltyApplied bool
	MachineMove    *game.Position
}

type StatisticsReport struct {
	Board           game.BoardStatistics  `json:"board"`
	ValuableSquares []game.ValuableSquare `json:"valuable_squares"`
	WhiteMobility   int                   `json:"white_mobility"`
	BlackMobility   int                   `json:"black_mobility"`
	ScoreDiff       int                   `json:"score_diff"`
}

// CreateGame builds a fresh random game and plays white's opening half-turn,
// the way the machine always opens.
func (g *GameUseCase) CreateGame(difficulty string) (*NewGameReport, error) {
	if difficulty == "" {
		difficulty = g.cfg.DefaultDifficulty
	}
	if difficulty == "" {
		difficulty = string(game.DifficultyBeginner)
	}
	d, err := game.ParseDifficulty(difficulty)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	s := game.NewGameState(d, rng)
	s.GameID = uuid.NewString()

	// машина (белые) ходит первой
	reply, err := g.MachineTurn(s)
	if err != nil {
		return nil, err
	}

	rep := &NewGameReport{
		State:            s,
		MachineFirstMove: reply.Move,
		PenaltyApplied:   reply.PenaltyApplied,
	}
	if reply.Move != nil && s.ApplyNoMovePenalty() {
		rep.PenaltyApplied = true
	}

	g.log.Infof("new game %s created (difficulty=%s depth=%d nodes=%d)", s.GameID, d, s.MaxDepth, reply.Nodes)
	return rep, nil
}

// PlayerMove applies the human (black) move and, unless that ended the game,
// plays the machine's reply.
func (g *GameUseCase) PlayerMove(s *game.GameState, dst game.Position) (*PlayerMoveReport, error) {
	if s.GameOver {
		return nil, errors.ErrGameFinished
	}
	if s.Turn != game.SideBlack {
		return nil, errors.ErrOutOfTurn
	}

	outcome, err := s.ApplyMove(game.SideBlack, dst)
	if err != nil {
		return nil, err
	}

	rep := &PlayerMoveReport{State: s, Outcome: outcome}
	if s.GameOver {
		return rep, nil
	}

	rep.Machine, err = g.MachineTurn(s)
	if err != nil {
		return nil, err
	}
	return rep, nil
}

// MachineTurn plays one half-turn for whichever side is to move: the penalty
// path when that side is stuck, otherwise search and apply. The search is
// only ever run for a side with at least one legal move; when the side is
// stuck the penalty flips the turn, and a both-stuck position ends the game
// inside ApplyNoMovePenalty.
func (g *GameUseCase) MachineTurn(s *game.GameState) (*MachineReply, error) {
	if s.GameOver {
		return nil, errors.ErrGameFinished
	}

	reply := &MachineReply{}

	if len(s.LegalMoves(s.Turn)) == 0 {
		stuck := s.Turn
		reply.PenaltyApplied = s.ApplyNoMovePenalty()
		g.log.Infof("game %s: %s has no moves, -4 penalty applied", s.GameID, stuck)
		return reply, nil
	}

	res := g.BestMove(s)
	reply.Evaluation = res.Evaluation
	reply.Nodes = res.Nodes
	reply.Depth = res.Depth
	if res.Move == nil {
		// ход обязан существовать, проверили выше
		g.log.Errorf("game %s: search returned no move for %s", s.GameID, s.Turn)
		return nil, errors.ErrInternal
	}

	outcome, err := s.ApplyMove(s.Turn, *res.Move)
	if err != nil {
		g.log.Errorf("game %s: search produced an illegal move %v: %v", s.GameID, *res.Move, err)
		return nil, fmt.Errorf("%w: search move rejected: %v", errors.ErrInternal, err)
	}
	reply.Move = res.Move
	reply.Outcome = &outcome
	return reply, nil
}

// BestMove runs the search for whichever side is to move, without mutating
// the state. A result without a move signals the penalty path.
func (g *GameUseCase) BestMove(s *game.GameState) minimax.Result {
	return minimax.Search(s, s.MaxDepth)
}

// ValidMoves lists the legal destinations for a knight. When the queried
// knight is the stuck side to move, the one penalty is applied now and the
// machine answers with at most one move, so the client sees the forced pass
// step by step.
func (g *GameUseCase) ValidMoves(s *game.GameState, knight string) (*ValidMovesReport, error) {
	if knight == "" {
		knight = string(game.SideBlack)
	}
	side, err := game.ParseSide(knight)
	if err != nil {
		return nil, err
	}

	rep := &ValidMovesReport{
		Knight:   side,
		Position: s.KnightPosition(side),
		Moves:    s.LegalMoves(side),
	}

	if len(rep.Moves) == 0 && s.Turn == side && !s.GameOver {
		rep.PenaltyApplied = s.ApplyNoMovePenalty()
		if rep.PenaltyApplied && !s.GameOver && s.Turn == game.SideWhite &&
			len(s.LegalMoves(game.SideWhite)) > 0 {
			res := g.BestMove(s)
			if res.Move != nil {
				if _, err := s.ApplyMove(game.SideWhite, *res.Move); err == nil {
					rep.MachineMove = res.Move
				}
			}
		}
	}
	return rep, nil
}

func (g *GameUseCase) Statistics(s *game.GameState) StatisticsReport {
	return StatisticsReport{
		Board:           s.Board.Statistics(),
		ValuableSquares: s.Board.ValuableSquares(),
		WhiteMobility:   len(s.LegalMoves(game.SideWhite)),
		BlackMobility:   len(s.LegalMoves(game.SideBlack)),
		ScoreDiff:       s.WhiteScore - s.BlackScore,
	}
}
