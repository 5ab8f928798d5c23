package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"smart_horses/internal/domain/game"
)

// SelfPlayPly is one applied half-turn of an exhibition game.
type SelfPlayPly struct {
	Number  int
	Mover   game.Side
	Machine MachineReply
	State   *game.GameState
}

// SelfPlay builds a fresh random game and lets the engine play both sides to
// the end. See PlayOut for the loop contract.
func (g *GameUseCase) SelfPlay(ctx context.Context, difficulty string, ply func(SelfPlayPly) error) (*game.GameState, error) {
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
	return g.PlayOut(ctx, s, ply)
}

// PlayOut runs the machine for both sides until the game ends, invoking ply
// after every applied half-turn, forced passes included. The callback may
// return an error to stop the run early, e.g. when a watcher disconnects.
// The run is also cancellable through ctx between plies.
func (g *GameUseCase) PlayOut(ctx context.Context, s *game.GameState, ply func(SelfPlayPly) error) (*game.GameState, error) {
	g.log.Infof("self-play %s started (difficulty=%s depth=%d)", s.GameID, s.Difficulty, s.MaxDepth)

	for n := 1; !s.GameOver; n++ {
		select {
		case <-ctx.Done():
			return s, ctx.Err()
		default:
		}

		mover := s.Turn
		reply, err := g.MachineTurn(s)
		if err != nil {
			return s, err
		}

		if ply != nil {
			if err := ply(SelfPlayPly{Number: n, Mover: mover, Machine: *reply, State: s}); err != nil {
				return s, err
			}
		}
	}

	g.log.Infof("self-play %s finished: winner=%s white=%d black=%d",
		s.GameID, s.Winner, s.WhiteScore, s.BlackScore)
	return s, nil
}
