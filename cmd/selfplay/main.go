package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smart_horses/internal/bootstrap"
	"smart_horses/internal/domain/game"
	gameuc "smart_horses/internal/usecase/game"
)

// Plays the machine against itself from the command line. Useful to eyeball
// engine strength per difficulty and to reproduce a layout from its seed.
func main() {
	difficulty := flag.String("difficulty", "beginner", "beginner, amateur or expert")
	games := flag.Int("games", 1, "how many games to play")
	seed := flag.Int64("seed", 0, "layout seed, 0 seeds from the clock")
	verbose := flag.Bool("v", false, "log every ply")
	flag.Parse()

	logger := NewLogger()
	defer logger.Sync()

	d, err := game.ParseDifficulty(*difficulty)
	if err != nil {
		logger.Fatal(err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	logger.Infof("self-play: %d game(s), difficulty=%s, seed=%d", *games, d, *seed)

	uc := gameuc.NewGameUseCase(bootstrap.Config{DefaultDifficulty: string(d)}, logger)

	wins := map[game.Winner]int{}
	totalNodes := 0
	for i := 1; i <= *games; i++ {
		s := game.NewGameState(d, rng)
		s.GameID = uuid.NewString()

		plies := 0
		nodes := 0
		final, err := uc.PlayOut(context.Background(), s, func(p gameuc.SelfPlayPly) error {
			plies = p.Number
			nodes += p.Machine.Nodes
			if *verbose {
				if p.Machine.PenaltyApplied {
					logger.Infof("game %d ply %d: %s stuck, -4 penalty", i, p.Number, p.Mover)
				} else {
					logger.Infof("game %d ply %d: %s -> %v (eval=%.1f nodes=%d)",
						i, p.Number, p.Mover, *p.Machine.Move, p.Machine.Evaluation, p.Machine.Nodes)
				}
			}
			return nil
		})
		if err != nil {
			logger.Fatal(err)
		}

		wins[final.Winner]++
		totalNodes += nodes
		logger.Infof("game %d finished: winner=%s white=%d black=%d plies=%d nodes=%d",
			i, final.Winner, final.WhiteScore, final.BlackScore, plies, nodes)
	}

	logger.Infof("done: white=%d black=%d tie=%d, %d nodes total",
		wins[game.WinnerWhite], wins[game.WinnerBlack], wins[game.WinnerTie], totalNodes)
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}
