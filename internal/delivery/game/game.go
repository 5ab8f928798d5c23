package game

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"smart_horses/internal/bootstrap"
	"smart_horses/internal/common"
	"smart_horses/internal/domain/game"
	ownErrors "smart_horses/internal/errors"
	"smart_horses/internal/httpresponse"
	gameuc "smart_horses/internal/usecase/game"
	"smart_horses/internal/utils"
)

const serviceName = "smart-horses-backend"
const serviceVersion = "1.0.0"

type GameHandler struct {
	cfg    bootstrap.Config
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// зрители /api/game/watch, ключ нужен только для логов
var activeWatchers = make(map[string]*websocket.Conn)
var activeWatchersMu sync.RWMutex

func NewGameHandler(cfg bootstrap.Config, log *zap.SugaredLogger) *GameHandler {
	return &GameHandler{
		cfg:    cfg,
		log:    log,
		gameUC: gameuc.NewGameUseCase(cfg, log),
	}
}

type newGameRequest struct {
	Difficulty string `json:"difficulty"`
}

type moveRequest struct {
	State *game.GameState `json:"game_state"`
	Move  *game.Position  `json:"move"`
}

type stateRequest struct {
	State *game.GameState `json:"game_state"`
}

type validMovesRequest struct {
	State  *game.GameState `json:"game_state"`
	Knight string          `json:"knight"`
}

// Mutating endpoints answer with the updated state inlined at the top level,
// next to the move metadata, so the client can feed it straight back in.
type newGameResponse struct {
	*game.GameState
	Message          string         `json:"message"`
	MachineFirstMove *game.Position `json:"machine_first_move"`
	PenaltyApplied   bool           `json:"penalty_applied,omitempty"`
}

type playerMoveResponse struct {
	*game.GameState
	Message           string         `json:"message"`
	MachineMove       *game.Position `json:"machine_move"`
	MachineEvaluation float64        `json:"machine_evaluation"`
	NodesEvaluated    int            `json:"nodes_evaluated"`
	PenaltyApplied    bool           `json:"penalty_applied,omitempty"`
}

type gameOverResponse struct {
	*game.GameState
	Message     string         `json:"message"`
	MachineMove *game.Position `json:"machine_move"`
}

type machineMoveResponse struct {
	*game.GameState
	Message        string         `json:"message"`
	MachineMove    *game.Position `json:"machine_move"`
	Evaluation     float64        `json:"evaluation"`
	NodesEvaluated int            `json:"nodes_evaluated"`
	DepthReached   int            `json:"depth_reached"`
	PenaltyApplied bool           `json:"penalty_applied,omitempty"`
}

type validMovesResponse struct {
	Knight         game.Side       `json:"knight"`
	Position       game.Position   `json:"position"`
	ValidMoves     []game.Position `json:"valid_moves"`
	Count          int             `json:"count"`
	PenaltyApplied bool            `json:"penalty_applied,omitempty"`
	GameState      *game.GameState `json:"game_state,omitempty"`
	MachineMove    *game.Position  `json:"machine_move,omitempty"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type infoResponse struct {
	Game         string            `json:"game"`
	Version      string            `json:"version"`
	Difficulties []string          `json:"difficulties"`
	Endpoints    map[string]string `json:"endpoints"`
}

func (g *GameHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: serviceName,
	})
}

func (g *GameHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, infoResponse{
		Game:    "Smart Horses",
		Version: serviceVersion,
		Difficulties: lo.Map(game.Difficulties(), func(d game.Difficulty, _ int) string {
			return string(d)
		}),
		Endpoints: map[string]string{
			"new_game":     "POST /api/game/new",
			"player_move":  "POST /api/game/move",
			"machine_move": "POST /api/game/machine-move",
			"valid_moves":  "POST /api/game/valid-moves",
			"statistics":   "POST /api/game/statistics",
			"watch":        "GET /api/game/watch",
			"health":       "GET /health",
		},
	})
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.log.Error("Only POST method is allowed")
		httpresponse.WriteResponseWithStatus(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req newGameRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("JSON decode error: ", err)
		httpresponse.WriteErrorResponse(w, err)
		return
	}

	rep, err := g.gameUC.CreateGame(req.Difficulty)
	if err != nil {
		g.log.Error("new game: ", err)
		httpresponse.WriteErrorResponse(w, err)
		return
	}

	message := "game started, machine (white) has moved, player (black) to move"
	if rep.MachineFirstMove == nil {
		message = "game started, machine had no opening move, -4 penalty applied, player (black) to move"
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, newGameResponse{
		GameState:        rep.State,
		Message:          message,
		MachineFirstMove: rep.MachineFirstMove,
		PenaltyApplied:   rep.PenaltyApplied,
	})
}

func (g *GameHandler) HandlePlayerMove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		g.log.Error("Only POST method is allowed")
		httpresponse.WriteResponseWithStatus(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req moveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("JSON decode error: ", err)
		httpresponse.WriteErrorResponse(w, err)
		return
	}
	if req.State == nil || req.Move == nil {
		httpresponse.WriteErrorResponse(w, fmt.Errorf("%w: game_state and move are required", ownErrors.ErrBadRequest))
		return
	}
	if err := req.State.Validate(); err != nil {
		g.log.Error("player move: ", err)
		httpresponse.WriteErrorResponse(w, err)
		return
	}

	rep, err := g.gameUC.PlayerMove(req.State, *req.Move)
	if err != nil {
		g.log.Error("player move: ", err)
		httpresponse.WriteErrorResponse(w, err)
		return
	}

	if rep.Machine == nil {
		httpresponse.WriteResponseWithStatus(w, http.StatusOK, gameOverResponse{
			GameState:   rep.State,
			Message:     fmt.Sprintf("game over, winner: %s", rep.State.Winner),
			MachineMove: nil,
		})
		return
	}

	message := "player (black) to move"
	if rep.State.GameOver {
		message = fmt.Sprintf("game over, winner: %s", rep.State.Winner)
	} else if rep.Machine.PenaltyApplied {
		message = "machine had no moves, -4 penalty applied, player (black) to move"
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, playerMoveResponse{
		GameState:         rep.State,
		Message:           message,
		MachineMove:       rep.Machine.Move,
		MachineEvaluation: rep.Machine.Evaluation,
		NodesEvaluated:    rep.Machine.Nodes,
		PenaltyApplied:    rep.Machine.PenaltyApplied,
	})
}

func (g *GameHandler) HandleMachineMove(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("JSON decode error: ", err)
		httpresponse.WriteErrorResponse(w, err)
		return
	}
	if req.State == nil {
		httpresponse.WriteErrorResponse(w, fmt.Errorf("%w: game_state is required", ownErrors.ErrBadRequest))
		return
	}
	if err := req.State.Validate(); err != nil {
		g.log.Error("machine move: ", err)
		httpresponse.WriteErrorResponse(w, err)
		return
	}

	reply, err := g.gameUC.MachineTurn(req.State)
	if err != nil {
		g.log.Error("machine move: ", err)
		httpresponse.WriteErrorResponse(w, err)
		return
	}

	message := fmt.Sprintf("machine moved, %s to move", req.State.Turn)
	switch {
	case req.State.GameOver:
		message = fmt.Sprintf("game over, winner: %s", req.State.Winner)
	case reply.PenaltyApplied:
		message = fmt.Sprintf("side had no moves, -4 penalty applied, %s to move", req.State.Turn)
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, machineMoveResponse{
		GameState:      req.State,
		Message:        message,
		MachineMove:    reply.Move,
		Evaluation:     reply.Evaluation,
		NodesEvaluated: reply.Nodes,
		DepthReached:   reply.Depth,
		PenaltyApplied: reply.PenaltyApplied,
	})
}

func (g *GameHandler) HandleValidMoves(w http.ResponseWriter, r *http.Request) {
	var req validMovesRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("JSON decode error: ", err)
		httpresponse.WriteErrorResponse(w, err)
		return
	}
	if req.State == nil {
		httpresponse.WriteErrorResponse(w, fmt.Errorf("%w: game_state is required", ownErrors.ErrBadRequest))
		return
	}
	if err := req.State.Validate(); err != nil {
		g.log.Error("valid moves: ", err)
		httpresponse.WriteErrorResponse(w, err)
		return
	}

	rep, err := g.gameUC.ValidMoves(req.State, req.Knight)
	if err != nil {
		g.log.Error("valid moves: ", err)
		httpresponse.WriteErrorResponse(w, err)
		return
	}

	resp := validMovesResponse{
		Knight:         rep.Knight,
		Position:       rep.Position,
		ValidMoves:     rep.Moves,
		Count:          len(rep.Moves),
		PenaltyApplied: rep.PenaltyApplied,
		MachineMove:    rep.MachineMove,
	}
	if rep.PenaltyApplied {
		// клиент должен увидеть состояние после штрафа
		resp.GameState = req.State
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

func (g *GameHandler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	var req stateRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Error("JSON decode error: ", err)
		httpresponse.WriteErrorResponse(w, err)
		return
	}
	if req.State == nil {
		httpresponse.WriteErrorResponse(w, fmt.Errorf("%w: game_state is required", ownErrors.ErrBadRequest))
		return
	}
	if err := req.State.Validate(); err != nil {
		g.log.Error("statistics: ", err)
		httpresponse.WriteErrorResponse(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, g.gameUC.Statistics(req.State))
}

type watchFrame struct {
	Type           string          `json:"type"`
	Ply            int             `json:"ply,omitempty"`
	Mover          game.Side       `json:"mover,omitempty"`
	Move           *game.Position  `json:"move,omitempty"`
	PenaltyApplied bool            `json:"penalty_applied,omitempty"`
	Evaluation     float64         `json:"evaluation,omitempty"`
	NodesEvaluated int             `json:"nodes_evaluated,omitempty"`
	GameState      *game.GameState `json:"game_state"`
	Winner         game.Winner     `json:"winner,omitempty"`
}

// HandleWatchGame streams a machine-vs-machine exhibition over a websocket:
// one frame per applied half-turn, then a final game_over frame. The
// difficulty comes from the query string and is checked before upgrading.
func (g *GameHandler) HandleWatchGame(w http.ResponseWriter, r *http.Request) {
	difficulty := r.URL.Query().Get("difficulty")
	if difficulty != "" {
		if _, err := game.ParseDifficulty(difficulty); err != nil {
			g.log.Error("watch: ", err)
			httpresponse.WriteErrorResponse(w, err)
			return
		}
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Error("upgrade error: ", err)
		return
	}
	defer conn.Close()

	watcherID := common.RandString(8)
	activeWatchersMu.Lock()
	activeWatchers[watcherID] = conn
	watcherCount := len(activeWatchers)
	activeWatchersMu.Unlock()
	defer func() {
		activeWatchersMu.Lock()
		delete(activeWatchers, watcherID)
		activeWatchersMu.Unlock()
	}()
	g.log.Infof("watcher %s connected (difficulty=%q, %d active)", watcherID, difficulty, watcherCount)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// читаем только чтобы заметить уход клиента
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	delay := time.Duration(g.cfg.SelfplayMoveDelayMs) * time.Millisecond
	final, err := g.gameUC.SelfPlay(ctx, difficulty, func(p gameuc.SelfPlayPly) error {
		frame := watchFrame{
			Type:           "ply",
			Ply:            p.Number,
			Mover:          p.Mover,
			Move:           p.Machine.Move,
			PenaltyApplied: p.Machine.PenaltyApplied,
			Evaluation:     p.Machine.Evaluation,
			NodesEvaluated: p.Machine.Nodes,
			GameState:      p.State,
		}
		if err := conn.WriteJSON(frame); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			return nil
		}
	})
	if err != nil {
		g.log.Infof("watcher %s: exhibition stopped: %v", watcherID, err)
		return
	}

	if err := conn.WriteJSON(watchFrame{Type: "game_over", GameState: final, Winner: final.Winner}); err != nil {
		g.log.Error("watch write error: ", err)
		return
	}
	g.log.Infof("watcher %s: exhibition finished, winner=%s", watcherID, final.Winner)
}
