package game

import (
	"math/rand"

	"github.com/samber/lo"

	"smart_horses/internal/errors"
)

const (
	BoardSize     = 8
	NoMovePenalty = 4
)

// Cell is one board square: 0 empty, CellDestroyed removed from play, any
// other value a signed point square collected on arrival.
type Cell int8

const (
	CellEmpty     Cell = 0
	CellDestroyed Cell = 127
)

// pointValues are placed exactly once each on a fresh board.
var pointValues = [10]Cell{-10, -5, -4, -3, -1, 1, 3, 4, 5, 10}

type Side string

const (
	SideWhite Side = "white"
	SideBlack Side = "black"
)

func (s Side) Opponent() Side {
	if s == SideWhite {
		return SideBlack
	}
	return SideWhite
}

func ParseSide(v string) (Side, error) {
	switch Side(v) {
	case SideWhite, SideBlack:
		return Side(v), nil
	}
	return "", errors.ErrUnknownSide
}

type Winner string

const (
	WinnerNone  Winner = ""
	WinnerWhite Winner = "white"
	WinnerBlack Winner = "black"
	WinnerTie   Winner = "tie"
)

// Board is the 8x8 grid. Cells only ever transition towards destroyed, never
// back.
type Board struct {
	cells [BoardSize * BoardSize]Cell
}

func (b *Board) At(p Position) Cell {
	return b.cells[p.Row*BoardSize+p.Col]
}

func (b *Board) SetValue(p Position, v Cell) {
	b.cells[p.Row*BoardSize+p.Col] = v
}

func (b *Board) Destroy(p Position) {
	b.cells[p.Row*BoardSize+p.Col] = CellDestroyed
}

type ValuableSquare struct {
	Position Position `json:"position"`
	Value    int      `json:"value"`
}

// ValuableSquares lists the squares still carrying a positive value, in
// row-major order.
func (b *Board) ValuableSquares() []ValuableSquare {
	var out []ValuableSquare
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			p := Position{Row: r, Col: c}
			if v := b.At(p); v != CellDestroyed && v > 0 {
				out = append(out, ValuableSquare{Position: p, Value: int(v)})
			}
		}
	}
	return out
}

type BoardStatistics struct {
	Destroyed          int `json:"destroyed"`
	Empty              int `json:"empty"`
	PositivePoints     int `json:"positive_points"`
	NegativePoints     int `json:"negative_points"`
	TotalPositiveValue int `json:"total_positive_value"`
	TotalNegativeValue int `json:"total_negative_value"`
	AvailableSquares   int `json:"available_squares"`
}

func (b *Board) Statistics() BoardStatistics {
	var st BoardStatistics
	for _, v := range b.cells {
		switch {
		case v == CellDestroyed:
			st.Destroyed++
		case v == CellEmpty:
			st.Empty++
		case v > 0:
			st.PositivePoints++
			st.TotalPositiveValue += int(v)
		default:
			st.NegativePoints++
			st.TotalNegativeValue += int(v)
		}
	}
	st.AvailableSquares = BoardSize*BoardSize - st.Destroyed
	return st
}

// GameState is the authoritative game snapshot. The API is stateless, so the
// whole state travels in every request and response.
type GameState struct {
	GameID      string     `json:"game_id,omitempty"`
	Board       Board      `json:"board"`
	WhiteKnight Position   `json:"white_knight"`
	BlackKnight Position   `json:"black_knight"`
	WhiteScore  int        `json:"white_score"`
	BlackScore  int        `json:"black_score"`
	Turn        Side       `json:"current_player"`
	Difficulty  Difficulty `json:"difficulty"`
	MaxDepth    int        `json:"max_depth"`
	GameOver    bool       `json:"game_over"`
	Winner      Winner     `json:"winner"`
}

// MoveOutcome reports what an accepted move did.
type MoveOutcome struct {
	PointsGained    int      `json:"points_gained"`
	NewPosition     Position `json:"new_position"`
	SquareDestroyed Position `json:"square_destroyed"`
}

// NewGameState builds a random layout: shuffle all 64 squares, the first two
// become the knights, the next ten get one point value each. White moves
// first. All randomness flows through rng so layouts are reproducible.
func NewGameState(d Difficulty, rng *rand.Rand) *GameState {
	s := &GameState{
		Turn:       SideWhite,
		Difficulty: d,
		MaxDepth:   d.Depth(),
	}

	cells := make([]Position, 0, BoardSize*BoardSize)
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			cells = append(cells, Position{Row: r, Col: c})
		}
	}
	rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })

	s.WhiteKnight = cells[0]
	s.BlackKnight = cells[1]
	for i, v := range pointValues {
		s.Board.SetValue(cells[i+2], v)
	}
	return s
}

func (s *GameState) knightPos(side Side) Position {
	if side == SideWhite {
		return s.WhiteKnight
	}
	return s.BlackKnight
}

func (s *GameState) KnightPosition(side Side) Position {
	return s.knightPos(side)
}

func (s *GameState) LegalMoves(side Side) []Position {
	return LegalKnightMoves(s.knightPos(side), &s.Board, s.knightPos(side.Opponent()))
}

// ApplyMove validates and applies one move. The square the knight leaves is
// destroyed; the destination keeps its cell until its occupant moves on. On
// any error the state is left untouched.
func (s *GameState) ApplyMove(side Side, dst Position) (MoveOutcome, error) {
	if s.GameOver {
		return MoveOutcome{}, errors.ErrGameFinished
	}
	if side != s.Turn {
		return MoveOutcome{}, errors.ErrOutOfTurn
	}
	if !dst.InBounds() {
		return MoveOutcome{}, errors.ErrOutOfBounds
	}
	if !lo.Contains(s.LegalMoves(side), dst) {
		return MoveOutcome{}, errors.ErrInvalidMove
	}

	origin := s.knightPos(side)
	gained := 0
	if v := s.Board.At(dst); v != CellEmpty {
		gained = int(v)
	}

	if side == SideWhite {
		s.WhiteKnight = dst
		s.WhiteScore += gained
	} else {
		s.BlackKnight = dst
		s.BlackScore += gained
	}
	s.Board.Destroy(origin)
	s.Turn = side.Opponent()
	s.CheckTerminal()

	return MoveOutcome{
		PointsGained:    gained,
		NewPosition:     dst,
		SquareDestroyed: origin,
	}, nil
}

// CheckTerminal ends the game only when both sides are stuck at once. A
// single stuck side goes through ApplyNoMovePenalty instead.
func (s *GameState) CheckTerminal() {
	if len(s.LegalMoves(SideWhite)) > 0 || len(s.LegalMoves(SideBlack)) > 0 {
		return
	}
	s.GameOver = true
	switch {
	case s.WhiteScore > s.BlackScore:
		s.Winner = WinnerWhite
	case s.BlackScore > s.WhiteScore:
		s.Winner = WinnerBlack
	default:
		s.Winner = WinnerTie
	}
}

// ApplyNoMovePenalty models the forced pass: the stuck side pays 4 points,
// the turn flips and terminal status is re-checked. Reports whether a
// penalty was applied.
func (s *GameState) ApplyNoMovePenalty() bool {
	if s.GameOver {
		return false
	}
	if len(s.LegalMoves(s.Turn)) > 0 {
		return false
	}

	if s.Turn == SideWhite {
		s.WhiteScore -= NoMovePenalty
	} else {
		s.BlackScore -= NoMovePenalty
	}
	s.Turn = s.Turn.Opponent()
	s.CheckTerminal()
	return true
}

// Clone returns an independent deep copy. Board is an array value, so plain
// struct copy shares nothing with the source.
func (s *GameState) Clone() *GameState {
	c := *s
	return &c
}

// Validate rejects states a client could not have obtained from this server:
// out-of-range or colliding knights, bad turn, bad difficulty, a knight
// standing on a destroyed square.
func (s *GameState) Validate() error {
	if !s.WhiteKnight.InBounds() || !s.BlackKnight.InBounds() {
		return errors.ErrBadGameState
	}
	if s.WhiteKnight == s.BlackKnight {
		return errors.ErrBadGameState
	}
	if s.Turn != SideWhite && s.Turn != SideBlack {
		return errors.ErrBadGameState
	}
	if _, err := ParseDifficulty(string(s.Difficulty)); err != nil {
		return err
	}
	if s.MaxDepth != s.Difficulty.Depth() {
		return errors.ErrBadGameState
	}
	if s.Board.At(s.WhiteKnight) == CellDestroyed || s.Board.At(s.BlackKnight) == CellDestroyed {
		return errors.ErrBadGameState
	}
	return nil
}
