package errors

import "errors"

var (
	ErrInvalidMove       = errors.New("invalid move")
	ErrOutOfTurn         = errors.New("not this side's turn")
	ErrGameFinished      = errors.New("game is already finished")
	ErrUnknownDifficulty = errors.New("difficulty must be beginner, amateur, or expert")
	ErrUnknownSide       = errors.New("knight must be white or black")
	ErrOutOfBounds       = errors.New("position is outside the board")
	ErrBadGameState      = errors.New("malformed game state")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal error")
)
