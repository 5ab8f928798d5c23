package game

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"smart_horses/internal/errors"
)

const destroyedToken = "destroyed"

// Board travels as an object keyed "row,col": null for empty squares,
// "destroyed" for removed ones, a number for point squares.
func (b Board) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, BoardSize*BoardSize)
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			key := fmt.Sprintf("%d,%d", r, c)
			switch v := b.At(Position{Row: r, Col: c}); v {
			case CellEmpty:
				m[key] = nil
			case CellDestroyed:
				m[key] = destroyedToken
			default:
				m[key] = int(v)
			}
		}
	}
	return json.Marshal(m)
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var cells [BoardSize * BoardSize]Cell
	for key, v := range raw {
		p, err := parseBoardKey(key)
		if err != nil {
			return err
		}
		switch tv := v.(type) {
		case nil:
		case string:
			if tv != destroyedToken {
				return fmt.Errorf("%w: unknown cell %q at %s", errors.ErrBadGameState, tv, key)
			}
			cells[p.Row*BoardSize+p.Col] = CellDestroyed
		case float64:
			if tv != math.Trunc(tv) || tv < -10 || tv > 10 {
				return fmt.Errorf("%w: cell value %v at %s", errors.ErrBadGameState, tv, key)
			}
			cells[p.Row*BoardSize+p.Col] = Cell(tv)
		default:
			return fmt.Errorf("%w: cell at %s", errors.ErrBadGameState, key)
		}
	}
	b.cells = cells
	return nil
}

func parseBoardKey(key string) (Position, error) {
	rs, cs, ok := strings.Cut(key, ",")
	if !ok {
		return Position{}, fmt.Errorf("%w: board key %q", errors.ErrBadGameState, key)
	}
	r, err := strconv.Atoi(rs)
	if err != nil {
		return Position{}, fmt.Errorf("%w: board key %q", errors.ErrBadGameState, key)
	}
	c, err := strconv.Atoi(cs)
	if err != nil {
		return Position{}, fmt.Errorf("%w: board key %q", errors.ErrBadGameState, key)
	}
	p := Position{Row: r, Col: c}
	if !p.InBounds() {
		return Position{}, fmt.Errorf("%w: board key %q", errors.ErrBadGameState, key)
	}
	return p, nil
}

// Winner is null on the wire until the game ends.
func (w Winner) MarshalJSON() ([]byte, error) {
	if w == WinnerNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(w))
}

func (w *Winner) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*w = WinnerNone
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch Winner(v) {
	case WinnerWhite, WinnerBlack, WinnerTie:
		*w = Winner(v)
	default:
		return fmt.Errorf("%w: winner %q", errors.ErrBadGameState, v)
	}
	return nil
}
