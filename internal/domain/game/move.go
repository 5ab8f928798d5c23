package game

import (
	"encoding/json"
	"fmt"
)

// Position is a board coordinate. On the wire it is a [row, col] pair.
type Position struct {
	Row int
	Col int
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Row, p.Col})
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	p.Row, p.Col = pair[0], pair[1]
	return nil
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

func (p Position) ManhattanTo(q Position) int {
	return abs(p.Row-q.Row) + abs(p.Col-q.Col)
}

var centerPositions = [4]Position{{3, 3}, {3, 4}, {4, 3}, {4, 4}}

func (p Position) IsCenter() bool {
	for _, c := range centerPositions {
		if p == c {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// knightOffsets is a fixed table. Move lists keep its order, which keeps
// search tie-breaking reproducible.
var knightOffsets = [8][2]int{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1},
}

// KnightCandidates returns the in-bounds knight destinations from p, before
// any destroyed-square or occupancy filtering.
func KnightCandidates(p Position) []Position {
	moves := make([]Position, 0, 8)
	for _, off := range knightOffsets {
		dst := Position{Row: p.Row + off[0], Col: p.Col + off[1]}
		if dst.InBounds() {
			moves = append(moves, dst)
		}
	}
	return moves
}

// LegalKnightMoves filters the candidates against the board: destroyed
// squares and the square held by the opponent knight are not playable.
func LegalKnightMoves(p Position, b *Board, opponent Position) []Position {
	moves := make([]Position, 0, 8)
	for _, dst := range KnightCandidates(p) {
		if b.At(dst) == CellDestroyed || dst == opponent {
			continue
		}
		moves = append(moves, dst)
	}
	return moves
}

func CountLegalMoves(p Position, b *Board, opponent Position) int {
	return len(LegalKnightMoves(p, b, opponent))
}
