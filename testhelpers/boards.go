// Package testhelpers builds positions shared by the tests of several
// packages.
package testhelpers

import (
	"math/rand/v2"

	"github.com/domino14/torus/board"
)

// PlayLongLine plays depth moves on b, backtracking as needed so that the
// side to move still has a move after the last one. It returns false, with b
// unchanged, if no such line exists.
func PlayLongLine(b *board.Board, depth int) bool {
	if depth == 0 {
		return len(b.LegalMoves()) > 0
	}
	for _, m := range b.LegalMoves() {
		b.MakeMove(m)
		if PlayLongLine(b, depth-1) {
			return true
		}
		b.UndoMove()
	}
	return false
}

// LateGame returns the canonical board after a line of depth moves.
// It panics if the line does not exist.
func LateGame(depth int) *board.Board {
	b := board.NewBoard()
	if !PlayLongLine(b, depth) {
		panic("no line that long")
	}
	return b
}

// SparseBoards returns n fresh boards with exactly live non-zero cards on
// them, both pawns sitting on live cards so the walk rule applies from the
// first move. The boards depend only on seed.
func SparseBoards(seed uint64, n, live int) []*board.Board {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]*board.Board, 0, n)
	for len(out) < n {
		var cards [board.NumCells]uint8
		perm := rng.Perm(board.NumCells)
		for _, idx := range perm[:live] {
			cards[idx] = uint8(1 + rng.IntN(3))
		}
		b, err := board.FromCards(cards, board.CoordFromIndex(perm[0]), board.CoordFromIndex(perm[1]))
		if err != nil {
			panic(err)
		}
		out = append(out, b)
	}
	return out
}

// SingleMove is a position where side 0 has exactly one move, (0,1), after
// which side 1 is stuck.
func SingleMove() *board.Board {
	var cards [board.NumCells]uint8
	cards[board.Coord{Row: 0, Col: 0}.Index()] = 1
	cards[board.Coord{Row: 0, Col: 1}.Index()] = 1
	b, err := board.FromCards(cards, board.Coord{Row: 0, Col: 0}, board.Coord{Row: 2, Col: 2})
	if err != nil {
		panic(err)
	}
	return b
}
