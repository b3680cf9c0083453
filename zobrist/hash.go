package zobrist

import (
	"lukechampine.com/frand"

	"github.com/domino14/torus/board"
)

const bignum = 1<<63 - 2

// generate a zobrist hash for a torus position.
// https://en.wikipedia.org/wiki/Zobrist_hashing
//
// A Zobrist is immutable once initialized, so one instance can be shared by
// any number of searches.
type Zobrist struct {
	cardTable [board.NumCells][board.MaxCard + 1]uint64
	pawnTable [2][board.NumCells]uint64
	// Moves played is hashed too. It is implied by the cards and pawns for
	// any position reached from a real deal, but not for hand-made layouts.
	movesTable  [board.NumCells + 1]uint64
	sideToMove  uint64
	initialized bool
}

func (z *Zobrist) Initialize() {
	for i := range z.cardTable {
		// a 0 card hashes to nothing.
		for v := 1; v <= board.MaxCard; v++ {
			z.cardTable[i][v] = frand.Uint64n(bignum) + 1
		}
	}
	for side := range z.pawnTable {
		for i := range z.pawnTable[side] {
			z.pawnTable[side][i] = frand.Uint64n(bignum) + 1
		}
	}
	for i := range z.movesTable {
		z.movesTable[i] = frand.Uint64n(bignum) + 1
	}
	z.sideToMove = frand.Uint64n(bignum) + 1
	z.initialized = true
}

func (z *Zobrist) Initialized() bool {
	return z.initialized
}

func (z *Zobrist) Hash(b *board.Board) uint64 {
	key := uint64(0)
	for i, c := range b.Cards() {
		key ^= z.cardTable[i][c]
	}
	key ^= z.pawnTable[0][b.Pawn(0).Index()]
	key ^= z.pawnTable[1][b.Pawn(1).Index()]
	key ^= z.movesTable[b.MovesPlayed()]
	if b.Turn() == 1 {
		key ^= z.sideToMove
	}
	return key
}

// AddMove updates key for side moving its pawn from -> to, where card was
// the value under the pawn before it left and movesBefore is the number of
// moves played before this one. Applying the same call again undoes it.
func (z *Zobrist) AddMove(key uint64, side int, from, to board.Coord, card uint8, movesBefore int) uint64 {
	key ^= z.cardTable[from.Index()][card]
	key ^= z.pawnTable[side][from.Index()]
	key ^= z.pawnTable[side][to.Index()]
	key ^= z.movesTable[movesBefore]
	key ^= z.movesTable[movesBefore+1]
	key ^= z.sideToMove
	return key
}
