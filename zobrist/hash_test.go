package zobrist

import (
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/torus/board"
)

func TestPlayAndUnplay(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()
	is.True(z.Initialized())

	b := board.NewBoard()
	h := z.Hash(b)

	from := b.Pawn(0)
	to := board.Coord{Row: 0, Col: 0}
	h1 := z.AddMove(h, 0, from, to, b.Card(from), b.MovesPlayed())
	b.MakeMove(to)
	is.Equal(h1, z.Hash(b))
	is.True(h1 != h) // extremely unlikely to collide.

	h2 := z.AddMove(h1, 0, from, to, 0, 0)
	is.Equal(h2, h)
}

func TestIncrementalMatchesFullHash(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()
	b := board.NewBoard()

	var walk func(key uint64, depth int)
	walk = func(key uint64, depth int) {
		is.Equal(key, z.Hash(b))
		if depth == 0 {
			return
		}
		for _, m := range b.LegalMoves() {
			side := b.Turn()
			from := b.Pawn(side)
			card := b.Card(from)
			moves := b.MovesPlayed()
			child := z.AddMove(key, side, from, m, card, moves)
			b.MakeMove(m)
			walk(child, depth-1)
			b.UndoMove()
			is.Equal(z.AddMove(child, side, from, m, card, moves), key)
		}
	}
	walk(z.Hash(b), 3)
}

func TestDifferentPositionsDiffer(t *testing.T) {
	is := is.New(t)
	z := &Zobrist{}
	z.Initialize()
	b := board.NewBoard()
	seen := map[uint64]board.Coord{}
	for _, m := range b.LegalMoves() {
		b.MakeMove(m)
		h := z.Hash(b)
		_, dup := seen[h]
		is.True(!dup)
		seen[h] = m
		b.UndoMove()
	}
	is.Equal(len(seen), 14)
}
