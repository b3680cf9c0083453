package board

import (
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func allCards(v uint8) [NumCells]uint8 {
	var c [NumCells]uint8
	for i := range c {
		c[i] = v
	}
	return c
}

func TestCanonicalStartMoves(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	moves := b.LegalMoves()
	is.Equal(len(moves), 14)
	for _, m := range moves {
		is.True(m != b.Pawn(0))
		is.True(m != b.Pawn(1))
		is.True(b.Card(m) != 0)
	}
}

func TestNeighborsWrap(t *testing.T) {
	is := is.New(t)
	n := Coord{0, 0}.Neighbors()
	is.Equal(n, [4]Coord{{1, 0}, {3, 0}, {0, 1}, {0, 3}})
	n = Coord{3, 3}.Neighbors()
	is.Equal(n, [4]Coord{{0, 3}, {2, 3}, {3, 0}, {3, 2}})
}

func TestWalkOfTwo(t *testing.T) {
	is := is.New(t)
	cards := allCards(2)
	cards[Coord{3, 3}.Index()] = 0
	b, err := FromCards(cards, Coord{0, 0}, Coord{3, 3})
	is.NoErr(err)
	// pretend pawn 0 has moved so the walk rule applies.
	is.Equal(b.LegalMoves(), []Coord{{0, 2}, {1, 1}, {1, 3}, {2, 0}, {3, 1}})
}

func TestZeroCardsBlockTheWalk(t *testing.T) {
	is := is.New(t)
	cards := allCards(2)
	cards[Coord{3, 3}.Index()] = 0
	cards[Coord{1, 0}.Index()] = 0
	cards[Coord{0, 1}.Index()] = 0
	b, err := FromCards(cards, Coord{0, 0}, Coord{3, 3})
	is.NoErr(err)
	is.Equal(b.LegalMoves(), []Coord{{0, 2}, {1, 3}, {2, 0}, {3, 1}})
}

func TestCannotLandOnOpponent(t *testing.T) {
	is := is.New(t)
	cards := allCards(1)
	b, err := FromCards(cards, Coord{0, 0}, Coord{0, 1})
	is.NoErr(err)
	is.Equal(b.LegalMoves(), []Coord{{0, 3}, {1, 0}, {3, 0}})
}

func TestWalkPassesOverOpponent(t *testing.T) {
	is := is.New(t)
	cards := allCards(0)
	cards[Coord{0, 0}.Index()] = 2
	cards[Coord{0, 1}.Index()] = 3
	cards[Coord{0, 2}.Index()] = 1
	b, err := FromCards(cards, Coord{0, 0}, Coord{0, 1})
	is.NoErr(err)
	is.Equal(b.LegalMoves(), []Coord{{0, 2}})
}

func TestNoMovesIsEmpty(t *testing.T) {
	is := is.New(t)
	cards := allCards(0)
	cards[Coord{0, 0}.Index()] = 1
	b, err := FromCards(cards, Coord{0, 0}, Coord{2, 2})
	is.NoErr(err)
	is.Equal(len(b.LegalMoves()), 0)
	is.Equal(b.LegalMoveSet().Len(), 0)
}

func checkConsistency(t *testing.T, b *Board, depth int) {
	is := is.New(t)
	before := b.Snapshot()
	fp := b.Fingerprint()
	for _, m := range b.LegalMoves() {
		is.True(m != b.Pawn(0))
		is.True(m != b.Pawn(1))
		is.True(b.Card(m) != 0)

		b.MakeMove(m)
		is.Equal(b.Pawn(1-b.Turn()), m)
		is.True(b.Pawn(0) != b.Pawn(1))
		if depth > 1 {
			checkConsistency(t, b, depth-1)
		}
		b.UndoMove()
		is.Equal(b.Snapshot(), before)
		is.Equal(b.Fingerprint(), fp)
	}
}

func TestMakeUndoRoundTrip(t *testing.T) {
	checkConsistency(t, NewBoard(), 4)
}

func TestUndoFreshBoardPanics(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	defer func() {
		r := recover()
		is.Equal(r, ErrUndoFreshBoard)
	}()
	b.UndoMove()
}

func TestMakeMoveRecordsHistory(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	b.MakeMove(Coord{0, 0})
	is.Equal(b.Turn(), 1)
	is.Equal(b.MovesPlayed(), 1)
	is.Equal(b.CardsRemaining(), 15)
	// the pawn left its 0 starting card, so nothing changed there.
	is.Equal(b.Card(Coord{1, 3}), uint8(0))
	is.Equal(b.History(), []Undo{{Card: 0, From: Coord{1, 3}}})

	b.MakeMove(Coord{0, 1})
	b.MakeMove(Coord{1, 0})
	is.Equal(b.Card(Coord{0, 0}), uint8(0))
	is.Equal(b.History()[2], Undo{Card: 1, From: Coord{0, 0}})
	b.UndoMove()
	is.Equal(b.Card(Coord{0, 0}), uint8(1))
	is.Equal(b.Pawn(0), Coord{0, 0})
	is.Equal(b.Turn(), 0)
}

func TestPlayMoveRejectsIllegal(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	err := b.PlayMove(Coord{3, 0})
	is.True(errors.Is(err, ErrIllegalMove))
	is.Equal(b.MovesPlayed(), 0)
	is.NoErr(b.PlayMove(Coord{2, 2}))
	is.Equal(b.Pawn(0), Coord{2, 2})
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	b := NewBoard()
	b.MakeMove(Coord{0, 0})
	c := b.Copy()
	c.MakeMove(Coord{0, 1})
	is.Equal(b.MovesPlayed(), 1)
	is.Equal(c.MovesPlayed(), 2)
	c.UndoMove()
	c.UndoMove()
	is.Equal(c.Snapshot(), NewBoard().Snapshot())
	is.Equal(b.Pawn(0), Coord{0, 0})
}

func TestFromCardsValidates(t *testing.T) {
	is := is.New(t)
	_, err := FromCards(allCards(1), Coord{0, 0}, Coord{0, 0})
	is.True(errors.Is(err, ErrInvalidLayout))
	_, err = FromCards(allCards(5), Coord{0, 0}, Coord{1, 0})
	is.True(errors.Is(err, ErrInvalidLayout))
	_, err = FromCards(allCards(1), Coord{0, 4}, Coord{1, 0})
	is.True(errors.Is(err, ErrInvalidLayout))
}

func TestParseCoord(t *testing.T) {
	is := is.New(t)
	c, err := ParseCoord("2,3")
	is.NoErr(err)
	is.Equal(c, Coord{2, 3})
	c, err = ParseCoord(" (0, 1) ")
	is.NoErr(err)
	is.Equal(c, Coord{0, 1})
	_, err = ParseCoord("4,0")
	is.True(errors.Is(err, ErrBadCoord))
	_, err = ParseCoord("a,b")
	is.True(errors.Is(err, ErrBadCoord))
	is.Equal(Coord{1, 2}.String(), "(1,2)")
	is.Equal(CoordFromIndex(Coord{3, 1}.Index()), Coord{3, 1})
}

func TestToDisplayText(t *testing.T) {
	is := is.New(t)
	lines := strings.Split(NewBoard().ToDisplayText(), "\n")
	is.Equal(len(lines), 5)
	is.Equal(lines[0], " 1  2  2  3 ")
	is.Equal(lines[1], " 4  1  2 R0R")
	is.Equal(lines[3], "B0B 3  1  4 ")
	is.Equal(lines[4], "R to move; 0 moves played, 16 cards remaining")
}
