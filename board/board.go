// Package board contains the game state for the toroidal move-card game:
// the card grid, both pawns, the side to move and the undo history.
package board

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash"
)

// MaxCard is the largest move distance printed on a card.
const MaxCard = 4

// Undo is what MakeMove needs to remember to reverse itself: the card that
// was under the pawn when it left, and where it left from.
type Undo struct {
	Card uint8
	From Coord
}

// Board is a mutable game position. It is not safe for concurrent use; every
// search owns its own Board (see Copy).
type Board struct {
	cards   [NumCells]uint8
	pawns   [2]Coord
	turn    int
	history []Undo
}

// Snapshot is a comparable copy of everything that identifies a position.
type Snapshot struct {
	Cards [NumCells]uint8
	Pawns [2]Coord
	Turn  int
	Moves int
}

var canonicalCards = [NumCells]uint8{
	1, 2, 2, 3,
	4, 1, 2, 0,
	3, 1, 2, 3,
	0, 3, 1, 4,
}

// NewBoard returns the canonical starting layout.
func NewBoard() *Board {
	return &Board{
		cards:   canonicalCards,
		pawns:   [2]Coord{{1, 3}, {3, 0}},
		history: make([]Undo, 0, NumCells),
	}
}

// FromCards builds a fresh board (side 0 to move, no history) from a
// row-major card layout and the two pawn positions.
func FromCards(cards [NumCells]uint8, pawn0, pawn1 Coord) (*Board, error) {
	for i, c := range cards {
		if c > MaxCard {
			return nil, fmt.Errorf("%w: card %d at %v", ErrInvalidLayout, c, CoordFromIndex(i))
		}
	}
	for _, p := range [2]Coord{pawn0, pawn1} {
		if p.Row < 0 || p.Row >= Size || p.Col < 0 || p.Col >= Size {
			return nil, fmt.Errorf("%w: pawn at %v is off the board", ErrInvalidLayout, p)
		}
	}
	if pawn0 == pawn1 {
		return nil, fmt.Errorf("%w: both pawns on %v", ErrInvalidLayout, pawn0)
	}
	return &Board{
		cards:   cards,
		pawns:   [2]Coord{pawn0, pawn1},
		history: make([]Undo, 0, NumCells),
	}, nil
}

// Copy returns a deep copy, history included.
func (b *Board) Copy() *Board {
	h := make([]Undo, len(b.history), NumCells)
	copy(h, b.history)
	return &Board{
		cards:   b.cards,
		pawns:   b.pawns,
		turn:    b.turn,
		history: h,
	}
}

func (b *Board) Card(c Coord) uint8 {
	return b.cards[c.Index()]
}

// Cards returns the grid in row-major order.
func (b *Board) Cards() [NumCells]uint8 {
	return b.cards
}

func (b *Board) Pawn(side int) Coord {
	return b.pawns[side]
}

// Turn is the side to move, 0 or 1.
func (b *Board) Turn() int {
	return b.turn
}

func (b *Board) MovesPlayed() int {
	return len(b.history)
}

// CardsRemaining is 16 minus the number of moves played. Its parity at a
// terminal position decides which side the score favors.
func (b *Board) CardsRemaining() int {
	return NumCells - len(b.history)
}

// History returns a copy of the undo stack, oldest move first.
func (b *Board) History() []Undo {
	return slices.Clone(b.history)
}

func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Cards: b.cards,
		Pawns: b.pawns,
		Turn:  b.turn,
		Moves: len(b.history),
	}
}

// MakeMove moves the side to move's pawn to dest. dest must come from
// LegalMoves; nothing is checked here. Use PlayMove for untrusted input.
func (b *Board) MakeMove(dest Coord) {
	from := b.pawns[b.turn]
	b.history = append(b.history, Undo{Card: b.cards[from.Index()], From: from})
	b.cards[from.Index()] = 0
	b.pawns[b.turn] = dest
	b.turn = 1 - b.turn
}

// UndoMove reverses the last MakeMove. Undoing a board with no history is a
// caller bug and panics with ErrUndoFreshBoard.
func (b *Board) UndoMove() {
	n := len(b.history)
	if n == 0 {
		panic(ErrUndoFreshBoard)
	}
	u := b.history[n-1]
	b.history = b.history[:n-1]
	b.turn = 1 - b.turn
	b.pawns[b.turn] = u.From
	b.cards[u.From.Index()] = u.Card
}

// PlayMove is MakeMove for moves that did not come from the move generator.
func (b *Board) PlayMove(dest Coord) error {
	if !b.LegalMoveSet().Contains(dest) {
		return fmt.Errorf("%w: %v is not reachable for side %d", ErrIllegalMove, dest, b.turn)
	}
	b.MakeMove(dest)
	return nil
}

// Fingerprint hashes the cards, pawns and side to move. Two boards with the
// same fingerprint are, for all practical purposes, the same position.
func (b *Board) Fingerprint() uint64 {
	var buf [NumCells + 3]byte
	copy(buf[:NumCells], b.cards[:])
	buf[NumCells] = byte(b.pawns[0].Index())
	buf[NumCells+1] = byte(b.pawns[1].Index())
	buf[NumCells+2] = byte(b.turn)
	return xxhash.Sum64(buf[:])
}

// FingerprintString is Fingerprint in a fixed-width hex form for display.
func (b *Board) FingerprintString() string {
	return fmt.Sprintf("%016x", b.Fingerprint())
}
