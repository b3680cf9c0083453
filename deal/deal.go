// Package deal enumerates every distinct starting layout of the move-card
// game up to symmetry. Pawn 0 always starts on a 0 card at the origin;
// translations of the torus are factored out by that choice, and the
// symmetries of the torus that fix the origin by restricting pawn 1 to one
// cell per orbit. Each deal carries the number of raw deals it stands for.
package deal

import (
	"errors"
	"fmt"
	"iter"

	"github.com/domino14/torus/board"
)

// Counts gives the number of cards of each value (index = value) laid out
// on the cells not under a pawn.
type Counts [board.MaxCard + 1]int

// DefaultCounts is the standard deck: four each of 1, 2 and 3, and two 4s.
var DefaultCounts = Counts{0, 4, 4, 4, 2}

var ErrBadCounts = errors.New("card counts must fill the board")

func (c Counts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

func (c Counts) Validate() error {
	for v, n := range c {
		if n < 0 {
			return fmt.Errorf("%w: negative count %d for value %d", ErrBadCounts, n, v)
		}
	}
	if c.Total() != board.NumCells-2 {
		return fmt.Errorf("%w: have %d cards, need %d", ErrBadCounts, c.Total(), board.NumCells-2)
	}
	return nil
}

// Deal is one starting layout, weighted by how many raw layouts it stands for.
type Deal struct {
	Board  *board.Board
	Weight uint64
	// Offset is the cell index of pawn 1.
	Offset int
}

// Layout places the two 0 cards at the origin and at offset, and fills the
// other cells from perm in row-major order.
func Layout(perm []uint8, offset int) [board.NumCells]uint8 {
	var cards [board.NumCells]uint8
	copy(cards[1:offset], perm[:offset-1])
	copy(cards[offset+1:], perm[offset-1:])
	return cards
}

func newDeal(perm []uint8, off Offset) Deal {
	b, err := board.FromCards(Layout(perm, off.Index), board.Coord{}, off.Coord())
	if err != nil {
		// counts were validated and offsets are in range
		panic(err)
	}
	return Deal{Board: b, Weight: off.Weight, Offset: off.Index}
}

// All yields every deal of the default deck.
func All() iter.Seq[Deal] {
	seq, _ := Generate(DefaultCounts)
	return seq
}

// Generate yields one Deal per (pawn 1 offset, unique card arrangement).
// Offsets form the outer loop.
func Generate(counts Counts) (iter.Seq[Deal], error) {
	if err := counts.Validate(); err != nil {
		return nil, err
	}
	return func(yield func(Deal) bool) {
		for _, off := range Offsets() {
			for perm := range UniquePermutations(counts) {
				if !yield(newDeal(perm, off)) {
					return
				}
			}
		}
	}, nil
}

// Raw yields every layout with pawn 0 at the origin and pawn 1 anywhere
// else, each with weight 1. It is much larger than Generate and exists to
// check the symmetry reduction.
func Raw(counts Counts) (iter.Seq[Deal], error) {
	if err := counts.Validate(); err != nil {
		return nil, err
	}
	return func(yield func(Deal) bool) {
		for idx := 1; idx < board.NumCells; idx++ {
			for perm := range UniquePermutations(counts) {
				if !yield(newDeal(perm, Offset{Index: idx, Weight: 1})) {
					return
				}
			}
		}
	}, nil
}

// Limit yields at most the first n deals of seq.
func Limit(seq iter.Seq[Deal], n int) iter.Seq[Deal] {
	return func(yield func(Deal) bool) {
		if n <= 0 {
			return
		}
		i := 0
		for d := range seq {
			if !yield(d) {
				return
			}
			i++
			if i == n {
				return
			}
		}
	}
}
