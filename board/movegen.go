package board

import "math/bits"

// CellSet is a set of cells, one bit per cell index.
type CellSet uint16

func (s CellSet) Contains(c Coord) bool {
	return s&(1<<c.Index()) != 0
}

func (s CellSet) Len() int {
	return bits.OnesCount16(uint16(s))
}

// Coords lists the members in ascending index order.
func (s CellSet) Coords() []Coord {
	out := make([]Coord, 0, s.Len())
	for ; s != 0; s &= s - 1 {
		out = append(out, CoordFromIndex(bits.TrailingZeros16(uint16(s))))
	}
	return out
}

// First returns the lowest-index member. ok is false for the empty set.
func (s CellSet) First() (c Coord, ok bool) {
	if s == 0 {
		return Coord{}, false
	}
	return CoordFromIndex(bits.TrailingZeros16(uint16(s))), true
}

func cellBit(c Coord) CellSet {
	return 1 << c.Index()
}

// LegalMoves returns the destinations available to the side to move, in
// ascending cell order. An empty result means the side to move has lost.
func (b *Board) LegalMoves() []Coord {
	return b.LegalMoveSet().Coords()
}

// LegalMoveSet is LegalMoves without the allocation.
func (b *Board) LegalMoveSet() CellSet {
	origin := b.pawns[b.turn]
	dist := b.cards[origin.Index()]

	var moves CellSet
	if dist == 0 {
		// The pawn has not moved yet: it may go to any live card.
		for i, c := range b.cards {
			if c != 0 {
				moves |= 1 << i
			}
		}
	} else {
		b.reachable(origin, int(dist), 0, &moves)
	}
	// No landing on a pawn.
	moves &^= cellBit(b.pawns[0]) | cellBit(b.pawns[1])
	return moves
}

// reachable walks dist more steps from p. visited holds the cells on the
// current path only; it is passed by value so siblings don't see each
// other's paths. A 0 card blocks the walk and can't be landed on.
func (b *Board) reachable(p Coord, dist int, visited CellSet, out *CellSet) {
	bit := cellBit(p)
	if visited&bit != 0 || b.cards[p.Index()] == 0 {
		return
	}
	if dist == 0 {
		*out |= bit
		return
	}
	visited |= bit
	for _, n := range p.Neighbors() {
		b.reachable(n, dist-1, visited, out)
	}
}
