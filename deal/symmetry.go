package deal

import (
	"sync"

	"github.com/domino14/torus/board"
)

// symmetry is a permutation of the cells: cell i goes to cell s[i].
type symmetry [board.NumCells]int

func (s symmetry) apply(c board.Coord) board.Coord {
	return board.CoordFromIndex(s[c.Index()])
}

func adjacency() (adj [board.NumCells][board.NumCells]bool) {
	for i := range board.NumCells {
		for _, n := range board.CoordFromIndex(i).Neighbors() {
			adj[i][n.Index()] = true
		}
	}
	return adj
}

// originSymmetries are the automorphisms of the torus neighbor graph that
// fix the origin. Moves only depend on which cells neighbor which, so each
// one maps a deal to an equivalent deal with pawn 0 still at the origin.
// The 4x4 torus is the 4-cube, and there are 4! of these, more than the
// eight rotations and reflections of the square.
var originSymmetries = sync.OnceValue(func() []symmetry {
	adj := adjacency()
	var out []symmetry
	var s symmetry
	var used [board.NumCells]bool

	var extend func(i int)
	extend = func(i int) {
		if i == board.NumCells {
			out = append(out, s)
			return
		}
		for v := range board.NumCells {
			if used[v] || (i == 0 && v != 0) {
				continue
			}
			fits := true
			for j := range i {
				if adj[i][j] != adj[v][s[j]] {
					fits = false
					break
				}
			}
			if !fits {
				continue
			}
			s[i] = v
			used[v] = true
			extend(i + 1)
			used[v] = false
		}
	}
	extend(0)
	return out
})

// Offset is a representative position for pawn 1 and the number of cells
// (pawn 1 positions) it stands for.
type Offset struct {
	Index  int
	Weight uint64
}

func (o Offset) Coord() board.Coord {
	return board.CoordFromIndex(o.Index)
}

// Offsets returns one representative per orbit of the non-origin cells
// under the symmetries fixing the origin, smallest cell index first.
var Offsets = sync.OnceValue(func() []Offset {
	var seen [board.NumCells]bool
	var out []Offset
	for idx := 1; idx < board.NumCells; idx++ {
		if seen[idx] {
			continue
		}
		orbit := map[int]bool{}
		for _, s := range originSymmetries() {
			orbit[s[idx]] = true
		}
		for o := range orbit {
			seen[o] = true
		}
		out = append(out, Offset{Index: idx, Weight: uint64(len(orbit))})
	}
	return out
})
