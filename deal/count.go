package deal

import (
	"github.com/domino14/torus/board"
	"gonum.org/v1/gonum/stat/combin"
)

// PermutationCount is the multinomial coefficient n!/(c0!c1!...), the number
// of distinct arrangements UniquePermutations yields.
func PermutationCount(counts Counts) uint64 {
	remaining := counts.Total()
	total := uint64(1)
	for _, c := range counts {
		total *= uint64(combin.Binomial(remaining, c))
		remaining -= c
	}
	return total
}

// BoardCount is the number of deals Generate yields.
func BoardCount(counts Counts) uint64 {
	return uint64(len(Offsets())) * PermutationCount(counts)
}

// TotalWeight is the sum of the weights of all deals Generate yields.
func TotalWeight(counts Counts) uint64 {
	var w uint64
	for _, o := range Offsets() {
		w += o.Weight
	}
	return w * PermutationCount(counts)
}

// RawCount is the number of layouts with pawn 0 fixed at the origin. It
// equals TotalWeight.
func RawCount(counts Counts) uint64 {
	return uint64(board.NumCells-1) * PermutationCount(counts)
}
