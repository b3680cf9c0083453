package deal

import "iter"

// UniquePermutations yields every distinct arrangement of the multiset in
// which value v appears counts[v] times, each exactly once, in
// lexicographic order. It picks the next distinct value still available,
// takes one, recurses and puts it back. The yielded slice is reused between
// iterations; copy it to keep it.
func UniquePermutations(counts Counts) iter.Seq[[]uint8] {
	return func(yield func([]uint8) bool) {
		remaining := counts
		buf := make([]uint8, 0, counts.Total())
		var rec func() bool
		rec = func() bool {
			if len(buf) == cap(buf) {
				return yield(buf)
			}
			for v := range remaining {
				if remaining[v] == 0 {
					continue
				}
				remaining[v]--
				buf = append(buf, uint8(v))
				ok := rec()
				buf = buf[:len(buf)-1]
				remaining[v]++
				if !ok {
					return false
				}
			}
			return true
		}
		rec()
	}
}
