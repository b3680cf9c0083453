package solver

import (
	"math"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

// win/loss entries from the proof search share the table with minimax
// entries; this bit keeps them apart.
const ttWinLoss = 0x04
const ttBoundMask = 0x03

const entrySize = 16

const (
	minSizePowerOf2 = 10
	maxSizePowerOf2 = 28
)

// 16 bytes (entrySize)
type TableEntry struct {
	key   uint64
	score int8
	flag  uint8
	// cell index of the best move, or -1.
	play int8
}

func (t TableEntry) bound() uint8 {
	return t.flag & ttBoundMask
}

func (t TableEntry) winLoss() bool {
	return t.flag&ttWinLoss != 0
}

func (t TableEntry) valid() bool {
	// a bound is 1, 2, or 3.
	return t.bound() != 0
}

// TranspositionTable caches search results by zobrist key. It is not safe
// for concurrent use; give every worker its own.
type TranspositionTable struct {
	table        []TableEntry
	sizePowerOf2 int
	sizeMask     uint64

	created atomic.Uint64
	lookups atomic.Uint64
	hits    atomic.Uint64
	// another position was already sitting in the slot.
	collisions atomic.Uint64
}

func (t *TranspositionTable) lookup(key uint64) TableEntry {
	t.lookups.Add(1)
	idx := key & t.sizeMask
	e := t.table[idx]
	if e.key != key {
		if e.valid() {
			t.collisions.Add(1)
		}
		return TableEntry{}
	}
	t.hits.Add(1)
	return e
}

func (t *TranspositionTable) store(key uint64, e TableEntry) {
	e.key = key
	// just overwrite whatever is there for now.
	t.table[key&t.sizeMask] = e
	t.created.Add(1)
}

// Reset sizes the table to the largest power of two that fits in the given
// fraction of system memory, within fixed bounds, and clears it.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(entrySize))
	p := minSizePowerOf2
	if desiredNElems >= 1 {
		p = int(math.Log2(desiredNElems))
	}
	log.Debug().Float64("desired-num-elems", desiredNElems).
		Uint64("total-system-memory-bytes", totalMem).
		Msg("transposition-table-desired-size")
	t.SetSizePowerOf2(p)
}

// SetSizePowerOf2 allocates (or clears) a table of 2^p entries.
func (t *TranspositionTable) SetSizePowerOf2(p int) {
	p = max(minSizePowerOf2, min(p, maxSizePowerOf2))
	numElems := 1 << p
	reset := false
	if t.table != nil && len(t.table) == numElems {
		reset = true
		clear(t.table)
	} else {
		t.table = make([]TableEntry, numElems)
	}
	t.sizePowerOf2 = p
	t.sizeMask = uint64(numElems - 1)

	log.Debug().Int("num-elems", numElems).
		Int("estimated-total-memory-bytes", numElems*entrySize).
		Bool("reset", reset).
		Msg("transposition-table-size")

	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.collisions.Store(0)
}

// NewTranspositionTable allocates a table of 2^p entries.
func NewTranspositionTable(p int) *TranspositionTable {
	t := &TranspositionTable{}
	t.SetSizePowerOf2(p)
	return t
}

type TableStats struct {
	Created    uint64
	Lookups    uint64
	Hits       uint64
	Collisions uint64
}

func (t *TranspositionTable) Stats() TableStats {
	return TableStats{
		Created:    t.created.Load(),
		Lookups:    t.lookups.Load(),
		Hits:       t.hits.Load(),
		Collisions: t.collisions.Load(),
	}
}

func (t *TranspositionTable) Len() int {
	return len(t.table)
}
