// Package solver contains the exhaustive searches over a torus position:
// a win/loss proof search, an alpha-beta minimax scored by cards remaining,
// and a counter of every terminal line of play.
//
// All searches mutate the Solver's board in place with MakeMove/UndoMove
// and leave it exactly as they found it.
package solver

import (
	"sync/atomic"

	"github.com/domino14/torus/board"
	"github.com/domino14/torus/zobrist"
)

// MaxScore bounds every cards-remaining score: |score| <= 16.
const MaxScore = int8(board.NumCells)

// Solver searches a single board. The board is owned by the solver for the
// duration of a search; never hand the same board to two solvers that run
// concurrently.
type Solver struct {
	board *board.Board

	zobrist *zobrist.Zobrist
	ttable  *TranspositionTable
	key     uint64
	keys    []uint64

	nodes atomic.Uint64
}

// Init initializes the solver.
func (s *Solver) Init(b *board.Board) {
	s.board = b
	s.keys = make([]uint64, 0, board.NumCells+1)
}

// NewSolver is a convenience for a solver on b with no transposition table.
func NewSolver(b *board.Board) *Solver {
	s := &Solver{}
	s.Init(b)
	return s
}

// SetTranspositionTable turns on the transposition table. z must be
// initialized; it may be shared, tt may not.
func (s *Solver) SetTranspositionTable(tt *TranspositionTable, z *zobrist.Zobrist) {
	s.ttable = tt
	s.zobrist = z
}

func (s *Solver) Board() *board.Board {
	return s.board
}

// Nodes is the number of moves made by all searches since the last
// ResetNodes. It is safe to read from another goroutine.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

func (s *Solver) ResetNodes() {
	s.nodes.Store(0)
}

func (s *Solver) resetKey() {
	s.keys = s.keys[:0]
	if s.ttable != nil {
		s.key = s.zobrist.Hash(s.board)
	}
}

func (s *Solver) play(m board.Coord) {
	if s.ttable != nil {
		side := s.board.Turn()
		from := s.board.Pawn(side)
		s.keys = append(s.keys, s.key)
		s.key = s.zobrist.AddMove(s.key, side, from, m, s.board.Card(from), s.board.MovesPlayed())
	}
	s.board.MakeMove(m)
	s.nodes.Add(1)
}

func (s *Solver) unplay() {
	s.board.UndoMove()
	if s.ttable != nil {
		n := len(s.keys)
		s.key = s.keys[n-1]
		s.keys = s.keys[:n-1]
	}
}

// TerminalScore scores a position where the side to move is stuck. With r
// cards remaining, odd r favors side 0 (+r) and even r favors side 1 (-r).
func TerminalScore(b *board.Board) int8 {
	r := int8(b.CardsRemaining())
	if r%2 == 1 {
		return r
	}
	return -r
}
