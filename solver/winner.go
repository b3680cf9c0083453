package solver

import (
	"github.com/domino14/torus/board"
)

// WinningMove returns a move after which the opponent cannot force a win,
// if the side to move has one. ok is false when every move loses, including
// when there is no legal move at all.
func (s *Solver) WinningMove() (m board.Coord, ok bool) {
	s.resetKey()
	return s.winningMove()
}

// CanForceWin reports whether the side to move wins with best play.
func (s *Solver) CanForceWin() bool {
	_, ok := s.WinningMove()
	return ok
}

func (s *Solver) winningMove() (board.Coord, bool) {
	for set := s.board.LegalMoveSet(); set != 0; set &= set - 1 {
		m, _ := set.First()
		s.play(m)
		oppWins := s.canWin()
		s.unplay()
		if !oppWins {
			return m, true
		}
	}
	return board.Coord{}, false
}

// canWin is winningMove for a non-root node, consulting the table first.
func (s *Solver) canWin() bool {
	if s.ttable != nil {
		e := s.ttable.lookup(s.key)
		if e.valid() && e.winLoss() {
			return e.score > 0
		}
	}
	m, ok := s.winningMove()
	if s.ttable != nil {
		e := TableEntry{score: -1, flag: TTExact | ttWinLoss, play: -1}
		if ok {
			e.score = 1
			e.play = int8(m.Index())
		}
		s.ttable.store(s.key, e)
	}
	return ok
}
