package solver

import (
	"github.com/domino14/torus/board"
)

// CountTerminalLines counts every line of play from the current position to
// a position where the side to move is stuck.
func (s *Solver) CountTerminalLines() uint64 {
	var counter uint64
	s.traverse(&counter)
	return counter
}

// CountTerminalLinesByFirstMove splits CountTerminalLines by the first move
// played. The values sum to CountTerminalLines.
func (s *Solver) CountTerminalLinesByFirstMove() map[board.Coord]uint64 {
	out := make(map[board.Coord]uint64)
	for _, m := range s.board.LegalMoves() {
		s.board.MakeMove(m)
		s.nodes.Add(1)
		var counter uint64
		s.traverse(&counter)
		s.board.UndoMove()
		out[m] = counter
	}
	return out
}

func (s *Solver) traverse(counter *uint64) {
	moves := s.board.LegalMoveSet()
	if moves == 0 {
		*counter++
		return
	}
	for set := moves; set != 0; set &= set - 1 {
		m, _ := set.First()
		s.board.MakeMove(m)
		s.nodes.Add(1)
		s.traverse(counter)
		s.board.UndoMove()
	}
}
