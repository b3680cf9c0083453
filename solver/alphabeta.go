package solver

import (
	"github.com/domino14/torus/board"
)

// BestMoveByCardsRemaining runs alpha-beta minimax over the full game tree
// with the widest window. Side 0 maximizes the score and side 1 minimizes
// it; see TerminalScore. ok is false when the side to move has no move, in
// which case score is the terminal score.
func (s *Solver) BestMoveByCardsRemaining() (m board.Coord, ok bool, score int8) {
	return s.BestMoveByCardsRemainingBounded(-MaxScore, MaxScore)
}

// BestMoveByCardsRemainingBounded is BestMoveByCardsRemaining with a caller
// chosen window. A score outside (alpha, beta) is only a bound.
func (s *Solver) BestMoveByCardsRemainingBounded(alpha, beta int8) (m board.Coord, ok bool, score int8) {
	s.resetKey()
	return s.alphabeta(alpha, beta, true)
}

func (s *Solver) alphabeta(alpha, beta int8, root bool) (board.Coord, bool, int8) {
	moves := s.board.LegalMoveSet()
	if moves == 0 {
		return board.Coord{}, false, TerminalScore(s.board)
	}

	alphaOrig, betaOrig := alpha, beta
	// The root is never answered from the table so that a move comes back.
	if s.ttable != nil && !root {
		e := s.ttable.lookup(s.key)
		if e.valid() && !e.winLoss() {
			switch e.bound() {
			case TTExact:
				return board.Coord{}, true, e.score
			case TTLower:
				alpha = max(alpha, e.score)
			case TTUpper:
				beta = min(beta, e.score)
			}
			if alpha >= beta {
				return board.Coord{}, true, e.score
			}
		}
	}

	maximizing := s.board.Turn() == 0
	// worst case
	best := MaxScore
	if maximizing {
		best = -MaxScore
	}
	bestMove, _ := moves.First()

	for set := moves; set != 0; set &= set - 1 {
		m, _ := set.First()
		s.play(m)
		_, _, score := s.alphabeta(alpha, beta, false)
		s.unplay()
		if maximizing {
			if score > best {
				best = score
				bestMove = m
				if best >= beta {
					break
				}
				alpha = max(alpha, best)
			}
		} else {
			if score < best {
				best = score
				bestMove = m
				if best <= alpha {
					break
				}
				beta = min(beta, best)
			}
		}
	}

	if s.ttable != nil {
		e := TableEntry{score: best, play: int8(bestMove.Index())}
		switch {
		case best <= alphaOrig:
			e.flag = TTUpper
		case best >= betaOrig:
			e.flag = TTLower
		default:
			e.flag = TTExact
		}
		s.ttable.store(s.key, e)
	}
	return bestMove, true, best
}

// FullWidthScore is plain minimax with no pruning and no table. It exists
// to check BestMoveByCardsRemaining on small positions.
func (s *Solver) FullWidthScore() int8 {
	moves := s.board.LegalMoveSet()
	if moves == 0 {
		return TerminalScore(s.board)
	}
	maximizing := s.board.Turn() == 0
	best := MaxScore
	if maximizing {
		best = -MaxScore
	}
	for set := moves; set != 0; set &= set - 1 {
		m, _ := set.First()
		s.board.MakeMove(m)
		s.nodes.Add(1)
		score := s.FullWidthScore()
		s.board.UndoMove()
		if maximizing {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}
