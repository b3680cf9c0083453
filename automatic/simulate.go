package automatic

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/torus/board"
	"github.com/domino14/torus/solver"
)

// Simulate plays b out to the end. A side with a winning move plays it;
// otherwise it plays a random legal move. The board is written to w before
// every move. It returns the side that made the last move, which is the
// winner.
func Simulate(b *board.Board, w io.Writer) int {
	s := solver.NewSolver(b)
	for {
		fmt.Fprintln(w, b.ToDisplayText())
		side := b.Turn()
		player := board.SideName[side]
		if m, ok := s.WinningMove(); ok {
			fmt.Fprintf(w, "%s confidently moves to %s\n", player, m)
			b.MakeMove(m)
			continue
		}
		moves := b.LegalMoves()
		if len(moves) == 0 {
			fmt.Fprintf(w, "%s loses\n", player)
			log.Debug().Int("moves", b.MovesPlayed()).Int("loser", side).Msg("simulation-over")
			return 1 - side
		}
		m := moves[frand.Intn(len(moves))]
		fmt.Fprintf(w, "%s cannot win, but moves to %s\n", player, m)
		b.MakeMove(m)
	}
}
