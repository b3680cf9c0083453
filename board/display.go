package board

import (
	"fmt"
	"strings"
)

// SideName is the display name of each side: R moves first, B second.
var SideName = [2]string{"R", "B"}

// ToDisplayText renders the grid with each pawn's cell framed by its side's
// letter, e.g. "R3R", followed by a status line.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	for row := range Size {
		for col := range Size {
			c := Coord{row, col}
			marker := " "
			if b.pawns[0] == c {
				marker = SideName[0]
			} else if b.pawns[1] == c {
				marker = SideName[1]
			}
			fmt.Fprintf(&sb, "%s%d%s", marker, b.Card(c), marker)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "%s to move; %d moves played, %d cards remaining",
		SideName[b.turn], len(b.history), b.CardsRemaining())
	return sb.String()
}
