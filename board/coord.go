package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Size is the width and height of the torus. Only 4x4 is supported.
const Size = 4

// NumCells is the number of cells (and cards) on the board.
const NumCells = Size * Size

// Coord is a cell on the toroidal grid. Both components are always in [0, Size).
type Coord struct {
	Row int
	Col int
}

// Directions are the four orthogonal unit offsets. Size-1 stands in for -1
// so that Add never has to deal with negative numbers.
var Directions = [4]Coord{
	{1, 0},
	{Size - 1, 0},
	{0, 1},
	{0, Size - 1},
}

// Add returns c + o with wraparound at the edges.
func (c Coord) Add(o Coord) Coord {
	return Coord{(c.Row + o.Row) % Size, (c.Col + o.Col) % Size}
}

// Neighbors returns the four cells orthogonally adjacent to c.
func (c Coord) Neighbors() [4]Coord {
	var n [4]Coord
	for i, d := range Directions {
		n[i] = c.Add(d)
	}
	return n
}

// Index is the row-major cell index in [0, NumCells).
func (c Coord) Index() int {
	return c.Row*Size + c.Col
}

func CoordFromIndex(idx int) Coord {
	return Coord{idx / Size, idx % Size}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// ParseCoord parses "r,c" (optionally wrapped in parentheses) into a Coord.
func ParseCoord(s string) (Coord, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coord{}, fmt.Errorf("%w: %q is not of the form r,c", ErrBadCoord, s)
	}
	r, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %v", ErrBadCoord, err)
	}
	c, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %v", ErrBadCoord, err)
	}
	if r < 0 || r >= Size || c < 0 || c >= Size {
		return Coord{}, fmt.Errorf("%w: %d,%d is off the board", ErrBadCoord, r, c)
	}
	return Coord{r, c}, nil
}
