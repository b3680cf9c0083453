package board

import "errors"

var (
	ErrIllegalMove    = errors.New("illegal move")
	ErrUndoFreshBoard = errors.New("undo on fresh board")
	ErrInvalidLayout  = errors.New("invalid layout")
	ErrBadCoord       = errors.New("bad coordinate")
)
