package slots

import "errors"

var (
	ErrTagMismatch     = errors.New("the slot occupant tag does not match the requested variant")
	ErrSlotOccupied    = errors.New("the slot is occupied by a different variant")
	ErrIndexOutOfRange = errors.New("the requested index is past the end of the array")
	ErrEmptyArray      = errors.New("pop from a zero length array")
	ErrInvalidCast     = errors.New("the base record tag does not match the requested derived shape")
)

var (
	ErrRecordBadSize   = errors.New("record size is not the registered word multiple")
	ErrRecordBadHeader = errors.New("record header word does not carry the registered tag")
)
