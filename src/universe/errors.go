package universe

import "errors"

var (
	ErrInvalidDimension = errors.New("invalid dimension")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrUnknownEngine    = errors.New("unknown engine")
	ErrBadPattern       = errors.New("bad pattern")
)
