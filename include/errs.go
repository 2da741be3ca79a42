package include

import "errors"

var (
	ErrInvalid  = errors.New("element became invalid")
	ErrNoParent = errors.New("missing logical parent")
	ErrKind     = errors.New("wrong node kind")
	ErrCycle    = errors.New("include cycle")
)
