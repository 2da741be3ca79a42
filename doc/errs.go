package doc

import "errors"

var (
	ErrNotFound  = errors.New("document not found")
	ErrExists    = errors.New("document already open")
	ErrClosed    = errors.New("document closed")
	ErrDiscarded = errors.New("snapshot discarded")
	ErrRoot      = errors.New("not a root node")
)
