package encode

import "errors"

var (
	ErrEncoding = errors.New("encoding error")
	ErrDepth    = errors.New("tree too deep")
)
