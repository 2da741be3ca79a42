package parse

import "errors"

var (
	ErrParse       = errors.New("parse error")
	ErrUnsupported = errors.New("unsupported construct")
	ErrAlias       = errors.New("unknown alias")
)
