package ir

import "errors"

var (
	ErrNoPath   = errors.New("no such path")
	ErrPathKind = errors.New("path segment does not match node type")
)
