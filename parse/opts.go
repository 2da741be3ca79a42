package parse

import (
	"github.com/signadot/tony-include/format"
	"github.com/signadot/tony-include/ir"
)

type parseOpts struct {
	format    format.Format
	comments  bool
	positions map[*ir.Node]Pos
}

type ParseOption func(*parseOpts)

// ParseFormat sets the expected source format. JSON sources are checked for
// strict JSON validity before building the tree.
func ParseFormat(f format.Format) ParseOption {
	return func(o *parseOpts) { o.format = f }
}

// ParseComments controls whether comments are kept as comment nodes.
func ParseComments(v bool) ParseOption {
	return func(o *parseOpts) { o.comments = v }
}

// ParsePositions records in m where each parsed node starts. Values held
// under an object field start at their field name.
func ParsePositions(m map[*ir.Node]Pos) ParseOption {
	return func(o *parseOpts) { o.positions = m }
}
