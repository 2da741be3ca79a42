package ir

import (
	"cmp"
	"slices"
	"strings"
)

// typeOrder ranks types for Compare.
var typeOrder = [...]Type{CommentType, NullType, BoolType, NumberType, StringType, ArrayType, ObjectType}

// Compare orders nodes by value, ignoring tags, comments and position. It
// returns 0 when a and b hold the same value.
func Compare(a, b *Node) int {
	switch {
	case a == b:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if c := cmp.Compare(slices.Index(typeOrder[:], a.Type), slices.Index(typeOrder[:], b.Type)); c != 0 {
		return c
	}
	switch a.Type {
	case BoolType:
		return cmp.Compare(boolInt(a.Bool), boolInt(b.Bool))
	case NumberType:
		return compareNumbers(a, b)
	case StringType:
		return strings.Compare(a.String, b.String)
	case CommentType:
		return slices.Compare(a.Lines, b.Lines)
	case ArrayType, ObjectType:
		return slices.CompareFunc(a.Values, b.Values, func(x, y *Node) int {
			if x.Parent != nil && x.Parent.Type == ObjectType {
				if c := strings.Compare(x.ParentField, y.ParentField); c != 0 {
					return c
				}
			}
			return Compare(x, y)
		})
	}
	return 0
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// compareNumbers puts integers before floats before numbers kept as text.
func compareNumbers(a, b *Node) int {
	form := func(n *Node) int {
		switch {
		case n.Int64 != nil:
			return 0
		case n.Float64 != nil:
			return 1
		}
		return 2
	}
	fa, fb := form(a), form(b)
	switch {
	case fa != fb:
		return cmp.Compare(fa, fb)
	case fa == 0:
		return cmp.Compare(*a.Int64, *b.Int64)
	case fa == 1:
		return cmp.Compare(*a.Float64, *b.Float64)
	}
	return strings.Compare(a.Number, b.Number)
}
