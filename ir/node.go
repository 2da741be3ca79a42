package ir

import (
	"slices"
	"strconv"
	"strings"
)

// Node is a single value in a parsed document.
//
// Composite nodes keep their children in Values; for objects Fields[i] is the
// key of Values[i]. Every child points back to its container through Parent,
// ParentIndex and ParentField.
type Node struct {
	Type        Type
	Parent      *Node
	ParentIndex int
	ParentField string
	Fields      []*Node
	Values      []*Node

	Tag     string
	Lines   []string
	Comment *Node

	String  string
	Bool    bool
	Number  string
	Float64 *float64
	Int64   *int64
}

func (y *Node) WithTag(tag string) *Node {
	y.Tag = tag
	return y
}

// Clone returns a deep copy of y. The copy keeps y's position fields but its
// descendants point to the copied containers.
func (y *Node) Clone() *Node {
	c := *y
	c.Lines = slices.Clone(y.Lines)
	c.Fields = cloneAll(y.Fields, &c)
	c.Values = cloneAll(y.Values, &c)
	if y.Float64 != nil {
		f := *y.Float64
		c.Float64 = &f
	}
	if y.Int64 != nil {
		i := *y.Int64
		c.Int64 = &i
	}
	if y.Comment != nil {
		c.Comment = y.Comment.Clone()
		c.Comment.Parent = &c
	}
	return &c
}

func cloneAll(ys []*Node, parent *Node) []*Node {
	if ys == nil {
		return nil
	}
	res := make([]*Node, len(ys))
	for i, y := range ys {
		res[i] = y.Clone()
		res[i].Parent = parent
	}
	return res
}

func FromString(v string) *Node {
	return &Node{Type: StringType, String: v}
}

func FromInt(v int64) *Node     { return &Node{Type: NumberType, Int64: &v} }
func FromFloat(f float64) *Node { return &Node{Type: NumberType, Float64: &f} }
func FromBool(v bool) *Node     { return &Node{Type: BoolType, Bool: v} }

func Null() *Node {
	return &Node{Type: NullType}
}

// FromComment makes a comment node holding lines.
func FromComment(lines ...string) *Node {
	return &Node{Type: CommentType, Lines: lines}
}

type KeyVal struct {
	Key *Node
	Val *Node
}

func (y *Node) adopt(i int, field string, c *Node) {
	c.Parent = y
	c.ParentIndex = i
	c.ParentField = field
}

// FromKeyVals builds an object preserving the order of kvs.
func FromKeyVals(kvs []KeyVal) *Node {
	res := &Node{
		Type:   ObjectType,
		Fields: make([]*Node, len(kvs)),
		Values: make([]*Node, len(kvs)),
	}
	for i, kv := range kvs {
		res.adopt(i, kv.Key.String, kv.Key)
		res.adopt(i, kv.Key.String, kv.Val)
		res.Fields[i], res.Values[i] = kv.Key, kv.Val
	}
	return res
}

// Obj is shorthand for FromKeyVals with string keys, given as alternating
// key, value arguments.
func Obj(kvs ...any) *Node {
	res := make([]KeyVal, 0, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		res = append(res, KeyVal{Key: FromString(kvs[i].(string)), Val: kvs[i+1].(*Node)})
	}
	return FromKeyVals(res)
}

func FromSlice(vals []*Node) *Node {
	res := &Node{Type: ArrayType, Values: slices.Clone(vals)}
	for i, v := range res.Values {
		res.adopt(i, "", v)
	}
	return res
}

// Get returns the value of field in the object y, or nil.
func Get(y *Node, field string) *Node {
	for i := range y.Fields {
		if y.Fields[i].String == field {
			return y.Values[i]
		}
	}
	return nil
}

// Root returns the top of the tree holding y.
func (y *Node) Root() *Node {
	for y.Parent != nil {
		y = y.Parent
	}
	return y
}

// WithComment attaches a comment node to y.
func (y *Node) WithComment(c *Node) *Node {
	c.Parent = y
	y.Comment = c
	return y
}

// Scalar returns the textual form of a leaf value.
func (y *Node) Scalar() string {
	switch y.Type {
	case NullType:
		return "null"
	case BoolType:
		return strconv.FormatBool(y.Bool)
	case NumberType:
		switch {
		case y.Int64 != nil:
			return strconv.FormatInt(*y.Int64, 10)
		case y.Float64 != nil:
			return strconv.FormatFloat(*y.Float64, 'g', -1, 64)
		}
		return y.Number
	case StringType:
		return y.String
	case CommentType:
		return strings.Join(y.Lines, "\n")
	}
	return ""
}

// ToAny converts y to plain Go values suitable for encoding/json.
func (y *Node) ToAny() any {
	switch y.Type {
	case ObjectType:
		res := make(map[string]any, len(y.Fields))
		for i, f := range y.Fields {
			res[f.String] = y.Values[i].ToAny()
		}
		return res
	case ArrayType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = v.ToAny()
		}
		return res
	case NumberType:
		switch {
		case y.Int64 != nil:
			return *y.Int64
		case y.Float64 != nil:
			return *y.Float64
		}
		return y.Number
	case StringType:
		return y.String
	case BoolType:
		return y.Bool
	}
	return nil
}

// Flow renders y compactly on one line, for logs and messages.
func (y *Node) Flow() string {
	if y == nil {
		return "<nil>"
	}
	var b strings.Builder
	y.flow(&b)
	return b.String()
}

func (y *Node) flow(b *strings.Builder) {
	if y.Tag != "" {
		b.WriteString(y.Tag)
		b.WriteByte(' ')
	}
	switch y.Type {
	case ObjectType:
		b.WriteByte('{')
		for i, f := range y.Fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.String)
			b.WriteString(": ")
			y.Values[i].flow(b)
		}
		b.WriteByte('}')
	case ArrayType:
		b.WriteByte('[')
		for i, v := range y.Values {
			if i > 0 {
				b.WriteString(", ")
			}
			v.flow(b)
		}
		b.WriteByte(']')
	case StringType:
		b.WriteString(strconv.Quote(y.String))
	case CommentType:
		b.WriteString("# ")
		b.WriteString(strings.Join(y.Lines, " "))
	default:
		b.WriteString(y.Scalar())
	}
}
