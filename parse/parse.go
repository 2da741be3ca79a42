// Package parse builds ir trees from YAML and JSON source.
package parse

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"
	"github.com/goccy/go-yaml/token"

	"github.com/signadot/tony-include/debug"
	"github.com/signadot/tony-include/ir"
)

// Parse parses the first document of src. An empty source yields a null
// node.
func Parse(src []byte, opts ...ParseOption) (*ir.Node, error) {
	nodes, err := ParseAll(src, opts...)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return ir.Null(), nil
	}
	return nodes[0], nil
}

// ParseAll parses every document of a multi-document source.
func ParseAll(src []byte, opts ...ParseOption) ([]*ir.Node, error) {
	o := &parseOpts{}
	for _, opt := range opts {
		opt(o)
	}
	if o.format.IsJSON() && !json.Valid(src) {
		return nil, fmt.Errorf("%w: invalid json", ErrParse)
	}
	var mode parser.Mode
	if o.comments {
		mode = parser.ParseComments
	}
	f, err := parser.ParseBytes(src, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	res := make([]*ir.Node, 0, len(f.Docs))
	for i, doc := range f.Docs {
		b := &builder{opts: o, anchors: map[string]*ir.Node{}}
		node, err := b.build(doc.Body)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if debug.Parse() {
			debug.Logf("parsed document %d: %v\n", i, node)
		}
		res = append(res, node)
	}
	return res, nil
}

// Pos is a 1-based line and column in a source.
type Pos struct {
	Line, Col int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

type builder struct {
	opts    *parseOpts
	anchors map[string]*ir.Node
}

func (b *builder) mark(y *ir.Node, tk *token.Token) {
	if b.opts.positions == nil || tk == nil || tk.Position == nil {
		return
	}
	b.opts.positions[y] = Pos{Line: tk.Position.Line, Col: tk.Position.Column}
}

func (b *builder) build(n ast.Node) (*ir.Node, error) {
	res, err := b.value(n)
	if err != nil {
		return nil, err
	}
	if n != nil {
		b.comment(res, n)
		if _, ok := b.opts.positions[res]; !ok {
			b.mark(res, n.GetToken())
		}
	}
	return res, nil
}

func (b *builder) value(n ast.Node) (*ir.Node, error) {
	switch x := n.(type) {
	case nil:
		return ir.Null(), nil
	case *ast.DocumentNode:
		return b.build(x.Body)
	case *ast.CommentGroupNode:
		return ir.Null(), nil
	case *ast.TagNode:
		res, err := b.build(x.Value)
		if err != nil {
			return nil, err
		}
		return res.WithTag(x.Start.Value), nil
	case *ast.AnchorNode:
		res, err := b.build(x.Value)
		if err != nil {
			return nil, err
		}
		b.anchors[x.Name.GetToken().Value] = res
		return res, nil
	case *ast.AliasNode:
		// an anchor is defined once its value is complete, so a value
		// cannot alias itself
		name := x.Value.GetToken().Value
		target, ok := b.anchors[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrAlias, name)
		}
		return target.Clone(), nil
	case *ast.MappingNode:
		return b.object(x.Values)
	case *ast.MappingValueNode:
		return b.object([]*ast.MappingValueNode{x})
	case *ast.SequenceNode:
		vals := make([]*ir.Node, 0, len(x.Values))
		for _, v := range x.Values {
			y, err := b.build(v)
			if err != nil {
				return nil, err
			}
			vals = append(vals, y)
		}
		return ir.FromSlice(vals), nil
	case *ast.StringNode:
		return ir.FromString(x.Value), nil
	case *ast.LiteralNode:
		return ir.FromString(x.Value.Value), nil
	case *ast.IntegerNode:
		switch v := x.Value.(type) {
		case int64:
			return ir.FromInt(v), nil
		case uint64:
			if v <= math.MaxInt64 {
				return ir.FromInt(int64(v)), nil
			}
		}
		return &ir.Node{Type: ir.NumberType, Number: x.GetToken().Value}, nil
	case *ast.FloatNode:
		return ir.FromFloat(x.Value), nil
	case *ast.InfinityNode:
		return ir.FromFloat(x.Value), nil
	case *ast.NanNode:
		return ir.FromFloat(math.NaN()), nil
	case *ast.BoolNode:
		return ir.FromBool(x.Value), nil
	case *ast.NullNode:
		return ir.Null(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, n.Type())
}

func (b *builder) object(mvs []*ast.MappingValueNode) (*ir.Node, error) {
	kvs := make([]ir.KeyVal, 0, len(mvs))
	for _, mv := range mvs {
		key := mv.Key.GetToken().Value
		if s, ok := ast.Node(mv.Key).(*ast.StringNode); ok {
			key = s.Value
		}
		val, err := b.build(mv.Value)
		if err != nil {
			return nil, err
		}
		if val.Comment == nil {
			b.comment(val, mv)
		}
		b.mark(val, mv.Key.GetToken())
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key), Val: val})
	}
	res := ir.FromKeyVals(kvs)
	if len(mvs) > 0 {
		b.mark(res, mvs[0].Key.GetToken())
	}
	return res, nil
}

func (b *builder) comment(y *ir.Node, n ast.Node) {
	if !b.opts.comments || y.Comment != nil {
		return
	}
	cg := n.GetComment()
	if cg == nil {
		return
	}
	var lines []string
	for _, ln := range strings.Split(cg.String(), "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		ln = strings.TrimPrefix(ln, "#")
		lines = append(lines, strings.TrimPrefix(ln, " "))
	}
	if len(lines) == 0 {
		return
	}
	y.WithComment(ir.FromComment(lines...))
}
