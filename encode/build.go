package encode

import (
	"fmt"

	"github.com/signadot/tony-include/anchor"
	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/ir"
)

// Build copies the tree reachable from n through ProcessChildren into a new
// ir tree. Comments are kept with EncodeComments and origins of included
// content are added as comments with EncodeOrigins.
func Build(n doc.Node, opts ...EncodeOption) (*ir.Node, error) {
	return build(n, newState(opts), 0)
}

func build(n doc.Node, es *EncState, depth int) (*ir.Node, error) {
	if es.depth > 0 && depth > es.depth {
		return nil, fmt.Errorf("%w: more than %d levels at %s", ErrDepth, es.depth, n)
	}
	y, err := n.IR()
	if err != nil {
		return nil, err
	}
	var comments []string
	if es.origins {
		if o, ok := origin(n); ok {
			comments = append(comments, "from "+o)
		}
	}
	entries, err := doc.Entries(n)
	if err != nil {
		return nil, err
	}
	var (
		kvs  []ir.KeyVal
		vals []*ir.Node
	)
	for _, e := range entries {
		if e.Node.Kind() == doc.KindOther {
			if es.comments {
				cy, err := e.Node.IR()
				if err != nil {
					return nil, err
				}
				comments = append(comments, cy.Lines...)
			}
			continue
		}
		v, err := build(e.Node, es, depth+1)
		if err != nil {
			return nil, err
		}
		if y.Type == ir.ObjectType {
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(e.Name), Val: v})
		} else {
			vals = append(vals, v)
		}
	}
	var res *ir.Node
	switch y.Type {
	case ir.ObjectType:
		res = ir.FromKeyVals(kvs)
	case ir.ArrayType:
		res = ir.FromSlice(vals)
	default:
		res = &ir.Node{
			Type:    y.Type,
			String:  y.String,
			Bool:    y.Bool,
			Number:  y.Number,
			Float64: y.Float64,
			Int64:   y.Int64,
			Lines:   append([]string(nil), y.Lines...),
		}
	}
	res.Tag = y.Tag
	if len(comments) > 0 {
		res.WithComment(ir.FromComment(comments...))
	}
	return res, nil
}

// origin names where n lives when n stands in for a node whose physical
// parent is not the node n's own parent stands for.
func origin(n doc.Node) (string, bool) {
	w, ok := n.(anchor.Wrapper)
	if !ok {
		return "", false
	}
	e, err := anchor.Unwrap(w)
	if err != nil {
		return "", false
	}
	lp, pp := n.Parent(), e.Parent()
	if lp != nil && pp != nil {
		if le, err := anchor.Unwrap(lp); err == nil && le.Equal(pp) {
			return "", false
		}
	}
	return e.String(), true
}
