package ir

import (
	"fmt"

	"github.com/signadot/tony-include/ir/kpath"
)

// KPath returns the kinded path of this node's position in its tree.
//
// Examples:
//   - Root node → ""
//   - Object field "a" → "a"
//   - Array element at index 0 → "[0]"
//   - Mixed "a[0].b" → "a[0].b"
//
// A comment node reports the path of the node it is attached to.
func (node *Node) KPath() string {
	return node.Segments().String()
}

// Segments returns the kinded path of node as a *kpath.KPath; nil at the
// root.
func (node *Node) Segments() *kpath.KPath {
	var segs []*kpath.KPath
	for n := node; n.Parent != nil; n = n.Parent {
		if n.Type == CommentType {
			continue
		}
		switch n.Parent.Type {
		case ObjectType:
			segs = append(segs, kpath.Field(n.ParentField))
		case ArrayType:
			segs = append(segs, kpath.Index(n.ParentIndex))
		default:
			panic("parent but not in container")
		}
	}
	var res *kpath.KPath
	for i := len(segs) - 1; i >= 0; i-- {
		res = res.Append(segs[i])
	}
	return res
}

// GetKPath returns the node at kinded path kp below node. Unlike a copy
// oriented getter, it returns the live node in this tree.
func (node *Node) GetKPath(kp string) (*Node, error) {
	p, err := kpath.Parse(kp)
	if err != nil {
		return nil, err
	}
	return node.Lookup(p)
}

// Lookup walks kp from node. It returns ErrNoPath when a field or index is
// missing and ErrPathKind when a segment does not fit the container type.
func (node *Node) Lookup(kp *kpath.KPath) (*Node, error) {
	res := node
	for seg := kp; seg != nil; seg = seg.Next {
		switch {
		case seg.Index != nil:
			if res.Type != ArrayType {
				return nil, fmt.Errorf("%w: expected array at %s, got %s", ErrPathKind, res.KPath(), res.Type)
			}
			i := *seg.Index
			if i < 0 || i >= len(res.Values) {
				return nil, fmt.Errorf("%w: index %d out of bounds (len %d) at %q", ErrNoPath, i, len(res.Values), res.KPath())
			}
			res = res.Values[i]
		case seg.Field != nil:
			if res.Type != ObjectType {
				return nil, fmt.Errorf("%w: expected object at %q, got %s", ErrPathKind, res.KPath(), res.Type)
			}
			next := Get(res, *seg.Field)
			if next == nil {
				return nil, fmt.Errorf("%w: no field %q at %q", ErrNoPath, *seg.Field, res.KPath())
			}
			res = next
		default:
			return nil, fmt.Errorf("%w: empty segment", ErrNoPath)
		}
	}
	return res, nil
}
