package doc

import "github.com/signadot/tony-include/ir"

// Node is the capability set shared by real elements and the nodes standing
// in for them.
type Node interface {
	Kind() Kind

	// Parent returns the node this node reports as its parent, nil at a root.
	Parent() Node

	// Document returns the document this node reports living in.
	Document() *Document

	// IsValid reports whether the node's data can still be read. It never
	// fails.
	IsValid() bool

	// IR returns the data node behind this node.
	IR() (*ir.Node, error)

	// ProcessChildren offers each child, in document order, to v and stops
	// as soon as v returns false. It returns false if v rejected a child.
	ProcessChildren(v Visitor) (bool, error)

	Equal(o Node) bool
	Hash() uint64
	String() string
}

// Visitor receives nodes from ProcessChildren; returning false stops the
// traversal.
type Visitor func(Node) bool

// Expander produces the nodes standing in for an include site while the
// children of the site's parent are processed. It reports false if v
// rejected a node.
type Expander interface {
	Expand(site Element, v Visitor) (bool, error)
}

type ExpanderFunc func(site Element, v Visitor) (bool, error)

func (f ExpanderFunc) Expand(site Element, v Visitor) (bool, error) {
	return f(site, v)
}

// Walk calls fn on n and then, depth first and in document order, on every
// node reachable through ProcessChildren. When fn returns false the children
// of that node are skipped.
func Walk(n Node, fn func(Node) bool) error {
	if !fn(n) {
		return nil
	}
	var werr error
	_, err := n.ProcessChildren(func(c Node) bool {
		if err := Walk(c, fn); err != nil {
			werr = err
			return false
		}
		return true
	})
	if err != nil {
		return err
	}
	return werr
}

// Children collects the children of n.
func Children(n Node) ([]Node, error) {
	var res []Node
	_, err := n.ProcessChildren(func(c Node) bool {
		res = append(res, c)
		return true
	})
	return res, err
}

// Ancestors returns the parent chain of n, nearest first.
func Ancestors(n Node) []Node {
	var res []Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		res = append(res, p)
	}
	return res
}
