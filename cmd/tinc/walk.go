package main

import (
	"fmt"
	"strconv"

	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/ir/kpath"
)

// step is a node reached from a document root together with the path it
// has in the expanded document.
type step struct {
	path string
	name string
	node doc.Node
}

func childPath(parent, name string, index int) string {
	if name == "" {
		return parent + "[" + strconv.Itoa(index) + "]"
	}
	if parent == "" {
		return kpath.QuoteField(name)
	}
	return parent + "." + kpath.QuoteField(name)
}

// children lists the non comment children of s.
func children(s step) ([]step, error) {
	entries, err := doc.Entries(s.node)
	if err != nil {
		return nil, err
	}
	var (
		res []step
		i   int
	)
	for _, e := range entries {
		if e.Node.Kind() == doc.KindOther {
			continue
		}
		res = append(res, step{
			path: childPath(s.path, e.Name, i),
			name: e.Name,
			node: e.Node,
		})
		i++
	}
	return res, nil
}

// walk calls fn on s and its descendants in document order, stopping below
// maxDepth levels.
func walk(s step, depth, maxDepth int, fn func(step) error) error {
	if depth > maxDepth {
		return fmt.Errorf("include nesting deeper than %d at %s", maxDepth, s.path)
	}
	if err := fn(s); err != nil {
		return err
	}
	cs, err := children(s)
	if err != nil {
		return err
	}
	for _, c := range cs {
		if err := walk(c, depth+1, maxDepth, fn); err != nil {
			return err
		}
	}
	return nil
}

// descend follows kp from the root of d through the expanded tree.
func descend(d *doc.Document, kp *kpath.KPath) (step, error) {
	root, err := d.Root()
	if err != nil {
		return step{}, err
	}
	cur := step{node: root}
	for seg := kp; seg != nil; seg = seg.Next {
		cs, err := children(cur)
		if err != nil {
			return step{}, err
		}
		next, ok := pick(cs, seg)
		if !ok {
			return step{}, fmt.Errorf("%w: %s#%s has no %s", doc.ErrNotFound, d.ID(), cur.path, seg.SegmentString())
		}
		cur = next
	}
	return cur, nil
}

func pick(cs []step, seg *kpath.KPath) (step, bool) {
	switch {
	case seg.Field != nil:
		for _, c := range cs {
			if c.name == *seg.Field {
				return c, true
			}
		}
	case seg.Index != nil:
		i := *seg.Index
		if i < len(cs) && cs[i].name == "" {
			return cs[i], true
		}
	}
	return step{}, false
}
