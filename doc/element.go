package doc

import (
	"fmt"
	"hash/maphash"

	"github.com/signadot/tony-include/debug"
	"github.com/signadot/tony-include/ir"
	"github.com/signadot/tony-include/parse"
)

var seed = maphash.MakeSeed()

// Element is a node of one document snapshot. Two elements are equal when
// they are the same node of the same snapshot; an equivalent node produced by
// a later reparse is a different element.
type Element struct {
	snap *Snapshot
	n    *ir.Node
}

// IsZero reports whether e is the zero Element.
func (e Element) IsZero() bool {
	return e.n == nil
}

func (e Element) Snapshot() *Snapshot {
	return e.snap
}

// Kind of the zero Element is KindOther.
func (e Element) Kind() Kind {
	if e.IsZero() {
		return KindOther
	}
	return KindOf(e.n)
}

func (e Element) Parent() Node {
	if e.IsZero() || e.n.Parent == nil {
		return nil
	}
	return Element{snap: e.snap, n: e.n.Parent}
}

func (e Element) Document() *Document {
	if e.snap == nil {
		return nil
	}
	return e.snap.doc
}

func (e Element) IsValid() bool {
	return !e.IsZero() && e.snap != nil && !e.snap.Discarded()
}

func (e Element) IR() (*ir.Node, error) {
	if !e.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrDiscarded, e)
	}
	return e.n, nil
}

// Position returns where e starts in the source of its snapshot.
func (e Element) Position() (parse.Pos, bool) {
	if e.snap == nil {
		return parse.Pos{}, false
	}
	p, ok := e.snap.pos[e.n]
	return p, ok
}

// KPath returns the durable position of e in its document.
func (e Element) KPath() string {
	if e.IsZero() {
		return ""
	}
	return e.n.KPath()
}

func (e Element) ProcessChildren(v Visitor) (bool, error) {
	if !e.IsValid() {
		return false, fmt.Errorf("%w: %s", ErrDiscarded, e)
	}
	if e.n.Comment != nil {
		if !v(Element{snap: e.snap, n: e.n.Comment}) {
			return false, nil
		}
	}
	exp := e.snap.doc.ws.Expander()
	for _, c := range e.n.Values {
		ce := Element{snap: e.snap, n: c}
		if exp == nil || !IsIncludeSite(c) {
			if !v(ce) {
				return false, nil
			}
			continue
		}
		if debug.Doc() {
			debug.Logf("expanding include site %s\n", ce)
		}
		ok, err := exp.Expand(ce, v)
		if err != nil {
			return false, fmt.Errorf("expanding %s: %w", ce, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (e Element) Equal(o Node) bool {
	oe, ok := o.(Element)
	return ok && oe == e
}

func (e Element) Hash() uint64 {
	return maphash.Comparable(seed, e)
}

func (e Element) String() string {
	if e.snap == nil {
		return "<zero element>"
	}
	return string(e.snap.doc.id) + "#" + e.KPath()
}
