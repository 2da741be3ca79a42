package include

import (
	"fmt"

	"github.com/signadot/tony-include/anchor"
	"github.com/signadot/tony-include/debug"
	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/ir"
)

// Proxy is a read-only stand-in for a tag, attribute or text node reported
// under a logical parent of the caller's choosing. The kind it was built for
// is part of its identity.
type Proxy struct {
	kind   doc.Kind
	ref    anchor.Ref
	cache  cache
	parent doc.Node
}

var (
	_ doc.Node       = (*Proxy)(nil)
	_ anchor.Wrapper = (*Proxy)(nil)
)

// New makes a proxy of the given kind for original, reported under parent.
// If original is itself a proxy the new proxy stands for the node at the end
// of the chain.
func New(kind doc.Kind, original, parent doc.Node) (*Proxy, error) {
	if parent == nil {
		return nil, fmt.Errorf("%w: for %v", ErrNoParent, original)
	}
	return newProxy(kind, original, parent)
}

// Root makes a proxy with no logical parent, to start a traversal from. It
// reports no containing document.
func Root(original doc.Node) (*Proxy, error) {
	e, err := anchor.Unwrap(original)
	if err != nil {
		return nil, err
	}
	return newProxy(e.Kind(), e, nil)
}

func Tag(original, parent doc.Node) (*Proxy, error) {
	return New(doc.KindTag, original, parent)
}

func Attribute(original, parent doc.Node) (*Proxy, error) {
	return New(doc.KindAttribute, original, parent)
}

func Text(original, parent doc.Node) (*Proxy, error) {
	return New(doc.KindText, original, parent)
}

func newProxy(kind doc.Kind, original, parent doc.Node) (*Proxy, error) {
	if !wrappable(kind) {
		return nil, fmt.Errorf("%w: cannot proxy %s nodes", ErrKind, kind)
	}
	e, err := anchor.Unwrap(original)
	if err != nil {
		return nil, err
	}
	if k := e.Kind(); k != kind {
		return nil, fmt.Errorf("%w: %s is %s, not %s", ErrKind, e, k, kind)
	}
	ref, err := anchor.Create(e)
	if err != nil {
		return nil, err
	}
	p := &Proxy{kind: kind, ref: ref, parent: parent}
	p.cache.set(e)
	countCreated(kind)
	return p, nil
}

func wrappable(k doc.Kind) bool {
	switch k {
	case doc.KindTag, doc.KindAttribute, doc.KindText:
		return true
	}
	return false
}

// Wrap returns a proxy for n under parent if n is a tag, attribute or text
// node, and n itself otherwise. A nil node or zero element cannot be wrapped.
func Wrap(n, parent doc.Node) (doc.Node, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil node", anchor.ErrUnanchorable)
	}
	if e, ok := n.(doc.Element); ok && e.IsZero() {
		return nil, fmt.Errorf("%w: zero element", anchor.ErrUnanchorable)
	}
	if !wrappable(n.Kind()) {
		return n, nil
	}
	p, err := New(n.Kind(), n, parent)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Proxy) Kind() doc.Kind {
	return p.kind
}

// Anchor returns the durable reference to the original.
func (p *Proxy) Anchor() anchor.Ref {
	return p.ref
}

// IsValid reports whether the original can still be found. A cached original
// counts only while its own snapshot is current.
func (p *Proxy) IsValid() bool {
	if e, ok := p.cache.get(); ok && e.IsValid() {
		return true
	}
	_, ok := p.ref.Resolve()
	return ok
}

// Original returns the element p stands for, re-resolving the anchor when
// the cache is empty or stale. It fails with ErrInvalid when the anchor no
// longer resolves.
func (p *Proxy) Original() (doc.Element, error) {
	if e, ok := p.cache.get(); ok && e.IsValid() {
		countResolution(outcomeHit)
		return e, nil
	}
	e, ok := p.ref.Resolve()
	if !ok {
		countResolution(outcomeDetached)
		if debug.Include() {
			debug.Logf("%s: detached\n", p)
		}
		return doc.Element{}, fmt.Errorf("%w: %s", ErrInvalid, p.ref)
	}
	countResolution(outcomeResolved)
	if debug.Include() {
		debug.Logf("%s: re-resolved in version %d\n", p, e.Snapshot().Version())
	}
	p.cache.set(e)
	return e, nil
}

// NavigationTarget returns the place in its home document that p represents.
func (p *Proxy) NavigationTarget() (doc.Element, error) {
	return p.Original()
}

func (p *Proxy) Unwrap() (doc.Node, error) {
	e, err := p.Original()
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Proxy) IR() (*ir.Node, error) {
	e, err := p.Original()
	if err != nil {
		return nil, err
	}
	return e.IR()
}

// Document returns the logical parent's document: included content reports
// living where it was included.
func (p *Proxy) Document() *doc.Document {
	if p.parent == nil {
		return nil
	}
	return p.parent.Document()
}

func (p *Proxy) Parent() doc.Node {
	return p.parent
}

// Forget drops the cached original, as the garbage collector may do at any
// time.
func (p *Proxy) Forget() {
	p.cache.clear()
}

// ProcessChildren offers a proxy for each child of the original to v. A child
// whose physical parent is the original is reported under p; a child that
// already reports another parent keeps it. Comments are passed through as
// they are. A child standing for a node that p or one of its proxy ancestors
// already stands for fails the walk with ErrCycle.
func (p *Proxy) ProcessChildren(v doc.Visitor) (bool, error) {
	orig, err := p.Original()
	if err != nil {
		return false, err
	}
	var werr error
	ok, err := orig.ProcessChildren(func(c doc.Node) bool {
		var parent doc.Node = p
		if cp := c.Parent(); cp == nil || !cp.Equal(orig) {
			parent = cp
		}
		w, err := Wrap(c, parent)
		if err != nil {
			werr = err
			return false
		}
		if wp, ok := w.(*Proxy); ok {
			if a := p.enclosing(wp.ref.Key()); a != nil {
				werr = fmt.Errorf("%w: %s is already included at %s", ErrCycle, wp.ref, a)
				return false
			}
		}
		return v(w)
	})
	if err != nil {
		return false, err
	}
	if werr != nil {
		return false, fmt.Errorf("wrapping children of %s: %w", p, werr)
	}
	return ok, nil
}

// enclosing returns the nearest proxy on the logical chain from p up which
// stands for k, or nil.
func (p *Proxy) enclosing(k anchor.Key) *Proxy {
	for n := doc.Node(p); n != nil; n = n.Parent() {
		if q, ok := n.(*Proxy); ok && q.ref.Key() == k {
			return q
		}
	}
	return nil
}

// Equal reports whether o is a proxy of the same kind for the same anchored
// position under an equal logical parent.
func (p *Proxy) Equal(o doc.Node) bool {
	op, ok := o.(*Proxy)
	if !ok || op == nil {
		return false
	}
	if op == p {
		return true
	}
	if p.kind != op.kind || !p.ref.Equal(op.ref) {
		return false
	}
	if p.parent == nil || op.parent == nil {
		return p.parent == nil && op.parent == nil
	}
	return p.parent.Equal(op.parent)
}

func (p *Proxy) Hash() uint64 {
	h := p.ref.Hash()
	h = 31*h + uint64(p.kind)
	if p.parent != nil {
		h = 31*h + p.parent.Hash()
	}
	return h
}

func (p *Proxy) String() string {
	return fmt.Sprintf("Included%s(%s)", p.kind, p.ref)
}
