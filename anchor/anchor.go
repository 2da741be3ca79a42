// Package anchor provides durable references to document nodes.
//
// A Ref names a node by document ID, kinded path and kind rather than by the
// node instance, so it can be resolved again after the document has been
// reparsed and every node instance replaced. Two refs are equal when they
// name the same position, whichever instances they were created from.
package anchor

import (
	"errors"
	"fmt"
	"hash/maphash"

	"github.com/signadot/tony-include/debug"
	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/ir/kpath"
)

var (
	ErrUnanchorable = errors.New("node cannot be anchored")
	ErrNoResolver   = errors.New("document has no workspace")
)

// maxUnwrap bounds the length of wrapper chains followed by Unwrap.
const maxUnwrap = 64

var seed = maphash.MakeSeed()

// Resolver finds the current document for an ID. *doc.Workspace implements
// it.
type Resolver interface {
	Lookup(id doc.ID) (*doc.Document, bool)
}

// Wrapper is implemented by nodes standing in for another node.
type Wrapper interface {
	doc.Node
	Unwrap() (doc.Node, error)
}

// Key is the durable locator of a Ref. It is comparable and can be used as a
// map key.
type Key struct {
	Doc  doc.ID
	Path string
	Kind doc.Kind
}

func (k Key) String() string {
	return string(k.Doc) + "#" + k.Path
}

// Ref is a durable reference to a document node.
type Ref struct {
	key  Key
	path *kpath.KPath
	res  Resolver
}

// Unwrap follows wrappers from n down to the real element they stand for.
func Unwrap(n doc.Node) (doc.Element, error) {
	for range maxUnwrap {
		switch x := n.(type) {
		case doc.Element:
			if x.IsZero() {
				return doc.Element{}, fmt.Errorf("%w: zero element", ErrUnanchorable)
			}
			return x, nil
		case Wrapper:
			next, err := x.Unwrap()
			if err != nil {
				return doc.Element{}, err
			}
			n = next
		case nil:
			return doc.Element{}, fmt.Errorf("%w: nil node", ErrUnanchorable)
		default:
			return doc.Element{}, fmt.Errorf("%w: %T", ErrUnanchorable, n)
		}
	}
	return doc.Element{}, fmt.Errorf("%w: wrapper chain longer than %d", ErrUnanchorable, maxUnwrap)
}

// Create makes a Ref to the node n stands for. Wrappers are unwrapped first,
// so a ref never names an intermediate stand-in.
func Create(n doc.Node) (Ref, error) {
	e, err := Unwrap(n)
	if err != nil {
		return Ref{}, err
	}
	y, err := e.IR()
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %w", ErrUnanchorable, err)
	}
	d := e.Document()
	if d.Workspace() == nil {
		return Ref{}, fmt.Errorf("%w: %s", ErrNoResolver, d.ID())
	}
	path := y.Segments()
	r := Ref{
		key:  Key{Doc: d.ID(), Path: path.String(), Kind: e.Kind()},
		path: path,
		res:  d.Workspace(),
	}
	if debug.Anchor() {
		debug.Logf("anchored %s (%s)\n", r.key, r.key.Kind)
	}
	return r, nil
}

// Resolve finds the live element at r's position in the current snapshot of
// its document. It reports false when the document is gone, the position no
// longer exists or holds a node of another kind.
func (r Ref) Resolve() (doc.Element, bool) {
	if r.res == nil {
		return doc.Element{}, false
	}
	d, ok := r.res.Lookup(r.key.Doc)
	if !ok {
		if debug.Anchor() {
			debug.Logf("resolve %s: no document\n", r.key)
		}
		return doc.Element{}, false
	}
	e, ok := d.Resolve(r.path)
	if !ok {
		return doc.Element{}, false
	}
	if k := e.Kind(); k != r.key.Kind {
		if debug.Anchor() {
			debug.Logf("resolve %s: kind %s, want %s\n", r.key, k, r.key.Kind)
		}
		return doc.Element{}, false
	}
	return e, true
}

func (r Ref) Key() Key { return r.key }

func (r Ref) IsZero() bool { return r.res == nil }

func (r Ref) Equal(o Ref) bool {
	return r.key == o.key
}

func (r Ref) Hash() uint64 {
	return maphash.Comparable(seed, r.key)
}

func (r Ref) String() string {
	return r.key.String()
}
