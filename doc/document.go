package doc

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/signadot/tony-include/debug"
	"github.com/signadot/tony-include/ir"
	"github.com/signadot/tony-include/ir/kpath"
	"github.com/signadot/tony-include/parse"
)

// ID identifies a document within a workspace, usually a slash separated
// path.
type ID string

// Snapshot is one parsed tree of a document.
type Snapshot struct {
	doc       *Document
	root      *ir.Node
	pos       map[*ir.Node]parse.Pos
	version   int
	discarded atomic.Bool
}

func (s *Snapshot) Document() *Document { return s.doc }
func (s *Snapshot) Version() int        { return s.version }

// Discarded reports whether s has been replaced or its document closed.
func (s *Snapshot) Discarded() bool {
	return s.discarded.Load()
}

func (s *Snapshot) Root() Element {
	return Element{snap: s, n: s.root}
}

// Element returns the element for n if n belongs to the tree of s.
func (s *Snapshot) Element(n *ir.Node) (Element, bool) {
	if n == nil || n.Root() != s.root {
		return Element{}, false
	}
	return Element{snap: s, n: n}, true
}

// ElementAt returns the element starting on line nearest to col, preferring
// elements starting at or before col and then the deepest one. It reports
// false for trees installed by Replace, which carry no positions.
func (s *Snapshot) ElementAt(line, col int) (Element, bool) {
	var (
		best      *ir.Node
		bestPos   parse.Pos
		bestDepth int
	)
	better := func(n *ir.Node, p parse.Pos, depth int) bool {
		if best == nil {
			return true
		}
		before, bestBefore := p.Col <= col, bestPos.Col <= col
		switch {
		case before != bestBefore:
			return before
		case p.Col != bestPos.Col:
			if before {
				return p.Col > bestPos.Col
			}
			return p.Col < bestPos.Col
		}
		return depth > bestDepth
	}
	for n, p := range s.pos {
		if p.Line != line || n.Root() != s.root {
			continue
		}
		depth := 0
		for x := n.Parent; x != nil; x = x.Parent {
			depth++
		}
		if better(n, p, depth) {
			best, bestPos, bestDepth = n, p, depth
		}
	}
	if best == nil {
		return Element{}, false
	}
	return Element{snap: s, n: best}, true
}

// Document is a parsed source with a stable identity across reparses.
type Document struct {
	id        ID
	ws        *Workspace
	parseOpts []parse.ParseOption

	mu     sync.Mutex
	snap   *Snapshot
	closed bool
}

func (d *Document) ID() ID                { return d.id }
func (d *Document) Workspace() *Workspace { return d.ws }

// Snapshot returns the current snapshot, or nil once d is closed.
func (d *Document) Snapshot() *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snap
}

func (d *Document) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// Version counts the snapshots installed so far, starting at 1.
func (d *Document) Version() int {
	s := d.Snapshot()
	if s == nil {
		return 0
	}
	return s.version
}

// Root returns the root element of the current snapshot.
func (d *Document) Root() (Element, error) {
	s := d.Snapshot()
	if s == nil {
		return Element{}, fmt.Errorf("%w: %s", ErrClosed, d.id)
	}
	return s.Root(), nil
}

// Resolve returns the element at kp in the current snapshot.
func (d *Document) Resolve(kp *kpath.KPath) (Element, bool) {
	s := d.Snapshot()
	if s == nil {
		return Element{}, false
	}
	n, err := s.root.Lookup(kp)
	if err != nil {
		if debug.Doc() {
			debug.Logf("resolve %s#%s: %v\n", d.id, kp, err)
		}
		return Element{}, false
	}
	return Element{snap: s, n: n}, true
}

// Reparse parses src with the document's parse options and installs the
// result as the current snapshot.
func (d *Document) Reparse(src []byte) error {
	pos := map[*ir.Node]parse.Pos{}
	opts := append(d.parseOpts[:len(d.parseOpts):len(d.parseOpts)], parse.ParsePositions(pos))
	root, err := parse.Parse(src, opts...)
	if err != nil {
		return fmt.Errorf("reparsing %s: %w", d.id, err)
	}
	return d.replace(root, pos)
}

// Replace installs root as the current snapshot. root must not have a parent
// and must not be shared with another snapshot.
func (d *Document) Replace(root *ir.Node) error {
	return d.replace(root, nil)
}

func (d *Document) replace(root *ir.Node, pos map[*ir.Node]parse.Pos) error {
	if root.Parent != nil {
		return fmt.Errorf("%w: %s", ErrRoot, root.KPath())
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("%w: %s", ErrClosed, d.id)
	}
	next := &Snapshot{doc: d, root: root, pos: pos, version: 1}
	if prev := d.snap; prev != nil {
		next.version = prev.version + 1
		prev.discarded.Store(true)
	}
	d.snap = next
	if debug.Doc() {
		debug.Logf("installed %s version %d\n", d.id, next.version)
	}
	return nil
}

func (d *Document) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	if d.snap != nil {
		d.snap.discarded.Store(true)
		d.snap = nil
	}
}
