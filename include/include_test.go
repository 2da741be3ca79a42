package include

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/signadot/tony-include/anchor"
	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/ir"
	"github.com/signadot/tony-include/ir/kpath"
)

const (
	libSrc = `
frag:
  port: 80
  hosts:
  - a
  - b
`
	hostSrc = `
name: host
spec: !include "lib.yaml#frag"
`
	baseSrc = `
common:
- x
`
)

type fixture struct {
	ws   *doc.Workspace
	lib  *doc.Document
	host *doc.Document
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{ws: doc.NewWorkspace()}
	var err error
	if f.lib, err = f.ws.Open("lib.yaml", []byte(libSrc)); err != nil {
		t.Fatal(err)
	}
	if f.host, err = f.ws.Open("host.yaml", []byte(hostSrc)); err != nil {
		t.Fatal(err)
	}
	return f
}

func at(t *testing.T, d *doc.Document, p string) doc.Element {
	t.Helper()
	e, ok := d.Resolve(kpath.MustParse(p))
	if !ok {
		t.Fatalf("no %q in %s", p, d.ID())
	}
	return e
}

// locate resolves include sites written as "<doc>#<kpath>".
func locate(ws *doc.Workspace) func(doc.Element) (doc.Node, error) {
	return func(site doc.Element) (doc.Node, error) {
		y, err := site.IR()
		if err != nil {
			return nil, err
		}
		id, p, _ := strings.Cut(y.String, "#")
		d, ok := ws.Lookup(doc.ID(id))
		if !ok {
			return nil, doc.ErrNotFound
		}
		kp, err := kpath.Parse(p)
		if err != nil {
			return nil, err
		}
		e, ok := d.Resolve(kp)
		if !ok {
			return nil, doc.ErrNotFound
		}
		return e, nil
	}
}

func strs(ns []doc.Node) []string {
	res := make([]string, len(ns))
	for i, n := range ns {
		res[i] = n.String()
	}
	return res
}

func TestConstructors(t *testing.T) {
	f := newFixture(t)
	site := at(t, f.host, "")
	frag := at(t, f.lib, "frag")

	if _, err := Tag(frag, nil); !errors.Is(err, ErrNoParent) {
		t.Errorf("nil parent: %v", err)
	}
	if _, err := Attribute(frag, site); !errors.Is(err, ErrKind) {
		t.Errorf("attribute of object: %v", err)
	}
	if _, err := New(doc.KindOther, frag, site); !errors.Is(err, ErrKind) {
		t.Errorf("other kind: %v", err)
	}
	tests := []struct {
		mk   func(o, p doc.Node) (*Proxy, error)
		path string
		want string
	}{
		{Tag, "frag", "IncludedTag(lib.yaml#frag)"},
		{Tag, "frag.hosts", "IncludedTag(lib.yaml#frag.hosts)"},
		{Attribute, "frag.port", "IncludedAttribute(lib.yaml#frag.port)"},
		{Text, "frag.hosts[1]", "IncludedText(lib.yaml#frag.hosts[1])"},
	}
	for _, tt := range tests {
		p, err := tt.mk(at(t, f.lib, tt.path), site)
		if err != nil {
			t.Errorf("%s: %v", tt.path, err)
			continue
		}
		if got := p.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
		if !p.IsValid() {
			t.Errorf("%s: fresh proxy invalid", p)
		}
	}

	r, err := Root(frag)
	if err != nil {
		t.Fatal(err)
	}
	if r.Parent() != nil || r.Document() != nil {
		t.Errorf("root proxy has parent %v, document %v", r.Parent(), r.Document())
	}
	if r.Kind() != doc.KindTag {
		t.Errorf("root proxy kind %s", r.Kind())
	}
}

func TestNothingToProxy(t *testing.T) {
	f := newFixture(t)
	parent := at(t, f.host, "name")
	for _, n := range []doc.Node{nil, doc.Element{}} {
		if _, err := Root(n); !errors.Is(err, anchor.ErrUnanchorable) {
			t.Errorf("Root(%#v): %v", n, err)
		}
		if _, err := Wrap(n, parent); !errors.Is(err, anchor.ErrUnanchorable) {
			t.Errorf("Wrap(%#v): %v", n, err)
		}
		if _, err := Tag(n, parent); !errors.Is(err, anchor.ErrUnanchorable) {
			t.Errorf("Tag(%#v): %v", n, err)
		}
	}
}

func TestLogicalParent(t *testing.T) {
	f := newFixture(t)
	site := at(t, f.host, "")
	frag := at(t, f.lib, "frag")
	p, err := Tag(frag, site)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Parent().Equal(site) {
		t.Errorf("parent %v", p.Parent())
	}
	if p.Document() != f.host {
		t.Errorf("document %v, want host", p.Document().ID())
	}
	nav, err := p.NavigationTarget()
	if err != nil {
		t.Fatal(err)
	}
	if !nav.Equal(frag) || nav.Document() != f.lib {
		t.Errorf("navigation target %s", nav)
	}
	y, err := p.IR()
	if err != nil {
		t.Fatal(err)
	}
	if fy, _ := frag.IR(); y != fy {
		t.Errorf("IR() is not the original's node")
	}
}

func TestProcessChildrenRewraps(t *testing.T) {
	f := newFixture(t)
	site := at(t, f.host, "")
	p, err := Tag(at(t, f.lib, "frag"), site)
	if err != nil {
		t.Fatal(err)
	}
	kids, err := doc.Children(p)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"IncludedAttribute(lib.yaml#frag.port)",
		"IncludedTag(lib.yaml#frag.hosts)",
	}
	if diff := cmp.Diff(want, strs(kids)); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
	for _, k := range kids {
		if !k.Parent().Equal(p) {
			t.Errorf("%s: parent %v", k, k.Parent())
		}
		if k.Document() != f.host {
			t.Errorf("%s: document %s", k, k.Document().ID())
		}
	}

	var all []doc.Node
	if err := doc.Walk(p, func(n doc.Node) bool {
		all = append(all, n)
		return true
	}); err != nil {
		t.Fatal(err)
	}
	for _, n := range all {
		if _, ok := n.(*Proxy); !ok {
			t.Errorf("walk reached physical node %s", n)
		}
	}
	last := all[len(all)-1]
	if got, want := last.String(), "IncludedText(lib.yaml#frag.hosts[1])"; got != want {
		t.Fatalf("last node %s, want %s", got, want)
	}
	anc := doc.Ancestors(last)
	if len(anc) != 3 || !anc[1].Equal(p) || !anc[2].Equal(site) {
		t.Errorf("ancestors %v", anc)
	}
}

func TestProcessChildrenEarlyExit(t *testing.T) {
	f := newFixture(t)
	p, err := Tag(at(t, f.lib, "frag"), at(t, f.host, ""))
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	ok, err := p.ProcessChildren(func(doc.Node) bool {
		n++
		return false
	})
	if err != nil {
		t.Fatal(err)
	}
	if ok || n != 1 {
		t.Errorf("ok=%v after %d calls", ok, n)
	}
}

func TestAnchorSurvivesReparse(t *testing.T) {
	f := newFixture(t)
	old := at(t, f.lib, "frag.port")
	p, err := Attribute(old, at(t, f.host, ""))
	if err != nil {
		t.Fatal(err)
	}
	if err := f.lib.Reparse([]byte("# moved\n" + libSrc)); err != nil {
		t.Fatal(err)
	}
	if old.IsValid() {
		t.Fatalf("old element still valid")
	}
	before := testutil.ToFloat64(resolutions.WithLabelValues(outcomeResolved))
	if !p.IsValid() {
		t.Fatalf("proxy invalid after reparse")
	}
	cur, err := p.Original()
	if err != nil {
		t.Fatal(err)
	}
	if cur.Equal(old) {
		t.Errorf("proxy still on the discarded node")
	}
	if !cur.Equal(at(t, f.lib, "frag.port")) {
		t.Errorf("proxy resolved to %s", cur)
	}
	if d := testutil.ToFloat64(resolutions.WithLabelValues(outcomeResolved)) - before; d != 1 {
		t.Errorf("resolved count went up by %v", d)
	}

	hits := testutil.ToFloat64(resolutions.WithLabelValues(outcomeHit))
	again, err := p.Original()
	if err != nil {
		t.Fatal(err)
	}
	if !again.Equal(cur) {
		t.Errorf("second read differs")
	}
	if d := testutil.ToFloat64(resolutions.WithLabelValues(outcomeHit)) - hits; d != 1 {
		t.Errorf("hit count went up by %v", d)
	}
}

func TestDetach(t *testing.T) {
	f := newFixture(t)
	site := at(t, f.host, "")
	port, err := Attribute(at(t, f.lib, "frag.port"), site)
	if err != nil {
		t.Fatal(err)
	}
	hosts, err := Tag(at(t, f.lib, "frag.hosts"), site)
	if err != nil {
		t.Fatal(err)
	}
	frag, err := Tag(at(t, f.lib, "frag"), site)
	if err != nil {
		t.Fatal(err)
	}

	if err := f.lib.Patch([]byte(`[{"op": "remove", "path": "/frag/port"}, {"op": "replace", "path": "/frag/hosts", "value": "none"}]`)); err != nil {
		t.Fatal(err)
	}
	detached := testutil.ToFloat64(resolutions.WithLabelValues(outcomeDetached))
	if port.IsValid() {
		t.Errorf("removed position still valid")
	}
	if _, err := port.Original(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Original: %v", err)
	}
	if _, err := port.IR(); !errors.Is(err, ErrInvalid) {
		t.Errorf("IR: %v", err)
	}
	if _, err := port.ProcessChildren(func(doc.Node) bool { return true }); !errors.Is(err, ErrInvalid) {
		t.Errorf("ProcessChildren: %v", err)
	}
	if d := testutil.ToFloat64(resolutions.WithLabelValues(outcomeDetached)) - detached; d != 3 {
		t.Errorf("detached count went up by %v", d)
	}
	if hosts.IsValid() {
		t.Errorf("position holding a scalar now still valid as a tag")
	}
	if !frag.IsValid() {
		t.Errorf("surviving position invalid")
	}

	if err := f.ws.Close("lib.yaml"); err != nil {
		t.Fatal(err)
	}
	if frag.IsValid() {
		t.Errorf("valid after document closed")
	}
	if !port.Parent().Equal(site) {
		t.Errorf("detached proxy lost its parent")
	}
	if err := doc.Walk(frag, func(doc.Node) bool { return true }); !errors.Is(err, ErrInvalid) {
		t.Errorf("walking detached proxy: %v", err)
	}
}

func TestEquality(t *testing.T) {
	f := newFixture(t)
	site := at(t, f.host, "")
	other := at(t, f.host, "name")
	frag := at(t, f.lib, "frag")

	a, _ := Tag(frag, site)
	b, _ := Tag(frag, site)
	c, _ := Tag(frag, other)
	r1, _ := Root(frag)
	r2, _ := Root(frag)
	if !a.Equal(b) || a.Hash() != b.Hash() {
		t.Errorf("proxies of the same node under the same parent differ")
	}
	if a.Equal(c) {
		t.Errorf("different parents compare equal")
	}
	if a.Equal(r1) || r1.Equal(a) {
		t.Errorf("root proxy equals parented proxy")
	}
	if !r1.Equal(r2) || r1.Hash() != r2.Hash() {
		t.Errorf("root proxies differ")
	}
	if a.Equal(frag) || frag.Equal(a) {
		t.Errorf("proxy equals its original")
	}

	if err := f.lib.Reparse([]byte(libSrc)); err != nil {
		t.Fatal(err)
	}
	d, err := Tag(at(t, f.lib, "frag"), site)
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(d) || a.Hash() != d.Hash() {
		t.Errorf("proxy made after reparse differs")
	}

	set := map[uint64][]*Proxy{}
	for _, p := range []*Proxy{a, b, c, d} {
		set[p.Hash()] = append(set[p.Hash()], p)
	}
	if len(set[a.Hash()]) < 3 {
		t.Errorf("equal proxies hashed apart")
	}
}

func TestProxyOfProxy(t *testing.T) {
	f := newFixture(t)
	site := at(t, f.host, "")
	frag := at(t, f.lib, "frag")
	p, _ := Tag(frag, site)
	q, err := Tag(p, at(t, f.host, "name"))
	if err != nil {
		t.Fatal(err)
	}
	if q.Anchor().Key() != p.Anchor().Key() {
		t.Errorf("anchors differ: %s vs %s", q.Anchor(), p.Anchor())
	}
	o, err := q.Original()
	if err != nil {
		t.Fatal(err)
	}
	if !o.Equal(frag) {
		t.Errorf("original %s", o)
	}
	w, err := Wrap(p, site)
	if err != nil {
		t.Fatal(err)
	}
	if !w.Equal(p) {
		t.Errorf("rewrapping under the same parent gave %s", w)
	}
}

func TestForget(t *testing.T) {
	f := newFixture(t)
	p, _ := Text(at(t, f.lib, "frag.hosts[0]"), at(t, f.host, ""))
	first, err := p.Original()
	if err != nil {
		t.Fatal(err)
	}
	for range 2 {
		p.Forget()
		if !p.IsValid() {
			t.Fatalf("invalid after forget")
		}
		got, err := p.Original()
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(first) {
			t.Errorf("refresh gave %s, want %s", got, first)
		}
	}
}

func TestWrapPassesOtherKinds(t *testing.T) {
	ws := doc.NewWorkspace()
	d, err := ws.Open("c.yaml", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Replace(ir.Obj("a", ir.FromInt(1)).WithComment(ir.FromComment("head"))); err != nil {
		t.Fatal(err)
	}
	root, _ := d.Root()
	y, _ := root.IR()
	c, ok := d.Snapshot().Element(y.Comment)
	if !ok {
		t.Fatal("comment not in snapshot")
	}
	w, err := Wrap(c, root)
	if err != nil {
		t.Fatal(err)
	}
	if !w.Equal(c) {
		t.Errorf("comment wrapped as %s", w)
	}

	p, err := Root(root)
	if err != nil {
		t.Fatal(err)
	}
	kids, err := doc.Children(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(kids) != 2 {
		t.Fatalf("children %v", strs(kids))
	}
	if _, ok := kids[0].(doc.Element); !ok || kids[0].Kind() != doc.KindOther {
		t.Errorf("comment child %T %s", kids[0], kids[0].Kind())
	}
	if _, ok := kids[1].(*Proxy); !ok {
		t.Errorf("attribute child %T", kids[1])
	}
}

func TestExpanderWalk(t *testing.T) {
	f := newFixture(t)
	if _, err := f.ws.Open("base.yaml", []byte(baseSrc)); err != nil {
		t.Fatal(err)
	}
	if err := f.lib.Reparse([]byte(libSrc + "  extra: !include \"base.yaml#common\"\n")); err != nil {
		t.Fatal(err)
	}
	f.ws.SetExpander(&Expander{Locate: locate(f.ws)})
	root, err := f.host.Root()
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	var nodes []doc.Node
	if err := doc.Walk(root, func(n doc.Node) bool {
		got = append(got, n.String())
		nodes = append(nodes, n)
		return true
	}); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"host.yaml#",
		"host.yaml#name",
		"IncludedTag(lib.yaml#frag)",
		"IncludedAttribute(lib.yaml#frag.port)",
		"IncludedTag(lib.yaml#frag.hosts)",
		"IncludedText(lib.yaml#frag.hosts[0])",
		"IncludedText(lib.yaml#frag.hosts[1])",
		"IncludedTag(base.yaml#common)",
		"IncludedText(base.yaml#common[0])",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("walk (-want +got):\n%s", diff)
	}
	included := nodes[2]
	if !included.Parent().Equal(root) {
		t.Errorf("included fragment parent %v", included.Parent())
	}
	nested := nodes[7]
	if !nested.Parent().Equal(included) {
		t.Errorf("nested include parent %v, want %v", nested.Parent(), included)
	}
	for _, n := range nodes {
		if n.Document() != f.host {
			t.Errorf("%s reports document %v", n, n.Document())
		}
	}
}

func TestExpanderKeepsForeignParent(t *testing.T) {
	f := newFixture(t)
	elsewhere := at(t, f.host, "name")
	if err := f.lib.Reparse([]byte(libSrc + "  extra: !include \"lib.yaml#frag.hosts\"\n")); err != nil {
		t.Fatal(err)
	}
	f.ws.SetExpander(doc.ExpanderFunc(func(site doc.Element, v doc.Visitor) (bool, error) {
		target, err := locate(f.ws)(site)
		if err != nil {
			return false, err
		}
		p, err := Tag(target, elsewhere)
		if err != nil {
			return false, err
		}
		return v(p), nil
	}))
	p, err := Tag(at(t, f.lib, "frag"), at(t, f.host, ""))
	if err != nil {
		t.Fatal(err)
	}
	kids, err := doc.Children(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(kids) != 3 {
		t.Fatalf("children %v", strs(kids))
	}
	if !kids[0].Parent().Equal(p) {
		t.Errorf("physical child parent %v", kids[0].Parent())
	}
	if !kids[2].Parent().Equal(elsewhere) {
		t.Errorf("foreign child parent %v, want %s", kids[2].Parent(), elsewhere)
	}
	if _, ok := kids[2].(*Proxy); !ok {
		t.Errorf("foreign child not a proxy: %T", kids[2])
	}
}

func TestExpanderCycle(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"self", "a: !include \"self.yaml#a\"\n"},
		{"ancestor", "a:\n  b: !include \"self.yaml#a\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := doc.NewWorkspace()
			d, err := ws.Open("self.yaml", []byte(tt.src))
			if err != nil {
				t.Fatal(err)
			}
			ws.SetExpander(&Expander{Locate: locate(ws)})
			root, _ := d.Root()
			err = doc.Walk(root, func(doc.Node) bool { return true })
			if !errors.Is(err, ErrCycle) {
				t.Errorf("expected ErrCycle, got %v", err)
			}
		})
	}
}

func TestIncludedCycle(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		start doc.ID
	}{
		{
			name: "mutual documents",
			files: map[string]string{
				"a.yaml": "x: !include \"b.yaml#\"\n",
				"b.yaml": "y: !include \"a.yaml#\"\n",
			},
			start: "a.yaml",
		},
		{
			name: "through a sibling",
			files: map[string]string{
				"s.yaml": "x:\n  y: !include \"s.yaml#z\"\nz:\n  w: !include \"s.yaml#x\"\n",
			},
			start: "s.yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := doc.NewWorkspace()
			for id, src := range tt.files {
				if _, err := ws.Open(doc.ID(id), []byte(src)); err != nil {
					t.Fatal(err)
				}
			}
			ws.SetExpander(&Expander{Locate: locate(ws)})
			d, _ := ws.Lookup(tt.start)
			root, _ := d.Root()
			visited := 0
			err := doc.Walk(root, func(doc.Node) bool {
				visited++
				return visited < 1000
			})
			if !errors.Is(err, ErrCycle) {
				t.Errorf("expected ErrCycle after %d nodes, got %v", visited, err)
			}
		})
	}
}

func TestExpanderLocateError(t *testing.T) {
	ws := doc.NewWorkspace()
	d, err := ws.Open("h.yaml", []byte("a: !include \"missing.yaml#x\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	ws.SetExpander(&Expander{Locate: locate(ws)})
	root, _ := d.Root()
	if _, err := doc.Children(root); !errors.Is(err, doc.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreatedMetric(t *testing.T) {
	f := newFixture(t)
	before := testutil.ToFloat64(created.WithLabelValues(doc.KindText.String()))
	for i := range 3 {
		if _, err := Text(at(t, f.lib, "frag.hosts[0]"), at(t, f.host, "")); err != nil {
			t.Fatalf("%d: %v", i, err)
		}
	}
	if d := testutil.ToFloat64(created.WithLabelValues(doc.KindText.String())) - before; d != 3 {
		t.Errorf("created count went up by %v", d)
	}
	reg := prometheus.NewRegistry()
	if err := RegisterMetrics(reg); err != nil {
		t.Fatal(err)
	}
	if err := RegisterMetrics(reg); err == nil {
		t.Errorf("registering twice succeeded")
	}
}
