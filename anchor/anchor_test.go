package anchor

import (
	"errors"
	"testing"

	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/ir/kpath"
)

const src = `
svc:
  name: api
  ports:
  - 80
  - 443
`

// wrapper stands in for another node without being a real element.
type wrapper struct {
	doc.Node
	inner doc.Node
	err   error
}

func (w *wrapper) Unwrap() (doc.Node, error) {
	return w.inner, w.err
}

// foreign is a node type Unwrap does not know.
type foreign struct{ doc.Node }

func open(t *testing.T) (*doc.Workspace, *doc.Document) {
	t.Helper()
	ws := doc.NewWorkspace()
	d, err := ws.Open("svc.yaml", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return ws, d
}

func at(t *testing.T, d *doc.Document, p string) doc.Element {
	t.Helper()
	e, ok := d.Resolve(kpath.MustParse(p))
	if !ok {
		t.Fatalf("no %q", p)
	}
	return e
}

func TestCreateResolve(t *testing.T) {
	_, d := open(t)
	e := at(t, d, "svc.ports[1]")
	r, err := Create(e)
	if err != nil {
		t.Fatal(err)
	}
	want := Key{Doc: "svc.yaml", Path: "svc.ports[1]", Kind: doc.KindText}
	if r.Key() != want {
		t.Errorf("key %+v, want %+v", r.Key(), want)
	}
	if r.String() != "svc.yaml#svc.ports[1]" {
		t.Errorf("String() = %s", r)
	}
	got, ok := r.Resolve()
	if !ok || !got.Equal(e) {
		t.Errorf("Resolve() = %s, %v", got, ok)
	}
	again, ok := r.Resolve()
	if !ok || !again.Equal(got) {
		t.Errorf("second Resolve() = %s, %v", again, ok)
	}
}

func TestResolveAfterReparse(t *testing.T) {
	_, d := open(t)
	r, err := Create(at(t, d, "svc.name"))
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Reparse([]byte(src)); err != nil {
		t.Fatal(err)
	}
	got, ok := r.Resolve()
	if !ok {
		t.Fatal("anchor lost after reparse")
	}
	if !got.IsValid() || got.KPath() != "svc.name" {
		t.Errorf("resolved to %s", got)
	}
	r2, err := Create(got)
	if err != nil {
		t.Fatal(err)
	}
	if !r.Equal(r2) || r.Hash() != r2.Hash() {
		t.Errorf("refs to the same position differ")
	}
}

func TestResolveFails(t *testing.T) {
	tests := []struct {
		name string
		path string
		edit func(ws *doc.Workspace, d *doc.Document) error
	}{
		{
			name: "path removed",
			path: "svc.ports[1]",
			edit: func(_ *doc.Workspace, d *doc.Document) error {
				return d.Reparse([]byte("svc:\n  ports: [80]\n"))
			},
		},
		{
			name: "kind changed",
			path: "svc.ports",
			edit: func(_ *doc.Workspace, d *doc.Document) error {
				return d.Reparse([]byte("svc:\n  ports: none\n"))
			},
		},
		{
			name: "document closed",
			path: "svc",
			edit: func(ws *doc.Workspace, d *doc.Document) error {
				return ws.Close(d.ID())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, d := open(t)
			r, err := Create(at(t, d, tt.path))
			if err != nil {
				t.Fatal(err)
			}
			if err := tt.edit(ws, d); err != nil {
				t.Fatal(err)
			}
			if e, ok := r.Resolve(); ok {
				t.Errorf("resolved to %s", e)
			}
		})
	}
	var zero Ref
	if _, ok := zero.Resolve(); ok || !zero.IsZero() {
		t.Errorf("zero ref resolves")
	}
}

func TestUnwrap(t *testing.T) {
	_, d := open(t)
	e := at(t, d, "svc")
	chain := doc.Node(e)
	for range 3 {
		chain = &wrapper{inner: chain}
	}
	got, err := Unwrap(chain)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(e) {
		t.Errorf("unwrapped to %s", got)
	}
	r, err := Create(chain)
	if err != nil {
		t.Fatal(err)
	}
	if r.Key().Path != "svc" {
		t.Errorf("anchored %s", r)
	}

	boom := errors.New("boom")
	tests := []struct {
		name string
		n    doc.Node
		err  error
	}{
		{"nil", nil, ErrUnanchorable},
		{"zero element", doc.Element{}, ErrUnanchorable},
		{"foreign", foreign{}, ErrUnanchorable},
		{"wrapped foreign", &wrapper{inner: foreign{}}, ErrUnanchorable},
		{"unwrap error", &wrapper{err: boom}, boom},
	}
	for _, tt := range tests {
		if _, err := Unwrap(tt.n); !errors.Is(err, tt.err) {
			t.Errorf("%s: error %v, want %v", tt.name, err, tt.err)
		}
	}

	loop := &wrapper{}
	loop.inner = loop
	if _, err := Unwrap(loop); !errors.Is(err, ErrUnanchorable) {
		t.Errorf("wrapper loop: %v", err)
	}
}

func TestCreateStale(t *testing.T) {
	_, d := open(t)
	e := at(t, d, "svc")
	if err := d.Reparse([]byte(src)); err != nil {
		t.Fatal(err)
	}
	if _, err := Create(e); !errors.Is(err, ErrUnanchorable) || !errors.Is(err, doc.ErrDiscarded) {
		t.Errorf("anchoring a discarded element: %v", err)
	}
}

func TestKeyAsMapKey(t *testing.T) {
	_, d := open(t)
	seen := map[Key]int{}
	for _, p := range []string{"svc", "svc.name", "svc", "svc.ports[0]", "svc.name"} {
		r, err := Create(at(t, d, p))
		if err != nil {
			t.Fatal(err)
		}
		seen[r.Key()]++
	}
	if len(seen) != 3 || seen[Key{Doc: "svc.yaml", Path: "svc", Kind: doc.KindTag}] != 2 {
		t.Errorf("keys %v", seen)
	}
}
