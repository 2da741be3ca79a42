package include

import (
	"errors"
	"testing"

	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/ir/kpath"
)

func TestLocator(t *testing.T) {
	ws := doc.NewWorkspace()
	srcs := map[doc.ID]string{
		"app.yaml":       "name: app\nspec: !include \"lib/net.yaml#frag\"\n",
		"lib/net.yaml":   "frag:\n  port: 8080\n",
		"lib/local.yaml": "x: !include \"#y\"\ny: 1\nall: !include \"#\"\n",
		"lib/up.yaml":    "z: !include \"../app.yaml#name\"\n",
		"broken.yaml":    "a: !include \"missing.yaml#b\"\nb: !include \"app.yaml#nope\"\nc: !include \"app.yaml#[\"\nd: !include 3\n",
	}
	for id, src := range srcs {
		if _, err := ws.Open(id, []byte(src)); err != nil {
			t.Fatal(err)
		}
	}
	loc := Locator(ws)
	tests := []struct {
		id, path string
		want     string
		err      error
	}{
		{id: "app.yaml", path: "spec", want: "lib/net.yaml#frag"},
		{id: "lib/local.yaml", path: "x", want: "lib/local.yaml#y"},
		{id: "lib/local.yaml", path: "all", want: "lib/local.yaml#"},
		{id: "lib/up.yaml", path: "z", want: "app.yaml#name"},
		{id: "broken.yaml", path: "a", err: doc.ErrNotFound},
		{id: "broken.yaml", path: "b", err: doc.ErrNotFound},
		{id: "broken.yaml", path: "c", err: kpath.ErrSyntax},
		{id: "broken.yaml", path: "d", err: doc.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.id+"#"+tt.path, func(t *testing.T) {
			d, _ := ws.Lookup(doc.ID(tt.id))
			site, ok := d.Resolve(kpath.MustParse(tt.path))
			if !ok {
				t.Fatalf("no %s#%s", tt.id, tt.path)
			}
			got, err := loc(site)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("got error %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
