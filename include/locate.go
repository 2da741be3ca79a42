package include

import (
	"fmt"
	"path"
	"strings"

	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/ir"
	"github.com/signadot/tony-include/ir/kpath"
)

// Locator resolves include sites among the documents of ws.
//
// A site holds "<doc>#<kpath>". The document is relative to the directory
// of the including document and may be empty to refer to the including
// document itself. An empty kpath names the root.
func Locator(ws *doc.Workspace) func(doc.Element) (doc.Node, error) {
	return func(site doc.Element) (doc.Node, error) {
		y, err := site.IR()
		if err != nil {
			return nil, err
		}
		if y.Type != ir.StringType {
			return nil, fmt.Errorf("%w: include site %s is not a string", doc.ErrNotFound, site)
		}
		ref, p, _ := strings.Cut(y.String, "#")
		id := site.Document().ID()
		if ref != "" {
			id = doc.ID(path.Join(path.Dir(string(id)), ref))
		}
		d, ok := ws.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("%w: %s included from %s", doc.ErrNotFound, id, site)
		}
		kp, err := kpath.Parse(p)
		if err != nil {
			return nil, err
		}
		e, ok := d.Resolve(kp)
		if !ok {
			return nil, fmt.Errorf("%w: %s#%s included from %s", doc.ErrNotFound, id, p, site)
		}
		return e, nil
	}
}
