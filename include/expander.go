package include

import (
	"fmt"

	"github.com/signadot/tony-include/anchor"
	"github.com/signadot/tony-include/debug"
	"github.com/signadot/tony-include/doc"
)

// Expander replaces include sites with proxies of the content they name.
//
// Locate finds the node an include site refers to. The proxy yielded in the
// site's place reports the site's parent as its own, so included content
// appears to live where it was included.
type Expander struct {
	Locate func(site doc.Element) (doc.Node, error)
}

var _ doc.Expander = (*Expander)(nil)

func (x *Expander) Expand(site doc.Element, v doc.Visitor) (bool, error) {
	target, err := x.Locate(site)
	if err != nil {
		return false, err
	}
	te, err := anchor.Unwrap(target)
	if err != nil {
		return false, err
	}
	if site.Equal(te) {
		return false, fmt.Errorf("%w: %s includes itself", ErrCycle, site)
	}
	for _, a := range doc.Ancestors(site) {
		if a.Equal(te) {
			return false, fmt.Errorf("%w: %s includes its ancestor %s", ErrCycle, site, te)
		}
	}
	parent := site.Parent()
	if parent == nil {
		return false, fmt.Errorf("%w: include site %s", ErrNoParent, site)
	}
	w, err := Wrap(target, parent)
	if err != nil {
		return false, err
	}
	if debug.Include() {
		debug.Logf("%s -> %s\n", site, w)
	}
	return v(w), nil
}
