package include

import (
	"sync/atomic"
	"weak"

	"github.com/signadot/tony-include/doc"
	"github.com/signadot/tony-include/ir"
)

// cache remembers the last resolved original without keeping its snapshot
// alive. The garbage collector may empty it at any time.
type cache struct {
	p atomic.Pointer[entry]
}

type entry struct {
	snap weak.Pointer[doc.Snapshot]
	node weak.Pointer[ir.Node]
}

func (c *cache) get() (doc.Element, bool) {
	e := c.p.Load()
	if e == nil {
		return doc.Element{}, false
	}
	s, n := e.snap.Value(), e.node.Value()
	if s == nil || n == nil {
		return doc.Element{}, false
	}
	return s.Element(n)
}

func (c *cache) set(el doc.Element) {
	y, err := el.IR()
	if err != nil {
		return
	}
	c.p.Store(&entry{
		snap: weak.Make(el.Snapshot()),
		node: weak.Make(y),
	})
}

func (c *cache) clear() {
	c.p.Store(nil)
}
