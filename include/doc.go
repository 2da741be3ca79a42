// Package include represents included content as proxy nodes.
//
// A Proxy stands in for a node of some document (its original) while
// reporting a different logical parent, typically the node at which the
// content was included. It keeps only a durable anchor to the original plus a
// reclaimable cache of the last resolved element, so it stays usable while
// the original's document is reparsed and reports IsValid() == false once the
// original's position is gone.
//
// Walking a proxy's children through ProcessChildren wraps every tag,
// attribute and text child in a new proxy whose logical parent is the proxy
// being walked, so a traversal started at a proxy never yields a physical
// node of those kinds.
//
//	p, err := include.Tag(fragment, site)
//	err = doc.Walk(p, func(n doc.Node) bool { ...; return true })
//	target, err := p.NavigationTarget()
package include
