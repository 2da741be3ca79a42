// Package doc holds parsed documents and the node capability set that tree
// walking code is written against.
//
// A Document keeps a stable identity while its content is reparsed: every
// Reparse installs a new Snapshot with fresh ir nodes and discards the old
// one. Element is the handle of a node inside one snapshot; it stays usable
// as a value after its snapshot is discarded but reports IsValid() == false
// and refuses to expose its data.
//
// Node is the interface implemented by Element and by any node that stands in
// for one (see package include). Code that walks trees through
// ProcessChildren does not need to know which it has.
//
// A Workspace is the registry of open documents. It is also where durable
// positions (document ID plus kinded path) are resolved back to live
// elements.
package doc
