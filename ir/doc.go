// Package ir provides the in-memory tree for parsed object-notation documents.
//
// # Node Structure
//
// A Node represents a single value. Nodes are a recursive tagged union where
// the Type field says which value fields are meaningful:
//
//   - NullType, BoolType, NumberType, StringType: scalar values
//   - ObjectType: key-value pairs, Fields[i] is the key of Values[i]
//   - ArrayType: ordered Values
//   - CommentType: comment text in Lines
//
// Each node maintains a link to its container (Parent, ParentIndex,
// ParentField) so a node's structural position can always be recovered.
// Comments attach to a node through its Comment field and have that node as
// their Parent.
//
// # Paths
//
// KPath returns a node's kinded path ("a.b[0]"), and GetKPath / Lookup
// navigate back to the live node at a path. Together they give a position that
// survives replacing a tree by an equivalent freshly parsed one.
//
// # Comparison and Hashing
//
//	equal := ir.Compare(a, b) == 0
//	h := a.Hash()
//
// # Thread Safety
//
// Node structures are not thread-safe. Trees installed in a document snapshot
// are treated as immutable by the rest of this module.
package ir
