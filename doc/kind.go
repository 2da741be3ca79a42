package doc

import "github.com/signadot/tony-include/ir"

// Kind is the structural kind of a node.
type Kind uint8

const (
	KindOther     Kind = iota // comments
	KindTag                   // objects and arrays
	KindAttribute             // scalars held under an object field
	KindText                  // scalars held in an array, or a scalar root
)

func (k Kind) String() string {
	switch k {
	case KindTag:
		return "Tag"
	case KindAttribute:
		return "Attribute"
	case KindText:
		return "Text"
	}
	return "Other"
}

// KindOf classifies n by its type and the type of its container.
func KindOf(n *ir.Node) Kind {
	switch {
	case n.Type == ir.CommentType:
		return KindOther
	case n.Type.IsContainer():
		return KindTag
	case n.Parent != nil && n.Parent.Type == ir.ObjectType:
		return KindAttribute
	}
	return KindText
}

// IncludeTag marks an include site: a node whose place in the tree is taken
// by content from elsewhere when a Workspace has an Expander.
const IncludeTag = "!include"

func IsIncludeSite(n *ir.Node) bool {
	return n.Tag == IncludeTag
}
