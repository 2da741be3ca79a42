package ir

import "fmt"

type Type int

const (
	NullType Type = iota
	NumberType
	StringType
	BoolType
	ObjectType
	ArrayType
	CommentType

	numTypes
)

var typeNames = [numTypes]string{
	NullType:    "Null",
	NumberType:  "Number",
	StringType:  "String",
	BoolType:    "Bool",
	ObjectType:  "Object",
	ArrayType:   "Array",
	CommentType: "Comment",
}

func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

func Types() []Type {
	res := make([]Type, numTypes)
	for i := range res {
		res[i] = Type(i)
	}
	return res
}

// IsLeaf reports whether nodes of type t hold a scalar value.
func (t Type) IsLeaf() bool {
	return !t.IsContainer() && t != CommentType
}

func (t Type) IsContainer() bool {
	return t == ObjectType || t == ArrayType
}
