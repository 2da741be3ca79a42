package ir

import (
	"encoding/binary"
	"hash/maphash"
	"math"
)

var seed = maphash.MakeSeed()

// Hash returns a structural hash of n covering its tag, stable for the life
// of the process. Nodes with equal tags for which Compare returns 0 hash
// equally. Hash panics on a nil node.
func (n *Node) Hash() uint64 {
	if n == nil {
		panic("ir: Hash of nil node")
	}
	var h maphash.Hash
	h.SetSeed(seed)
	n.hashTo(&h)
	return h.Sum64()
}

func (n *Node) hashTo(h *maphash.Hash) {
	put := func(v uint64) {
		h.Write(binary.LittleEndian.AppendUint64(nil, v))
	}
	h.WriteByte(byte(n.Type))
	h.WriteString(n.Tag)
	h.WriteByte(0)
	switch n.Type {
	case BoolType:
		if n.Bool {
			put(1)
		} else {
			put(0)
		}
	case NumberType:
		if n.Int64 != nil {
			put(uint64(*n.Int64))
		} else if n.Float64 != nil {
			put(math.Float64bits(*n.Float64))
		} else {
			h.WriteString(n.Number)
		}
	case StringType:
		h.WriteString(n.String)
	case CommentType:
		for _, ln := range n.Lines {
			h.WriteString(ln)
			h.WriteByte('\n')
		}
	case ObjectType, ArrayType:
		put(uint64(len(n.Values)))
		for i, v := range n.Values {
			if n.Type == ObjectType {
				h.WriteString(n.Fields[i].String)
				h.WriteByte(0)
			}
			v.hashTo(h)
		}
	}
}
