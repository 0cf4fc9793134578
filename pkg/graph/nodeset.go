package graph

import (
	"math/bits"
	"strings"
)

// NodeSet is a bitset over a graph's useful nodes. It is a value type, so
// successor states share it without copying.
type NodeSet uint64

func (s NodeSet) Has(o NodeSet) bool          { return s&o == o && o != 0 }
func (s NodeSet) Union(o NodeSet) NodeSet     { return s | o }
func (s NodeSet) Intersect(o NodeSet) NodeSet { return s & o }
func (s NodeSet) Without(o NodeSet) NodeSet   { return s &^ o }
func (s NodeSet) Len() int                    { return bits.OnesCount64(uint64(s)) }
func (s NodeSet) Empty() bool                 { return s == 0 }

// Members lists the node ids of s in bit order.
func (s NodeSet) Members(g *Graph) []NodeID {
	out := make([]NodeID, 0, s.Len())
	for rest := uint64(s); rest != 0; rest &= rest - 1 {
		i := bits.TrailingZeros64(rest)
		if i < len(g.useful) {
			out = append(out, g.useful[i])
		}
	}
	return out
}

// Format renders s as a comma separated list of node ids.
func (s NodeSet) Format(g *Graph) string {
	ids := s.Members(g)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ",")
}

// SetOf builds the NodeSet of the given ids. Zero-rate and unknown ids are ignored.
func (g *Graph) SetOf(ids ...NodeID) NodeSet {
	var s NodeSet
	for _, id := range ids {
		s |= g.Bit(id)
	}
	return s
}
