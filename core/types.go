package core

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// NodeID is a dense positive integer node identifier. The engine never
// requires the caller's identifiers to be contiguous, but diamond
// conditioning-bit assignment relies on a deterministic total order over
// NodeIDs for reproducible ordering and tie-breaks.
type NodeID uint64

// Edge is a single directed edge (src, dst) of the input DAG. Self-loops
// (From == To) are rejected by EdgeList.Validate.
type Edge struct {
	From NodeID
	To   NodeID
}

// EdgeList is the ordered sequence of directed edges that defines a DAG, as
// consumed by topology.Build. Order is preserved only for determinism of
// error messages; it carries no semantic weight.
type EdgeList []Edge

// Validate rejects self-loops and returns the set of all node IDs mentioned
// by the edge list (both endpoints). It does not detect cycles — that is
// topology.Build's job, since cycle detection falls naturally out of the
// Kahn-style level sweep and doing it twice would be wasted work.
func (el EdgeList) Validate() (NodeSet, error) {
	nodes := make(NodeSet, len(el)*2)
	for _, e := range el {
		if e.From == e.To {
			return nil, fmt.Errorf("%w: self-loop at node %d", ErrInvalidGraph, e.From)
		}
		nodes[e.From] = struct{}{}
		nodes[e.To] = struct{}{}
	}

	return nodes, nil
}

// NodeSet is an unordered collection of node identifiers, the basic
// ancestor/descendant/source/fork/join set representation used throughout
// topology and diamond.
type NodeSet map[NodeID]struct{}

// NewNodeSet builds a NodeSet from the given ids.
func NewNodeSet(ids ...NodeID) NodeSet {
	s := make(NodeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}

	return s
}

// Contains reports whether id is a member of s.
func (s NodeSet) Contains(id NodeID) bool {
	_, ok := s[id]

	return ok
}

// Add inserts id into s, mutating it in place.
func (s NodeSet) Add(id NodeID) {
	s[id] = struct{}{}
}

// Clone returns a shallow, independent copy of s.
func (s NodeSet) Clone() NodeSet {
	out := make(NodeSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}

	return out
}

// Union returns a new NodeSet containing every member of s and other.
func (s NodeSet) Union(other NodeSet) NodeSet {
	out := s.Clone()
	for id := range other {
		out[id] = struct{}{}
	}

	return out
}

// Intersect returns a new NodeSet containing only members present in both
// s and other.
func (s NodeSet) Intersect(other NodeSet) NodeSet {
	small, big := s, other
	if len(big) < len(small) {
		small, big = big, small
	}
	out := make(NodeSet, len(small))
	for id := range small {
		if big.Contains(id) {
			out[id] = struct{}{}
		}
	}

	return out
}

// Minus returns a new NodeSet containing members of s absent from other.
func (s NodeSet) Minus(other NodeSet) NodeSet {
	out := make(NodeSet, len(s))
	for id := range s {
		if !other.Contains(id) {
			out[id] = struct{}{}
		}
	}

	return out
}

// Sorted returns the set's members as an ascending slice, giving every
// caller that needs a deterministic walk order (subset enumeration,
// positional conditioning-bit assignment) a single shared implementation.
func (s NodeSet) Sorted() []NodeID {
	out := maps.Keys(s)
	slices.Sort(out)

	return out
}

// Len reports the number of members in s.
func (s NodeSet) Len() int { return len(s) }
