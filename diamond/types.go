package diamond

import "github.com/reachgraph/reachdag/core"

// Subgraph is a self-contained mini-topology extracted for one ancestor
// group: relevant_nodes, sources, and an edge list. Its local
// topology.Topology is not stored here; propagate builds it from Edges each
// time the group is evaluated.
type Subgraph struct {
	RelevantNodes core.NodeSet
	Sources       core.NodeSet
	Edges         core.EdgeList
}

// AncestorGroup is one diamond root's contribution at a join: the fork
// ancestors driving it, the join parents it influences, the highest
// (conditioning-root) nodes, and the extracted Subgraph.
type AncestorGroup struct {
	Ancestors         core.NodeSet
	InfluencedParents core.NodeSet
	HighestNodes      core.NodeSet
	Subgraph          *Subgraph
}

// DiamondsAtJoin collects every AncestorGroup found at one join node, plus
// the parents that participate in no diamond.
type DiamondsAtJoin struct {
	Join              core.NodeID
	Groups            []*AncestorGroup
	NonDiamondParents core.NodeSet
}

// Catalog maps every join node with at least one diamond to its
// DiamondsAtJoin. Joins with no diamond structure are simply absent.
type Catalog map[core.NodeID]*DiamondsAtJoin
