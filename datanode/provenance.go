package datanode

import "fmt"

// Named is anything with a name, e.g., a factory or a builder.
type Named interface {
	Name() string
}

// Provenance records how a node came into existence: which factory used
// which builder to create it from which candidate, and as a child of which
// node. It is attached once, at construction time, and immutable thereafter.
//
// Parent references the parent DataNode, not a node of any tree model, so
// holding on to a provenance does not keep a model alive.
type Provenance struct {
	Factory Named
	Builder Named
	Source  Candidate
	Parent  DataNode
}

func (p *Provenance) String() string {
	if p == nil {
		return "<no provenance>"
	}
	var f, b, s string
	if p.Factory != nil {
		f = p.Factory.Name()
	}
	if p.Builder != nil {
		b = p.Builder.Name()
	}
	if p.Source != nil {
		s = string(p.Source.Kind()) + ":" + p.Source.Name()
	}
	return fmt.Sprintf("%s/%s(%s)", f, b, s)
}

type provenanceStamper interface {
	stampProvenance(*Provenance) bool
}

// Stamp attaches a provenance to a node. It returns false if the node does
// not support provenance or already carries one.
func Stamp(n DataNode, p *Provenance) bool {
	if n == nil || p == nil {
		return false
	}
	if st, ok := n.(provenanceStamper); ok {
		return st.stampProvenance(p)
	}
	return false
}

// Ancestors reconstructs the natural parent chain of a node from its
// provenance, nearest parent first. The chain ends at the first node
// without a recorded parent. It is independent of where (or whether) the
// node is placed in a tree model.
func Ancestors(n DataNode) []DataNode {
	var chain []DataNode
	seen := map[DataNode]bool{}
	for n != nil {
		p := n.Provenance()
		if p == nil || p.Parent == nil || seen[p.Parent] {
			break
		}
		seen[p.Parent] = true
		chain = append(chain, p.Parent)
		n = p.Parent
	}
	return chain
}
