package tree

import (
	"mend/internal/source"
)

// NodeID identifies a node inside one Tree. IDs are 1-based indices into the node slice.
type NodeID uint32

const NoNode NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNode }

// Node is one syntax tree vertex. Type is the grammar category, Label the
// token text for identifiers, literals and operators (empty otherwise).
type Node struct {
	Type     string
	Label    string
	Span     source.Span
	Parent   NodeID
	Children []NodeID

	// derived by Builder.Finish
	height int
	size   int
	depth  int
	hash   uint64
	pre    int
	post   int
}

// Ref records which unit version a tree was produced from.
type Ref struct {
	Unit string
	Hash [32]byte
}

// RefOf builds the Ref for a unit.
func RefOf(u *source.Unit) Ref {
	if u == nil {
		return Ref{}
	}
	return Ref{Unit: u.QualifiedName, Hash: u.Hash()}
}
