// Package tree holds the canonical syntax tree model shared by every
// generator and by the diff engine.
//
// Nodes live in an arena owned by the Tree and are addressed by NodeID.
// A Tree is built bottom-up through Builder and is immutable afterwards, so
// it may be read from many goroutines.
package tree
