// Package diff computes structural edit scripts between two syntax trees.
//
// Matching runs in three phases. The top-down phase pairs the largest
// isomorphic subtrees. The bottom-up phase pairs inner nodes whose
// descendants are mostly paired already. A recovery pass below each new
// inner pair maps the leftovers. The edit script is then derived from the
// mapping with the Chawathe et al. algorithm.
//
// Scripts address nodes by working ids: ids of the source tree keep their
// meaning and every Insert allocates the next id after the last one in use.
// Id 0 (tree.NoNode) is a virtual super-root that holds the tree root, so a
// script may replace the root itself.
package diff
