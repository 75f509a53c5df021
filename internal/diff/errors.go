package diff

import (
	"errors"

	"mend/internal/tree"
)

// ErrInvalidTree is tree.ErrInvalidTree, re-exported for callers of this package.
var ErrInvalidTree = tree.ErrInvalidTree

// ErrInvalidScript reports a script that does not apply to the given tree.
var ErrInvalidScript = errors.New("invalid edit script")
