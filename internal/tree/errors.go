package tree

import "errors"

// ErrInvalidTree reports a tree that is nil, unfinished or structurally broken.
var ErrInvalidTree = errors.New("invalid syntax tree")
