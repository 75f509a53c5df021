package diff

import (
	"fmt"

	"mend/internal/tree"
)

// Diff matches src against dst and returns the edit script turning src into
// dst. Identical trees yield an empty script.
func Diff(src, dst *tree.Tree, opts Options) (Script, error) {
	m, err := Match(src, dst, opts)
	if err != nil {
		return nil, err
	}
	if m.Len() == src.Len() && tree.Equal(src, dst) {
		return Script{}, nil
	}
	return generate(src, dst, m), nil
}

// Apply replays s on a copy of src. src is not modified.
func Apply(src *tree.Tree, s Script) (*tree.Tree, error) {
	if err := tree.Check(src); err != nil {
		return nil, err
	}
	w := newWorking(src)
	for i, a := range s {
		if err := w.apply(a); err != nil {
			return nil, fmt.Errorf("action %d (%s): %w", i, a, err)
		}
	}
	return w.build()
}
