package tree_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mend/internal/source"
	"mend/internal/tree"
)

// sample builds (Block (ReturnStatement (NumberLiteral "1")) (ExpressionStatement (SimpleName "x")))
func sample(t *testing.T, lit string) *tree.Tree {
	t.Helper()
	b := tree.NewBuilder(0)
	n := b.Add("NumberLiteral", lit, source.Span{})
	r := b.Add("ReturnStatement", "", source.Span{}, n)
	x := b.Add("SimpleName", "x", source.Span{})
	e := b.Add("ExpressionStatement", "", source.Span{}, x)
	root := b.Add("Block", "", source.Span{}, r, e)
	tr, err := b.Finish(root)
	require.NoError(t, err)
	return tr
}

func TestTree_Metrics(t *testing.T) {
	tr := sample(t, "1")
	root := tr.Root()
	assert.Equal(t, 5, tr.Len())
	assert.Equal(t, 3, tr.Height(root))
	assert.Equal(t, 5, tr.Size(root))
	assert.Equal(t, 0, tr.Depth(root))

	ret := tr.Children(root)[0]
	lit := tr.Children(ret)[0]
	assert.Equal(t, "ReturnStatement", tr.Type(ret))
	assert.Equal(t, 1, tr.Height(lit))
	assert.Equal(t, 2, tr.Depth(lit))
	assert.Equal(t, ret, tr.Parent(lit))
	assert.Equal(t, 0, tr.ChildIndex(ret))
	assert.Equal(t, -1, tr.ChildIndex(root))
	assert.True(t, tr.IsAncestor(root, lit))
	assert.False(t, tr.IsAncestor(lit, root))
	assert.Equal(t, []tree.NodeID{ret, root}, tr.Ancestors(lit))
	require.NoError(t, tr.Validate())
}

func TestTree_Orders(t *testing.T) {
	tr := sample(t, "1")
	types := func(ids []tree.NodeID) []string {
		out := make([]string, len(ids))
		for i, id := range ids {
			out[i] = tr.Type(id)
		}
		return out
	}
	if d := cmp.Diff([]string{"Block", "ReturnStatement", "NumberLiteral", "ExpressionStatement", "SimpleName"}, types(tr.PreOrder())); d != "" {
		t.Errorf("preorder mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]string{"NumberLiteral", "ReturnStatement", "SimpleName", "ExpressionStatement", "Block"}, types(tr.PostOrder())); d != "" {
		t.Errorf("postorder mismatch (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]string{"Block", "ReturnStatement", "ExpressionStatement", "NumberLiteral", "SimpleName"}, types(tr.BreadthFirst())); d != "" {
		t.Errorf("bfs mismatch (-want +got):\n%s", d)
	}
	ret := tr.Children(tr.Root())[0]
	assert.Len(t, tr.Descendants(tr.Root()), 4)
	assert.Len(t, tr.Descendants(ret), 1)
	for i, id := range tr.PreOrder() {
		assert.Equal(t, i, tr.PreIndex(id))
	}
}

func TestTree_EqualAndIsomorphic(t *testing.T) {
	a, b, c := sample(t, "1"), sample(t, "1"), sample(t, "2")
	assert.True(t, tree.Equal(a, b))
	assert.False(t, tree.Equal(a, c))
	assert.Equal(t, a.Hash(a.Root()), b.Hash(b.Root()))
	assert.NotEqual(t, a.Hash(a.Root()), c.Hash(c.Root()))

	// правое поддерево одинаково в a и c
	ea, ec := a.Children(a.Root())[1], c.Children(c.Root())[1]
	assert.True(t, a.Isomorphic(ea, c, ec))
	assert.False(t, a.Isomorphic(a.Root(), c, c.Root()))
}

func TestTree_String(t *testing.T) {
	tr := sample(t, "1")
	assert.Equal(t, `(Block (ReturnStatement (NumberLiteral "1")) (ExpressionStatement (SimpleName "x")))`, tr.String())
}

func TestBuilder_Invalid(t *testing.T) {
	t.Run("two parents", func(t *testing.T) {
		b := tree.NewBuilder(0)
		x := b.Add("SimpleName", "x", source.Span{})
		p1 := b.Add("A", "", source.Span{}, x)
		p2 := b.Add("B", "", source.Span{}, x)
		root := b.Add("R", "", source.Span{}, p1, p2)
		_, err := b.Finish(root)
		assert.True(t, errors.Is(err, tree.ErrInvalidTree))
	})
	t.Run("unreachable", func(t *testing.T) {
		b := tree.NewBuilder(0)
		b.Add("Orphan", "", source.Span{})
		root := b.Add("R", "", source.Span{})
		_, err := b.Finish(root)
		assert.ErrorIs(t, err, tree.ErrInvalidTree)
	})
	t.Run("unknown root", func(t *testing.T) {
		b := tree.NewBuilder(0)
		_, err := b.Finish(7)
		assert.ErrorIs(t, err, tree.ErrInvalidTree)
	})
	t.Run("nil", func(t *testing.T) {
		assert.ErrorIs(t, tree.Check(nil), tree.ErrInvalidTree)
	})
}
