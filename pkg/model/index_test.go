package model_test

import (
	"testing"

	"github.com/aretw0/diagram/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Add(t *testing.T) {
	tree := root(node("a", node("x")), node("b"))
	idx := model.IndexOf(tree)

	assert.Equal(t, 4, idx.Len())
	for _, id := range []string{"ROOT", "a", "x", "b"} {
		_, ok := idx.GetByID(id)
		assert.True(t, ok, id)
	}
	_, ok := idx.GetByID("missing")
	assert.False(t, ok)

	p, ok := idx.ParentOf("x")
	require.True(t, ok)
	assert.Equal(t, "a", p)

	_, ok = idx.ParentOf("ROOT")
	assert.False(t, ok, "roots have no parent")
}

func TestIndex_DuplicateKeepsLastSeen(t *testing.T) {
	first := node("dup")
	second := node("dup")
	tree := root(first, second)

	idx := model.IndexOf(tree)
	got, ok := idx.GetByID("dup")
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 2, idx.Len())
}

func TestIndex_RemoveDropsSubtree(t *testing.T) {
	a := node("a", node("x", node("y")))
	tree := root(a, node("b"))
	idx := model.IndexOf(tree)

	idx.Remove(a)

	for _, id := range []string{"a", "x", "y"} {
		_, ok := idx.GetByID(id)
		assert.False(t, ok, id)
	}
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, "ROOT(a(x(y)),b)", shape(tree), "the tree is never mutated")
}

func TestIndex_Reset(t *testing.T) {
	idx := model.IndexOf(root(node("a")))
	idx.Reset()
	assert.Zero(t, idx.Len())

	idx.Add(nil)
	assert.Zero(t, idx.Len())
}
