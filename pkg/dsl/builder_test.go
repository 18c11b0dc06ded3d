package dsl_test

import (
	"testing"

	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/dsl"
	"github.com/aretw0/diagram/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleGraph(t *testing.T) {
	b := dsl.New("ROOT", "graph")

	b.Node("n1").Type("node:rect").At(10, 20).Size(80, 40).Label("Start")
	b.Node("n2").Class("highlight", "big")
	b.Edge("e1", "n1", "n2")

	root, err := b.Build()
	require.NoError(t, err)

	require.Len(t, root.Children, 3)
	n1 := root.Children[0]
	assert.Equal(t, "node:rect", n1.Type)
	bounds, ok := n1.Bounds()
	require.True(t, ok)
	assert.Equal(t, domain.Bounds{X: 10, Y: 20, Width: 80, Height: 40}, bounds)

	require.Len(t, n1.Children, 1)
	label := n1.Children[0]
	assert.Equal(t, "n1_label", label.ID)
	text, _ := label.Feature("text")
	assert.Equal(t, "Start", text)

	classes, _ := root.Children[1].Feature("cssClasses")
	assert.Equal(t, []string{"highlight", "big"}, classes)

	edge := root.Children[2]
	assert.Equal(t, domain.VariantEdge, edge.Variant())
	src, _ := edge.Feature("sourceId")
	assert.Equal(t, "n1", src)
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := dsl.New("ROOT", "graph")
	first := b.Node("n1")
	assert.Same(t, first, b.Add("n1"))
}

func TestBuilder_NestedOutOfOrder(t *testing.T) {
	b := dsl.New("ROOT", "graph")
	b.Add("child").Type("node").In("parent")
	b.Add("parent").Type("comp")

	root, err := b.Build()
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "parent", root.Children[0].ID)
	assert.Equal(t, "child", root.Children[0].Children[0].ID)
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("unknown parent", func(t *testing.T) {
		b := dsl.New("ROOT", "graph")
		b.Node("n1").In("ghost")
		_, err := b.Build()
		assert.ErrorContains(t, err, "unknown parent ghost")
	})

	t.Run("cycle", func(t *testing.T) {
		b := dsl.New("ROOT", "graph")
		b.Node("a").In("b")
		b.Node("b").In("a")
		_, err := b.Build()
		assert.ErrorContains(t, err, "parent cycle")
	})

	t.Run("invalid size", func(t *testing.T) {
		b := dsl.New("ROOT", "graph")
		b.Node("a").Size(-5, 10)
		_, err := b.Build()
		assert.Error(t, err)
	})
}

func TestBuilder_Loader(t *testing.T) {
	b := dsl.New("ROOT", "graph")
	b.Node("n1")
	loader, err := b.Loader()
	require.NoError(t, err)

	ports.RunModelLoaderContract(t, loader, "ROOT")
}

func TestBuilder_BuildIsRepeatable(t *testing.T) {
	b := dsl.New("ROOT", "graph")
	b.Node("n1").Label("x")

	first, err := b.Build()
	require.NoError(t, err)
	second, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotSame(t, first.Children[0], second.Children[0])
}
