package ports

import (
	"context"
	"testing"

	"github.com/aretw0/diagram/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunModelLoaderContract runs a suite of tests to verify that a ModelLoader implementation
// adheres to the defined interface contract. wantRootID is the root id of the fixture.
func RunModelLoaderContract(t *testing.T, loader ModelLoader, wantRootID string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Load returns a valid tree", func(t *testing.T) {
		root, err := loader.Load(ctx)
		require.NoError(t, err, "Load should not return error")
		require.NotNil(t, root)
		assert.Equal(t, wantRootID, root.ID)
		assert.NoError(t, model.Validate(root))
	})

	t.Run("Loads are independent", func(t *testing.T) {
		first, err := loader.Load(ctx)
		require.NoError(t, err)
		second, err := loader.Load(ctx)
		require.NoError(t, err)

		require.Equal(t, first, second)
		assert.NotSame(t, first, second, "callers own the returned tree")

		first.Append(model.Clone(first))
		assert.NotEqual(t, model.Count(first), model.Count(second))
	})
}
