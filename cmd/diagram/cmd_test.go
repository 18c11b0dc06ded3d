package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/diagram"
	"github.com/aretw0/diagram/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
id: ROOT
type: graph
children:
  - id: n1
    type: node:rect
    children:
      - id: l1
        type: label:text
        text: first
  - id: n2
    type: node:circle
  - id: e1
    type: edge:straight
    sourceId: n1
    targetId: n2
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "diagram version "+diagram.Version+"\n", out)
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid model", func(t *testing.T) {
		path := testutils.WriteModelFile(t, "model.yaml", sampleYAML)
		out, err := execute(t, "validate", path)
		require.NoError(t, err)
		assert.Equal(t, "Model is valid (5 elements)\n", out)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		path := testutils.WriteModelFile(t, "model.json",
			`{"id":"R","type":"graph","children":[{"id":"a","type":"node"},{"id":"a","type":""}]}`)
		out, err := execute(t, "validate", path)
		require.Error(t, err)
		assert.Contains(t, out, "is invalid")
		assert.Contains(t, out, `element "a": duplicate id`)
		assert.Contains(t, out, `element "a": empty type`)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := testutils.WriteModelFile(t, "model.txt", "id: R")
		_, err := execute(t, "validate", path)
		assert.Error(t, err)
	})
}

func TestGraphCommand(t *testing.T) {
	path := testutils.WriteModelFile(t, "model.yaml", sampleYAML)

	out, err := execute(t, "graph", path, "--highlight", "n1,n2", "--focus", "n2")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, "class n1 highlighted;")
	assert.Contains(t, out, "class n2 focused;")
	assert.Contains(t, out, "-->")
}

func TestInspectCommand(t *testing.T) {
	path := testutils.WriteModelFile(t, "model.yaml", sampleYAML)

	out, err := execute(t, "inspect", path, "--plain", "--layout", "grid")
	require.NoError(t, err)
	assert.Contains(t, out, "# Model `ROOT`")
	assert.Contains(t, out, "5 elements")
	assert.Contains(t, out, "`n2`")

	_, err = execute(t, "inspect", path, "--plain", "--layout", "spiral")
	assert.ErrorContains(t, err, "unknown layout")
}
