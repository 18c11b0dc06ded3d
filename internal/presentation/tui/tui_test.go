package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/diagram/internal/presentation/tui"
	"github.com/aretw0/diagram/internal/testutils"
	"github.com/aretw0/diagram/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelMarkdown(t *testing.T) {
	root := testutils.SampleModel()
	root.Children[0].Position = &domain.Point{X: 1, Y: 2}
	root.Children[0].Size = &domain.Dimension{Width: 30, Height: 40}

	md := tui.ModelMarkdown(root)

	assert.True(t, strings.HasPrefix(md, "# Model `ROOT`"))
	assert.Contains(t, md, "Root type **graph**, 5 elements.")
	assert.Contains(t, md, "| · `n1` | node:rect | bounds, resizable, movable, selectable, hoverable | 1,2 30x40 |")
	assert.Contains(t, md, "| · · `l1` | label:text |")
	assert.Contains(t, md, "| · `e1` | edge:straight | selectable, hoverable | - |")
}

func TestModelMarkdown_Viewport(t *testing.T) {
	root := domain.NewRoot("R", "graph")
	root.SetZoom(2)
	assert.Contains(t, tui.ModelMarkdown(root), "zoom 2")
	assert.Equal(t, "# Empty model\n", tui.ModelMarkdown(nil))
}

func TestNewRenderer_Plain(t *testing.T) {
	render := tui.NewRenderer(false)
	out, err := render("# Title")
	require.NoError(t, err)
	assert.Equal(t, "# Title", out)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/")
}
