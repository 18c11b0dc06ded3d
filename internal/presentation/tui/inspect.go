package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/model"
)

// ModelMarkdown describes a model tree as a markdown report: a summary line
// and one table row per element, in pre-order.
func ModelMarkdown(root *domain.Element) string {
	var sb strings.Builder
	if root == nil {
		sb.WriteString("# Empty model\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "# Model `%s`\n\n", root.ID)
	fmt.Fprintf(&sb, "Root type **%s**, %d elements.\n\n", root.Type, model.Count(root))
	if vs, ok := root.Viewport(); ok && !vs.IsIdentity() {
		fmt.Fprintf(&sb, "Viewport: scroll (%g, %g), zoom %g.\n\n", vs.Scroll.X, vs.Scroll.Y, vs.Zoom)
	}

	sb.WriteString("| Element | Type | Capabilities | Bounds |\n")
	sb.WriteString("|---|---|---|---|\n")
	depth := map[string]int{root.ID: 0}
	model.Walk(root, func(e, parent *domain.Element) bool {
		if parent != nil {
			depth[e.ID] = depth[parent.ID] + 1
		}
		fmt.Fprintf(&sb, "| %s`%s` | %s | %s | %s |\n",
			strings.Repeat("· ", depth[e.ID]), e.ID, e.Type, capabilitiesCell(e), boundsCell(e))
		return true
	})
	return sb.String()
}

func boundsCell(e *domain.Element) string {
	b, ok := e.Bounds()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%g,%g %gx%g", b.X, b.Y, b.Width, b.Height)
}

// Capability names are joined with '|', which would split a table cell.
func capabilitiesCell(e *domain.Element) string {
	return strings.ReplaceAll(e.Capabilities().String(), "|", ", ")
}
