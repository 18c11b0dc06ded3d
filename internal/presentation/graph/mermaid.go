package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/diagram/pkg/domain"
)

// GraphOverlay marks elements to emphasize on the chart.
type GraphOverlay struct {
	Highlighted []string
	Focused     string
}

// GenerateMermaid produces a Mermaid flowchart of a model tree.
// The root is the canvas and is not drawn. Elements with children become
// subgraphs, labels are folded into their parent's caption, and edges are
// drawn from their sourceId/targetId features. Shapes follow the type:
// - node:circle: ((Circle))
// - node:diamond: {Rhombus}
// - port: ([Stadium])
// - html, pre-rendered: [/Parallelogram/]
// - Default: [Rectangle]
func GenerateMermaid(root *domain.Element, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if root == nil {
		return sb.String()
	}

	var edges []*domain.Element
	for _, child := range root.Children {
		writeElement(&sb, child, 1, &edges)
	}
	for _, edge := range edges {
		writeEdge(&sb, edge)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef highlighted fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef focused fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Highlighted {
			safeID := sanitizeMermaidID(id)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s highlighted;\n", safeID)
			}
		}
		if overlay.Focused != "" {
			fmt.Fprintf(&sb, "    class %s focused;\n", sanitizeMermaidID(overlay.Focused))
		}
	}

	return sb.String()
}

func writeElement(sb *strings.Builder, e *domain.Element, depth int, edges *[]*domain.Element) {
	switch e.Variant() {
	case domain.VariantEdge:
		*edges = append(*edges, e)
		return
	case domain.VariantLabel:
		return
	}

	indent := strings.Repeat("    ", depth)
	safeID := sanitizeMermaidID(e.ID)
	caption := quote(Caption(e))

	if hasNested(e) {
		fmt.Fprintf(sb, "%ssubgraph %s[\"%s\"]\n", indent, safeID, caption)
		for _, child := range e.Children {
			writeElement(sb, child, depth+1, edges)
		}
		fmt.Fprintf(sb, "%send\n", indent)
		return
	}

	opener, closer := shapeOf(e)
	fmt.Fprintf(sb, "%s%s%s\"%s\"%s\n", indent, safeID, opener, caption, closer)
}

func writeEdge(sb *strings.Builder, e *domain.Element) {
	source, _ := e.Features["sourceId"].(string)
	target, _ := e.Features["targetId"].(string)
	if source == "" || target == "" {
		return
	}

	arrow := "-->"
	if text := labelText(e); text != "" {
		arrow = fmt.Sprintf("-- \"%s\" -->", quote(text))
	}
	fmt.Fprintf(sb, "    %s %s %s\n", sanitizeMermaidID(source), arrow, sanitizeMermaidID(target))
}

// Caption is the display text of an element: its first label child, its own
// text feature, or its id.
func Caption(e *domain.Element) string {
	if text := labelText(e); text != "" {
		return text
	}
	if text, ok := e.Features["text"].(string); ok && text != "" {
		return text
	}
	return e.ID
}

func labelText(e *domain.Element) string {
	for _, child := range e.Children {
		if child.Variant() != domain.VariantLabel {
			continue
		}
		if text, ok := child.Features["text"].(string); ok {
			return text
		}
	}
	return ""
}

func hasNested(e *domain.Element) bool {
	for _, child := range e.Children {
		if child.Variant() != domain.VariantLabel {
			return true
		}
	}
	return false
}

func shapeOf(e *domain.Element) (string, string) {
	switch {
	case strings.HasSuffix(e.Type, ":circle"):
		return "((", "))"
	case strings.HasSuffix(e.Type, ":diamond"):
		return "{", "}"
	case e.Variant() == domain.VariantPort:
		return "([", "])"
	case e.Variant() == domain.VariantHTML, e.Variant() == domain.VariantPreRendered:
		return "[/", "/]"
	}
	return "[", "]"
}

// quote escapes double quotes for Mermaid labels.
func quote(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(
		".", "_",
		"-", "_",
		"/", "_",
		"\\", "_",
		":", "_",
		" ", "_",
	).Replace(id)
}
