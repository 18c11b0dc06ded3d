// Package hover provides a reference popup model factory: a small HTML card
// describing the hovered element.
package hover

import (
	"context"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/ports"
)

// PopupType is the type of the popup roots built here.
const PopupType = "html"

// Factory builds element description popups.
type Factory struct {
	// Features limits the described feature keys. Empty means all of them.
	Features []string
}

// Build implements ports.PopupModelFactory. It declines unknown elements.
func (f Factory) Build(_ context.Context, req domain.RequestPopupModelAction, element *domain.Element) *domain.Element {
	if element == nil {
		return nil
	}
	body := domain.NewElement(element.ID+"-popup-body", string(domain.VariantPreRendered))
	body.SetFeature("code", f.describe(element))

	return domain.NewRoot(element.ID+"-popup", PopupType).Append(body)
}

// PopupModelFactory returns f as a ports.PopupModelFactory.
func (f Factory) PopupModelFactory() ports.PopupModelFactory {
	return f.Build
}

func (f Factory) describe(e *domain.Element) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<div class="diagram-popup"><div class="title">%s</div>`, html.EscapeString(e.ID))
	fmt.Fprintf(&sb, `<div class="type">%s</div>`, html.EscapeString(e.Type))
	if b, ok := e.Bounds(); ok {
		fmt.Fprintf(&sb, `<div class="bounds">%g,%g %gx%g</div>`, b.X, b.Y, b.Width, b.Height)
	}

	keys := make([]string, 0, len(e.Features))
	for k := range e.Features {
		if len(f.Features) == 0 || slices.Contains(f.Features, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, `<div class="feature"><b>%s</b> %s</div>`,
			html.EscapeString(k), html.EscapeString(fmt.Sprint(e.Features[k])))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}
