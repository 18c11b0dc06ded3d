package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Variant is the element variant, resolved from the prefix of the element type
// (the part before the first ':'), e.g. "node:circle" is a VariantNode.
type Variant string

const (
	VariantRoot        Variant = "root"
	VariantGraph       Variant = "graph"
	VariantNode        Variant = "node"
	VariantEdge        Variant = "edge"
	VariantLabel       Variant = "label"
	VariantPort        Variant = "port"
	VariantCompartment Variant = "comp"
	VariantViewport    Variant = "viewport"
	VariantPopup       Variant = "popup"
	VariantHTML        Variant = "html"
	VariantPreRendered Variant = "pre-rendered"
	VariantGeneric     Variant = "generic"
)

// Capability is one behavioral tag the rendering layer checks to decide
// which interaction behavior to attach to an element.
type Capability uint16

const (
	CapBoundsAware Capability = 1 << iota
	CapResizable
	CapMovable
	CapSelectable
	CapHoverable
	CapScrollable
	CapZoomable
	CapPopup
)

// CapViewport is the scroll+zoom pair carried by viewport roots.
const CapViewport = CapScrollable | CapZoomable

// Capabilities is a set of Capability flags.
type Capabilities uint16

// Has reports whether every flag in c is present.
func (cs Capabilities) Has(c Capability) bool {
	return uint16(cs)&uint16(c) == uint16(c)
}

// With returns cs extended by c.
func (cs Capabilities) With(c Capability) Capabilities {
	return Capabilities(uint16(cs) | uint16(c))
}

func (cs Capabilities) String() string {
	names := []struct {
		c    Capability
		name string
	}{
		{CapBoundsAware, "bounds"},
		{CapResizable, "resizable"},
		{CapMovable, "movable"},
		{CapSelectable, "selectable"},
		{CapHoverable, "hoverable"},
		{CapScrollable, "scrollable"},
		{CapZoomable, "zoomable"},
		{CapPopup, "popup"},
	}
	var parts []string
	for _, n := range names {
		if cs.Has(n.c) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

func capsOf(cs ...Capability) Capabilities {
	var out Capabilities
	for _, c := range cs {
		out = out.With(c)
	}
	return out
}

// variantCapabilities is the fixed capability table per element variant.
var variantCapabilities = map[Variant]Capabilities{
	VariantRoot:        capsOf(CapBoundsAware),
	VariantGraph:       capsOf(CapBoundsAware, CapResizable, CapViewport),
	VariantViewport:    capsOf(CapBoundsAware, CapResizable, CapViewport),
	VariantNode:        capsOf(CapBoundsAware, CapResizable, CapMovable, CapSelectable, CapHoverable),
	VariantEdge:        capsOf(CapSelectable, CapHoverable),
	VariantLabel:       capsOf(CapBoundsAware, CapSelectable),
	VariantPort:        capsOf(CapBoundsAware, CapSelectable, CapHoverable),
	VariantCompartment: capsOf(CapBoundsAware, CapResizable),
	VariantPopup:       capsOf(CapBoundsAware, CapPopup),
	VariantHTML:        capsOf(CapBoundsAware),
	VariantPreRendered: capsOf(CapBoundsAware),
	VariantGeneric:     capsOf(CapBoundsAware),
}

// VariantOf resolves the variant for an element type string.
func VariantOf(elementType string) Variant {
	prefix := elementType
	if i := strings.IndexByte(elementType, ':'); i >= 0 {
		prefix = elementType[:i]
	}
	k := Variant(prefix)
	if _, ok := variantCapabilities[k]; ok {
		return k
	}
	return VariantGeneric
}

// CapabilitiesOf returns the capability set of a variant.
func CapabilitiesOf(k Variant) Capabilities {
	if cs, ok := variantCapabilities[k]; ok {
		return cs
	}
	return variantCapabilities[VariantGeneric]
}

// Features is the open-ended bag of extra element fields that no variant
// declares explicitly (e.g. "cssClasses", "text", "sourceId").
type Features map[string]any

// Element is an identity-bearing node of a model tree.
// ID must be unique within a tree; Type selects rendering polymorphism.
type Element struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	Children []*Element `json:"children,omitempty"`

	Position *Point     `json:"position,omitempty"`
	Size     *Dimension `json:"size,omitempty"`

	// Scroll and Zoom are only meaningful on viewport-capable roots.
	// A nil Zoom means the identity zoom; an explicit zoom must be positive.
	Scroll *Point   `json:"scroll,omitempty"`
	Zoom   *float64 `json:"zoom,omitempty"`

	// CanvasBounds is set on popup roots to place them on the page.
	CanvasBounds *Bounds `json:"canvasBounds,omitempty"`

	Features Features `json:"-"`
}

// DefaultRootID is the id of the placeholder root every model source starts with.
const DefaultRootID = "ROOT"

// NewElement creates an element with the given id and type.
func NewElement(id, elementType string) *Element {
	return &Element{ID: id, Type: elementType}
}

// NewRoot creates an empty root element.
func NewRoot(id, elementType string) *Element {
	return &Element{ID: id, Type: elementType}
}

// EmptyRoot is the placeholder model before any model was set.
func EmptyRoot() *Element {
	return NewRoot(DefaultRootID, "NONE")
}

// Variant returns the variant of the element.
func (e *Element) Variant() Variant {
	return VariantOf(e.Type)
}

// Capabilities returns the capability set of the element's variant.
func (e *Element) Capabilities() Capabilities {
	return CapabilitiesOf(e.Variant())
}

// Has reports whether the element supports capability c.
func (e *Element) Has(c Capability) bool {
	return e.Capabilities().Has(c)
}

// Bounds returns the element's position and size, if it has both.
func (e *Element) Bounds() (Bounds, bool) {
	if e.Position == nil || e.Size == nil {
		return EmptyBounds, false
	}
	return NewBounds(*e.Position, *e.Size), true
}

// ApplyBounds overwrites position and size from measured bounds, whatever the
// variant. It reports whether the variant declares CapBoundsAware.
func (e *Element) ApplyBounds(b Bounds) bool {
	p := b.Position()
	d := b.Size()
	e.Position = &p
	e.Size = &d
	return e.Has(CapBoundsAware)
}

// Viewport returns the scroll/zoom state of a viewport-capable element.
func (e *Element) Viewport() (ViewportState, bool) {
	if !e.Has(CapViewport) {
		return ViewportState{}, false
	}
	vs := IdentityViewport
	if e.Scroll != nil {
		vs.Scroll = *e.Scroll
	}
	if e.Zoom != nil {
		vs.Zoom = *e.Zoom
	}
	return vs, true
}

// SetZoom sets an explicit zoom.
func (e *Element) SetZoom(zoom float64) {
	e.Zoom = &zoom
}

// Append adds children to the element.
func (e *Element) Append(children ...*Element) *Element {
	e.Children = append(e.Children, children...)
	return e
}

// Feature returns a value from the feature bag.
func (e *Element) Feature(key string) (any, bool) {
	v, ok := e.Features[key]
	return v, ok
}

// SetFeature stores a value in the feature bag.
func (e *Element) SetFeature(key string, value any) {
	if e.Features == nil {
		e.Features = make(Features)
	}
	e.Features[key] = value
}

func (e *Element) String() string {
	return fmt.Sprintf("%s(%s)", e.Type, e.ID)
}

// elementFields lists the JSON keys owned by the struct; everything else goes to Features.
var elementFields = map[string]bool{
	"id": true, "type": true, "children": true, "position": true, "size": true,
	"scroll": true, "zoom": true, "canvasBounds": true,
}

type elementJSON Element

// MarshalJSON flattens the feature bag next to the declared fields.
func (e *Element) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal((*elementJSON)(e))
	if err != nil {
		return nil, err
	}
	if len(e.Features) == 0 {
		return base, nil
	}
	fields := make(map[string]json.RawMessage, len(e.Features)+8)
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	for k, v := range e.Features {
		if elementFields[k] {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("feature %q: %w", k, err)
		}
		fields[k] = raw
	}
	return json.Marshal(fields)
}

// UnmarshalJSON keeps unknown keys in the feature bag.
func (e *Element) UnmarshalJSON(data []byte) error {
	var base elementJSON
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*e = Element(base)
	for k, raw := range fields {
		if elementFields[k] {
			continue
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("feature %q: %w", k, err)
		}
		e.SetFeature(k, v)
	}
	return nil
}
