package domain

import (
	"fmt"
	"math"
)

// ViewportState is the scroll offset and zoom factor of a viewport.
type ViewportState struct {
	Scroll Point   `json:"scroll"`
	Zoom   float64 `json:"zoom"`
}

// IdentityViewport has zoom 1 and no scroll.
var IdentityViewport = ViewportState{Zoom: 1}

// IsIdentity reports whether vs is the identity viewport.
func (vs ViewportState) IsIdentity() bool {
	return vs.Zoom == 1 && vs.Scroll == Origin
}

// Validate checks the zoom invariant: a positive finite number.
func (vs ViewportState) Validate() error {
	if vs.Zoom <= 0 || math.IsNaN(vs.Zoom) || math.IsInf(vs.Zoom, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidZoom, vs.Zoom)
	}
	return nil
}

// BoundsAware is implemented by model elements with movable/resizable bounds.
type BoundsAware interface {
	Bounds() Bounds
	SetBounds(Bounds)
}

// Viewport is implemented by model elements with scroll and zoom.
type Viewport interface {
	ViewportState() ViewportState
	SetViewportState(ViewportState)
}

// ViewportRoot is a root element carrying scroll, zoom and resizable bounds.
// It has no synchronization logic of its own.
type ViewportRoot struct {
	ID       string
	Type     string
	Autosize bool
	X        float64
	Y        float64
	Width    float64
	Height   float64
	Scroll   Point
	Zoom     float64
	Children []*Element
}

var (
	_ BoundsAware = (*ViewportRoot)(nil)
	_ Viewport    = (*ViewportRoot)(nil)
)

// NewViewportRoot returns an autosized root with the identity viewport.
func NewViewportRoot(id string) *ViewportRoot {
	return &ViewportRoot{ID: id, Type: string(VariantViewport), Autosize: true, Zoom: 1}
}

// Bounds returns the root's bounds.
func (v *ViewportRoot) Bounds() Bounds {
	return Bounds{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
}

// SetBounds overwrites position and size.
func (v *ViewportRoot) SetBounds(b Bounds) {
	v.X, v.Y, v.Width, v.Height = b.X, b.Y, b.Width, b.Height
}

// Position returns the root's top-left corner.
func (v *ViewportRoot) Position() Point {
	return Point{X: v.X, Y: v.Y}
}

// SetPosition moves the root.
func (v *ViewportRoot) SetPosition(p Point) {
	v.X, v.Y = p.X, p.Y
}

// ViewportState returns scroll and zoom.
func (v *ViewportRoot) ViewportState() ViewportState {
	return ViewportState{Scroll: v.Scroll, Zoom: v.Zoom}
}

// SetViewportState overwrites scroll and zoom.
func (v *ViewportRoot) SetViewportState(vs ViewportState) {
	v.Scroll = vs.Scroll
	v.Zoom = vs.Zoom
}

// Capabilities is fixed: viewport (scroll+zoom), resizable and bounds-aware.
func (v *ViewportRoot) Capabilities() Capabilities {
	return capsOf(CapViewport, CapResizable, CapBoundsAware)
}

// ToElement converts the root into its schema form.
func (v *ViewportRoot) ToElement() *Element {
	pos := v.Position()
	size := Dimension{Width: v.Width, Height: v.Height}
	scroll := v.Scroll
	e := &Element{
		ID:       v.ID,
		Type:     v.Type,
		Children: v.Children,
		Position: &pos,
		Size:     &size,
		Scroll:   &scroll,
	}
	e.SetZoom(v.Zoom)
	if !v.Autosize {
		e.SetFeature("autosize", false)
	}
	return e
}

// ViewportRootFromElement reads a viewport root from its schema form.
// It fails for elements whose variant is not viewport-capable.
func ViewportRootFromElement(e *Element) (*ViewportRoot, error) {
	vs, ok := e.Viewport()
	if !ok {
		return nil, fmt.Errorf("element %s is not a viewport", e)
	}
	v := &ViewportRoot{
		ID:       e.ID,
		Type:     e.Type,
		Autosize: true,
		Children: e.Children,
	}
	v.SetViewportState(vs)
	if b, ok := e.Bounds(); ok {
		v.SetBounds(b)
	}
	if auto, ok := e.Feature("autosize"); ok {
		if flag, isBool := auto.(bool); isBool {
			v.Autosize = flag
		}
	}
	return v, nil
}
