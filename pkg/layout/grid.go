// Package layout provides reference synchronous layout engines.
//
// The engines only assign positions to bounds-aware elements and sizes to
// elements without a measured size, so they can run both before submission
// and after the client measured the tree.
package layout

import (
	"context"
	"fmt"
	"math"

	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/ports"
)

// Grid places the bounds-aware children of every container on a grid and
// grows the container to fit them.
type Grid struct {
	columns     int
	gap         float64
	padding     float64
	defaultSize domain.Dimension
}

// Option configures a Grid.
type Option func(*Grid)

// WithColumns fixes the number of columns. Zero picks ceil(sqrt(n)).
func WithColumns(n int) Option {
	return func(g *Grid) {
		g.columns = n
	}
}

// WithGap sets the space between cells.
func WithGap(gap float64) Option {
	return func(g *Grid) {
		g.gap = gap
	}
}

// WithPadding sets the space between a container border and its children.
func WithPadding(p float64) Option {
	return func(g *Grid) {
		g.padding = p
	}
}

// WithDefaultSize sets the size given to leaves that have none.
func WithDefaultSize(d domain.Dimension) Option {
	return func(g *Grid) {
		g.defaultSize = d
	}
}

// NewGrid creates a grid layout with 20px gaps, 10px padding and 80x40 leaves.
func NewGrid(opts ...Option) *Grid {
	g := &Grid{
		gap:         20,
		padding:     10,
		defaultSize: domain.Dimension{Width: 80, Height: 40},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Engine adapts the grid to ports.LayoutEngine.
func (g *Grid) Engine() ports.LayoutEngine {
	return func(_ context.Context, root *domain.Element) {
		g.Layout(root)
	}
}

// Layout lays out the tree below root in place.
func (g *Grid) Layout(root *domain.Element) {
	if root == nil {
		return
	}
	g.layout(root, true)
}

// layout returns the size of e after laying out its children.
func (g *Grid) layout(e *domain.Element, isRoot bool) domain.Dimension {
	var cells []*domain.Element
	for _, c := range e.Children {
		if c == nil {
			continue
		}
		if !c.Has(domain.CapBoundsAware) {
			// Edges and other free elements may still contain laid out children.
			g.layout(c, false)
			continue
		}
		size := g.layout(c, false)
		c.Size = &size
		cells = append(cells, c)
	}

	if len(cells) == 0 {
		if e.Size != nil && e.Size.IsValid() {
			return *e.Size
		}
		return g.defaultSize
	}

	cols := g.columns
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(len(cells)))))
	}
	var cell domain.Dimension
	for _, c := range cells {
		cell.Width = math.Max(cell.Width, c.Size.Width)
		cell.Height = math.Max(cell.Height, c.Size.Height)
	}

	for i, c := range cells {
		col, row := i%cols, i/cols
		c.Position = &domain.Point{
			X: g.padding + float64(col)*(cell.Width+g.gap),
			Y: g.padding + float64(row)*(cell.Height+g.gap),
		}
	}

	rows := (len(cells) + cols - 1) / cols
	used := min(cols, len(cells))
	fit := domain.Dimension{
		Width:  2*g.padding + float64(used)*cell.Width + float64(used-1)*g.gap,
		Height: 2*g.padding + float64(rows)*cell.Height + float64(rows-1)*g.gap,
	}
	if isRoot && e.Has(domain.CapBoundsAware) {
		e.Size = &fit
		if e.Position == nil {
			e.Position = &domain.Point{}
		}
	}
	return fit
}

// ByName resolves a layout engine from its configuration name.
// "" and "none" mean no layout engine (nil).
func ByName(name string) (ports.LayoutEngine, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "grid":
		return NewGrid().Engine(), nil
	case "row":
		return NewGrid(WithColumns(math.MaxInt32)).Engine(), nil
	case "column":
		return NewGrid(WithColumns(1)).Engine(), nil
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}
}
