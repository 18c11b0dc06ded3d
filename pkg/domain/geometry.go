package domain

import "math"

// Point is a position on the diagram canvas.
type Point struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// Origin is the (0,0) point.
var Origin = Point{}

// Add returns the vector sum of p and q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Subtract returns the vector difference p - q.
func (p Point) Subtract(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Dimension is the size of an element.
// A negative width or height marks a size that has not been measured yet.
type Dimension struct {
	Width  float64 `json:"width" yaml:"width" mapstructure:"width"`
	Height float64 `json:"height" yaml:"height" mapstructure:"height"`
}

// EmptyDimension is the "not measured" size.
var EmptyDimension = Dimension{Width: -1, Height: -1}

// IsValid reports whether d is a measured, finite size.
func (d Dimension) IsValid() bool {
	return finite(d.Width) && finite(d.Height) && d.Width >= 0 && d.Height >= 0
}

// Bounds combines a position and a size.
// It is both an element feature and the payload of measurement results.
type Bounds struct {
	X      float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y      float64 `json:"y" yaml:"y" mapstructure:"y"`
	Width  float64 `json:"width" yaml:"width" mapstructure:"width"`
	Height float64 `json:"height" yaml:"height" mapstructure:"height"`
}

// EmptyBounds has an unmeasured size at the origin.
var EmptyBounds = Bounds{Width: -1, Height: -1}

// NewBounds builds bounds from a position and a size.
func NewBounds(p Point, d Dimension) Bounds {
	return Bounds{X: p.X, Y: p.Y, Width: d.Width, Height: d.Height}
}

// Position returns the top-left corner.
func (b Bounds) Position() Point {
	return Point{X: b.X, Y: b.Y}
}

// Size returns the width and height.
func (b Bounds) Size() Dimension {
	return Dimension{Width: b.Width, Height: b.Height}
}

// Center returns the center point.
func (b Bounds) Center() Point {
	return Point{X: b.X + 0.5*b.Width, Y: b.Y + 0.5*b.Height}
}

// Contains reports whether p lies inside b (edges included).
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.X && p.X <= b.X+b.Width && p.Y >= b.Y && p.Y <= b.Y+b.Height
}

// IsValid reports whether b has finite coordinates and a measured size.
func (b Bounds) IsValid() bool {
	return finite(b.X) && finite(b.Y) && b.Size().IsValid()
}

// Combine returns the smallest bounds enclosing a and b.
// An invalid operand is ignored.
func Combine(a, b Bounds) Bounds {
	if !a.IsValid() {
		return b
	}
	if !b.IsValid() {
		return a
	}
	minX := math.Min(a.X, b.X)
	minY := math.Min(a.Y, b.Y)
	maxX := math.Max(a.X+a.Width, b.X+b.Width)
	maxY := math.Max(a.Y+a.Height, b.Y+b.Height)
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
