package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBounds_Accessors(t *testing.T) {
	b := Bounds{X: 10, Y: 20, Width: 100, Height: 50}

	assert.Equal(t, Point{X: 10, Y: 20}, b.Position())
	assert.Equal(t, Dimension{Width: 100, Height: 50}, b.Size())
	assert.Equal(t, Point{X: 60, Y: 45}, b.Center())
	assert.True(t, b.Contains(Point{X: 10, Y: 20}))
	assert.True(t, b.Contains(Point{X: 110, Y: 70}))
	assert.False(t, b.Contains(Point{X: 111, Y: 70}))
	assert.Equal(t, b, NewBounds(b.Position(), b.Size()))
}

func TestBounds_IsValid(t *testing.T) {
	tests := []struct {
		name string
		b    Bounds
		want bool
	}{
		{"Measured", Bounds{Width: 1, Height: 1}, true},
		{"Zero Size", Bounds{}, true},
		{"Empty", EmptyBounds, false},
		{"NaN Position", Bounds{X: math.NaN(), Width: 1, Height: 1}, false},
		{"Infinite Width", Bounds{Width: math.Inf(1), Height: 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.b.IsValid())
		})
	}
}

func TestCombine(t *testing.T) {
	a := Bounds{X: 0, Y: 0, Width: 10, Height: 10}
	b := Bounds{X: 5, Y: -5, Width: 10, Height: 10}

	assert.Equal(t, Bounds{X: 0, Y: -5, Width: 15, Height: 15}, Combine(a, b))
	assert.Equal(t, a, Combine(a, EmptyBounds))
	assert.Equal(t, b, Combine(EmptyBounds, b))
}

func TestPoint_Arithmetic(t *testing.T) {
	p := Point{X: 3, Y: 4}
	q := Point{X: 1, Y: 1}
	assert.Equal(t, Point{X: 4, Y: 5}, p.Add(q))
	assert.Equal(t, Point{X: 2, Y: 3}, p.Subtract(q))
	assert.Equal(t, Origin, p.Subtract(p))
}
