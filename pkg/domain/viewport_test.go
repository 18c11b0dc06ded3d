package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewportState_Validate(t *testing.T) {
	assert.NoError(t, IdentityViewport.Validate())
	assert.NoError(t, ViewportState{Zoom: 0.25}.Validate())

	for _, zoom := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := ViewportState{Zoom: zoom}.Validate()
		assert.ErrorIs(t, err, ErrInvalidZoom, "zoom %v", zoom)
	}
}

func TestViewportRoot_Contracts(t *testing.T) {
	v := NewViewportRoot("vp")
	assert.True(t, v.Autosize)
	assert.True(t, v.ViewportState().IsIdentity())

	v.SetBounds(Bounds{X: 1, Y: 2, Width: 300, Height: 200})
	v.SetPosition(Point{X: 10, Y: 20})
	assert.Equal(t, Bounds{X: 10, Y: 20, Width: 300, Height: 200}, v.Bounds())

	caps := v.Capabilities()
	assert.True(t, caps.Has(CapViewport))
	assert.True(t, caps.Has(CapResizable))
	assert.False(t, caps.Has(CapMovable))
}

func TestViewportRoot_ElementRoundTrip(t *testing.T) {
	v := NewViewportRoot("vp")
	v.Autosize = false
	v.SetBounds(Bounds{X: 0, Y: 0, Width: 640, Height: 480})
	v.SetViewportState(ViewportState{Scroll: Point{X: 12, Y: 7}, Zoom: 1.5})
	v.Children = []*Element{NewElement("n1", "node")}

	e := v.ToElement()
	assert.Equal(t, VariantViewport, e.Variant())

	back, err := ViewportRootFromElement(e)
	require.NoError(t, err)
	assert.Equal(t, v, back)

	_, err = ViewportRootFromElement(NewElement("n1", "node"))
	assert.Error(t, err)
}
