package model

import (
	"maps"

	"github.com/aretw0/diagram/pkg/domain"
)

// Walk visits root and its descendants in pre-order.
// Returning false from fn skips the children of the visited element.
func Walk(root *domain.Element, fn func(e *domain.Element, parent *domain.Element) bool) {
	walk(root, nil, fn)
}

func walk(e, parent *domain.Element, fn func(*domain.Element, *domain.Element) bool) {
	if e == nil {
		return
	}
	if !fn(e, parent) {
		return
	}
	for _, c := range e.Children {
		walk(c, e, fn)
	}
}

// FindElement returns the first element with the given id, or nil.
func FindElement(root *domain.Element, id string) *domain.Element {
	var found *domain.Element
	Walk(root, func(e, _ *domain.Element) bool {
		if found != nil {
			return false
		}
		if e.ID == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// Count returns the number of elements in the tree.
func Count(root *domain.Element) int {
	n := 0
	Walk(root, func(*domain.Element, *domain.Element) bool {
		n++
		return true
	})
	return n
}

// Clone returns a deep copy of the tree.
func Clone(e *domain.Element) *domain.Element {
	if e == nil {
		return nil
	}
	c := *e
	if e.Position != nil {
		p := *e.Position
		c.Position = &p
	}
	if e.Size != nil {
		s := *e.Size
		c.Size = &s
	}
	if e.Scroll != nil {
		s := *e.Scroll
		c.Scroll = &s
	}
	if e.Zoom != nil {
		z := *e.Zoom
		c.Zoom = &z
	}
	if e.CanvasBounds != nil {
		b := *e.CanvasBounds
		c.CanvasBounds = &b
	}
	// Feature values are shared: the bag is treated as immutable data.
	if e.Features != nil {
		c.Features = maps.Clone(e.Features)
	}
	if e.Children != nil {
		c.Children = make([]*domain.Element, len(e.Children))
		for i, child := range e.Children {
			c.Children[i] = Clone(child)
		}
	}
	return &c
}
