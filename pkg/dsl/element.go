package dsl

import "github.com/aretw0/diagram/pkg/domain"

// ElementBuilder provides a fluent API for configuring an element.
type ElementBuilder struct {
	element  *domain.Element
	parentID string
	builder  *Builder
}

// Type sets the element type, e.g. "node:circle".
func (e *ElementBuilder) Type(elementType string) *ElementBuilder {
	e.element.Type = elementType
	return e
}

// In places the element under parentID instead of the root.
func (e *ElementBuilder) In(parentID string) *ElementBuilder {
	e.parentID = parentID
	return e
}

// At sets the position.
func (e *ElementBuilder) At(x, y float64) *ElementBuilder {
	e.element.Position = &domain.Point{X: x, Y: y}
	return e
}

// Size sets the dimension.
func (e *ElementBuilder) Size(width, height float64) *ElementBuilder {
	e.element.Size = &domain.Dimension{Width: width, Height: height}
	return e
}

// Feature stores an extra field in the element's feature bag.
func (e *ElementBuilder) Feature(key string, value any) *ElementBuilder {
	e.element.SetFeature(key, value)
	return e
}

// Class appends CSS classes.
func (e *ElementBuilder) Class(classes ...string) *ElementBuilder {
	var current []string
	if v, ok := e.element.Feature("cssClasses"); ok {
		current, _ = v.([]string)
	}
	return e.Feature("cssClasses", append(current, classes...))
}

// Label adds a text label child with id "<element id>_label".
func (e *ElementBuilder) Label(text string) *ElementBuilder {
	e.builder.Add(e.element.ID+"_label").
		Type("label:text").
		Feature("text", text).
		In(e.element.ID)
	return e
}

// Done returns the parent builder, for chaining several elements.
func (e *ElementBuilder) Done() *Builder {
	return e.builder
}
