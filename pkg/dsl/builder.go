package dsl

import (
	"fmt"

	"github.com/aretw0/diagram/pkg/adapters/memory"
	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/model"
)

// Builder manages the model tree construction.
type Builder struct {
	root     *domain.Element
	elements map[string]*ElementBuilder
	order    []string
}

// New creates a new tree builder for a root of the given type (e.g. "graph").
func New(rootID, rootType string) *Builder {
	return &Builder{
		root:     domain.NewRoot(rootID, rootType),
		elements: make(map[string]*ElementBuilder),
	}
}

// Root exposes the root element for viewport settings.
func (b *Builder) Root() *domain.Element {
	return b.root
}

// Add creates a new element of a generic type under the root.
// If the element already exists, it returns the existing builder.
func (b *Builder) Add(id string) *ElementBuilder {
	if eb, ok := b.elements[id]; ok {
		return eb
	}
	eb := &ElementBuilder{
		element: domain.NewElement(id, string(domain.VariantGeneric)),
		builder: b,
	}
	b.elements[id] = eb
	b.order = append(b.order, id)
	return eb
}

// Node adds an element of type "node".
func (b *Builder) Node(id string) *ElementBuilder {
	return b.Add(id).Type(string(domain.VariantNode))
}

// Edge adds an element of type "edge" connecting source to target.
func (b *Builder) Edge(id, source, target string) *ElementBuilder {
	return b.Add(id).
		Type(string(domain.VariantEdge)).
		Feature("sourceId", source).
		Feature("targetId", target)
}

// Build assembles the tree. Children keep the order in which they were added.
// It fails on unknown parents, parent cycles and structural validation errors.
func (b *Builder) Build() (*domain.Element, error) {
	root := model.Clone(b.root)
	root.Children = nil

	built := make(map[string]*domain.Element, len(b.order))
	for _, id := range b.order {
		e := model.Clone(b.elements[id].element)
		e.Children = nil
		built[id] = e
	}

	for _, id := range b.order {
		if err := b.checkAncestry(id); err != nil {
			return nil, err
		}
		parentID := b.elements[id].parentID
		switch {
		case parentID == "" || parentID == root.ID:
			root.Append(built[id])
		default:
			parent, ok := built[parentID]
			if !ok {
				return nil, fmt.Errorf("element %s: unknown parent %s", id, parentID)
			}
			parent.Append(built[id])
		}
	}

	if err := model.Validate(root); err != nil {
		return nil, err
	}
	return root, nil
}

// Loader builds the tree and serves it through an in-memory loader.
func (b *Builder) Loader() (*memory.Loader, error) {
	root, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return memory.NewLoader(root.ID, root), nil
}

func (b *Builder) checkAncestry(id string) error {
	seen := map[string]bool{id: true}
	for cur := b.elements[id].parentID; cur != "" && cur != b.root.ID; {
		if seen[cur] {
			return fmt.Errorf("element %s: parent cycle through %s", id, cur)
		}
		seen[cur] = true
		next, ok := b.elements[cur]
		if !ok {
			return nil
		}
		cur = next.parentID
	}
	return nil
}
