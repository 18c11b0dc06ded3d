package model

import "github.com/aretw0/diagram/pkg/domain"

// Index maps element ids to elements of one tree snapshot.
// It is stale after any structural mutation that bypasses it.
type Index struct {
	byID   map[string]*domain.Element
	parent map[string]string
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		byID:   make(map[string]*domain.Element),
		parent: make(map[string]string),
	}
}

// IndexOf builds an index over every element reachable from root.
func IndexOf(root *domain.Element) *Index {
	idx := NewIndex()
	idx.Add(root)
	return idx
}

// Add indexes root and all its descendants. Entries with an id that is
// already present are overwritten, so duplicate ids keep the last seen element.
func (idx *Index) Add(root *domain.Element) {
	if root == nil {
		return
	}
	idx.add(root, "")
}

func (idx *Index) add(e *domain.Element, parentID string) {
	idx.byID[e.ID] = e
	if parentID != "" {
		idx.parent[e.ID] = parentID
	} else {
		delete(idx.parent, e.ID)
	}
	for _, c := range e.Children {
		if c != nil {
			idx.add(c, e.ID)
		}
	}
}

// Remove drops e and its descendants from the index.
func (idx *Index) Remove(e *domain.Element) {
	if e == nil {
		return
	}
	delete(idx.byID, e.ID)
	delete(idx.parent, e.ID)
	for _, c := range e.Children {
		idx.Remove(c)
	}
}

// Reset clears the index.
func (idx *Index) Reset() {
	clear(idx.byID)
	clear(idx.parent)
}

// GetByID returns the element with the given id.
func (idx *Index) GetByID(id string) (*domain.Element, bool) {
	e, ok := idx.byID[id]
	return e, ok
}

// ParentOf returns the id of the element's parent. Roots have no parent.
func (idx *Index) ParentOf(id string) (string, bool) {
	p, ok := idx.parent[id]
	return p, ok
}

// Len returns the number of indexed ids.
func (idx *Index) Len() int {
	return len(idx.byID)
}
