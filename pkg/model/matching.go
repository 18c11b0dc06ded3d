package model

import (
	"slices"

	"github.com/aretw0/diagram/pkg/domain"
)

// ApplyMatches patches the tree below root in place, one match at a time in
// the given order. A single index is built per call and kept current while
// the batch is applied, so later matches see the effect of earlier ones.
//
// A match that cannot be applied (unknown parent, element already gone) is a
// no-op. The number of such matches is returned.
func ApplyMatches(root *domain.Element, matches []domain.Match) (skipped int) {
	idx := IndexOf(root)
	for _, m := range matches {
		if !applyMatch(idx, m) {
			skipped++
		}
	}
	return skipped
}

func applyMatch(idx *Index, m domain.Match) bool {
	removed, replaced := false, false
	if m.Left != nil {
		if parent, ok := idx.GetByID(m.LeftParentID); ok {
			if i := childIndex(parent, m.Left.ID); i >= 0 {
				old := parent.Children[i]
				if m.Right != nil && m.LeftParentID == m.RightParentID {
					// Same parent: keep the child's position.
					parent.Children[i] = m.Right
					replaced = true
				} else {
					parent.Children = slices.Delete(parent.Children, i, i+1)
				}
				idx.Remove(old)
				if replaced {
					idx.add(m.Right, parent.ID)
				}
				removed = true
			}
		}
	}

	if m.Right == nil {
		return removed
	}
	if replaced {
		return true
	}

	parent, ok := idx.GetByID(m.RightParentID)
	if !ok {
		return false
	}
	parent.Children = append(parent.Children, m.Right)
	idx.add(m.Right, parent.ID)
	return true
}

func childIndex(parent *domain.Element, id string) int {
	return slices.IndexFunc(parent.Children, func(c *domain.Element) bool {
		return c != nil && c.ID == id
	})
}
