package model

import (
	"reflect"

	"github.com/aretw0/diagram/pkg/domain"
)

// ComputeMatches derives the matches that turn left into right when passed to
// ApplyMatches. Both roots must share id and shallow fields; otherwise no
// incremental patch exists and false is returned.
//
// Removals come first, followed by insertions, moves and replacements in the
// pre-order of right. Unchanged elements are recursed into; an element whose
// own fields changed is replaced together with its subtree. Reordering among
// unchanged siblings is not represented.
func ComputeMatches(left, right *domain.Element) ([]domain.Match, bool) {
	if left == nil || right == nil || left.ID != right.ID || !shallowEqual(left, right) {
		return nil, false
	}
	d := &differ{
		left:     IndexOf(left),
		right:    IndexOf(right),
		retained: map[string]bool{left.ID: true},
		carried:  make(map[string]bool),
	}
	d.visitRight(right)
	d.visitLeft(left)
	return append(d.removals, d.changes...), true
}

type differ struct {
	left, right *Index
	// retained holds ids that keep both their parent and their own fields.
	retained map[string]bool
	// carried holds ids that travel inside an inserted or replaced subtree.
	carried  map[string]bool
	removals []domain.Match
	changes  []domain.Match
}

func (d *differ) visitRight(parent *domain.Element) {
	for _, r := range parent.Children {
		if r == nil {
			continue
		}
		l, ok := d.left.GetByID(r.ID)
		if !ok {
			d.changes = append(d.changes, domain.Match{Right: r, RightParentID: parent.ID})
			d.carry(r)
			continue
		}
		lp, _ := d.left.ParentOf(r.ID)
		if lp != parent.ID || !shallowEqual(l, r) {
			d.changes = append(d.changes, domain.Match{
				Left: l, LeftParentID: lp,
				Right: r, RightParentID: parent.ID,
			})
			d.carry(r)
			continue
		}
		d.retained[r.ID] = true
		d.visitRight(r)
	}
}

func (d *differ) visitLeft(parent *domain.Element) {
	for _, l := range parent.Children {
		if l == nil {
			continue
		}
		if d.retained[l.ID] {
			d.visitLeft(l)
			continue
		}
		if _, ok := d.right.GetByID(l.ID); !ok || d.carried[l.ID] {
			d.removals = append(d.removals, domain.Match{Left: l, LeftParentID: parent.ID})
		}
	}
}

// carry marks the descendants of e; e itself is handled by its own match.
func (d *differ) carry(e *domain.Element) {
	for _, c := range e.Children {
		Walk(c, func(x, _ *domain.Element) bool {
			d.carried[x.ID] = true
			return true
		})
	}
}

func shallowEqual(a, b *domain.Element) bool {
	ac, bc := *a, *b
	ac.Children, bc.Children = nil, nil
	return reflect.DeepEqual(ac, bc)
}
