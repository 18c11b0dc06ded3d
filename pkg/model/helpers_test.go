package model_test

import (
	"strings"

	"github.com/aretw0/diagram/pkg/domain"
)

// shape renders the id structure of a tree, e.g. "ROOT(a(x),b)".
func shape(e *domain.Element) string {
	if e == nil {
		return "<nil>"
	}
	if len(e.Children) == 0 {
		return e.ID
	}
	parts := make([]string, 0, len(e.Children))
	for _, c := range e.Children {
		parts = append(parts, shape(c))
	}
	return e.ID + "(" + strings.Join(parts, ",") + ")"
}

func node(id string, children ...*domain.Element) *domain.Element {
	return domain.NewElement(id, "node").Append(children...)
}

func root(children ...*domain.Element) *domain.Element {
	return domain.NewRoot(domain.DefaultRootID, "graph").Append(children...)
}
