package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/diagram/pkg/domain"
)

// ValidationError represents a single structural problem of a model tree.
type ValidationError struct {
	ElementID string // Offending element ("" when the id itself is missing)
	Reason    string // Human-readable reason for failure
	Value     any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("element %q: %s", e.ElementID, e.Reason)
	}
	return fmt.Sprintf("element %q: %s (got %v)", e.ElementID, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual failures to errors.Is/As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

// Validate checks the structural invariants of a tree: every element has a
// non-empty unique id and a type, viewport zoom is positive and finite, and
// explicit bounds are finite.
//
// The submission path never calls this; it is meant for producers (files,
// adapters, the CLI) that want to reject a tree before handing it over.
func Validate(root *domain.Element) error {
	if root == nil {
		return &AggregateError{Errors: []error{&ValidationError{Reason: "root is missing"}}}
	}

	var errs []error
	seen := make(map[string]bool)
	Walk(root, func(e, _ *domain.Element) bool {
		if e.ID == "" {
			errs = append(errs, &ValidationError{Reason: "empty id", Value: e.Type})
		} else if seen[e.ID] {
			errs = append(errs, &ValidationError{ElementID: e.ID, Reason: "duplicate id"})
		}
		seen[e.ID] = true

		if e.Type == "" {
			errs = append(errs, &ValidationError{ElementID: e.ID, Reason: "empty type"})
		}
		if vs, ok := e.Viewport(); ok {
			if err := vs.Validate(); err != nil {
				errs = append(errs, &ValidationError{ElementID: e.ID, Reason: err.Error(), Value: vs.Zoom})
			}
		}
		if e.Position != nil && (!finite(e.Position.X) || !finite(e.Position.Y)) {
			errs = append(errs, &ValidationError{ElementID: e.ID, Reason: "position is not finite", Value: *e.Position})
		}
		if e.Size != nil && *e.Size != domain.EmptyDimension && !e.Size.IsValid() {
			errs = append(errs, &ValidationError{ElementID: e.ID, Reason: "invalid size", Value: *e.Size})
		}
		return true
	})

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
