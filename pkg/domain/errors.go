package domain

import "errors"

// ErrInvalidZoom is returned when a viewport zoom is not a positive finite number.
var ErrInvalidZoom = errors.New("invalid zoom")

// ErrDuplicateElement is returned when an inserted element id is already in the model.
var ErrDuplicateElement = errors.New("element already exists")

// ErrUnknownParent is returned when an insertion names a parent that is not in the model.
var ErrUnknownParent = errors.New("parent not found")

// ErrElementNotFound is returned when a removal names an element that is not
// in the model, or names the root.
var ErrElementNotFound = errors.New("element not found")

// ErrUnknownAction is returned when an action kind has no registered decoder.
var ErrUnknownAction = errors.New("unknown action kind")
