package ports

import (
	"context"

	"github.com/aretw0/diagram/pkg/domain"
)

// LayoutEngine computes element bounds synchronously, mutating root in place.
// It must be idempotent: the model source may run it more than once per tree.
type LayoutEngine func(ctx context.Context, root *domain.Element)

// PopupModelFactory builds the popup tree for a request.
// element is nil when the requested id is not in the current model.
// Returning nil declines the request.
type PopupModelFactory func(ctx context.Context, req domain.RequestPopupModelAction, element *domain.Element) *domain.Element
