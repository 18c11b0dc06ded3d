package domain

// Action is a discriminated message of the synchronization protocol.
type Action interface {
	Kind() string
}

// Standard Action Kinds (wire names).
const (
	// KindRequestModel asks the model source to (re)submit its current model.
	KindRequestModel = "requestModel"

	// KindSetModel pushes a whole new tree to the rendering layer.
	KindSetModel = "setModel"

	// KindUpdateModel pushes a replacement tree or a match list to the rendering layer.
	KindUpdateModel = "updateModel"

	// KindRequestBounds asks the rendering layer to measure a candidate tree.
	KindRequestBounds = "requestBounds"

	// KindComputedBounds carries measurement results back to the model source.
	KindComputedBounds = "computedBounds"

	// KindRequestPopupModel asks for an auxiliary popup tree for one element.
	KindRequestPopupModel = "requestPopupModel"

	// KindSetPopupModel pushes a popup tree to the rendering layer.
	KindSetPopupModel = "setPopupModel"
)

// RequestModelAction triggers re-submission of the current root as a fresh model.
type RequestModelAction struct {
	Options map[string]string `json:"options,omitempty" mapstructure:"options"`
}

func (RequestModelAction) Kind() string { return KindRequestModel }

// SetModelAction replaces the rendered tree.
type SetModelAction struct {
	NewRoot *Element `json:"newRoot" mapstructure:"newRoot"`
}

func (SetModelAction) Kind() string { return KindSetModel }

// UpdateModelAction updates the rendered tree, either with a full
// replacement root or with a match list for incremental patching.
type UpdateModelAction struct {
	NewRoot *Element `json:"newRoot,omitempty" mapstructure:"newRoot"`
	Matches []Match  `json:"matches,omitempty" mapstructure:"matches"`
	Animate bool     `json:"animate,omitempty" mapstructure:"animate"`
}

func (UpdateModelAction) Kind() string { return KindUpdateModel }

// RequestBoundsAction asks the rendering layer to measure NewRoot.
// The response must echo RequestID as its ResponseID.
type RequestBoundsAction struct {
	NewRoot   *Element `json:"newRoot" mapstructure:"newRoot"`
	RequestID string   `json:"requestId,omitempty" mapstructure:"requestId"`
}

func (RequestBoundsAction) Kind() string { return KindRequestBounds }

// ElementAndBounds is one measurement result.
type ElementAndBounds struct {
	ElementID string `json:"elementId" mapstructure:"elementId"`
	NewBounds Bounds `json:"newBounds" mapstructure:"newBounds"`
}

// ComputedBoundsAction carries measured bounds for a previous RequestBoundsAction.
type ComputedBoundsAction struct {
	Bounds     []ElementAndBounds `json:"bounds" mapstructure:"bounds"`
	ResponseID string             `json:"responseId,omitempty" mapstructure:"responseId"`
}

func (ComputedBoundsAction) Kind() string { return KindComputedBounds }

// RequestPopupModelAction asks for a popup for ElementID, placed at Bounds.
type RequestPopupModelAction struct {
	ElementID string `json:"elementId" mapstructure:"elementId"`
	Bounds    Bounds `json:"bounds" mapstructure:"bounds"`
}

func (RequestPopupModelAction) Kind() string { return KindRequestPopupModel }

// SetPopupModelAction pushes a popup tree to the rendering layer.
type SetPopupModelAction struct {
	NewRoot *Element `json:"newRoot" mapstructure:"newRoot"`
}

func (SetPopupModelAction) Kind() string { return KindSetPopupModel }

// ElementInsertion is one input of an add-elements request.
// An empty ParentID means the current root.
type ElementInsertion struct {
	Element  *Element `json:"element"`
	ParentID string   `json:"parentId,omitempty"`
}

// ElementRemoval is one input of a remove-elements request.
// An empty ParentID means the current root.
type ElementRemoval struct {
	ElementID string `json:"elementId"`
	ParentID  string `json:"parentId,omitempty"`
}

// OutboundKinds are the kinds the model source emits towards the rendering layer.
func OutboundKinds() []string {
	return []string{KindSetModel, KindUpdateModel, KindRequestBounds, KindSetPopupModel}
}

// InboundKinds are the kinds the model source handles.
func InboundKinds() []string {
	return []string{KindRequestModel, KindComputedBounds, KindRequestPopupModel}
}
