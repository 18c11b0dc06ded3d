package protocol_test

import (
	"testing"

	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRoot() *domain.Element {
	n1 := domain.NewElement("n1", "node:rect")
	n1.ApplyBounds(domain.Bounds{X: 1, Y: 2, Width: 30, Height: 40})
	n1.SetFeature("cssClasses", []any{"selected"})
	return domain.NewRoot("ROOT", "graph").Append(n1)
}

func TestRoundTrip(t *testing.T) {
	root := sampleRoot()
	tests := []struct {
		name   string
		action domain.Action
	}{
		{"requestModel", domain.RequestModelAction{Options: map[string]string{"needsClientLayout": "true"}}},
		{"setModel", domain.SetModelAction{NewRoot: root}},
		{"updateModel with root", domain.UpdateModelAction{NewRoot: root, Animate: true}},
		{"updateModel with matches", domain.UpdateModelAction{Matches: []domain.Match{
			{Right: domain.NewElement("n2", "node"), RightParentID: "ROOT"},
			{Left: domain.NewElement("n1", "node:rect"), LeftParentID: "ROOT"},
		}}},
		{"requestBounds", domain.RequestBoundsAction{NewRoot: root, RequestID: "req-1"}},
		{"computedBounds", domain.ComputedBoundsAction{
			Bounds: []domain.ElementAndBounds{
				{ElementID: "n1", NewBounds: domain.Bounds{X: 1.5, Y: 2, Width: 10, Height: 20}},
			},
			ResponseID: "req-1",
		}},
		{"requestPopupModel", domain.RequestPopupModelAction{ElementID: "n1", Bounds: domain.Bounds{X: 3, Y: 4, Width: 5, Height: 6}}},
		{"setPopupModel", domain.SetPopupModelAction{NewRoot: domain.NewRoot("popup", "html")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := protocol.Encode(tt.action)
			require.NoError(t, err)

			decoded, err := protocol.Decode(data)
			require.NoError(t, err)
			assert.Equal(t, tt.action, decoded)
		})
	}
}

func TestEncode_WireNames(t *testing.T) {
	data, err := protocol.Encode(domain.ComputedBoundsAction{
		Bounds:     []domain.ElementAndBounds{{ElementID: "n1", NewBounds: domain.Bounds{Width: 1, Height: 2}}},
		ResponseID: "r",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"kind": "computedBounds",
		"responseId": "r",
		"bounds": [{"elementId": "n1", "newBounds": {"x": 0, "y": 0, "width": 1, "height": 2}}]
	}`, string(data))
}

func TestFromMap(t *testing.T) {
	action, err := protocol.FromMap(map[string]any{
		"kind": "setModel",
		"newRoot": map[string]any{
			"id":       "ROOT",
			"type":     "graph",
			"children": []any{map[string]any{"id": "n1", "type": "node", "text": "hello"}},
		},
		"ignored": true,
	})
	require.NoError(t, err)

	set, ok := action.(domain.SetModelAction)
	require.True(t, ok)
	require.Len(t, set.NewRoot.Children, 1)
	text, _ := set.NewRoot.Children[0].Feature("text")
	assert.Equal(t, "hello", text)
}

func TestDecode_InboundWire(t *testing.T) {
	action, err := protocol.Decode([]byte(`{"kind":"computedBounds","responseId":"tok","bounds":[{"elementId":"e1","newBounds":{"x":1,"y":2,"width":3,"height":4}}]}`))
	require.NoError(t, err)
	assert.Equal(t, domain.ComputedBoundsAction{
		ResponseID: "tok",
		Bounds:     []domain.ElementAndBounds{{ElementID: "e1", NewBounds: domain.Bounds{X: 1, Y: 2, Width: 3, Height: 4}}},
	}, action)

	action, err = protocol.Decode([]byte(`{"kind":"requestPopupModel","elementId":"n1","bounds":{"x":5,"y":6,"width":7,"height":8}}`))
	require.NoError(t, err)
	assert.Equal(t, domain.RequestPopupModelAction{ElementID: "n1", Bounds: domain.Bounds{X: 5, Y: 6, Width: 7, Height: 8}}, action)

	action, err = protocol.Decode([]byte(`{"kind":"requestModel"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.KindRequestModel, action.Kind())
}

func TestDecode_Errors(t *testing.T) {
	_, err := protocol.Decode([]byte(`{"kind":"explode"}`))
	assert.ErrorIs(t, err, domain.ErrUnknownAction)

	_, err = protocol.Decode([]byte(`{}`))
	assert.ErrorIs(t, err, domain.ErrUnknownAction)

	_, err = protocol.Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = protocol.Decode([]byte(`{"kind":"requestPopupModel","elementId":["not","a","string"]}`))
	assert.Error(t, err)

	_, err = protocol.Encode(nil)
	assert.ErrorIs(t, err, domain.ErrUnknownAction)
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []string{
		domain.KindComputedBounds,
		domain.KindRequestBounds,
		domain.KindRequestModel,
		domain.KindRequestPopupModel,
		domain.KindSetModel,
		domain.KindSetPopupModel,
		domain.KindUpdateModel,
	}, protocol.Kinds())
}
