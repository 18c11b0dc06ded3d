package protocol

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/aretw0/diagram/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// KindField is the discriminator key of the envelope.
const KindField = "kind"

var (
	mu        sync.RWMutex
	factories = map[string]func() any{}
)

func init() {
	Register[domain.RequestModelAction]()
	Register[domain.SetModelAction]()
	Register[domain.UpdateModelAction]()
	Register[domain.RequestBoundsAction]()
	Register[domain.ComputedBoundsAction]()
	Register[domain.RequestPopupModelAction]()
	Register[domain.SetPopupModelAction]()
}

// Register makes the action type T decodable under its kind.
// T must be a struct whose zero value reports the kind.
func Register[T domain.Action]() {
	var zero T
	mu.Lock()
	defer mu.Unlock()
	factories[zero.Kind()] = func() any { return new(T) }
}

// Kinds returns the sorted list of decodable kinds.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Encode returns the JSON envelope of an action.
func Encode(action domain.Action) ([]byte, error) {
	fields, err := ToMap(action)
	if err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// ToMap returns the envelope as a generic map.
func ToMap(action domain.Action) (map[string]any, error) {
	if action == nil {
		return nil, fmt.Errorf("encode: %w: nil action", domain.ErrUnknownAction)
	}
	body, err := json.Marshal(action)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", action.Kind(), err)
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("encode %s: %w", action.Kind(), err)
	}
	fields[KindField] = action.Kind()
	return fields, nil
}

// Decode parses one JSON envelope.
func Decode(data []byte) (domain.Action, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	return FromMap(fields)
}

// FromMap builds the concrete action described by an envelope map.
// Unknown fields are ignored; an unknown kind is ErrUnknownAction.
func FromMap(fields map[string]any) (domain.Action, error) {
	kind, _ := fields[KindField].(string)

	mu.RLock()
	factory, ok := factories[kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("decode: %w: %q", domain.ErrUnknownAction, kind)
	}

	target := factory()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.DecodeHookFuncType(elementHook),
		Result:     target,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(fields); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return reflect.ValueOf(target).Elem().Interface().(domain.Action), nil
}

var elementType = reflect.TypeOf(domain.Element{})

// elementHook decodes model trees through their JSON form, so that the
// feature bag is filled exactly as when reading a model file.
func elementHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Map {
		return data, nil
	}
	if to != elementType && to != reflect.PointerTo(elementType) {
		return data, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	var e domain.Element
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	return e, nil
}
