package route

import (
	"encoding/json"
	"fmt"
)

// Wrap embeds the payload untouched under key.
func Wrap(key string) ShapeFunc {
	return func(_ *Call, payload json.RawMessage) (map[string]any, error) {
		return map[string]any{key: payload}, nil
	}
}

// WrapCount is Wrap plus a count of the elements of an array payload.
func WrapCount(key string) ShapeFunc {
	return func(_ *Call, payload json.RawMessage) (map[string]any, error) {
		var items []json.RawMessage
		if err := json.Unmarshal(payload, &items); err != nil {
			return nil, fmt.Errorf("expected array result: %w", err)
		}
		return map[string]any{
			"count": len(items),
			key:     payload,
		}, nil
	}
}

func Message(text string) ShapeFunc {
	return func(_ *Call, _ json.RawMessage) (map[string]any, error) {
		return map[string]any{"message": text}, nil
	}
}

// WithParam adds the named path parameter next to the shaped payload.
func WithParam(name string, shape ShapeFunc) ShapeFunc {
	return func(call *Call, payload json.RawMessage) (map[string]any, error) {
		out, err := shape(call, payload)
		if err != nil {
			return nil, err
		}
		out[name] = call.Param(name)
		return out, nil
	}
}

// Pluck exposes a single top-level field of an object payload under key.
func Pluck(key, field string) ShapeFunc {
	return func(_ *Call, payload json.RawMessage) (map[string]any, error) {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(payload, &obj); err != nil {
			return nil, fmt.Errorf("expected object result: %w", err)
		}
		v, ok := obj[field]
		if !ok {
			return nil, fmt.Errorf("result has no %q field", field)
		}
		return map[string]any{key: v}, nil
	}
}
