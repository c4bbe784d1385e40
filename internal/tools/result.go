package tools

import "github.com/animekun/chatd/internal/shared/types"

// Success builds a successful Result with an optional narration message.
func Success(data map[string]interface{}, message string) (*types.Result, error) {
	res := &types.Result{Success: true, Data: data}
	if message != "" {
		res.Message = &message
	}
	return res, nil
}

// Failure builds a failed Result. The error is a value, not a Go error:
// tool failures flow back into the model's context so it can react.
func Failure(message string) (*types.Result, error) {
	return &types.Result{Success: false, Error: &message}, nil
}

// Wrap coerces a decoded backend response into a Result data map. Maps
// pass through; arrays and scalars are nested under key.
func Wrap(result interface{}, key string) map[string]interface{} {
	if m, ok := result.(map[string]interface{}); ok {
		return m
	}
	if result == nil {
		return map[string]interface{}{}
	}
	return map[string]interface{}{key: result}
}

// Int reads a validated integer parameter.
func Int(params map[string]interface{}, name string) (int, bool) {
	switch v := params[name].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

// String reads a validated string parameter.
func String(params map[string]interface{}, name string) (string, bool) {
	s, ok := params[name].(string)
	return s, ok && s != ""
}

// Without copies params minus the named keys. Used when an ID routes
// into the URL path and must not leak into the JSON body.
func Without(params map[string]interface{}, keys ...string) map[string]interface{} {
	body := make(map[string]interface{}, len(params))
	for k, v := range params {
		body[k] = v
	}
	for _, k := range keys {
		delete(body, k)
	}
	return body
}

// IDOf digs a record identifier out of a backend payload, trying the
// generic "id" then entity-prefixed variants ("idAnime", ...).
func IDOf(result interface{}, keys ...string) interface{} {
	m, ok := result.(map[string]interface{})
	if !ok {
		return nil
	}
	for _, k := range append([]string{"id"}, keys...) {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// CountOf extracts a result count from a backend list payload for
// narration messages: total field when present, else items length.
func CountOf(data map[string]interface{}, itemsKey string) int {
	if total, ok := data["total"].(float64); ok {
		return int(total)
	}
	if items, ok := data[itemsKey].([]interface{}); ok {
		return len(items)
	}
	return 0
}
