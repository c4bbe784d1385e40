// Package schema validates tool arguments against parameter definitions
// and renders those definitions as JSON Schema for the model.
//
// Validation happens before any network call: required fields, type
// checks, integer bounds, enum membership, and default injection. The
// same Parameter list drives both sides, so the schema the model sees
// and the one enforced at execution time cannot drift apart.
package schema

import (
	"fmt"
	"math"

	"github.com/animekun/chatd/internal/shared/types"
)

// Validate checks params against the tool's parameter definitions.
// It returns a cleaned copy: defaults applied, unknown keys dropped,
// integer values normalized. A descriptive error is returned on the
// first violation so the model can correct its call.
func Validate(tool types.Tool, params map[string]interface{}) (map[string]interface{}, error) {
	cleaned := make(map[string]interface{}, len(tool.Parameters))

	for _, p := range tool.Parameters {
		raw, present := params[p.Name]
		if !present || raw == nil {
			if p.Required {
				return nil, fmt.Errorf("%s: missing required parameter %q", tool.ID, p.Name)
			}
			if p.Default != nil {
				cleaned[p.Name] = p.Default
			}
			continue
		}

		value, err := coerce(p, raw)
		if err != nil {
			return nil, fmt.Errorf("%s: parameter %q: %w", tool.ID, p.Name, err)
		}
		cleaned[p.Name] = value
	}

	return cleaned, nil
}

// coerce checks a single value against its parameter definition.
func coerce(p types.Parameter, raw interface{}) (interface{}, error) {
	switch p.Type {
	case "string":
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		if p.Required && s == "" {
			return nil, fmt.Errorf("must not be empty")
		}
		if len(p.Enum) > 0 && !inEnum(p.Enum, s) {
			return nil, fmt.Errorf("value %q not in %v", s, p.Enum)
		}
		return s, nil

	case "integer":
		f, ok := asFloat(raw)
		if !ok {
			return nil, fmt.Errorf("expected integer, got %T", raw)
		}
		if f != math.Trunc(f) {
			return nil, fmt.Errorf("expected integer, got %v", f)
		}
		if err := checkBounds(p, f); err != nil {
			return nil, err
		}
		return int(f), nil

	case "number":
		f, ok := asFloat(raw)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", raw)
		}
		if err := checkBounds(p, f); err != nil {
			return nil, err
		}
		return f, nil

	case "boolean":
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", raw)
		}
		return b, nil

	default:
		// Unconstrained parameter types pass through as-is.
		return raw, nil
	}
}

func asFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func checkBounds(p types.Parameter, f float64) error {
	if p.Minimum != nil && f < *p.Minimum {
		return fmt.Errorf("value %v below minimum %v", f, *p.Minimum)
	}
	if p.Maximum != nil && f > *p.Maximum {
		return fmt.Errorf("value %v above maximum %v", f, *p.Maximum)
	}
	return nil
}

func inEnum(enum []interface{}, value interface{}) bool {
	for _, e := range enum {
		if e == value {
			return true
		}
	}
	return false
}

// JSONSchema renders the tool's parameters as a JSON Schema object in
// the shape the chat-completions API expects for function parameters.
func JSONSchema(tool types.Tool) map[string]interface{} {
	properties := make(map[string]interface{}, len(tool.Parameters))
	required := []string{}

	for _, p := range tool.Parameters {
		prop := map[string]interface{}{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Minimum != nil {
			prop["minimum"] = *p.Minimum
		}
		if p.Maximum != nil {
			prop["maximum"] = *p.Maximum
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		properties[p.Name] = prop

		if p.Required {
			required = append(required, p.Name)
		}
	}

	return map[string]interface{}{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}
