package where

import (
	"encoding/json"
	"fmt"

	"github.com/lib/pq"
)

func jsonEncode(raw any) ([]any, error) {
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("operand is not valid JSON: %w", err)
	}
	return []any{string(b)}, nil
}

func stringKeyCoerce(raw any) ([]any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("operand must be a string key")
	}
	return []any{s}, nil
}

func stringKeysCoerce(raw any) ([]any, error) {
	vs, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("operand must be a list of keys")
	}
	keys := make([]string, len(vs))
	for i, v := range vs {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("operand must be a list of string keys")
		}
		keys[i] = s
	}
	return []any{pq.Array(keys)}, nil
}

func jsonbOperators() map[string]Operator {
	return map[string]Operator{
		"contains": {
			Family: "jsonb",
			Coerce: jsonEncode,
			Render: func(expr string, p []string) string { return expr + " @> " + p[0] + "::jsonb" },
		},
		"contained_by": {
			Family: "jsonb",
			Coerce: jsonEncode,
			Render: func(expr string, p []string) string { return expr + " <@ " + p[0] + "::jsonb" },
		},
		"has_key": {
			Family: "jsonb",
			Coerce: stringKeyCoerce,
			Render: func(expr string, p []string) string { return expr + " ? " + p[0] },
		},
		"has_keys": {
			Family: "jsonb",
			Coerce: stringKeysCoerce,
			Render: func(expr string, p []string) string { return expr + " ?& " + p[0] },
		},
		"has_any_keys": {
			Family: "jsonb",
			Coerce: stringKeysCoerce,
			Render: func(expr string, p []string) string { return expr + " ?| " + p[0] },
		},
		"path_contains": {
			Family: "jsonb",
			Coerce: jsonEncode,
			Render: func(expr string, p []string) string { return expr + " @> " + p[0] + "::jsonb" },
		},
		"path_exists": {
			Family: "jsonb",
			Coerce: stringKeyCoerce,
			Render: func(expr string, p []string) string { return "jsonb_path_exists(" + expr + ", " + p[0] + ")" },
		},
	}
}
