package where

import (
	"fmt"

	"github.com/lib/pq"
)

// arrayParam wraps a decoded JSON array ([]any) as a pq.Array-backed
// driver.Valuer so the executor binds it as a native Postgres array
// rather than a JSON string.
func arrayParam(raw any) (any, error) {
	vs, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("operand must be a list")
	}
	return pq.Array(vs), nil
}

func arrayCoerce(raw any) ([]any, error) {
	v, err := arrayParam(raw)
	if err != nil {
		return nil, err
	}
	return []any{v}, nil
}

func scalarElementCoerce(raw any) ([]any, error) {
	return []any{raw}, nil
}

func arrayOperators() map[string]Operator {
	return map[string]Operator{
		"array_eq": {
			Family: "array",
			Coerce: arrayCoerce,
			Render: func(expr string, p []string) string { return expr + " = " + p[0] },
		},
		"array_neq": {
			Family: "array",
			Coerce: arrayCoerce,
			Render: func(expr string, p []string) string { return expr + " <> " + p[0] },
		},
		"array_contains": {
			Family: "array",
			Coerce: arrayCoerce,
			Render: func(expr string, p []string) string { return expr + " @> " + p[0] },
		},
		"array_contained_by": {
			Family: "array",
			Coerce: arrayCoerce,
			Render: func(expr string, p []string) string { return expr + " <@ " + p[0] },
		},
		"array_overlaps": {
			Family: "array",
			Coerce: arrayCoerce,
			Render: func(expr string, p []string) string { return expr + " && " + p[0] },
		},
		"array_length_eq": {
			Family: "array",
			Coerce: scalarElementCoerce,
			Render: func(expr string, p []string) string { return "array_length(" + expr + ", 1) = " + p[0] },
		},
		"array_length_gt": {
			Family: "array",
			Coerce: scalarElementCoerce,
			Render: func(expr string, p []string) string { return "array_length(" + expr + ", 1) > " + p[0] },
		},
		"array_length_gte": {
			Family: "array",
			Coerce: scalarElementCoerce,
			Render: func(expr string, p []string) string { return "array_length(" + expr + ", 1) >= " + p[0] },
		},
		"array_length_lt": {
			Family: "array",
			Coerce: scalarElementCoerce,
			Render: func(expr string, p []string) string { return "array_length(" + expr + ", 1) < " + p[0] },
		},
		"array_any_eq": {
			Family: "array",
			Coerce: scalarElementCoerce,
			Render: func(expr string, p []string) string { return p[0] + " = ANY(" + expr + ")" },
		},
		"array_all_eq": {
			Family: "array",
			Coerce: scalarElementCoerce,
			Render: func(expr string, p []string) string { return expr + " <@ ARRAY[" + p[0] + "]" },
		},
	}
}
