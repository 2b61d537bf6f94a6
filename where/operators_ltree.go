package where

import "fmt"

func ltreeCoerce(raw any) ([]any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("operand must be an ltree/lquery path string")
	}
	return []any{s}, nil
}

func ltreeOperators() map[string]Operator {
	return map[string]Operator{
		"descendant": {
			Family: "ltree",
			Coerce: ltreeCoerce,
			Render: func(expr string, p []string) string { return expr + " <@ " + p[0] + "::ltree" },
		},
		"ancestor": {
			Family: "ltree",
			Coerce: ltreeCoerce,
			Render: func(expr string, p []string) string { return expr + " @> " + p[0] + "::ltree" },
		},
		"matches": {
			Family: "ltree",
			Coerce: ltreeCoerce,
			Render: func(expr string, p []string) string { return expr + " ~ " + p[0] + "::lquery" },
		},
		"ltree": {
			Family: "ltree",
			Coerce: ltreeCoerce,
			Render: func(expr string, p []string) string { return expr + " = " + p[0] + "::ltree" },
		},
		"lquery": {
			Family: "ltree",
			Coerce: ltreeCoerce,
			Render: func(expr string, p []string) string { return expr + " ~ " + p[0] + "::lquery" },
		},
	}
}
