package where

import "fmt"

func scalarCoerce(raw any) ([]any, error) {
	return []any{raw}, nil
}

func equalityOperators() map[string]Operator {
	return map[string]Operator{
		"eq": {
			Family: "equality",
			Coerce: scalarCoerce,
			Render: func(expr string, p []string) string { return expr + " = " + p[0] },
		},
		"neq": {
			Family: "equality",
			Coerce: scalarCoerce,
			Render: func(expr string, p []string) string { return expr + " <> " + p[0] },
		},
		"isnull": {
			Family: "equality",
			Coerce: noParams,
			Render: func(expr string, p []string) string { return expr + " IS NULL" },
		},
		"is_not_null": {
			Family: "equality",
			Coerce: noParams,
			Render: func(expr string, p []string) string { return expr + " IS NOT NULL" },
		},
	}
}

func orderOperators() map[string]Operator {
	sym := map[string]string{"lt": "<", "lte": "<=", "gt": ">", "gte": ">="}
	out := make(map[string]Operator, len(sym))
	for name, op := range sym {
		op := op
		out[name] = Operator{
			Family: "order",
			Coerce: scalarCoerce,
			Render: func(expr string, p []string) string { return expr + " " + op + " " + p[0] },
		}
	}
	return out
}

func setOperators() map[string]Operator {
	variadic := func(raw any) ([]any, error) {
		vs, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("operand must be a list")
		}
		return vs, nil
	}
	join := func(p []string) string {
		out := ""
		for i, ph := range p {
			if i > 0 {
				out += ", "
			}
			out += ph
		}
		return out
	}
	return map[string]Operator{
		"in": {
			Family: "set",
			Coerce: variadic,
			Render: func(expr string, p []string) string { return expr + " IN (" + join(p) + ")" },
		},
		"nin": {
			Family: "set",
			Coerce: variadic,
			Render: func(expr string, p []string) string { return expr + " NOT IN (" + join(p) + ")" },
		},
		"notin": {
			Family: "set",
			Coerce: variadic,
			Render: func(expr string, p []string) string { return expr + " NOT IN (" + join(p) + ")" },
		},
	}
}
