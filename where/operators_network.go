package where

import "fmt"

func inetCoerce(raw any) ([]any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("operand must be a CIDR/inet string")
	}
	return []any{s}, nil
}

func networkOperators() map[string]Operator {
	fn := func(name string) RenderFunc {
		return func(expr string, p []string) string { return name + "(" + expr + ") = " + p[0] }
	}
	op := func(symbol string) RenderFunc {
		return func(expr string, p []string) string { return expr + " " + symbol + " " + p[0] + "::inet" }
	}
	return map[string]Operator{
		"family":                 {Family: "network", Coerce: scalarCoerce, Render: fn("family")},
		"host_mask":              {Family: "network", Coerce: inetCoerce, Render: fn("hostmask")},
		"network_mask":           {Family: "network", Coerce: inetCoerce, Render: fn("netmask")},
		"broadcast":              {Family: "network", Coerce: inetCoerce, Render: fn("broadcast")},
		"prefix":                 {Family: "network", Coerce: scalarCoerce, Render: fn("masklen")},
		"contains":               {Family: "network", Coerce: inetCoerce, Render: op(">>")},
		"contained_by":           {Family: "network", Coerce: inetCoerce, Render: op("<<")},
		"contained_by_or_equals": {Family: "network", Coerce: inetCoerce, Render: op("<<=")},
		"contains_or_equals":     {Family: "network", Coerce: inetCoerce, Render: op(">>=")},
		"overlaps":               {Family: "network", Coerce: inetCoerce, Render: op("&&")},
		"left_of":                {Family: "network", Coerce: inetCoerce, Render: op("<=")},
		"right_of":               {Family: "network", Coerce: inetCoerce, Render: op(">=")},
		"strictly_left_of":       {Family: "network", Coerce: inetCoerce, Render: op("<")},
		"strictly_right_of":      {Family: "network", Coerce: inetCoerce, Render: op(">")},
		"in_range": {
			Family: "network",
			Coerce: func(raw any) ([]any, error) {
				m, ok := raw.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("in_range operand must be an object with from/to")
				}
				from, ok1 := m["from"].(string)
				to, ok2 := m["to"].(string)
				if !ok1 || !ok2 {
					return nil, fmt.Errorf("in_range operand requires string from/to")
				}
				return []any{from, to}, nil
			},
			Render: func(expr string, p []string) string {
				return expr + " BETWEEN " + p[0] + "::inet AND " + p[1] + "::inet"
			},
		},
	}
}
