package where

func rangeOperators() map[string]Operator {
	op := func(symbol string) RenderFunc {
		return func(expr string, p []string) string { return expr + " " + symbol + " " + p[0] }
	}
	return map[string]Operator{
		"contains":           {Family: "range", Coerce: scalarCoerce, Render: op("@>")},
		"contained_by":       {Family: "range", Coerce: scalarCoerce, Render: op("<@")},
		"overlaps":           {Family: "range", Coerce: scalarCoerce, Render: op("&&")},
		"strictly_left_of":   {Family: "range", Coerce: scalarCoerce, Render: op("<<")},
		"strictly_right_of":  {Family: "range", Coerce: scalarCoerce, Render: op(">>")},
		"adjacent_to":        {Family: "range", Coerce: scalarCoerce, Render: op("-|-")},
	}
}
