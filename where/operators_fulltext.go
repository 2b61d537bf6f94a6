package where

import "fmt"

func tsqueryCoerce(raw any) ([]any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("operand must be a search string")
	}
	return []any{s}, nil
}

func fullTextOperators() map[string]Operator {
	fn := func(name string) RenderFunc {
		return func(expr string, p []string) string { return expr + " @@ " + name + "(" + p[0] + ")" }
	}
	return map[string]Operator{
		"match":         {Family: "fulltext", Coerce: tsqueryCoerce, Render: fn("to_tsquery")},
		"plain_match":   {Family: "fulltext", Coerce: tsqueryCoerce, Render: fn("plainto_tsquery")},
		"phrase_match":  {Family: "fulltext", Coerce: tsqueryCoerce, Render: fn("phraseto_tsquery")},
		"websearch":     {Family: "fulltext", Coerce: tsqueryCoerce, Render: fn("websearch_to_tsquery")},
	}
}
