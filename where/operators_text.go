package where

import "fmt"

func textCoerce(wrap func(string) string) CoerceFunc {
	return func(raw any) ([]any, error) {
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("operand must be a string")
		}
		return []any{wrap(s)}, nil
	}
}

func identityWrap(s string) string { return s }
func containsWrap(s string) string { return "%" + s + "%" }
func prefixWrap(s string) string   { return s + "%" }
func suffixWrap(s string) string   { return "%" + s }

func textOperators() map[string]Operator {
	likeRender := func(op string) RenderFunc {
		return func(expr string, p []string) string { return expr + " " + op + " " + p[0] }
	}
	return map[string]Operator{
		"contains":       {Family: "text", Coerce: textCoerce(containsWrap), Render: likeRender("LIKE")},
		"icontains":      {Family: "text", Coerce: textCoerce(containsWrap), Render: likeRender("ILIKE")},
		"startswith":     {Family: "text", Coerce: textCoerce(prefixWrap), Render: likeRender("LIKE")},
		"istartswith":    {Family: "text", Coerce: textCoerce(prefixWrap), Render: likeRender("ILIKE")},
		"endswith":       {Family: "text", Coerce: textCoerce(suffixWrap), Render: likeRender("LIKE")},
		"iendswith":      {Family: "text", Coerce: textCoerce(suffixWrap), Render: likeRender("ILIKE")},
		"like":           {Family: "text", Coerce: textCoerce(identityWrap), Render: likeRender("LIKE")},
		"ilike":          {Family: "text", Coerce: textCoerce(identityWrap), Render: likeRender("ILIKE")},
		"matches":        {Family: "text", Coerce: textCoerce(identityWrap), Render: likeRender("~")},
		"imatches":       {Family: "text", Coerce: textCoerce(identityWrap), Render: likeRender("~*")},
		"not_matches":    {Family: "text", Coerce: textCoerce(identityWrap), Render: likeRender("!~")},
	}
}
