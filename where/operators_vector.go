package where

import (
	"fmt"
	"strconv"
	"strings"
)

// vectorLiteral renders a []any of numbers as a pgvector literal, e.g.
// "[1,2,3]".
func vectorLiteral(vs []any) (string, error) {
	parts := make([]string, len(vs))
	for i, v := range vs {
		f, ok := toFloat(v)
		if !ok {
			return "", fmt.Errorf("vector element %d is not numeric", i)
		}
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ",") + "]", nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// vectorOperators implements "match" as a distance-threshold predicate:
// the operand is {vector: [...], distance?: "cosine"|"l2"|"inner",
// max_distance: number}. A plain distance comparison is the only boolean
// form a distance metric can take in a WHERE clause; true
// nearest-neighbour ordering is a query-planner ORDER BY concern, not a
// predicate. The distance kind is bound as an ordinary text parameter
// and dispatched in SQL via CASE, so no Go-side branching on it is
// needed at render time.
func vectorOperators() map[string]Operator {
	return map[string]Operator{
		"match": {
			Family: "vector",
			Coerce: func(raw any) ([]any, error) {
				m, ok := raw.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("vector match operand must be an object with vector/max_distance")
				}
				vecRaw, ok := m["vector"].([]any)
				if !ok {
					return nil, fmt.Errorf("vector match operand requires a numeric vector list")
				}
				lit, err := vectorLiteral(vecRaw)
				if err != nil {
					return nil, err
				}
				maxDist, ok := toFloat(m["max_distance"])
				if !ok {
					return nil, fmt.Errorf("vector match operand requires a numeric max_distance")
				}
				distance, _ := m["distance"].(string)
				if distance == "" {
					distance = "cosine"
				}
				return []any{lit, maxDist, distance}, nil
			},
			Render: func(expr string, p []string) string {
				return "(CASE " + p[2] +
					" WHEN 'l2' THEN (" + expr + " <-> " + p[0] + ")" +
					" WHEN 'inner' THEN (" + expr + " <#> " + p[0] + ")" +
					" ELSE (" + expr + " <=> " + p[0] + ") END) <= " + p[1]
			},
		},
	}
}
