// Package coerce implements spec §4.8's scalar coercion: converting
// between the core's typed values and the JSON/variable values a
// caller supplies for them. Every failure surfaces as a
// fraiseql.ValidationError (spec §7), never a raw parse error.
package coerce

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-openapi/inflect"
	"github.com/google/uuid"

	"github.com/fraiseql/fraiseql-core"
	"github.com/fraiseql/fraiseql-core/schema"
)

// Value coerces v against the named scalar (one of schema's
// ScalarXxx constants), dispatching to the matching CoerceXxx
// function. Unknown scalar names pass v through unchanged — THE CORE
// doesn't reject custom/enum scalars here, only validates the built-in
// ones it actually interprets.
func Value(scalarName string, v any) (any, error) {
	switch scalarName {
	case schema.ScalarID:
		return ID(v)
	case schema.ScalarInt:
		return Int(v)
	case schema.ScalarFloat:
		return Float(v)
	case schema.ScalarBoolean:
		return Boolean(v)
	case schema.ScalarDateTime:
		return DateTime(v)
	case schema.ScalarDate:
		return Date(v)
	case schema.ScalarUUID:
		return UUID(v)
	default:
		return v, nil
	}
}

func invalid(scalarName string, v any) error {
	return fraiseql.NewValidationError(
		scalarName,
		fmt.Sprintf("%s value %v is not a valid %s", inflect.Humanize(scalarName), v, scalarName),
	)
}

// ID accepts any string (spec §4.8: "ID accepts strings").
func ID(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", invalid(schema.ScalarID, v)
	}
	return s, nil
}

// Int parses a numeric value (spec §4.8: "Int/Float parse numerics").
// Accepts a JSON number (float64, json.Number), a Go integer, or a
// numeric string, matching the range of shapes a decoded GraphQL
// variable or a re-decoded JSON value can arrive as.
func Int(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, invalid(schema.ScalarInt, v)
		}
		return int64(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, invalid(schema.ScalarInt, v)
		}
		return i, nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, invalid(schema.ScalarInt, v)
		}
		return i, nil
	default:
		return 0, invalid(schema.ScalarInt, v)
	}
}

// Float parses a numeric value (spec §4.8).
func Float(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, invalid(schema.ScalarFloat, v)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, invalid(schema.ScalarFloat, v)
		}
		return f, nil
	default:
		return 0, invalid(schema.ScalarFloat, v)
	}
}

// Boolean is strict (spec §4.8): only an actual bool is accepted, not
// a truthy string or number.
func Boolean(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, invalid(schema.ScalarBoolean, v)
	}
	return b, nil
}

// DateTime parses an RFC 3339 timestamp (spec §4.8).
func DateTime(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, invalid(schema.ScalarDateTime, v)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, invalid(schema.ScalarDateTime, v)
	}
	return t, nil
}

// dateLayout is RFC 3339's date-only form.
const dateLayout = "2006-01-02"

// Date parses an RFC 3339 date (spec §4.8: "DateTime/Date are RFC
// 3339"), interpreted as the date-only subset.
func Date(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, invalid(schema.ScalarDate, v)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, invalid(schema.ScalarDate, v)
	}
	return t, nil
}

// UUID parses a canonical hyphenated UUID (spec §4.8).
func UUID(v any) (uuid.UUID, error) {
	s, ok := v.(string)
	if !ok {
		return uuid.UUID{}, invalid(schema.ScalarUUID, v)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, invalid(schema.ScalarUUID, v)
	}
	// uuid.Parse also accepts non-hyphenated and urn: forms; reject
	// anything that doesn't round-trip to the canonical 36-char form.
	if id.String() != s {
		return uuid.UUID{}, invalid(schema.ScalarUUID, v)
	}
	return id, nil
}
