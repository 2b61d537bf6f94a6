package response

import (
	"encoding/json"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/gqlerror"
)

// ErrorResponse builds an envelope carrying only errors and no data,
// matching spec §7's "parse/process/plan errors surface as errors[]
// entries with no data payload". It marshals a gqlgen graphql.Response
// directly, the same envelope type gqlgen's own transport layer
// produces, so this module's output is wire-compatible with any
// gqlgen-fronted client without a second envelope shape to maintain.
func ErrorResponse(errs gqlerror.List) json.RawMessage {
	out, err := json.Marshal(&graphql.Response{Errors: errs})
	if err != nil {
		// errs is a plain struct slice; Marshal only fails on cyclic or
		// unsupported types, neither of which gqlerror.Error can produce.
		return []byte(`{"errors":[{"message":"internal error"}]}`)
	}
	return out
}

// AttachErrors merges errs into an already-built data envelope, for the
// "partial data with row-level execution errors" case (spec §7).
func AttachErrors(data json.RawMessage, errs gqlerror.List) (json.RawMessage, error) {
	if len(errs) == 0 {
		return data, nil
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	errBytes, err := json.Marshal(errs)
	if err != nil {
		return nil, err
	}
	env["errors"] = errBytes
	return json.Marshal(env)
}
