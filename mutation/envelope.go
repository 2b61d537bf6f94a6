package mutation

import (
	"bytes"
	"encoding/json"
)

// CascadeEntity names one entity affected by a mutation, either a
// specific id or the wildcard "*" meaning every instance of Type (spec
// §4.7's cascade-driven invalidation: "Also include all keys depending
// on the wildcard type:*").
type CascadeEntity struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Cascade is the structured invalidation descriptor attached to a
// mutation result (spec §6.2/glossary).
type Cascade struct {
	Invalidations struct {
		Updated []CascadeEntity `json:"updated"`
		Deleted []CascadeEntity `json:"deleted"`
	} `json:"invalidations"`
}

// Envelope is the decoded form of a mutation_result JSON value (spec
// §4.6 envelope decoding), before success/error shaping.
type Envelope struct {
	Status        Status
	Message       string
	EntityID      string
	EntityType    string
	Entity        json.RawMessage
	UpdatedFields []string
	Cascade       *Cascade
	// MetadataErrs holds metadata.errors entries as decoded (still
	// snake_case): spec §6.2 shapes each as "{ field?, code, message,
	// … }" with an open-ended tail, so these stay generic maps and get
	// their keys recursively camelCased at shaping time rather than
	// being bound to a fixed struct.
	MetadataErrs []map[string]any
}

type rawEnvelope struct {
	Status            string          `json:"status"`
	Message           string          `json:"message"`
	EntityID          string          `json:"entity_id"`
	EntityType        string          `json:"entity_type"`
	Entity            json.RawMessage `json:"entity"`
	UpdatedFields     []string        `json:"updated_fields"`
	Cascade           *Cascade        `json:"cascade"`
	CascadeUnderscore *Cascade        `json:"_cascade"`
	Metadata          *struct {
		Errors []json.RawMessage `json:"errors"`
	} `json:"metadata"`
}

type simpleCascadeProbe struct {
	Cascade *Cascade `json:"_cascade"`
}

// Decode parses a mutation_result JSON value into an Envelope,
// implementing spec §4.6's two decoding branches.
func Decode(raw json.RawMessage) (*Envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return simpleFormat(raw), nil
	}

	var probe struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, err
	}
	if !isRecognisedStatus(probe.Status) {
		return simpleFormat(raw), nil
	}

	var full rawEnvelope
	if err := json.Unmarshal(raw, &full); err != nil {
		return nil, err
	}
	cascade := full.Cascade
	if cascade == nil {
		// spec §9 open question: the underscore form is recognised
		// whenever the canonical form is absent, even in a v2 envelope.
		cascade = full.CascadeUnderscore
	}
	return &Envelope{
		Status:        parseStatus(full.Status),
		Message:       full.Message,
		EntityID:      full.EntityID,
		EntityType:    full.EntityType,
		Entity:        full.Entity,
		UpdatedFields: full.UpdatedFields,
		Cascade:       cascade,
		MetadataErrs:  decodeMetadataErrors(full.Metadata),
	}, nil
}

// simpleFormat treats raw as the entity itself (spec §4.6: "treat the
// body as the entity, assume success"), still honouring an optional
// _cascade field if the body happens to be an object carrying one.
func simpleFormat(raw json.RawMessage) *Envelope {
	env := &Envelope{
		Status:  Status{Kind: StatusSuccess, Reason: "success"},
		Message: "Success",
		Entity:  raw,
	}
	var probe simpleCascadeProbe
	if json.Unmarshal(raw, &probe) == nil {
		env.Cascade = probe.Cascade
	}
	return env
}

func decodeMetadataErrors(meta *struct {
	Errors []json.RawMessage `json:"errors"`
}) []map[string]any {
	if meta == nil {
		return nil
	}
	out := make([]map[string]any, 0, len(meta.Errors))
	for _, raw := range meta.Errors {
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		out = append(out, m)
	}
	return out
}
