package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// FromJSON decodes the canonical Compiled Schema JSON form (spec §6.1)
// and validates it. Unknown top-level keys are ignored by
// encoding/json's default decoding; missing fields default to their
// zero value (nil slices/maps), matching the spec's forward/backward
// compatibility contract.
func FromJSON(data []byte) (*CompiledSchema, error) {
	var s CompiledSchema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("fraiseql: decode compiled schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ToJSON encodes the schema back to its canonical form. Round-tripping
// through FromJSON(ToJSON(s)) reproduces an equal schema (spec §8
// invariant 1); the derived type index is unexported and excluded from
// the encoding, then rebuilt by the subsequent FromJSON's Validate call.
func (s *CompiledSchema) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// Load reads and validates a compiled schema from the given file path.
func Load(path string) (*CompiledSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return FromJSON(data)
}
