package schema

import (
	"fmt"

	"github.com/agnivade/levenshtein"

	"github.com/fraiseql/fraiseql-core"
)

// Validate checks the schema's structural invariants (spec §3):
//
//  1. type names are unique;
//  2. every return_type and argument type resolves to a defined type or
//     a built-in scalar;
//  3. no union whose membership chain leads back to itself (interface
//     relationships are not checked for cycles).
//
// Validate also (re)builds the type-name index used by TypeByName.
// FromJSON, and therefore Load and every hot reload, calls it; failure
// is fatal per spec §3.
func (s *CompiledSchema) Validate() error {
	if err := s.validateUniqueNames(); err != nil {
		return err
	}
	s.buildIndex()
	if err := s.validateTypeReferences(); err != nil {
		return err
	}
	if err := s.validateNoCycles(); err != nil {
		return err
	}
	return nil
}

func (s *CompiledSchema) validateUniqueNames() error {
	seen := make(map[string]bool, len(s.Types))
	for _, t := range s.Types {
		if seen[t.Name] {
			return fraiseql.NewValidationError(t.Name, "duplicate type name")
		}
		seen[t.Name] = true
	}
	return nil
}

func (s *CompiledSchema) resolvesToKnownType(name string) bool {
	if IsBuiltinScalar(name) {
		return true
	}
	if _, ok := s.typeIndex[name]; ok {
		return true
	}
	for _, e := range s.Enums {
		if e.Name == name {
			return true
		}
	}
	for _, it := range s.InputTypes {
		if it.Name == name {
			return true
		}
	}
	for _, i := range s.Interfaces {
		if i.Name == name {
			return true
		}
	}
	for _, u := range s.Unions {
		if u.Name == name {
			return true
		}
	}
	return false
}

func (s *CompiledSchema) suggest(name string) string {
	best := ""
	bestDist := -1
	for _, candidate := range s.TypeNames() {
		d := levenshtein.ComputeDistance(name, candidate)
		if bestDist == -1 || d < bestDist {
			bestDist, best = d, candidate
		}
	}
	if bestDist >= 0 && bestDist <= 3 {
		return best
	}
	return ""
}

func (s *CompiledSchema) validateTypeReferences() error {
	for _, t := range s.Types {
		for _, f := range t.Fields {
			if name, ok := leafTypeName(f.Type); ok && !s.resolvesToKnownType(name) {
				err := fraiseql.NewValidationError(
					fmt.Sprintf("%s.%s", t.Name, f.Name),
					fmt.Sprintf("field type %q does not resolve to a defined type or built-in scalar", name),
				)
				if hint := s.suggest(name); hint != "" {
					return err.WithSuggestion(hint)
				}
				return err
			}
		}
	}
	for _, q := range s.Queries {
		if !s.resolvesToKnownType(q.ReturnType) {
			return fraiseql.NewValidationError(q.Name, fmt.Sprintf("return type %q does not resolve", q.ReturnType))
		}
		for _, a := range q.Arguments {
			if name, ok := leafTypeName(a.Type); ok && !s.resolvesToKnownType(name) {
				return fraiseql.NewValidationError(fmt.Sprintf("%s(%s)", q.Name, a.Name), fmt.Sprintf("argument type %q does not resolve", name))
			}
		}
	}
	for _, m := range s.Mutations {
		if !s.resolvesToKnownType(m.ReturnType) {
			return fraiseql.NewValidationError(m.Name, fmt.Sprintf("return type %q does not resolve", m.ReturnType))
		}
		for _, a := range m.Arguments {
			if name, ok := leafTypeName(a.Type); ok && !s.resolvesToKnownType(name) {
				return fraiseql.NewValidationError(fmt.Sprintf("%s(%s)", m.Name, a.Name), fmt.Sprintf("argument type %q does not resolve", name))
			}
		}
	}
	return nil
}

// leafTypeName unwraps List(...) to find the innermost Scalar/Object name.
func leafTypeName(ft FieldType) (string, bool) {
	for ft.Kind == KindList {
		if ft.Elem == nil {
			return "", false
		}
		ft = *ft.Elem
	}
	if ft.Name == "" {
		return "", false
	}
	return ft.Name, true
}

// validateNoCycles rejects a union that lists itself, directly or
// through a chain of member unions. Only union membership is walked;
// interface relationships are not examined.
func (s *CompiledSchema) validateNoCycles() error {
	for _, u := range s.Unions {
		visited := map[string]bool{u.Name: true}
		var walk func(name string, path []string) error
		walk = func(name string, path []string) error {
			for _, other := range s.Unions {
				if other.Name != name {
					continue
				}
				for _, member := range other.Types {
					if member == u.Name {
						return fraiseql.NewValidationError(u.Name, fmt.Sprintf("cyclic union extension: %v", append(path, member)))
					}
					if !visited[member] {
						visited[member] = true
						if err := walk(member, append(path, member)); err != nil {
							return err
						}
					}
				}
			}
			return nil
		}
		if err := walk(u.Name, []string{u.Name}); err != nil {
			return err
		}
	}
	return nil
}
