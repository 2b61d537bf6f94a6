package schema

// Builtin scalar names recognised without a TypeDefinition (spec §3).
const (
	ScalarInt      = "Int"
	ScalarFloat    = "Float"
	ScalarString   = "String"
	ScalarBoolean  = "Boolean"
	ScalarID       = "ID"
	ScalarDateTime = "DateTime"
	ScalarDate     = "Date"
	ScalarUUID     = "UUID"
	ScalarJSON     = "JSON"
)

var builtinScalars = map[string]bool{
	ScalarInt: true, ScalarFloat: true, ScalarString: true, ScalarBoolean: true,
	ScalarID: true, ScalarDateTime: true, ScalarDate: true, ScalarUUID: true, ScalarJSON: true,
}

// IsBuiltinScalar reports whether name is one of the built-in scalars.
func IsBuiltinScalar(name string) bool { return builtinScalars[name] }

// FieldTypeKind discriminates the shape of a FieldDefinition's type.
type FieldTypeKind int

const (
	KindScalar FieldTypeKind = iota
	KindList
	KindObject
)

// FieldType is a Scalar(name) | List(T) | Object(name) sum, as spec §3
// requires; List wraps another FieldType so List(List(Object("User")))
// is representable.
type FieldType struct {
	Kind FieldTypeKind  `json:"kind"`
	Name string         `json:"name,omitempty"` // set for Scalar and Object
	Elem *FieldType     `json:"elem,omitempty"` // set for List
}

// Scalar constructs a Scalar FieldType.
func Scalar(name string) FieldType { return FieldType{Kind: KindScalar, Name: name} }

// Object constructs an Object FieldType referencing a named type.
func Object(name string) FieldType { return FieldType{Kind: KindObject, Name: name} }

// List constructs a List FieldType wrapping elem.
func List(elem FieldType) FieldType { return FieldType{Kind: KindList, Elem: &elem} }

// EncryptionInfo marks a field as encrypted at rest. When
// DeterministicHashColumn is non-empty, equality-family WHERE operators
// against this field are rewritten onto that column instead of being
// rejected outright (see where.Normalize).
type EncryptionInfo struct {
	Algorithm               string `json:"algorithm"`
	DeterministicHashColumn string `json:"deterministic_hash_column,omitempty"`
}

// FieldDefinition describes one field of a TypeDefinition.
type FieldDefinition struct {
	Name        string          `json:"name"`
	Type        FieldType       `json:"type"`
	Nullable    bool            `json:"nullable,omitempty"`
	Description string          `json:"description,omitempty"`
	Encrypted   *EncryptionInfo `json:"encrypted,omitempty"`
}

// TypeDefinition is one named GraphQL object type bound to a SQL view.
type TypeDefinition struct {
	Name        string            `json:"name"`
	SQLSource   string            `json:"sql_source"`
	JSONBColumn string            `json:"jsonb_column"`
	Fields      []FieldDefinition `json:"fields"`
	Description string            `json:"description,omitempty"`

	// SQLColumns names the fields directly addressable as real view
	// columns; every other field resolves through JSONBColumn (spec §4.2
	// field resolution discipline's "given" sql_columns input).
	SQLColumns []string `json:"sql_columns,omitempty"`
	// FKMappings maps a field name to the foreign-key column it
	// shortcuts to (spec §4.2 step 2).
	FKMappings map[string]string `json:"fk_mappings,omitempty"`
	// ColumnKinds tags an entry of SQLColumns with the operator family
	// ("network", "range", "ltree", "vector", "fulltext") needed to
	// disambiguate the WHERE catalogue's cross-family operator names;
	// absent for ordinary scalar columns.
	ColumnKinds map[string]string `json:"column_kinds,omitempty"`

	// Key is the federation @key field set; consumed only (composition
	// against other subgraphs is out of scope, spec §1).
	Key []string `json:"key,omitempty"`
	// External marks a type as resolved by another federated subgraph.
	External bool `json:"external,omitempty"`
}

// FieldByName returns the field named n, or (zero, false).
func (t *TypeDefinition) FieldByName(n string) (FieldDefinition, bool) {
	for _, f := range t.Fields {
		if f.Name == n {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// ArgumentDefinition is a typed, possibly-nullable query/mutation argument.
type ArgumentDefinition struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Nullable bool      `json:"nullable,omitempty"`
}

// AutoParams describes which auto-bound arguments a read query accepts.
type AutoParams struct {
	HasWhere   bool `json:"has_where,omitempty"`
	HasOrderBy bool `json:"has_order_by,omitempty"`
	HasLimit   bool `json:"has_limit,omitempty"`
	HasOffset  bool `json:"has_offset,omitempty"`
}

// QueryDefinition is one read operation bound to a SQL view.
type QueryDefinition struct {
	Name        string               `json:"name"`
	ReturnType  string               `json:"return_type"`
	ReturnsList bool                 `json:"returns_list,omitempty"`
	Nullable    bool                 `json:"nullable,omitempty"`
	Arguments   []ArgumentDefinition `json:"arguments,omitempty"`
	SQLSource   string               `json:"sql_source"`
	AutoParams  AutoParams           `json:"auto_params,omitempty"`
}

// ArgByName returns the argument named n, or (zero, false).
func (q *QueryDefinition) ArgByName(n string) (ArgumentDefinition, bool) {
	for _, a := range q.Arguments {
		if a.Name == n {
			return a, true
		}
	}
	return ArgumentDefinition{}, false
}

// MutationOperationKind discriminates MutationDefinition.Operation.
type MutationOperationKind int

const (
	MutationInsert MutationOperationKind = iota
	MutationFunction
	MutationCustom
)

// MutationOperation is the Insert{table} | Function{name} | Custom sum
// from spec §3.
type MutationOperation struct {
	Kind  MutationOperationKind `json:"kind"`
	Table string                `json:"table,omitempty"` // Insert
	Name  string                `json:"name,omitempty"`  // Function
}

// MutationDefinition is one mutation operation.
type MutationDefinition struct {
	Name       string               `json:"name"`
	ReturnType string               `json:"return_type"`
	Arguments  []ArgumentDefinition `json:"arguments,omitempty"`
	Operation  MutationOperation    `json:"operation"`
}

// ArgByName returns the argument named n, or (zero, false).
func (m *MutationDefinition) ArgByName(n string) (ArgumentDefinition, bool) {
	for _, a := range m.Arguments {
		if a.Name == n {
			return a, true
		}
	}
	return ArgumentDefinition{}, false
}

// SubscriptionDefinition mirrors QueryDefinition's shape for the
// subscription root; THE CORE only carries its definition, the
// subscription transport itself is out of scope (spec §1).
type SubscriptionDefinition struct {
	Name       string               `json:"name"`
	ReturnType string               `json:"return_type"`
	Arguments  []ArgumentDefinition `json:"arguments,omitempty"`
	SQLSource  string               `json:"sql_source,omitempty"`
}

// EnumDefinition is a closed set of string values.
type EnumDefinition struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// InputTypeDefinition is an input object type (used for WHERE/argument
// shapes beyond the generic JSONB WHERE object).
type InputTypeDefinition struct {
	Name   string            `json:"name"`
	Fields []FieldDefinition `json:"fields"`
}

// InterfaceDefinition declares an interface and the fields its
// implementors must carry.
type InterfaceDefinition struct {
	Name   string            `json:"name"`
	Fields []FieldDefinition `json:"fields"`
}

// UnionDefinition declares a union of possible object types.
type UnionDefinition struct {
	Name  string   `json:"name"`
	Types []string `json:"types"`
}

// DirectiveDefinition declares a custom directive beyond @skip/@include.
type DirectiveDefinition struct {
	Name      string               `json:"name"`
	Arguments []ArgumentDefinition `json:"arguments,omitempty"`
	Locations []string             `json:"locations,omitempty"`
}

// FactTable is an opaque aggregate-query data source (spec §3 Glossary).
type FactTable struct {
	Name        string   `json:"name"`
	SQLSource   string   `json:"sql_source"`
	JSONBColumn string   `json:"jsonb_column"`
	Dimensions  []string `json:"dimensions,omitempty"`
	Measures    []string `json:"measures,omitempty"`
}

// CompiledSchema is the canonical, language-neutral IR consumed by every
// downstream pipeline stage (spec §3). It is immutable once validated;
// callers obtain a new instance on hot reload rather than mutating one
// in place.
type CompiledSchema struct {
	SchemaVersion string `json:"schema_version,omitempty"`

	Types         []TypeDefinition          `json:"types,omitempty"`
	Enums         []EnumDefinition          `json:"enums,omitempty"`
	InputTypes    []InputTypeDefinition     `json:"input_types,omitempty"`
	Interfaces    []InterfaceDefinition     `json:"interfaces,omitempty"`
	Unions        []UnionDefinition         `json:"unions,omitempty"`
	Queries       []QueryDefinition         `json:"queries,omitempty"`
	Mutations     []MutationDefinition      `json:"mutations,omitempty"`
	Subscriptions []SubscriptionDefinition  `json:"subscriptions,omitempty"`
	Directives    []DirectiveDefinition     `json:"directives,omitempty"`
	FactTables    map[string]FactTable      `json:"fact_tables,omitempty"`

	// typeIndex is a derived lookup built by Validate; never serialised.
	typeIndex map[string]*TypeDefinition
}

// TypeByName returns the type definition named n, if present. The index
// is built by Validate, or on first use if Validate has not run.
func (s *CompiledSchema) TypeByName(n string) (*TypeDefinition, bool) {
	if s.typeIndex == nil {
		s.buildIndex()
	}
	t, ok := s.typeIndex[n]
	return t, ok
}

// QueryByName returns the query definition named n.
func (s *CompiledSchema) QueryByName(n string) (*QueryDefinition, bool) {
	for i := range s.Queries {
		if s.Queries[i].Name == n {
			return &s.Queries[i], true
		}
	}
	return nil, false
}

// MutationByName returns the mutation definition named n.
func (s *CompiledSchema) MutationByName(n string) (*MutationDefinition, bool) {
	for i := range s.Mutations {
		if s.Mutations[i].Name == n {
			return &s.Mutations[i], true
		}
	}
	return nil, false
}

func (s *CompiledSchema) buildIndex() {
	s.typeIndex = make(map[string]*TypeDefinition, len(s.Types))
	for i := range s.Types {
		s.typeIndex[s.Types[i].Name] = &s.Types[i]
	}
}

// TypeNames returns every declared type name, for suggestion/diagnostic
// purposes (e.g. Levenshtein "did you mean" hints).
func (s *CompiledSchema) TypeNames() []string {
	names := make([]string, len(s.Types))
	for i, t := range s.Types {
		names[i] = t.Name
	}
	return names
}
