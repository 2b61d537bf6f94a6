// Package fraiseql implements the compilation and execution core of a
// GraphQL-to-SQL engine: a compiled schema IR, a GraphQL request pipeline
// (parse -> select -> normalise WHERE -> plan -> execute -> respond), a
// mutation envelope transformer with cascade-driven invalidation, and a
// dependency-tracked result cache.
//
// Subpackages own one pipeline stage each; this root package holds the
// pieces shared across all of them: the error taxonomy (errors.go) and
// the pluggable cache backend contract (cache.go).
package fraiseql
