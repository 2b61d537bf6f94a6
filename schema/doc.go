// Package schema defines CompiledSchema, the immutable, language-neutral
// intermediate representation produced once at build time and consumed
// by every downstream pipeline stage (selection processing, WHERE
// normalisation, planning, response building, mutation transforming).
//
// A CompiledSchema is loaded from its canonical on-disk JSON form (see
// Load) and validated at load time and after every hot reload (see
// Watcher); validation failure is fatal, matching spec §3's invariant
// that the IR, once loaded, is never observed in an invalid state.
package schema
