// Package executor defines the contract THE CORE depends on for every
// database round-trip (spec §4.4) and provides a reference Postgres
// adapter over it. The executor is an external collaborator: connection
// pooling, transactions, retries, and TLS live entirely behind the
// interface, and the core assumes best-effort at-least-once semantics
// with bounded backpressure.
package executor

import (
	"context"
	"encoding/json"
)

// RowStream yields the JSONB column of each row a read query produces.
// It mirrors spec §4.4's "run(sql, params) -> Stream<JsonValue>"
// contract and the core's bounded-backpressure requirement: a caller
// that stops calling Next simply lets the stream sit idle, never
// forcing the executor to buffer unbounded rows in memory.
type RowStream interface {
	// Next advances to the next row, returning false once the stream is
	// exhausted or an error occurred (check Err to distinguish the two).
	Next(ctx context.Context) bool
	// Value returns the current row's JSONB column. Valid only after a
	// Next call returned true.
	Value() json.RawMessage
	// Err returns the first error encountered, if any.
	Err() error
	// Close releases the stream's underlying resources. Safe to call
	// after partial consumption.
	Close() error
}

// Executor is the contract THE CORE depends on for reads and mutations
// alike (spec §4.4): a read query's planned SQL/params produce a
// RowStream of JSONB values; a mutation's planned SQL/params produce a
// single JSONB mutation_result.
type Executor interface {
	// Run executes a read-path statement and streams its JSONB column.
	Run(ctx context.Context, sql string, params []any) (RowStream, error)
	// RunSingle executes a mutation-path statement and returns its
	// single mutation_result JSONB row.
	RunSingle(ctx context.Context, sql string, params []any) (json.RawMessage, error)
}
