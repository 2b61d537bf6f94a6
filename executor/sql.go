package executor

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"

	_ "github.com/lib/pq"

	"github.com/fraiseql/fraiseql-core"
	fraiseqlsql "github.com/fraiseql/fraiseql-core/dialect/sql"
)

// SQLExecutor is the reference Executor implementation over
// database/sql + github.com/lib/pq, adapted from dialect/sql.Driver/
// Conn. It exists so the module has something runnable to test against
// go-sqlmock; the interface in executor.go is the contract THE CORE
// actually depends on.
type SQLExecutor struct {
	driver *fraiseqlsql.Driver
}

// Open opens a new SQLExecutor against a Postgres DSN.
func Open(source string) (*SQLExecutor, error) {
	d, err := fraiseqlsql.Open(source)
	if err != nil {
		return nil, err
	}
	return &SQLExecutor{driver: d}, nil
}

// NewSQLExecutor wraps an already-open *sql.DB.
func NewSQLExecutor(db *sql.DB) *SQLExecutor {
	return &SQLExecutor{driver: fraiseqlsql.OpenDB(db)}
}

// Close closes the underlying connection pool.
func (e *SQLExecutor) Close() error { return e.driver.Close() }

// Run executes sqlText and streams the JSONB column of each row.
func (e *SQLExecutor) Run(ctx context.Context, sqlText string, params []any) (RowStream, error) {
	rows, err := e.driver.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, classify(err)
	}
	return &sqlRowStream{rows: rows}, nil
}

// RunSingle executes sqlText and returns its single mutation_result row.
func (e *SQLExecutor) RunSingle(ctx context.Context, sqlText string, params []any) (json.RawMessage, error) {
	var raw json.RawMessage
	err := e.driver.QueryRowContext(ctx, sqlText, params...).Scan(&raw)
	if err != nil {
		return nil, classify(err)
	}
	return raw, nil
}

// classify sanitises a database/sql error into a fraiseql.ExecutionError
// so SQL/driver internals never leak to callers; the original error is
// still reachable via errors.As for logging.
func classify(err error) error {
	kind := fraiseql.ExecutionInternal
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = fraiseql.ExecutionTimeout
	case errors.Is(err, sql.ErrConnDone), errors.Is(err, driver.ErrBadConn):
		kind = fraiseql.ExecutionConnectionLost
	}
	return fraiseql.NewExecutionError(kind, err)
}

type sqlRowStream struct {
	rows *sql.Rows
	cur  json.RawMessage
	err  error
}

func (s *sqlRowStream) Next(ctx context.Context) bool {
	if ctx.Err() != nil {
		s.err = ctx.Err()
		return false
	}
	if !s.rows.Next() {
		s.err = s.rows.Err()
		return false
	}
	var raw json.RawMessage
	if err := s.rows.Scan(&raw); err != nil {
		s.err = err
		return false
	}
	s.cur = raw
	return true
}

func (s *sqlRowStream) Value() json.RawMessage { return s.cur }

func (s *sqlRowStream) Err() error {
	if s.err == nil {
		return nil
	}
	return classify(s.err)
}

func (s *sqlRowStream) Close() error { return s.rows.Close() }

var _ Executor = (*SQLExecutor)(nil)
