// Package sql provides the low-level SQL safety primitives and
// database/sql wiring the executor adapter builds on: identifier
// validation (columns, view names, and JSONB paths are interpolated
// into SQL text, never bound as parameters, so they are validated
// rather than escaped) and a Driver/Conn pair over database/sql +
// github.com/lib/pq. THE CORE targets Postgres/JSONB exclusively, so
// unlike a general ORM dialect layer this package carries no
// MySQL/SQLite dialect switch.
package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores,
// dots for schema.name).
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// IsValidIdentifier checks if the string is a valid SQL identifier.
func IsValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// EscapeStringValue escapes a string value for safe use in SQL.
// It escapes both single quotes (by doubling) and backslashes.
func EscapeStringValue(s string) string {
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", "''")
	return s
}

// Driver wraps a *sql.DB connection pool opened against Postgres.
type Driver struct {
	Conn
	db *sql.DB
}

// Open opens a new connection pool via github.com/lib/pq, registered
// under the driver name "postgres".
func Open(source string) (*Driver, error) {
	db, err := sql.Open("postgres", source)
	if err != nil {
		return nil, err
	}
	return OpenDB(db), nil
}

// OpenDB wraps an already-open *sql.DB with a Driver.
func OpenDB(db *sql.DB) *Driver {
	return &Driver{Conn: Conn{db}, db: db}
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB { return d.db }

// Close closes the underlying connection pool.
func (d *Driver) Close() error { return d.db.Close() }

// BeginTx starts and returns a transaction.
func (d *Driver) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{Conn: Conn{tx}, tx: tx}, nil
}

// Tx wraps a *sql.Tx behind the same Conn surface as Driver.
type Tx struct {
	Conn
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit() error { return t.tx.Commit() }

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error { return t.tx.Rollback() }

// ctxVarsKey is the key used for attaching and reading the context variables.
type ctxVarsKey struct{}

// sessionVars holds session/transaction variables to set before every statement.
type sessionVars struct {
	vars []struct{ k, v string }
}

// WithVar returns a new context that holds a Postgres session variable
// (e.g. a tenant id for row-level security) to be SET before every
// statement run against it, and RESET once the connection returns to
// the pool.
func WithVar(ctx context.Context, name, value string) context.Context {
	sv, _ := ctx.Value(ctxVarsKey{}).(sessionVars)
	sv.vars = append(sv.vars, struct{ k, v string }{k: name, v: value})
	return context.WithValue(ctx, ctxVarsKey{}, sv)
}

// VarFromContext returns the session variable value from the context.
func VarFromContext(ctx context.Context, name string) (string, bool) {
	sv, _ := ctx.Value(ctxVarsKey{}).(sessionVars)
	for _, s := range sv.vars {
		if s.k == name {
			return s.v, true
		}
	}
	return "", false
}

// ExecQuerier wraps the standard Exec and Query methods, letting Conn
// wrap either a *sql.DB, a *sql.Tx, or a *sql.Conn identically.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Conn adapts an ExecQuerier, applying any WithVar-attached session
// variables before the underlying statement runs. QueryRowContext is
// not overridden: it is promoted straight from the embedded
// ExecQuerier, so single-row mutation calls bypass session-var
// application (mutations don't need the row-level-security context a
// read's tenant-scoped WHERE clause does).
type Conn struct {
	ExecQuerier
}

// ExecContext sets pending session variables, runs query, and cleans up.
func (c Conn) ExecContext(ctx context.Context, query string, args ...any) (res sql.Result, rerr error) {
	ex, cf, err := c.maySetVars(ctx)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: exec: set session vars: %w", err)
	}
	if cf != nil {
		defer func() { rerr = errors.Join(rerr, cf()) }()
	}
	res, err = ex.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: exec: %w", err)
	}
	return res, nil
}

// QueryContext sets pending session variables and runs query, returning
// rows whose Close also tears down the session-var cleanup.
func (c Conn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	ex, cf, err := c.maySetVars(ctx)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: query: set session vars: %w", err)
	}
	rows, err := ex.QueryContext(ctx, query, args...)
	if err != nil {
		if cf != nil {
			err = errors.Join(err, cf())
		}
		return nil, fmt.Errorf("dialect/sql: query: %w", err)
	}
	return rows, nil
}

// maySetVars sets the session variables before executing a query,
// handing back the dedicated connection (and its close/reset function)
// when there is anything to set.
func (c Conn) maySetVars(ctx context.Context) (ExecQuerier, func() error, error) {
	sv, _ := ctx.Value(ctxVarsKey{}).(sessionVars)
	if len(sv.vars) == 0 {
		return c, nil, nil
	}
	var (
		ex    ExecQuerier
		cf    func() error
		reset []string
		seen  = make(map[string]struct{}, len(sv.vars))
	)
	switch e := c.ExecQuerier.(type) {
	case *sql.Tx:
		ex = e
	case *sql.DB:
		conn, err := e.Conn(ctx)
		if err != nil {
			return nil, nil, err
		}
		ex, cf = conn, conn.Close
	default:
		return nil, nil, fmt.Errorf("dialect/sql: unsupported ExecQuerier type: %T", c.ExecQuerier)
	}
	for _, s := range sv.vars {
		if !IsValidIdentifier(s.k) {
			if cf != nil {
				_ = cf()
			}
			return nil, nil, fmt.Errorf("dialect/sql: invalid session variable name: %q", s.k)
		}
		if _, ok := seen[s.k]; !ok {
			reset = append(reset, fmt.Sprintf("RESET %s", s.k))
			seen[s.k] = struct{}{}
		}
		escaped := EscapeStringValue(s.v)
		if _, err := ex.ExecContext(ctx, fmt.Sprintf("SET %s = '%s'", s.k, escaped)); err != nil {
			if cf != nil {
				err = errors.Join(err, cf())
			}
			return nil, nil, err
		}
	}
	if cls := cf; cf != nil && len(reset) > 0 {
		cf = func() error {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			for _, q := range reset {
				if _, err := ex.ExecContext(cleanupCtx, q); err != nil {
					return errors.Join(err, cls())
				}
			}
			return cls()
		}
	}
	return ex, cf, nil
}
