package driver

import (
	"context"
	"database/sql/driver"
)

// Stmt implements driver.Stmt, driver.StmtExecContext, and
// driver.StmtQueryContext. SPARQL has no placeholder arguments, so a
// statement is its text.
type Stmt struct {
	conn   *Conn
	query  string
	closed bool
}

// Close closes the prepared statement.
func (s *Stmt) Close() error {
	if s.closed {
		return driver.ErrBadConn
	}
	s.closed = true
	return nil
}

// NumInput returns 0: rdfox statements take no arguments.
func (s *Stmt) NumInput() int {
	return 0
}

// Exec executes an update statement.
func (s *Stmt) Exec(args []driver.Value) (driver.Result, error) {
	if s.closed {
		return nil, driver.ErrBadConn
	}
	return s.conn.exec(s.query)
}

// Query executes a query statement.
func (s *Stmt) Query(args []driver.Value) (driver.Rows, error) {
	if s.closed {
		return nil, driver.ErrBadConn
	}
	return s.conn.query(s.query)
}

// ExecContext executes an update statement with context support.
func (s *Stmt) ExecContext(ctx context.Context, args []driver.NamedValue) (driver.Result, error) {
	if s.closed {
		return nil, driver.ErrBadConn
	}
	return s.conn.ExecContext(ctx, s.query, args)
}

// QueryContext executes a query statement with context support.
func (s *Stmt) QueryContext(ctx context.Context, args []driver.NamedValue) (driver.Rows, error) {
	if s.closed {
		return nil, driver.ErrBadConn
	}
	return s.conn.QueryContext(ctx, s.query, args)
}

// Ensure Stmt implements required interfaces.
var _ driver.Stmt = &Stmt{}
var _ driver.StmtExecContext = &Stmt{}
var _ driver.StmtQueryContext = &Stmt{}
