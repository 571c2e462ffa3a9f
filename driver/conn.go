package driver

import (
	"context"
	"database/sql/driver"
	"errors"

	rdfox "github.com/semihalev/go-rdfox"
)

// Conn implements driver.Conn, driver.ConnBeginTx, driver.ExecerContext,
// and driver.QueryerContext. A connection runs one transaction at a time;
// while a driver transaction is open, queries and execs run inside it.
type Conn struct {
	conn *rdfox.DataStoreConnection
	tx   *rdfox.Transaction
}

// Prepare returns a prepared statement. SPARQL carries no placeholder
// arguments, so preparation only captures the text.
func (c *Conn) Prepare(query string) (driver.Stmt, error) {
	if c.conn == nil || c.conn.Closed() {
		return nil, driver.ErrBadConn
	}
	return &Stmt{conn: c, query: query}, nil
}

// Close closes the underlying data store connection.
func (c *Conn) Close() error {
	c.conn.Close()
	return nil
}

// Begin starts a read-write transaction on the connection.
func (c *Conn) Begin() (driver.Tx, error) {
	return c.begin(rdfox.ReadWriteTransaction)
}

// BeginTx starts a transaction with context and options. Only the default
// isolation level is supported; a read-only transaction is begun when the
// options ask for one.
func (c *Conn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	if opts.Isolation != driver.IsolationLevel(0) {
		return nil, errors.New("rdfox driver: only the default isolation level is supported")
	}
	txType := rdfox.ReadWriteTransaction
	if opts.ReadOnly {
		txType = rdfox.ReadOnlyTransaction
	}
	type result struct {
		tx  driver.Tx
		err error
	}
	ch := make(chan result, 1)
	go func() {
		tx, err := c.begin(txType)
		ch <- result{tx, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.tx, r.err
	}
}

func (c *Conn) begin(txType rdfox.TransactionType) (driver.Tx, error) {
	if c.tx != nil {
		return nil, errors.New("rdfox driver: transaction already open on this connection")
	}
	tx, err := rdfox.BeginTransaction(c.conn, txType)
	if err != nil {
		return nil, err
	}
	c.tx = tx
	return &Tx{conn: c}, nil
}

// ExecContext executes an update statement with context support.
func (c *Conn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if len(args) > 0 {
		return nil, errors.New("rdfox driver: statement arguments are not supported")
	}
	type result struct {
		res driver.Result
		err error
	}
	ch := make(chan result, 1)
	go func() {
		res, err := c.exec(query)
		ch <- result{res, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.res, r.err
	}
}

// QueryContext executes a query statement with context support.
func (c *Conn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if len(args) > 0 {
		return nil, errors.New("rdfox driver: statement arguments are not supported")
	}
	type result struct {
		rows driver.Rows
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		rows, err := c.query(query)
		ch <- result{rows, err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.rows, r.err
	}
}

// query evaluates a SPARQL query and materializes the whole answer set, one
// Turtle-rendered string column per answer variable and one row per
// duplicate.
func (c *Conn) query(query string) (driver.Rows, error) {
	cursor, cleanup, err := c.cursor(query)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if c.tx != nil {
		return materialize(cursor, c.tx)
	}
	tx, err := rdfox.BeginReadOnly(c.conn)
	if err != nil {
		return nil, err
	}
	defer tx.Close()
	rows, err := materialize(cursor, tx)
	if rbErr := tx.Rollback(); err == nil && rbErr != nil {
		return nil, rbErr
	}
	return rows, err
}

// exec evaluates an update statement. Opening the statement's cursor runs
// the update; the result reports the cursor's duplicate-weighted row count.
func (c *Conn) exec(query string) (driver.Result, error) {
	cursor, cleanup, err := c.cursor(query)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	discard := func(rdfox.ResultRow) error { return nil }
	if c.tx != nil {
		count, err := cursor.Consume(c.tx, rdfox.DefaultMaxRows, discard)
		return Result{rowsAffected: int64(count)}, err
	}
	count, err := cursor.UpdateAndCommit(rdfox.DefaultMaxRows, discard)
	return Result{rowsAffected: int64(count)}, err
}

// cursor compiles the query into a cursor; cleanup releases the cursor and
// its namespaces and parameters.
func (c *Conn) cursor(query string) (*rdfox.Cursor, func(), error) {
	ns, err := rdfox.NewNamespaces()
	if err != nil {
		return nil, nil, err
	}
	params, err := rdfox.NewParameters()
	if err != nil {
		ns.Close()
		return nil, nil, err
	}
	statement := rdfox.NewStatement(ns, query)
	cursor, err := statement.Cursor(c.conn, params)
	if err != nil {
		params.Close()
		ns.Close()
		return nil, nil, err
	}
	cleanup := func() {
		cursor.Destroy()
		params.Close()
		ns.Close()
	}
	return cursor, cleanup, nil
}

// materialize drains an opened cursor into in-memory rows.
func materialize(cursor *rdfox.Cursor, tx *rdfox.Transaction) (*Rows, error) {
	opened, multiplicity, err := cursor.Open(tx)
	if err != nil {
		return nil, err
	}
	columns, err := opened.VariableNames()
	if err != nil {
		return nil, err
	}
	var data [][]driver.Value
	for multiplicity > 0 {
		values, err := opened.Values()
		if err != nil {
			return nil, err
		}
		row := make([]driver.Value, len(values))
		for i, v := range values {
			if v.IsUnbound() {
				row[i] = nil
			} else {
				row[i] = v.Turtle()
			}
		}
		for n := uint64(0); n < multiplicity; n++ {
			data = append(data, row)
		}
		multiplicity, err = opened.Advance()
		if err != nil {
			return nil, err
		}
	}
	return &Rows{columns: columns, data: data}, nil
}

// Ensure Conn implements required interfaces.
var _ driver.Conn = &Conn{}
var _ driver.ConnBeginTx = &Conn{}
var _ driver.ExecerContext = &Conn{}
var _ driver.QueryerContext = &Conn{}
