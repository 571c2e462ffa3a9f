// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"fmt"
)

// DefaultMaxRows bounds cursor consumption when the caller does not supply
// an explicit limit.
const DefaultMaxRows uint64 = 1_000_000_000

// Cursor owns a native cursor prepared for one SPARQL statement on one data
// store connection. A cursor starts closed; Open evaluates the statement
// inside a transaction and returns an OpenedCursor for row iteration. A
// cursor belongs to the transaction that opened it and must not be advanced
// from multiple goroutines.
type Cursor struct {
	handle    *Handle
	conn      *DataStoreConnection
	statement *Statement
}

// NewCursor compiles the statement into a native cursor on the connection.
func NewCursor(conn *DataStoreConnection, params *Parameters, statement *Statement) (*Cursor, error) {
	logger().Debug("creating cursor", "statement", statement.Text(), "bytes", statement.ByteLength())
	var ptr uintptr
	err := check("creating a cursor", cDataStoreConnectionCreateCursor(
		conn.pointer(),
		0,
		statement.Namespaces().pointer(),
		statement.Text(),
		uint64(statement.ByteLength()),
		params.pointer(),
		&ptr,
	))
	if err != nil {
		return nil, NewError(ErrStatement, fmt.Sprintf("could not create cursor for %v: %v", statement, err))
	}
	return &Cursor{
		handle:    NewHandle("cursor", ptr, cCursorDestroy),
		conn:      conn,
		statement: statement,
	}, nil
}

// Statement returns the statement the cursor evaluates.
func (c *Cursor) Statement() *Statement {
	return c.statement
}

// Connection returns the connection the cursor runs on.
func (c *Cursor) Connection() *DataStoreConnection {
	return c.conn
}

// Destroy releases the native cursor. Only the first call has an effect.
func (c *Cursor) Destroy() {
	if c.handle.Destroyed() {
		return
	}
	c.handle.Destroy()
	logger().Debug("destroyed cursor")
}

// Consume opens the cursor inside tx and invokes f once per distinct answer
// row, accumulating the duplicate-weighted total, until the cursor is
// exhausted. The limit is a fail-fast guard, not a pagination device: when a
// single row's multiplicity reaches maxRows, or the number of distinct rows
// reaches maxRows, consumption aborts with a typed error carrying the
// statement text. An error from f stops the loop immediately.
func (c *Cursor) Consume(tx *Transaction, maxRows uint64, f func(ResultRow) error) (uint64, error) {
	opened, multiplicity, err := c.Open(tx)
	if err != nil {
		return 0, err
	}
	var rowID, count uint64
	for multiplicity > 0 {
		if multiplicity >= maxRows {
			return count, errMultiplicityLimit(multiplicity, maxRows, c.statement.Text())
		}
		rowID++
		if rowID >= maxRows {
			return count, errRowLimit(maxRows, c.statement.Text())
		}
		count += multiplicity
		cursorRowsRead.Inc()
		cursorDuplicatesRead.Add(float64(multiplicity - 1))
		row := ResultRow{
			opened:       opened,
			Multiplicity: multiplicity,
			Count:        count,
			RowID:        rowID,
		}
		if err := f(row); err != nil {
			return count, err
		}
		multiplicity, err = opened.Advance()
		if err != nil {
			return count, err
		}
	}
	logger().Debug("cursor exhausted", "rows", rowID, "count", count)
	return count, nil
}

// Count computes the duplicate-weighted cardinality of the answer set by
// consuming the cursor with a no-op row function.
func (c *Cursor) Count(tx *Transaction) (uint64, error) {
	return c.Consume(tx, DefaultMaxRows, func(ResultRow) error { return nil })
}

// UpdateAndCommit begins a read-write transaction, consumes the cursor
// through f, commits when consumption succeeds, and rolls back otherwise.
// It returns the duplicate-weighted total.
func (c *Cursor) UpdateAndCommit(maxRows uint64, f func(ResultRow) error) (uint64, error) {
	tx, err := BeginReadWrite(c.conn)
	if err != nil {
		return 0, err
	}
	defer tx.Close()
	var count uint64
	err = tx.UpdateAndCommit(func(tx *Transaction) error {
		var consumeErr error
		count, consumeErr = c.Consume(tx, maxRows, f)
		return consumeErr
	})
	return count, err
}

// ExecuteAndRollback begins a read-only transaction, consumes the cursor
// through f, and rolls back regardless of outcome, so reads leave no trace.
// It returns the duplicate-weighted total.
func (c *Cursor) ExecuteAndRollback(maxRows uint64, f func(ResultRow) error) (uint64, error) {
	tx, err := BeginReadOnly(c.conn)
	if err != nil {
		return 0, err
	}
	defer tx.Close()
	var count uint64
	err = tx.ExecuteAndRollback(func(tx *Transaction) error {
		var consumeErr error
		count, consumeErr = c.Consume(tx, maxRows, f)
		return consumeErr
	})
	return count, err
}
