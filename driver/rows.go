package driver

import (
	"database/sql/driver"
	"io"
)

// Rows implements driver.Rows over a fully materialized answer set.
type Rows struct {
	columns []string
	data    [][]driver.Value
	pos     int
}

// Columns returns the answer variable names.
func (r *Rows) Columns() []string {
	return r.columns
}

// Close releases the rows. No-op since the answer set is in-memory.
func (r *Rows) Close() error {
	return nil
}

// Next populates dest with the values of the next row. Returns io.EOF when
// there are no more rows.
func (r *Rows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	copy(dest, r.data[r.pos])
	r.pos++
	return nil
}

// Ensure Rows implements driver.Rows.
var _ driver.Rows = &Rows{}
