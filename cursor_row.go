// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

// ResultRow is a borrowed view over one logical answer row of an opened
// cursor. Multiplicity is the duplicate count of this exact row, Count is
// the running duplicate-weighted total, and RowID is the 1-based row number.
// A row is valid only until the cursor advances.
type ResultRow struct {
	opened *OpenedCursor

	Multiplicity uint64
	Count        uint64
	RowID        uint64
}

// Arity returns the number of columns in the row.
func (r ResultRow) Arity() int {
	return r.opened.arity
}

// ResourceID returns the resource ID bound to the given column, zero when
// the column is unbound in this row.
func (r ResultRow) ResourceID(column int) (uint64, error) {
	return r.opened.resourceID(column)
}

// Value fetches and decodes the value bound to the given column. An unbound
// column yields the unbound Value without touching the engine.
func (r ResultRow) Value(column int) (Value, error) {
	return r.opened.Value(column)
}

// Values fetches all columns of the row in column order.
func (r ResultRow) Values() ([]Value, error) {
	return r.opened.Values()
}

// VariableNames returns the answer variable names, in column order.
func (r ResultRow) VariableNames() ([]string, error) {
	return r.opened.VariableNames()
}
