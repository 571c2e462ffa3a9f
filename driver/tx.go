package driver

import "database/sql/driver"

// Tx implements driver.Tx over the connection's open transaction. While the
// transaction is open, queries and execs on the connection run inside it.
type Tx struct {
	conn *Conn
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	tx := t.conn.tx
	t.conn.tx = nil
	return tx.Commit()
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error {
	tx := t.conn.tx
	t.conn.tx = nil
	return tx.Rollback()
}

// Ensure Tx implements driver.Tx.
var _ driver.Tx = &Tx{}
