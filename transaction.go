// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// TransactionType selects the isolation behavior of a transaction. The
// numeric values match the native transaction type enum.
type TransactionType int32

const (
	// ReadOnlyTransaction sees a stable snapshot and cannot update the store.
	ReadOnlyTransaction TransactionType = iota
	// ReadWriteTransaction can read and update the store.
	ReadWriteTransaction
	// ExclusiveTransaction takes the store exclusively. Engine versions
	// without exclusive support reject it with an engine error.
	ExclusiveTransaction
)

// String returns a short name for the transaction type.
func (t TransactionType) String() string {
	switch t {
	case ReadOnlyTransaction:
		return "read-only"
	case ReadWriteTransaction:
		return "read-write"
	case ExclusiveTransaction:
		return "exclusive"
	}
	return "unknown"
}

// transactionIDs assigns process-unique transaction numbers for diagnostics.
var transactionIDs atomic.Uint64

// Transaction is an open transaction on a data store connection. Exactly one
// of Commit or Rollback takes effect; whichever runs first resolves the
// transaction and later calls are no-ops. A transaction that is closed while
// unresolved is rolled back. The native API allows one open transaction per
// connection, so transactions are not nested and not shared across
// goroutines.
type Transaction struct {
	conn   *DataStoreConnection
	txType TransactionType
	id     uint64

	mu       sync.Mutex
	resolved bool
}

// BeginTransaction starts a transaction of the given type on the connection.
func BeginTransaction(conn *DataStoreConnection, txType TransactionType) (*Transaction, error) {
	err := check("beginning a transaction",
		cDataStoreConnectionBeginTransaction(conn.pointer(), int32(txType)))
	if err != nil {
		return nil, NewError(ErrTransaction, fmt.Sprintf("could not begin %s transaction: %v", txType, err))
	}
	tx := &Transaction{
		conn:   conn,
		txType: txType,
		id:     transactionIDs.Add(1),
	}
	transactionsBegun.WithLabelValues(txType.String()).Inc()
	logger().Debug("began transaction", "tx", tx.id, "type", txType.String(), "connection", conn.Number())
	return tx, nil
}

// BeginReadOnly starts a read-only transaction on the connection.
func BeginReadOnly(conn *DataStoreConnection) (*Transaction, error) {
	return BeginTransaction(conn, ReadOnlyTransaction)
}

// BeginReadWrite starts a read-write transaction on the connection.
func BeginReadWrite(conn *DataStoreConnection) (*Transaction, error) {
	return BeginTransaction(conn, ReadWriteTransaction)
}

// ID returns the diagnostic number of the transaction.
func (t *Transaction) ID() uint64 {
	return t.id
}

// Type returns the transaction type.
func (t *Transaction) Type() TransactionType {
	return t.txType
}

// Connection returns the connection the transaction runs on.
func (t *Transaction) Connection() *DataStoreConnection {
	return t.conn
}

// Resolved reports whether the transaction has been committed or rolled back.
func (t *Transaction) Resolved() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.resolved
}

// Commit commits the transaction. Calling Commit or Rollback on a resolved
// transaction is a no-op.
func (t *Transaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.resolved {
		return nil
	}
	err := check("committing a transaction",
		cDataStoreConnectionCommitTransaction(t.conn.pointer()))
	if err != nil {
		return NewError(ErrTransaction, fmt.Sprintf("could not commit transaction %d: %v", t.id, err))
	}
	t.resolved = true
	transactionsResolved.WithLabelValues("commit").Inc()
	logger().Debug("committed transaction", "tx", t.id)
	return nil
}

// Rollback rolls back the transaction. Calling Commit or Rollback on a
// resolved transaction is a no-op.
func (t *Transaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rollbackLocked("rollback")
}

func (t *Transaction) rollbackLocked(outcome string) error {
	if t.resolved {
		return nil
	}
	err := check("rolling back a transaction",
		cDataStoreConnectionRollbackTransaction(t.conn.pointer()))
	if err != nil {
		return NewError(ErrTransaction, fmt.Sprintf("could not roll back transaction %d: %v", t.id, err))
	}
	t.resolved = true
	transactionsResolved.WithLabelValues(outcome).Inc()
	logger().Debug("rolled back transaction", "tx", t.id)
	return nil
}

// Close rolls back the transaction when it is still unresolved. A failed
// implicit rollback leaves the connection in an unknown state, which is not
// recoverable; it panics after logging.
func (t *Transaction) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.resolved {
		return
	}
	if err := t.rollbackLocked("auto-rollback"); err != nil {
		logger().Error("implicit rollback failed", "tx", t.id, "error", err)
		panic(fmt.Sprintf("rdfox: implicit rollback of transaction %d failed: %v", t.id, err))
	}
}

// UpdateAndCommit runs f inside the transaction, commits when f succeeds,
// and rolls back when f returns an error.
func (t *Transaction) UpdateAndCommit(f func(*Transaction) error) error {
	if err := f(t); err != nil {
		if rbErr := t.Rollback(); rbErr != nil {
			logger().Error("rollback after failed update", "tx", t.id, "error", rbErr)
		}
		return err
	}
	return t.Commit()
}

// ExecuteAndRollback runs f inside the transaction and always rolls back
// afterwards, so that f's reads see a stable snapshot without leaving any
// trace. A rollback failure takes precedence over f's result.
func (t *Transaction) ExecuteAndRollback(f func(*Transaction) error) error {
	err := f(t)
	if rbErr := t.Rollback(); rbErr != nil {
		return rbErr
	}
	return err
}
