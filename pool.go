// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"context"
	"fmt"
	"sync/atomic"
)

// ConnectionPool hands out data store connections for one server connection
// and data store pair. The number of live connections never exceeds the pool
// size; Acquire blocks while all of them are in use. The engine allows one
// in-flight transaction per connection, so pooling is how concurrent callers
// share a data store.
type ConnectionPool struct {
	sc        *ServerConnection
	dataStore *DataStore
	idle      chan *DataStoreConnection
	slots     chan struct{}

	releaseOnReturn int32
	closed          int32
}

// NewConnectionPool builds a pool sized to the server's thread count.
func NewConnectionPool(sc *ServerConnection, ds *DataStore) (*ConnectionPool, error) {
	threads, err := sc.NumberOfThreads()
	if err != nil {
		return nil, err
	}
	return NewConnectionPoolWithSize(sc, ds, int(threads))
}

// NewConnectionPoolWithSize builds a pool holding at most size connections.
func NewConnectionPoolWithSize(sc *ServerConnection, ds *DataStore, size int) (*ConnectionPool, error) {
	if size < 1 {
		size = 1
	}
	logger().Debug("created connection pool", "dataStore", ds.Name(), "size", size)
	return &ConnectionPool{
		sc:        sc,
		dataStore: ds,
		idle:      make(chan *DataStoreConnection, size),
		slots:     make(chan struct{}, size),
	}, nil
}

// DataStore returns the data store this pool connects to.
func (p *ConnectionPool) DataStore() *DataStore {
	return p.dataStore
}

// Size returns the maximum number of live connections.
func (p *ConnectionPool) Size() int {
	return cap(p.slots)
}

// Live returns the number of connections currently open, idle or acquired.
func (p *ConnectionPool) Live() int {
	return len(p.slots)
}

// Idle returns the number of open connections waiting in the pool.
func (p *ConnectionPool) Idle() int {
	return len(p.idle)
}

// SetReleaseOnReturn controls shutdown draining. When set, connections
// returned with Release are closed instead of pooled, so the pool empties as
// in-flight work finishes.
func (p *ConnectionPool) SetReleaseOnReturn(release bool) {
	var flag int32
	if release {
		flag = 1
	}
	atomic.StoreInt32(&p.releaseOnReturn, flag)
}

func (p *ConnectionPool) releasing() bool {
	return atomic.LoadInt32(&p.releaseOnReturn) != 0
}

// Closed reports whether the pool has been closed.
func (p *ConnectionPool) Closed() bool {
	return atomic.LoadInt32(&p.closed) != 0
}

// Acquire returns an idle connection, or opens a new one while the pool is
// under its size limit, or blocks until a connection is released or the
// context is done.
func (p *ConnectionPool) Acquire(ctx context.Context) (*DataStoreConnection, error) {
	if p.Closed() {
		return nil, NewError(ErrConnection, "connection pool is closed")
	}
	select {
	case conn := <-p.idle:
		return conn, nil
	default:
	}
	select {
	case conn := <-p.idle:
		return conn, nil
	case p.slots <- struct{}{}:
		conn, err := p.sc.Connect(p.dataStore)
		if err != nil {
			<-p.slots
			return nil, err
		}
		logger().Debug("pool opened connection", "connection", conn.Number(), "live", p.Live())
		return conn, nil
	case <-ctx.Done():
		return nil, NewError(ErrConnection, fmt.Sprintf("could not acquire connection: %v", ctx.Err()))
	}
}

// Release returns a connection to the pool. Closed connections and
// connections returned during shutdown draining are discarded.
func (p *ConnectionPool) Release(conn *DataStoreConnection) {
	if conn == nil {
		return
	}
	if p.Closed() || p.releasing() || conn.Closed() {
		p.discard(conn)
		return
	}
	select {
	case p.idle <- conn:
	default:
		p.discard(conn)
	}
}

func (p *ConnectionPool) discard(conn *DataStoreConnection) {
	conn.Close()
	select {
	case <-p.slots:
	default:
	}
}

// With acquires a connection, runs f, and releases the connection on every
// return path.
func (p *ConnectionPool) With(ctx context.Context, f func(*DataStoreConnection) error) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(conn)
	return f(conn)
}

// Close closes the pool and every idle connection. Acquired connections are
// closed as they are released.
func (p *ConnectionPool) Close() {
	if !atomic.CompareAndSwapInt32(&p.closed, 0, 1) {
		return
	}
	for {
		select {
		case conn := <-p.idle:
			p.discard(conn)
		default:
			logger().Debug("closed connection pool", "dataStore", p.dataStore.Name(), "live", p.Live())
			return
		}
	}
}
