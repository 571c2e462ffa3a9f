// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"sync"
	"sync/atomic"
)

// lexicalBufferSize is the size of the scratch buffer handed to the engine
// when fetching a resource's lexical form. Values longer than this are
// fetched a second time with a buffer of the exact reported size.
const lexicalBufferSize = 1024

// maxPooledBufferSize bounds the buffers kept for reuse. A buffer grown for
// one oversized literal is discarded rather than pinned in the pool.
const maxPooledBufferSize = 64 * 1024

// BufferPool recycles the scratch buffers used to read lexical forms across
// the native boundary. It is safe for concurrent use.
type BufferPool struct {
	buffers sync.Pool

	// Statistics for monitoring and tuning.
	gets     atomic.Uint64
	puts     atomic.Uint64
	misses   atomic.Uint64
	discards atomic.Uint64
}

// NewBufferPool creates a buffer pool whose buffers start at
// lexicalBufferSize bytes.
func NewBufferPool() *BufferPool {
	pool := &BufferPool{}
	pool.buffers = sync.Pool{
		New: func() any {
			pool.misses.Add(1)
			buf := make([]byte, lexicalBufferSize)
			return &buf
		},
	}
	return pool
}

// Get returns a zeroed buffer of at least lexicalBufferSize bytes.
func (p *BufferPool) Get() []byte {
	p.gets.Add(1)
	buf := *(p.buffers.Get().(*[]byte))
	buf = buf[:cap(buf)]
	for i := range buf {
		buf[i] = 0
	}
	return buf
}

// Put returns a buffer to the pool. Oversized buffers are discarded.
func (p *BufferPool) Put(buf []byte) {
	if buf == nil {
		return
	}
	p.puts.Add(1)
	if cap(buf) > maxPooledBufferSize {
		p.discards.Add(1)
		return
	}
	p.buffers.Put(&buf)
}

// Stats returns counters describing pool behavior.
func (p *BufferPool) Stats() map[string]uint64 {
	return map[string]uint64{
		"gets":     p.gets.Load(),
		"puts":     p.puts.Load(),
		"misses":   p.misses.Load(),
		"discards": p.discards.Load(),
	}
}

// Shared pool for lexical form reads.
var lexicalBuffers = NewBufferPool()
