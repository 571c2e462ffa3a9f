// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"fmt"
	"runtime"
	"runtime/cgo"
	"sync"
	"time"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Answer formats accepted for streamed evaluation. The engine picks the
// serializer from the MIME name.
const (
	FormatTurtle     = "text/turtle"
	FormatNTriples   = "application/n-triples"
	FormatNQuads     = "application/n-quads"
	FormatTriG       = "application/trig"
	FormatSPARQLJSON = "application/sparql-results+json"
	FormatSPARQLXML  = "application/sparql-results+xml"
	FormatCSV        = "text/csv"
	FormatTSV        = "text/tab-separated-values"
)

// StreamSink receives formatted answer bytes during streamed evaluation.
// Unlike io.Writer, Write may accept fewer bytes than offered without
// returning an error; the unwritten remainder is offered again together
// with the next chunk. Flush is invoked whenever the engine drains its
// output buffer. A bufio.Writer satisfies the interface.
type StreamSink interface {
	Write(p []byte) (int, error)
	Flush() error
}

// Streamer drives a single evaluate-to-stream call, reassembling the
// engine's write callbacks into an unbroken byte stream for the sink. After
// a successful run it carries diagnostics: the number of solutions and the
// elapsed wall time.
type Streamer struct {
	conn      *DataStoreConnection
	sink      StreamSink
	statement *Statement
	format    string
	baseIRI   string

	pending   []byte
	sinkErr   error
	fatal     any
	solutions uint64
	elapsed   time.Duration
}

// The engine invokes the write and flush callbacks through C function
// pointers, created once and dispatched per streamer via a cgo.Handle
// carried in the output stream context.
var streamCallbacks struct {
	once  sync.Once
	write uintptr
	flush uintptr
}

func streamCallbackPtrs() (writeFn, flushFn uintptr) {
	streamCallbacks.once.Do(func() {
		streamCallbacks.write = purego.NewCallback(streamWrite)
		streamCallbacks.flush = purego.NewCallback(streamFlush)
	})
	return streamCallbacks.write, streamCallbacks.flush
}

// RunStreamer evaluates the statement on the connection and streams the
// formatted answer set into sink. The fact domain is widened to all facts,
// matching the engine's serialization endpoints.
func RunStreamer(conn *DataStoreConnection, sink StreamSink, statement *Statement, format, baseIRI string) (*Streamer, error) {
	s := &Streamer{
		conn:      conn,
		sink:      sink,
		statement: statement,
		format:    format,
		baseIRI:   baseIRI,
	}
	if err := s.evaluate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Streamer) evaluate() error {
	params, err := NewParameters()
	if err != nil {
		return err
	}
	defer params.Close()
	if err := params.SetFactDomain(FactDomainAll); err != nil {
		return err
	}

	logger().Debug("evaluating statement to stream",
		"statement", s.statement.Text(), "format", s.format, "base", s.baseIRI)
	started := time.Now()

	handle := cgo.NewHandle(s)
	writeFn, flushFn := streamCallbackPtrs()
	stream := &cOutputStream{
		context: uintptr(handle),
		flushFn: flushFn,
		writeFn: writeFn,
	}

	var solutions uint64
	exception := cDataStoreConnectionEvaluateStatement(
		s.conn.pointer(),
		s.baseIRI,
		s.statement.Namespaces().pointer(),
		s.statement.Text(),
		uint64(s.statement.ByteLength()),
		params.pointer(),
		uintptr(unsafe.Pointer(stream)),
		s.format,
		&solutions,
	)
	runtime.KeepAlive(stream)
	// The callback context is released before the result is inspected, so a
	// failed evaluation cannot leak it.
	handle.Delete()

	if s.fatal != nil {
		logger().Error("panic in streaming sink", "panic", s.fatal)
		panic(s.fatal)
	}
	err = check("evaluating a statement", exception)
	if s.sinkErr != nil {
		return s.sinkErr
	}
	if err != nil {
		return NewError(ErrStatement, fmt.Sprintf("could not evaluate %v: %v", s.statement, err))
	}

	s.solutions = solutions
	s.elapsed = time.Since(started)
	logger().Debug("evaluated statement to stream",
		"solutions", s.solutions, "elapsed", s.elapsed)
	return nil
}

// Solutions returns the number of solutions the engine reported.
func (s *Streamer) Solutions() uint64 {
	return s.solutions
}

// Elapsed returns the wall time of the evaluate call.
func (s *Streamer) Elapsed() time.Duration {
	return s.elapsed
}

// Statement returns the statement that was evaluated.
func (s *Streamer) Statement() *Statement {
	return s.statement
}

// Format returns the answer format MIME name.
func (s *Streamer) Format() string {
	return s.format
}

// write offers the pending remainder followed by the new chunk to the sink.
// A short write stashes the unwritten suffix for the next call, so no byte
// is dropped or duplicated across callback boundaries. A sink error, or a
// write that makes no progress, ends the session.
func (s *Streamer) write(chunk []byte) bool {
	if s.sinkErr != nil {
		return false
	}
	data := chunk
	if len(s.pending) > 0 {
		data = make([]byte, 0, len(s.pending)+len(chunk))
		data = append(data, s.pending...)
		data = append(data, chunk...)
	}
	if len(data) == 0 {
		return true
	}
	n, err := s.sink.Write(data)
	if err != nil {
		s.sinkErr = NewError(ErrStream, fmt.Sprintf("sink write failed after %d bytes: %v", n, err))
		return false
	}
	streamedBytes.Add(float64(n))
	if n < len(data) {
		if n == 0 {
			s.sinkErr = NewError(ErrStream, "sink accepted no bytes")
			return false
		}
		remainder := make([]byte, len(data)-n)
		copy(remainder, data[n:])
		s.pending = remainder
		return true
	}
	s.pending = nil
	return true
}

// flush drains any short-write remainder and then forwards to the sink. The
// native API has no recoverable flush failure path, so a sink flush error
// ends the session.
func (s *Streamer) flush() bool {
	if s.sinkErr != nil {
		return false
	}
	for len(s.pending) > 0 {
		if !s.write(nil) {
			return false
		}
	}
	if err := s.sink.Flush(); err != nil {
		s.sinkErr = NewError(ErrStream, fmt.Sprintf("sink flush failed: %v", err))
		return false
	}
	return true
}

// streamWrite and streamFlush are the C-visible callback bodies. A panic
// from the sink must not unwind into native frames; it is recorded on the
// streamer, the evaluation is aborted, and the panic resumes once the
// native call has returned.

func streamWrite(context, data, numberOfBytes uintptr) (ok uintptr) {
	var s *Streamer
	defer func() {
		if r := recover(); r != nil {
			if s != nil {
				s.fatal = r
			}
			ok = 0
		}
	}()
	s, _ = cgo.Handle(context).Value().(*Streamer)
	if s == nil {
		return 0
	}
	if s.write(goBytes(data, int(numberOfBytes))) {
		return 1
	}
	return 0
}

func streamFlush(context uintptr) (ok uintptr) {
	var s *Streamer
	defer func() {
		if r := recover(); r != nil {
			if s != nil {
				s.fatal = r
			}
			ok = 0
		}
	}()
	s, _ = cgo.Handle(context).Value().(*Streamer)
	if s == nil {
		return 0
	}
	if s.flush() {
		return 1
	}
	return 0
}
