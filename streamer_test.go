// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"errors"
	"strings"
	"testing"
)

// captureSink is a scriptable StreamSink. acceptMax caps the bytes taken per
// Write call, acceptNone takes none without erroring, and panicMsg makes
// Write panic.
type captureSink struct {
	data    []byte
	writes  int
	flushes int

	acceptMax  int
	acceptNone bool
	writeErr   error
	flushErr   error
	panicMsg   string
}

func (cs *captureSink) Write(p []byte) (int, error) {
	cs.writes++
	if cs.panicMsg != "" {
		panic(cs.panicMsg)
	}
	if cs.writeErr != nil {
		return 0, cs.writeErr
	}
	if cs.acceptNone {
		return 0, nil
	}
	n := len(p)
	if cs.acceptMax > 0 && n > cs.acceptMax {
		n = cs.acceptMax
	}
	cs.data = append(cs.data, p[:n]...)
	return n, nil
}

func (cs *captureSink) Flush() error {
	cs.flushes++
	return cs.flushErr
}

// testStatement builds a statement over fresh namespaces cleaned up with the
// test.
func testStatement(t *testing.T, text string) *Statement {
	t.Helper()
	ns, err := NewNamespaces()
	if err != nil {
		t.Fatalf("Failed to create namespaces: %v", err)
	}
	t.Cleanup(ns.Close)
	return NewStatement(ns, text)
}

func TestStreamerDeliversAnswerBytes(t *testing.T) {
	fe := newFakeEngine(t)
	conn := testConnection(t, fe)
	fe.streamChunks = [][]byte{[]byte("@prefix ex: <https://example.com/> .\n"), []byte("ex:s ex:p ex:o .\n")}
	fe.streamSolutions = 1

	sink := &captureSink{}
	statement := testStatement(t, "SELECT ?s WHERE { ?s ?p ?o }")
	streamer, err := RunStreamer(conn, sink, statement, FormatTurtle, "")
	if err != nil {
		t.Fatalf("RunStreamer failed: %v", err)
	}

	want := "@prefix ex: <https://example.com/> .\nex:s ex:p ex:o .\n"
	if string(sink.data) != want {
		t.Errorf("Streamed bytes: got %q, want %q", sink.data, want)
	}
	if sink.flushes != 1 {
		t.Errorf("Flushes: got %d, want 1", sink.flushes)
	}
	if streamer.Solutions() != 1 {
		t.Errorf("Solutions: got %d, want 1", streamer.Solutions())
	}
	if streamer.Format() != FormatTurtle {
		t.Errorf("Format: got %q", streamer.Format())
	}
	if streamer.Statement() != statement {
		t.Error("Streamer lost its statement")
	}
}

func TestStreamerReassemblesShortWrites(t *testing.T) {
	fe := newFakeEngine(t)
	conn := testConnection(t, fe)
	fe.streamChunks = [][]byte{[]byte("abc"), []byte("def")}

	// A sink taking two bytes per call forces a remainder to carry across
	// callback boundaries.
	sink := &captureSink{acceptMax: 2}
	if _, err := RunStreamer(conn, sink, testStatement(t, "SELECT ?s WHERE { ?s ?p ?o }"), FormatCSV, ""); err != nil {
		t.Fatalf("RunStreamer failed: %v", err)
	}
	if string(sink.data) != "abcdef" {
		t.Errorf("Streamed bytes: got %q, want abcdef", sink.data)
	}
}

func TestStreamerDrainsPendingOnFlush(t *testing.T) {
	fe := newFakeEngine(t)
	conn := testConnection(t, fe)
	fe.streamChunks = [][]byte{[]byte("abcdefgh")}

	// The final chunk leaves six undelivered bytes; the flush must push
	// them through in repeated passes before flushing the sink.
	sink := &captureSink{acceptMax: 2}
	if _, err := RunStreamer(conn, sink, testStatement(t, "SELECT ?s WHERE { ?s ?p ?o }"), FormatCSV, ""); err != nil {
		t.Fatalf("RunStreamer failed: %v", err)
	}
	if string(sink.data) != "abcdefgh" {
		t.Errorf("Streamed bytes: got %q, want abcdefgh", sink.data)
	}
	if sink.flushes != 1 {
		t.Errorf("Flushes: got %d, want 1", sink.flushes)
	}
}

func TestStreamerEmptyAnswerStream(t *testing.T) {
	fe := newFakeEngine(t)
	conn := testConnection(t, fe)
	fe.streamChunks = [][]byte{{}}

	sink := &captureSink{}
	streamer, err := RunStreamer(conn, sink, testStatement(t, "SELECT ?s WHERE { ?s ?p ?o }"), FormatSPARQLJSON, "")
	if err != nil {
		t.Fatalf("RunStreamer failed: %v", err)
	}
	if len(sink.data) != 0 {
		t.Errorf("Streamed bytes: got %q, want none", sink.data)
	}
	if sink.flushes != 1 {
		t.Errorf("Flushes: got %d, want 1", sink.flushes)
	}
	if streamer.Solutions() != 0 {
		t.Errorf("Solutions: got %d, want 0", streamer.Solutions())
	}
}

func TestStreamerSinkWriteError(t *testing.T) {
	fe := newFakeEngine(t)
	conn := testConnection(t, fe)
	fe.streamChunks = [][]byte{[]byte("abc")}

	sink := &captureSink{writeErr: errors.New("disk full")}
	_, err := RunStreamer(conn, sink, testStatement(t, "SELECT ?s WHERE { ?s ?p ?o }"), FormatTurtle, "")
	if !IsError(err, ErrStream) {
		t.Fatalf("Expected ErrStream, got %v", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Stream error misses the sink error: %v", err)
	}
}

func TestStreamerSinkAcceptsNothing(t *testing.T) {
	fe := newFakeEngine(t)
	conn := testConnection(t, fe)
	fe.streamChunks = [][]byte{[]byte("abc")}

	sink := &captureSink{acceptNone: true}
	_, err := RunStreamer(conn, sink, testStatement(t, "SELECT ?s WHERE { ?s ?p ?o }"), FormatTurtle, "")
	if !IsError(err, ErrStream) {
		t.Fatalf("Expected ErrStream, got %v", err)
	}
	if !strings.Contains(err.Error(), "accepted no bytes") {
		t.Errorf("Stream error misses the zero-progress cause: %v", err)
	}
}

func TestStreamerSinkFlushError(t *testing.T) {
	fe := newFakeEngine(t)
	conn := testConnection(t, fe)
	fe.streamChunks = [][]byte{[]byte("abc")}

	sink := &captureSink{flushErr: errors.New("pipe closed")}
	_, err := RunStreamer(conn, sink, testStatement(t, "SELECT ?s WHERE { ?s ?p ?o }"), FormatTurtle, "")
	if !IsError(err, ErrStream) {
		t.Fatalf("Expected ErrStream, got %v", err)
	}
	if !strings.Contains(err.Error(), "pipe closed") {
		t.Errorf("Stream error misses the sink error: %v", err)
	}
}

func TestStreamerSinkPanicResurfaces(t *testing.T) {
	fe := newFakeEngine(t)
	conn := testConnection(t, fe)
	fe.streamChunks = [][]byte{[]byte("abc")}

	sink := &captureSink{panicMsg: "sink exploded"}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Expected the sink panic to resurface")
		}
		if r != "sink exploded" {
			t.Errorf("Panic value: got %v", r)
		}
	}()
	_, _ = RunStreamer(conn, sink, testStatement(t, "SELECT ?s WHERE { ?s ?p ?o }"), FormatTurtle, "")
	t.Fatal("RunStreamer returned instead of panicking")
}

func TestStreamerEvaluationFailure(t *testing.T) {
	fe := newFakeEngine(t)
	conn := testConnection(t, fe)
	fe.failEvaluate = fe.throw("ParsingException", "syntax error")

	sink := &captureSink{}
	text := "SELECT ?s WHREE { ?s ?p ?o }"
	_, err := RunStreamer(conn, sink, testStatement(t, text), FormatTurtle, "")
	if !IsError(err, ErrStatement) {
		t.Fatalf("Expected ErrStatement, got %v", err)
	}
	if !strings.Contains(err.Error(), text) {
		t.Errorf("Evaluation error misses the statement: %v", err)
	}
	if sink.writes != 0 {
		t.Errorf("Sink saw %d writes from a failed evaluation", sink.writes)
	}
}

func TestEvaluateToStream(t *testing.T) {
	fe := newFakeEngine(t)
	conn := testConnection(t, fe)
	fe.streamChunks = [][]byte{[]byte(`{"results":{}}`)}
	fe.streamSolutions = 3

	sink := &captureSink{}
	text := "SELECT ?s WHERE { ?s ?p ?o }"
	streamer, err := conn.EvaluateToStream(sink, testStatement(t, text), FormatSPARQLJSON)
	if err != nil {
		t.Fatalf("EvaluateToStream failed: %v", err)
	}
	if streamer.Solutions() != 3 {
		t.Errorf("Solutions: got %d, want 3", streamer.Solutions())
	}
	if len(fe.evaluated) != 1 || fe.evaluated[0] != text {
		t.Errorf("Engine evaluated %v, want the statement text", fe.evaluated)
	}
	// Serialization widens the fact domain so derived facts stream too.
	if fe.paramsSet["fact-domain"] != "all" {
		t.Errorf("fact-domain parameter: got %q, want all", fe.paramsSet["fact-domain"])
	}
	if fe.paramsAlive != 0 {
		t.Errorf("Evaluation leaked %d parameter objects", fe.paramsAlive)
	}
}
