// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync/atomic"
	"time"
)

// UpdateType selects how imported facts combine with the store content.
type UpdateType int32

const (
	// UpdateAddition adds the imported facts to the store.
	UpdateAddition UpdateType = iota
	// UpdateDeletion removes the imported facts from the store.
	UpdateDeletion
)

// connectionNumbers assigns process-unique connection numbers for
// diagnostics.
var connectionNumbers atomic.Uint64

// DataStoreConnection is an open connection to one data store. The handle
// may be shared across goroutines, but the engine allows one active
// transaction per connection, so callers that need concurrent transactions
// use one connection each, typically through a Pool.
type DataStoreConnection struct {
	handle    *Handle
	dataStore *DataStore
	number    uint64
	startedAt time.Time
	closed    int32
}

func newDataStoreConnection(ds *DataStore, ptr uintptr) *DataStoreConnection {
	c := &DataStoreConnection{
		handle:    NewHandle("data store connection", ptr, cDataStoreConnectionDestroy),
		dataStore: ds,
		number:    connectionNumbers.Add(1),
		startedAt: time.Now(),
	}
	// Backstop for connections dropped without Close.
	runtime.SetFinalizer(c, (*DataStoreConnection).Close)
	return c
}

// Close releases the native connection. Only the first call has an effect.
func (c *DataStoreConnection) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	c.handle.Destroy()
	runtime.SetFinalizer(c, nil)
	logger().Debug("closed connection",
		"connection", c.number, "store", c.dataStore.Name(), "age", time.Since(c.startedAt))
	return nil
}

// Closed reports whether the connection has been closed.
func (c *DataStoreConnection) Closed() bool {
	return atomic.LoadInt32(&c.closed) != 0
}

func (c *DataStoreConnection) pointer() uintptr {
	return c.handle.Pointer()
}

// Number returns the process-unique diagnostic number of the connection.
func (c *DataStoreConnection) Number() uint64 {
	return c.number
}

// DataStore returns the data store the connection is bound to.
func (c *DataStoreConnection) DataStore() *DataStore {
	return c.dataStore
}

// String implements fmt.Stringer without touching the engine.
func (c *DataStoreConnection) String() string {
	return fmt.Sprintf("connection #%d to %v", c.number, c.dataStore)
}

// ID returns the server-assigned identifier of the connection.
func (c *DataStoreConnection) ID() (uint32, error) {
	var id uint32
	if err := check("getting the connection id", cDataStoreConnectionGetID(c.pointer(), &id)); err != nil {
		return 0, err
	}
	return id, nil
}

// UniqueID returns the server-assigned unique identifier of the connection.
func (c *DataStoreConnection) UniqueID() (string, error) {
	var ptr uintptr
	if err := check("getting the connection unique id", cDataStoreConnectionGetUniqueID(c.pointer(), &ptr)); err != nil {
		return "", err
	}
	return goString(ptr), nil
}

// ImportFile loads an RDF file into the given graph. An empty format means
// Turtle. The file path is resolved by the engine, subject to its file
// access sandboxing.
func (c *DataStoreConnection) ImportFile(graph Graph, path, format string) error {
	if format == "" {
		format = FormatTurtle
	}
	ns, err := NewNamespaces()
	if err != nil {
		return err
	}
	defer ns.Close()

	logger().Debug("importing file", "file", path, "graph", graph.String(), "format", format)
	err = check("importing data from a file", cDataStoreConnectionImportDataFromFile(
		c.pointer(), graph.IRI(), int32(UpdateAddition), ns.pointer(), path, format))
	if err != nil {
		filesImported.WithLabelValues("error").Inc()
		return NewError(ErrImport, fmt.Sprintf("could not import %s into %s: %v", path, graph, err))
	}
	filesImported.WithLabelValues("ok").Inc()
	logger().Debug("imported file", "file", path, "graph", graph.String())
	return nil
}

// ImportData loads RDF from a reader into the given graph. The engine only
// imports from files, so the data is spooled through a temporary file.
func (c *DataStoreConnection) ImportData(graph Graph, r io.Reader, format string) error {
	tmp, err := os.CreateTemp("", "rdfox-import-*")
	if err != nil {
		return NewError(ErrImport, fmt.Sprintf("could not spool import data: %v", err))
	}
	defer os.Remove(tmp.Name())
	_, err = io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return NewError(ErrImport, fmt.Sprintf("could not spool import data: %v", err))
	}
	return c.ImportFile(graph, tmp.Name(), format)
}

// ImportAxioms translates the triples of the source graph into axioms and
// adds them to the destination graph.
func (c *DataStoreConnection) ImportAxioms(source, destination Graph) error {
	err := check("importing axioms", cDataStoreConnectionImportAxiomsFromTriples(
		c.pointer(), source.IRI(), false, destination.IRI(), int32(UpdateAddition)))
	if err != nil {
		return NewError(ErrImport, fmt.Sprintf("could not import axioms from %s into %s: %v", source, destination, err))
	}
	logger().Debug("imported axioms", "source", source.String(), "destination", destination.String())
	return nil
}

// EvaluateToStream evaluates the statement and streams the whole formatted
// answer set into sink.
func (c *DataStoreConnection) EvaluateToStream(sink StreamSink, statement *Statement, format string) (*Streamer, error) {
	return RunStreamer(c, sink, statement, format, DefaultBaseIRI)
}

const triplesCountQuery = `SELECT ?graph ?s ?p ?o
WHERE {
    {
        GRAPH ?graph { ?s ?p ?o }
    } UNION {
        ?s ?p ?o .
        BIND("default" AS ?graph)
    }
}`

const subjectsCountQuery = `SELECT DISTINCT ?subject
WHERE {
    {
        GRAPH ?graph { ?subject ?p ?o }
    } UNION {
        ?subject ?p ?o .
        BIND("default" AS ?graph)
    }
}`

const predicatesCountQuery = `SELECT DISTINCT ?predicate
WHERE {
    {
        GRAPH ?graph { ?s ?predicate ?o }
    } UNION {
        ?s ?predicate ?o .
        BIND("default" AS ?graph)
    }
}`

const ontologiesCountQuery = `SELECT DISTINCT ?ontology
WHERE {
    {
        GRAPH ?graph { ?ontology a <http://www.w3.org/2002/07/owl#Ontology> }
    } UNION {
        ?ontology a <http://www.w3.org/2002/07/owl#Ontology> .
        BIND("default" AS ?graph)
    }
}`

// TriplesCount returns the duplicate-weighted number of triples in the
// store, across the default graph and all named graphs.
func (c *DataStoreConnection) TriplesCount(domain FactDomain) (uint64, error) {
	return c.countQuery(triplesCountQuery, domain)
}

// SubjectsCount returns the number of distinct subjects in the store.
func (c *DataStoreConnection) SubjectsCount(domain FactDomain) (uint64, error) {
	return c.countQuery(subjectsCountQuery, domain)
}

// PredicatesCount returns the number of distinct predicates in the store.
func (c *DataStoreConnection) PredicatesCount(domain FactDomain) (uint64, error) {
	return c.countQuery(predicatesCountQuery, domain)
}

// OntologiesCount returns the number of distinct ontologies declared in the
// store.
func (c *DataStoreConnection) OntologiesCount(domain FactDomain) (uint64, error) {
	return c.countQuery(ontologiesCountQuery, domain)
}

func (c *DataStoreConnection) countQuery(text string, domain FactDomain) (uint64, error) {
	ns, err := NewNamespaces()
	if err != nil {
		return 0, err
	}
	defer ns.Close()
	params, err := NewParameters()
	if err != nil {
		return 0, err
	}
	defer params.Close()
	if err := params.SetFactDomain(domain); err != nil {
		return 0, err
	}
	cursor, err := NewCursor(c, params, NewStatement(ns, text))
	if err != nil {
		return 0, err
	}
	defer cursor.Destroy()
	return cursor.ExecuteAndRollback(DefaultMaxRows, func(ResultRow) error { return nil })
}
