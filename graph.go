// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"fmt"
	"path/filepath"
)

// Graph identifies a named graph by a namespace plus a local name. The zero
// Graph addresses the default graph.
type Graph struct {
	Namespace Namespace
	LocalName string
}

// NewGraph declares a named graph inside the namespace.
func NewGraph(ns Namespace, localName string) Graph {
	return Graph{Namespace: ns, LocalName: localName}
}

// GraphFromPath declares a named graph whose local name is the file name of
// the given path, so a dataset file maps onto a graph of the same name.
func GraphFromPath(ns Namespace, path string) Graph {
	return NewGraph(ns, filepath.Base(path))
}

// IsDefault reports whether the graph is the default graph.
func (g Graph) IsDefault() bool {
	return g.Namespace.IRI == "" && g.LocalName == ""
}

// IRI returns the full graph IRI without angle brackets, or the empty
// string for the default graph.
func (g Graph) IRI() string {
	if g.IsDefault() {
		return ""
	}
	return g.Namespace.IRI + g.LocalName
}

// String renders the graph the way it appears in SPARQL.
func (g Graph) String() string {
	if g.IsDefault() {
		return "default"
	}
	return "<" + g.IRI() + ">"
}

// GraphConnection scopes a data store connection to one named graph, with an
// optional second graph holding the ontology for axiom imports.
type GraphConnection struct {
	conn        *DataStoreConnection
	graph       Graph
	ontology    Graph
	hasOntology bool
}

// NewGraphConnection scopes the connection to the graph.
func NewGraphConnection(conn *DataStoreConnection, graph Graph) *GraphConnection {
	return &GraphConnection{conn: conn, graph: graph}
}

// NewGraphConnectionWithOntology scopes the connection to the graph and
// records the graph that holds its ontology.
func NewGraphConnectionWithOntology(conn *DataStoreConnection, graph, ontology Graph) *GraphConnection {
	return &GraphConnection{conn: conn, graph: graph, ontology: ontology, hasOntology: true}
}

// Graph returns the graph this connection is scoped to.
func (gc *GraphConnection) Graph() Graph {
	return gc.graph
}

// OntologyGraph returns the ontology graph, if one was configured.
func (gc *GraphConnection) OntologyGraph() (Graph, bool) {
	return gc.ontology, gc.hasOntology
}

// Connection returns the underlying data store connection.
func (gc *GraphConnection) Connection() *DataStoreConnection {
	return gc.conn
}

func (gc *GraphConnection) String() string {
	return fmt.Sprintf("connection to %v", gc.graph)
}

// ImportFile loads triples from the file into this connection's graph.
func (gc *GraphConnection) ImportFile(path, format string) error {
	return gc.conn.ImportFile(gc.graph, path, format)
}

// ImportFromDirectory loads every RDF file under root into this connection's
// graph. It returns the number of files imported.
func (gc *GraphConnection) ImportFromDirectory(root string) (int, error) {
	return gc.conn.ImportFromDirectory(root, gc.graph)
}

// ImportAxioms materializes the axioms of the configured ontology graph into
// this connection's graph.
func (gc *GraphConnection) ImportAxioms() error {
	if !gc.hasOntology {
		return NewError(ErrImport, fmt.Sprintf("no ontology graph configured for %v", gc))
	}
	return gc.conn.ImportAxioms(gc.ontology, gc.graph)
}

// TriplesCount counts the triples in this connection's graph.
func (gc *GraphConnection) TriplesCount(domain FactDomain) (uint64, error) {
	text := "SELECT ?s ?p ?o WHERE { ?s ?p ?o . }"
	if !gc.graph.IsDefault() {
		text = fmt.Sprintf("SELECT ?s ?p ?o FROM %v WHERE { ?s ?p ?o . }", gc.graph)
	}
	return gc.conn.countQuery(text, domain)
}
