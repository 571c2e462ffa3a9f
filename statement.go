// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"fmt"
)

// Statement is a SPARQL statement bound to the namespaces that resolve its
// prefixed names. The statement text is passed to the engine as written;
// SPARQL returns a fully qualified rendering with PREFIX declarations for
// use outside the engine.
type Statement struct {
	namespaces *Namespaces
	text       string
}

// NewStatement creates a statement over the given namespaces.
func NewStatement(namespaces *Namespaces, text string) *Statement {
	s := &Statement{
		namespaces: namespaces,
		text:       text,
	}
	logger().Debug("created statement", "statement", s.text)
	return s
}

// Text returns the statement text as written.
func (s *Statement) Text() string {
	return s.text
}

// ByteLength returns the length of the statement text in bytes, the length
// the engine expects alongside the text.
func (s *Statement) ByteLength() int {
	return len(s.text)
}

// Namespaces returns the namespaces the statement was created with.
func (s *Statement) Namespaces() *Namespaces {
	return s.namespaces
}

// SPARQL renders the statement with its PREFIX declarations prepended.
func (s *Statement) SPARQL() string {
	if s.namespaces == nil {
		return s.text
	}
	return s.namespaces.SPARQLPrefixes() + s.text
}

// String implements fmt.Stringer.
func (s *Statement) String() string {
	return fmt.Sprintf("SPARQL statement: %s", s.text)
}

// Cursor creates a cursor that evaluates the statement on the given
// connection. The parameters may be nil.
func (s *Statement) Cursor(conn *DataStoreConnection, params *Parameters) (*Cursor, error) {
	return NewCursor(conn, params, s)
}
