// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"strings"
	"sync"
)

// DefaultBaseIRI is the base IRI used for statements that do not set one.
const DefaultBaseIRI = "https://placeholder.kg"

// Namespace pairs a prefix name with a namespace IRI. The name includes the
// trailing colon, as in "xsd:".
type Namespace struct {
	Name string
	IRI  string
}

// Well-known namespaces.
var (
	NamespaceRDF  = Namespace{Name: "rdf:", IRI: "http://www.w3.org/1999/02/22-rdf-syntax-ns#"}
	NamespaceRDFS = Namespace{Name: "rdfs:", IRI: "http://www.w3.org/2000/01/rdf-schema#"}
	NamespaceOWL  = Namespace{Name: "owl:", IRI: "http://www.w3.org/2002/07/owl#"}
	NamespaceXSD  = Namespace{Name: "xsd:", IRI: "http://www.w3.org/2001/XMLSchema#"}
	NamespaceSKOS = Namespace{Name: "skos:", IRI: "http://www.w3.org/2004/02/skos/core#"}
	NamespaceDCAT = Namespace{Name: "dcat:", IRI: "http://www.w3.org/ns/dcat#"}
)

// String renders the namespace as "name: <iri>".
func (ns Namespace) String() string {
	return ns.Name + " <" + ns.IRI + ">"
}

// SPARQL renders the namespace as a SPARQL PREFIX declaration.
func (ns Namespace) SPARQL() string {
	return "PREFIX " + ns.Name + " <" + ns.IRI + ">"
}

// Term returns the full IRI of a local name in this namespace.
func (ns Namespace) Term(localName string) string {
	return ns.IRI + localName
}

// PrefixDeclareResult reports the effect of declaring a namespace.
type PrefixDeclareResult int32

const (
	// PrefixInvalidName means the prefix name was not acceptable.
	PrefixInvalidName PrefixDeclareResult = iota
	// PrefixNoChange means the namespace was already declared identically.
	PrefixNoChange
	// PrefixReplacedExisting means the name was rebound to a new IRI.
	PrefixReplacedExisting
	// PrefixDeclaredNew means the namespace was newly declared.
	PrefixDeclaredNew
)

// Namespaces is a registry of namespace declarations backed by a native
// prefixes object. A new registry starts with the engine's default
// declarations for rdf, rdfs, owl and xsd. Namespaces is safe for use from
// one goroutine at a time, matching the native object it wraps.
type Namespaces struct {
	handle *Handle

	mu       sync.Mutex
	declared []Namespace
}

// NewNamespaces creates a registry holding the engine's default declarations.
func NewNamespaces() (*Namespaces, error) {
	if err := ensureNativeLibrary(); err != nil {
		return nil, err
	}
	var ptr uintptr
	if err := check("allocating prefixes", cPrefixesNewDefaultPrefixes(&ptr)); err != nil {
		return nil, err
	}
	return &Namespaces{
		handle: NewHandle("prefixes", ptr, func(p uintptr) { cPrefixesDestroy(p) }),
		declared: []Namespace{
			NamespaceRDF, NamespaceRDFS, NamespaceOWL, NamespaceXSD,
		},
	}, nil
}

// Declare registers a namespace. Redeclaring an identical namespace is
// harmless; an invalid prefix name is an error.
func (n *Namespaces) Declare(ns Namespace) (PrefixDeclareResult, error) {
	var result int32
	err := check("declaring prefix "+ns.Name,
		cPrefixesDeclarePrefix(n.handle.Pointer(), ns.Name, ns.IRI, &result))
	if err != nil {
		return PrefixInvalidName, err
	}
	declared := PrefixDeclareResult(result)
	switch declared {
	case PrefixInvalidName:
		return declared, NewError(ErrStatement, "invalid prefix name "+ns.Name)
	case PrefixNoChange:
		logger().Debug("namespace already declared", "namespace", ns.String())
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	for i, d := range n.declared {
		if d.Name == ns.Name {
			n.declared[i] = ns
			return declared, nil
		}
	}
	n.declared = append(n.declared, ns)
	return declared, nil
}

// Declared returns the namespaces declared so far, in declaration order.
func (n *Namespaces) Declared() []Namespace {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Namespace, len(n.declared))
	copy(out, n.declared)
	return out
}

// SPARQLPrefixes renders all declarations as a block of SPARQL PREFIX lines.
func (n *Namespaces) SPARQLPrefixes() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var b strings.Builder
	for _, ns := range n.declared {
		b.WriteString(ns.SPARQL())
		b.WriteByte('\n')
	}
	return b.String()
}

// Close releases the native prefixes object.
func (n *Namespaces) Close() {
	n.handle.Destroy()
}

func (n *Namespaces) pointer() uintptr {
	if n == nil {
		return 0
	}
	return n.handle.Pointer()
}
