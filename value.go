// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"bytes"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Value is an owned RDF term decoded from the engine: an IRI, a blank node,
// a literal, or the unbound marker. A Value is immutable and comparable, so
// it can be used as a map key. Two values are equal only when both their
// datatype and their payload match; comparison across datatypes is never true.
//
// The zero Value is the unbound value.
//
// Exactly one payload field is live, selected by the datatype family. Payload
// access goes through the As* accessors, which guard on the datatype, so a
// payload can never be read under the wrong family.
type Value struct {
	dt  DataType
	str string // IRI text, string payload, blank node ID, or raw lexical form
	b   bool
	i64 int64
	u64 uint64
}

// DecodeValue decodes a NUL-terminated buffer received from the engine into a
// Value of the given datatype. The unbound datatype decodes to the zero Value
// with no error. Integer datatypes are parsed with 64-bit parsers chosen by
// signedness; booleans accept only the tokens "true" and "false". Temporal,
// duration, decimal and generic literal datatypes keep their lexical form.
func DecodeValue(dt DataType, buffer []byte) (Value, error) {
	if dt == Unbound {
		return Value{}, nil
	}
	nul := bytes.IndexByte(buffer, 0)
	if nul < 0 {
		return Value{}, NewError(ErrLiteral, "value buffer is not NUL-terminated")
	}
	if !utf8.Valid(buffer[:nul]) {
		return Value{}, NewError(ErrLiteral, "value buffer is not valid UTF-8")
	}
	return decodeText(dt, string(buffer[:nul]))
}

func decodeText(dt DataType, text string) (Value, error) {
	switch {
	case dt == Unbound:
		return Value{}, nil
	case dt.IsIRI():
		return NewIRIWithDataType(text, dt)
	case dt.IsBlankNode():
		return NewBlankNode(text), nil
	case dt.IsBoolean():
		switch text {
		case "true":
			return NewBoolean(true), nil
		case "false":
			return NewBoolean(false), nil
		default:
			return Value{}, errUnknownLiteral(text, dt)
		}
	case dt.IsString():
		return Value{dt: dt, str: text}, nil
	case dt.IsSignedInteger():
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, errUnknownLiteral(text, dt)
		}
		return Value{dt: dt, i64: i}, nil
	case dt.IsUnsignedInteger():
		u, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return Value{}, errUnknownLiteral(text, dt)
		}
		return Value{dt: dt, u64: u}, nil
	case dt == Literal, dt.IsTemporal(), dt.IsDuration(), dt.IsDecimal():
		// Lexical forms the engine has already validated are carried verbatim.
		return Value{dt: dt, str: text}, nil
	default:
		return Value{}, errUnknownDataType(uint8(dt))
	}
}

// NewIRI creates an IRI reference value. The text must be an absolute IRI.
func NewIRI(iri string) (Value, error) {
	return NewIRIWithDataType(iri, IRIReference)
}

// NewIRIWithDataType creates an IRI value with an explicit IRI datatype.
func NewIRIWithDataType(iri string, dt DataType) (Value, error) {
	if !dt.IsIRI() {
		return Value{}, NewError(ErrDataType, fmt.Sprintf("datatype %s is not an IRI type", dt))
	}
	u, err := url.Parse(iri)
	if err != nil || u.Scheme == "" {
		return Value{}, NewError(ErrLiteral, fmt.Sprintf("invalid IRI %q", iri))
	}
	return Value{dt: dt, str: iri}, nil
}

// NewString creates an xsd:string value.
func NewString(s string) Value {
	return Value{dt: String, str: s}
}

// NewPlainLiteral creates a plain literal value.
func NewPlainLiteral(s string) Value {
	return Value{dt: PlainLiteral, str: s}
}

// NewBlankNode creates a blank node value with the given node ID.
func NewBlankNode(id string) Value {
	return Value{dt: BlankNode, str: id}
}

// NewBoolean creates an xsd:boolean value.
func NewBoolean(b bool) Value {
	return Value{dt: Boolean, b: b}
}

// NewSignedInteger creates an xsd:long value.
func NewSignedInteger(i int64) Value {
	return Value{dt: Long, i64: i}
}

// NewSignedIntegerWithDataType creates a signed integer value with an explicit
// datatype from the signed integer family.
func NewSignedIntegerWithDataType(i int64, dt DataType) (Value, error) {
	if !dt.IsSignedInteger() {
		return Value{}, NewError(ErrDataType, fmt.Sprintf("datatype %s is not a signed integer type", dt))
	}
	return Value{dt: dt, i64: i}, nil
}

// NewUnsignedInteger creates an xsd:unsignedLong value.
func NewUnsignedInteger(u uint64) Value {
	return Value{dt: UnsignedLong, u64: u}
}

// NewUnsignedIntegerWithDataType creates an unsigned integer value with an
// explicit datatype from the unsigned integer family.
func NewUnsignedIntegerWithDataType(u uint64, dt DataType) (Value, error) {
	if !dt.IsUnsignedInteger() {
		return Value{}, NewError(ErrDataType, fmt.Sprintf("datatype %s is not an unsigned integer type", dt))
	}
	return Value{dt: dt, u64: u}, nil
}

// NewTypedLiteral creates a value that carries its lexical form verbatim, for
// the temporal, duration, decimal and generic literal datatypes.
func NewTypedLiteral(lexicalForm string, dt DataType) (Value, error) {
	if dt != Literal && !dt.IsTemporal() && !dt.IsDuration() && !dt.IsDecimal() {
		return Value{}, NewError(ErrDataType, fmt.Sprintf("datatype %s does not carry a lexical form payload", dt))
	}
	return Value{dt: dt, str: lexicalForm}, nil
}

// DataType returns the datatype of the value.
func (v Value) DataType() DataType {
	return v.dt
}

// IsUnbound reports whether the value is the unbound marker.
func (v Value) IsUnbound() bool {
	return v.dt == Unbound
}

// AsIRI returns the IRI text when the value is an IRI.
func (v Value) AsIRI() (string, bool) {
	if v.dt.IsIRI() {
		return v.str, true
	}
	return "", false
}

// AsString returns the string payload when the value is a string literal.
func (v Value) AsString() (string, bool) {
	if v.dt.IsString() {
		return v.str, true
	}
	return "", false
}

// AsBlankNode returns the node ID when the value is a blank node.
func (v Value) AsBlankNode() (string, bool) {
	if v.dt.IsBlankNode() {
		return v.str, true
	}
	return "", false
}

// AsBoolean returns the payload when the value is a boolean.
func (v Value) AsBoolean() (bool, bool) {
	if v.dt.IsBoolean() {
		return v.b, true
	}
	return false, false
}

// AsSignedInteger returns the payload when the value is a signed integer.
func (v Value) AsSignedInteger() (int64, bool) {
	if v.dt.IsSignedInteger() {
		return v.i64, true
	}
	return 0, false
}

// AsUnsignedInteger returns the payload when the value is an unsigned integer.
func (v Value) AsUnsignedInteger() (uint64, bool) {
	if v.dt.IsUnsignedInteger() {
		return v.u64, true
	}
	return 0, false
}

// LexicalForm returns the payload of the value rendered as plain text,
// without any Turtle quoting.
func (v Value) LexicalForm() string {
	switch {
	case v.dt == Unbound:
		return ""
	case v.dt.IsBoolean():
		return strconv.FormatBool(v.b)
	case v.dt.IsSignedInteger():
		return strconv.FormatInt(v.i64, 10)
	case v.dt.IsUnsignedInteger():
		return strconv.FormatUint(v.u64, 10)
	default:
		return v.str
	}
}

// Turtle renders the value as a Turtle term: IRIs in angle brackets, strings
// as quoted literals, blank nodes with the _: prefix, booleans and integers
// verbatim, and temporal or duration literals with their xsd: datatype suffix.
func (v Value) Turtle() string {
	switch {
	case v.dt == Unbound:
		return "UNDEF"
	case v.dt.IsIRI():
		return "<" + v.str + ">"
	case v.dt.IsBlankNode():
		return "_:" + v.str
	case v.dt.IsString(), v.dt == Literal:
		return quoteTurtle(v.str)
	case v.dt.IsTemporal(), v.dt.IsDuration():
		return quoteTurtle(v.str) + "^^xsd:" + v.dt.xsdName()
	default:
		return v.LexicalForm()
	}
}

// String renders the value the same way as Turtle.
func (v Value) String() string {
	return v.Turtle()
}

func quoteTurtle(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
