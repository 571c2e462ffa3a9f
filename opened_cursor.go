// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"fmt"
	"unsafe"
)

// OpenedCursor is a cursor that has been opened inside a transaction. The
// arity and the argument index table are fixed at open time; the arguments
// buffer is the engine's live answer buffer, whose contents change on every
// advance, so resource IDs are read from it at access time.
type OpenedCursor struct {
	tx     *Transaction
	cursor *Cursor

	arity           int
	argumentIndexes []uint32
	argumentsBuffer uintptr
}

// Open opens the cursor at offset zero inside tx. It returns the opened
// cursor together with the multiplicity of the first answer row; a
// multiplicity of zero means the answer set is empty.
func (c *Cursor) Open(tx *Transaction) (*OpenedCursor, uint64, error) {
	ptr := c.handle.Pointer()

	var multiplicity uint64
	if err := check("opening a cursor", cCursorOpen(ptr, &multiplicity)); err != nil {
		return nil, 0, err
	}

	var arity uint64
	if err := check("reading the cursor arity", cCursorGetArity(ptr, &arity)); err != nil {
		return nil, 0, err
	}

	var buffer uintptr
	if err := check("reading the arguments buffer", cCursorGetArgumentsBuffer(ptr, &buffer)); err != nil {
		return nil, 0, err
	}

	var indexes uintptr
	if err := check("reading the argument indexes", cCursorGetArgumentIndexes(ptr, &indexes)); err != nil {
		return nil, 0, err
	}

	opened := &OpenedCursor{
		tx:              tx,
		cursor:          c,
		arity:           int(arity),
		argumentIndexes: goArgumentIndexes(indexes, int(arity)),
		argumentsBuffer: buffer,
	}
	logger().Debug("opened cursor",
		"multiplicity", multiplicity,
		"arity", opened.arity,
		"indexes", opened.argumentIndexes)
	return opened, multiplicity, nil
}

// Arity returns the number of columns in the cursor's answer rows.
func (oc *OpenedCursor) Arity() int {
	return oc.arity
}

// Transaction returns the transaction the cursor was opened in.
func (oc *OpenedCursor) Transaction() *Transaction {
	return oc.tx
}

// Cursor returns the underlying cursor.
func (oc *OpenedCursor) Cursor() *Cursor {
	return oc.cursor
}

// Advance moves the cursor to the next answer row and returns its
// multiplicity, zero meaning the cursor is exhausted.
func (oc *OpenedCursor) Advance() (uint64, error) {
	var multiplicity uint64
	if err := check("advancing a cursor", cCursorAdvance(oc.cursor.handle.Pointer(), &multiplicity)); err != nil {
		return 0, err
	}
	return multiplicity, nil
}

// VariableName returns the source query's variable name bound to the given
// output column.
func (oc *OpenedCursor) VariableName(column int) (string, error) {
	if column < 0 || column >= oc.arity {
		return "", NewError(ErrGeneric, fmt.Sprintf("no answer variable for column %d", column))
	}
	var name uintptr
	err := check("reading an answer variable name",
		cCursorGetAnswerVariableName(oc.cursor.handle.Pointer(), uint64(column), &name))
	if err != nil {
		return "", err
	}
	return goString(name), nil
}

// VariableNames returns the variable names for all output columns, in
// column order.
func (oc *OpenedCursor) VariableNames() ([]string, error) {
	names := make([]string, oc.arity)
	for i := range names {
		name, err := oc.VariableName(i)
		if err != nil {
			return nil, err
		}
		names[i] = name
	}
	return names, nil
}

// Value fetches and decodes the value bound to the column in the current
// row. An unbound column yields the unbound Value without touching the
// engine.
func (oc *OpenedCursor) Value(column int) (Value, error) {
	id, err := oc.resourceID(column)
	if err != nil {
		return Value{}, err
	}
	if id == 0 {
		return Value{}, nil
	}
	return oc.resourceValue(id)
}

// Values fetches all columns of the current row in column order.
func (oc *OpenedCursor) Values() ([]Value, error) {
	values := make([]Value, oc.arity)
	for i := range values {
		v, err := oc.Value(i)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// resourceID maps an output column to the resource currently bound to it.
// A zero resource ID means the column is unbound in the current row.
func (oc *OpenedCursor) resourceID(column int) (uint64, error) {
	if column < 0 || column >= len(oc.argumentIndexes) {
		return 0, NewError(ErrGeneric, fmt.Sprintf("no argument index for column %d", column))
	}
	if oc.argumentsBuffer == 0 {
		return 0, NewError(ErrGeneric, "cursor has no arguments buffer")
	}
	offset := uintptr(oc.argumentIndexes[column]) * 8
	return *(*uint64)(unsafe.Pointer(oc.argumentsBuffer + offset)), nil
}

// resourceValue fetches and decodes the lexical form of a resource. The
// fetch goes through a pooled scratch buffer; when the engine reports a
// lexical form longer than the scratch buffer, the fetch is repeated once
// with a buffer of the exact reported size.
func (oc *OpenedCursor) resourceValue(resourceID uint64) (Value, error) {
	scratch := lexicalBuffers.Get()
	defer lexicalBuffers.Put(scratch)

	buf := scratch
	var (
		lexicalFormSize uint64
		datatypeID      uint8
		resolved        bool
	)
	err := check("fetching a lexical form", cCursorGetResourceLexicalForm(
		oc.cursor.handle.Pointer(), resourceID,
		&buf[0], uint64(len(buf)),
		&lexicalFormSize, &datatypeID, &resolved))
	if err != nil {
		return Value{}, err
	}
	if !resolved {
		return Value{}, errUnresolvedResource(resourceID)
	}

	if lexicalFormSize > uint64(len(buf)) {
		// One extra byte holds the terminator.
		buf = make([]byte, lexicalFormSize+1)
		err = check("fetching a lexical form", cCursorGetResourceLexicalForm(
			oc.cursor.handle.Pointer(), resourceID,
			&buf[0], uint64(len(buf)),
			&lexicalFormSize, &datatypeID, &resolved))
		if err != nil {
			return Value{}, err
		}
		if !resolved {
			return Value{}, errUnresolvedResource(resourceID)
		}
	}

	dt, err := DataTypeFromID(datatypeID)
	if err != nil {
		return Value{}, err
	}
	return DecodeValue(dt, buf)
}
