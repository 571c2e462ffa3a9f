// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

// This file declares the native entry points of the RDFox shared library as
// package-level function variables. They are registered against the loaded
// library by registerNativeFunctions and called through the exception bridge
// in exception.go. Tests install Go closures into these variables to stand in
// for the engine, so everything above this file is exercised without the
// native library being present.

import (
	"unsafe"

	"github.com/ebitengine/purego"
)

// Native handles are opaque pointers on the C side and travel as uintptr.
// A zero return value from an entry point means success; any other value is
// a pointer to a native exception object.

var (
	// Server lifecycle.
	cServerStartLocalServer           func(parameters uintptr) uintptr
	cServerCreateFirstLocalServerRole func(roleName, password string) uintptr

	// Server connections.
	cServerConnectionNewServerConnection    func(roleName, password string, serverConnection *uintptr) uintptr
	cServerConnectionDestroy                func(serverConnection uintptr)
	cServerConnectionGetVersion             func(serverConnection uintptr, version *uintptr) uintptr
	cServerConnectionGetNumberOfThreads     func(serverConnection uintptr, numberOfThreads *uint64) uintptr
	cServerConnectionSetNumberOfThreads     func(serverConnection uintptr, numberOfThreads uint64) uintptr
	cServerConnectionGetMemoryUse           func(serverConnection uintptr, maxUsedBytes, availableBytes *uint64) uintptr
	cServerConnectionCreateDataStore        func(serverConnection uintptr, name string, parameters uintptr) uintptr
	cServerConnectionDeleteDataStore        func(serverConnection uintptr, name string) uintptr
	cServerConnectionNewDataStoreConnection func(serverConnection uintptr, name string, dataStoreConnection *uintptr) uintptr

	// Data store connections.
	cDataStoreConnectionDestroy                 func(dataStoreConnection uintptr)
	cDataStoreConnectionGetID                   func(dataStoreConnection uintptr, id *uint32) uintptr
	cDataStoreConnectionGetUniqueID             func(dataStoreConnection uintptr, uniqueID *uintptr) uintptr
	cDataStoreConnectionBeginTransaction        func(dataStoreConnection uintptr, transactionType int32) uintptr
	cDataStoreConnectionCommitTransaction       func(dataStoreConnection uintptr) uintptr
	cDataStoreConnectionRollbackTransaction     func(dataStoreConnection uintptr) uintptr
	cDataStoreConnectionImportDataFromFile      func(dataStoreConnection uintptr, graphName string, updateType int32, prefixes uintptr, fileName, formatName string) uintptr
	cDataStoreConnectionImportAxiomsFromTriples func(dataStoreConnection uintptr, sourceGraphName string, translateAssertions bool, destinationGraphName string, updateType int32) uintptr
	cDataStoreConnectionEvaluateStatement       func(dataStoreConnection uintptr, baseIRI string, prefixes uintptr, statementText string, statementTextLength uint64, parameters uintptr, outputStream uintptr, queryAnswerFormatName string, numberOfSolutions *uint64) uintptr
	cDataStoreConnectionCreateCursor            func(dataStoreConnection uintptr, baseIRI uintptr, prefixes uintptr, statementText string, statementTextLength uint64, parameters uintptr, cursor *uintptr) uintptr

	// Cursors.
	cCursorDestroy                func(cursor uintptr)
	cCursorOpen                   func(cursor uintptr, multiplicity *uint64) uintptr
	cCursorAdvance                func(cursor uintptr, multiplicity *uint64) uintptr
	cCursorGetArity               func(cursor uintptr, arity *uint64) uintptr
	cCursorGetArgumentsBuffer     func(cursor uintptr, argumentsBuffer *uintptr) uintptr
	cCursorGetArgumentIndexes     func(cursor uintptr, argumentIndexes *uintptr) uintptr
	cCursorGetAnswerVariableName  func(cursor uintptr, variableIndex uint64, answerVariableName *uintptr) uintptr
	cCursorGetResourceLexicalForm func(cursor uintptr, resourceID uint64, buffer *byte, bufferSize uint64, lexicalFormSize *uint64, datatypeID *uint8, resourceResolved *bool) uintptr

	// Parameters.
	cParametersNewEmptyParameters func(parameters *uintptr) uintptr
	cParametersDestroy            func(parameters uintptr)
	cParametersSetString          func(parameters uintptr, key, value string) uintptr

	// Prefixes.
	cPrefixesNewDefaultPrefixes func(prefixes *uintptr) uintptr
	cPrefixesDeclarePrefix      func(prefixes uintptr, prefixName, prefixIRI string, result *int32) uintptr
	cPrefixesDestroy            func(prefixes uintptr)

	// Exceptions.
	cExceptionWhat             func(exception uintptr) string
	cExceptionGetExceptionName func(exception uintptr) string
)

// cOutputStream mirrors the native COutputStream callback record passed to
// CDataStoreConnection_evaluateStatement. The function pointers are created
// with purego.NewCallback.
type cOutputStream struct {
	context uintptr
	flushFn uintptr
	writeFn uintptr
}

// registerNativeFunctions binds the function variables to their symbols in
// the loaded library. The library handle comes from loadDynamicLibrary.
func registerNativeFunctions(handle uintptr) {
	purego.RegisterLibFunc(&cServerStartLocalServer, handle, "CServer_startLocalServer")
	purego.RegisterLibFunc(&cServerCreateFirstLocalServerRole, handle, "CServer_createFirstLocalServerRole")

	purego.RegisterLibFunc(&cServerConnectionNewServerConnection, handle, "CServerConnection_newServerConnection")
	purego.RegisterLibFunc(&cServerConnectionDestroy, handle, "CServerConnection_destroy")
	purego.RegisterLibFunc(&cServerConnectionGetVersion, handle, "CServerConnection_getVersion")
	purego.RegisterLibFunc(&cServerConnectionGetNumberOfThreads, handle, "CServerConnection_getNumberOfThreads")
	purego.RegisterLibFunc(&cServerConnectionSetNumberOfThreads, handle, "CServerConnection_setNumberOfThreads")
	purego.RegisterLibFunc(&cServerConnectionGetMemoryUse, handle, "CServerConnection_getMemoryUse")
	purego.RegisterLibFunc(&cServerConnectionCreateDataStore, handle, "CServerConnection_createDataStore")
	purego.RegisterLibFunc(&cServerConnectionDeleteDataStore, handle, "CServerConnection_deleteDataStore")
	purego.RegisterLibFunc(&cServerConnectionNewDataStoreConnection, handle, "CServerConnection_newDataStoreConnection")

	purego.RegisterLibFunc(&cDataStoreConnectionDestroy, handle, "CDataStoreConnection_destroy")
	purego.RegisterLibFunc(&cDataStoreConnectionGetID, handle, "CDataStoreConnection_getID")
	purego.RegisterLibFunc(&cDataStoreConnectionGetUniqueID, handle, "CDataStoreConnection_getUniqueID")
	purego.RegisterLibFunc(&cDataStoreConnectionBeginTransaction, handle, "CDataStoreConnection_beginTransaction")
	purego.RegisterLibFunc(&cDataStoreConnectionCommitTransaction, handle, "CDataStoreConnection_commitTransaction")
	purego.RegisterLibFunc(&cDataStoreConnectionRollbackTransaction, handle, "CDataStoreConnection_rollbackTransaction")
	purego.RegisterLibFunc(&cDataStoreConnectionImportDataFromFile, handle, "CDataStoreConnection_importDataFromFile")
	purego.RegisterLibFunc(&cDataStoreConnectionImportAxiomsFromTriples, handle, "CDataStoreConnection_importAxiomsFromTriples")
	purego.RegisterLibFunc(&cDataStoreConnectionEvaluateStatement, handle, "CDataStoreConnection_evaluateStatement")
	purego.RegisterLibFunc(&cDataStoreConnectionCreateCursor, handle, "CDataStoreConnection_createCursor")

	purego.RegisterLibFunc(&cCursorDestroy, handle, "CCursor_destroy")
	purego.RegisterLibFunc(&cCursorOpen, handle, "CCursor_open")
	purego.RegisterLibFunc(&cCursorAdvance, handle, "CCursor_advance")
	purego.RegisterLibFunc(&cCursorGetArity, handle, "CCursor_getArity")
	purego.RegisterLibFunc(&cCursorGetArgumentsBuffer, handle, "CCursor_getArgumentsBuffer")
	purego.RegisterLibFunc(&cCursorGetArgumentIndexes, handle, "CCursor_getArgumentIndexes")
	purego.RegisterLibFunc(&cCursorGetAnswerVariableName, handle, "CCursor_getAnswerVariableName")
	purego.RegisterLibFunc(&cCursorGetResourceLexicalForm, handle, "CCursor_getResourceLexicalForm")

	purego.RegisterLibFunc(&cParametersNewEmptyParameters, handle, "CParameters_newEmptyParameters")
	purego.RegisterLibFunc(&cParametersDestroy, handle, "CParameters_destroy")
	purego.RegisterLibFunc(&cParametersSetString, handle, "CParameters_setString")

	purego.RegisterLibFunc(&cPrefixesNewDefaultPrefixes, handle, "CPrefixes_newDefaultPrefixes")
	purego.RegisterLibFunc(&cPrefixesDeclarePrefix, handle, "CPrefixes_declarePrefix")
	purego.RegisterLibFunc(&cPrefixesDestroy, handle, "CPrefixes_destroy")

	purego.RegisterLibFunc(&cExceptionWhat, handle, "CException_what")
	purego.RegisterLibFunc(&cExceptionGetExceptionName, handle, "CException_getExceptionName")
}

// goString copies a NUL-terminated C string into a Go string. A zero pointer
// yields the empty string.
func goString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	var n int
	for *(*byte)(unsafe.Pointer(ptr + uintptr(n))) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
}

// goBytes copies n bytes at ptr into a Go slice.
func goBytes(ptr uintptr, n int) []byte {
	if ptr == 0 || n <= 0 {
		return nil
	}
	out := make([]byte, n)
	copy(out, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
	return out
}

// goArgumentIndexes copies the cursor argument index array, whose length is
// the cursor arity, into a Go slice.
func goArgumentIndexes(ptr uintptr, arity int) []uint32 {
	if ptr == 0 || arity <= 0 {
		return nil
	}
	out := make([]uint32, arity)
	for i := range out {
		out[i] = *(*uint32)(unsafe.Pointer(ptr + uintptr(i)*4))
	}
	return out
}
