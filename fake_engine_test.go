// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"os"
	"strings"
	"sync"
	"testing"
	"unsafe"
)

// The tests in this package run the whole client stack against a scripted
// in-process engine. newFakeEngine swaps the entry point variables in
// capi.go for closures that resolve against the fake's state, so no shared
// library is needed. Strings handed to the client are NUL-terminated and the
// arguments buffer address stays valid for the cursor's life, with the Go
// allocations kept alive on the fake.

// fakeResource is a lexical form the fake engine serves for a resource ID.
type fakeResource struct {
	lexical    string
	datatypeID uint8
	resolved   bool
}

// fakeImport records one file import received by the fake engine. content
// holds the bytes of the imported file when it was readable at import time.
type fakeImport struct {
	graph   string
	file    string
	format  string
	update  int32
	content []byte
}

// fakeCursor is the iteration state of one cursor. The buffer is the
// cursor's live arguments buffer; every open and advance overwrites it in
// place with the contents of the row being served.
type fakeCursor struct {
	statement string
	arity     int
	indexes   []uint32
	buffer    []uint64

	pos      int
	advances int
}

// fakeEngine stands in for the native library. Tests set the scripting
// fields before driving the client; the installed closures lock mu for
// their whole body, so concurrent client calls stay race free.
type fakeEngine struct {
	mu sync.Mutex

	handles    uintptr
	exceptions map[uintptr][2]string
	cstrings   [][]byte

	// Answer set served by every cursor. rows hold the raw arguments
	// buffer contents per answer row; with the default identity indexes
	// that is one resource ID per output column.
	variables      []string
	multiplicities []uint64
	rows           [][]uint64
	indexes        []uint32
	resources      map[uint64]fakeResource

	// Failure injection. A non-zero exception handle makes the matching
	// entry point raise it; failAdvanceAt counts advance calls from one.
	failStartServer  uintptr
	failCreateRole   uintptr
	failConnect      uintptr
	failCreateStore  uintptr
	failBegin        uintptr
	failCommit       uintptr
	failRollback     uintptr
	failCreateCursor uintptr
	failOpen         uintptr
	failAdvance      uintptr
	failAdvanceAt    int
	failLexicalForm  uintptr
	failImport       uintptr
	failEvaluate     uintptr

	// Streamed evaluation script.
	streamChunks    [][]byte
	streamSolutions uint64

	// Server state and observed traffic.
	version        string
	threads        uint64
	memoryUsed     uint64
	memoryAvail    uint64
	storeID        uint32
	storeUniqueID  string
	serverStarts   int
	rolesCreated   [][2]string
	serverConns    int
	serverDestroys int
	stores         []string
	connsOpened    int
	connsDestroyed int
	begins         []int32
	commits        int
	rollbacks      int
	imports        []fakeImport
	axiomImports   [][2]string
	evaluated      []string
	cursors        map[uintptr]*fakeCursor
	cursorTexts    []string
	cursorsFreed   int
	paramsAlive    int
	paramsSet      map[string]string
	prefixesAlive  int
	declared       map[string]string
}

// newFakeEngine installs a fresh scripted engine. Installing a new fake
// replaces the closures of any previous one, so tests do not restore.
func newFakeEngine(t *testing.T) *fakeEngine {
	t.Helper()
	fe := &fakeEngine{
		exceptions:    make(map[uintptr][2]string),
		resources:     make(map[uint64]fakeResource),
		cursors:       make(map[uintptr]*fakeCursor),
		paramsSet:     make(map[string]string),
		declared:      make(map[string]string),
		version:       "7.0a",
		threads:       4,
		memoryUsed:    1 << 30,
		memoryAvail:   4 << 30,
		storeID:       7,
		storeUniqueID: "01J0000000000000000000TEST",
	}
	fe.install()
	return fe
}

// scriptAnswers scripts the answer set every cursor serves: one variable
// name per column, one multiplicity per row, and the per-row buffer
// contents.
func (fe *fakeEngine) scriptAnswers(variables []string, multiplicities []uint64, rows ...[]uint64) {
	fe.variables = variables
	fe.multiplicities = multiplicities
	fe.rows = rows
}

// addResource registers a resolvable resource.
func (fe *fakeEngine) addResource(id uint64, lexical string, dt DataType) {
	fe.resources[id] = fakeResource{lexical: lexical, datatypeID: uint8(dt), resolved: true}
}

// throw allocates an exception object resolvable through the exception
// entry points and returns its handle.
func (fe *fakeEngine) throw(name, what string) uintptr {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.throwLocked(name, what)
}

func (fe *fakeEngine) throwLocked(name, what string) uintptr {
	h := fe.newHandle()
	fe.exceptions[h] = [2]string{name, what}
	return h
}

// newHandle allocates an opaque handle value. Callers hold mu.
func (fe *fakeEngine) newHandle() uintptr {
	fe.handles++
	return 0x1000 + fe.handles
}

// cstring allocates a NUL-terminated copy of s and returns its address.
// Callers hold mu; the bytes stay reachable through fe for the test's life.
func (fe *fakeEngine) cstring(s string) uintptr {
	b := append([]byte(s), 0)
	fe.cstrings = append(fe.cstrings, b)
	return uintptr(unsafe.Pointer(&b[0]))
}

// serve loads the given answer row into the cursor's live buffer, zeroing
// the slots the row does not cover. Callers hold mu.
func (fc *fakeCursor) serve(rows [][]uint64, row int) {
	for i := range fc.buffer {
		fc.buffer[i] = 0
	}
	if row < len(rows) {
		copy(fc.buffer[:len(fc.buffer)-1], rows[row])
	}
}

func (fe *fakeEngine) install() {
	// Consume the loader before it can look for the shared library, then
	// mark it loaded so ensureNativeLibrary lets operations through.
	nativeLibOnce.Do(func() {})
	nativeLibLoaded = true
	nativeLibError = nil

	cExceptionGetExceptionName = func(exception uintptr) string {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		return fe.exceptions[exception][0]
	}
	cExceptionWhat = func(exception uintptr) string {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		return fe.exceptions[exception][1]
	}

	cServerStartLocalServer = func(parameters uintptr) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		if fe.failStartServer != 0 {
			return fe.failStartServer
		}
		fe.serverStarts++
		return 0
	}
	cServerCreateFirstLocalServerRole = func(roleName, password string) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		if fe.failCreateRole != 0 {
			return fe.failCreateRole
		}
		fe.rolesCreated = append(fe.rolesCreated, [2]string{roleName, password})
		return 0
	}

	cServerConnectionNewServerConnection = func(roleName, password string, serverConnection *uintptr) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fe.serverConns++
		*serverConnection = fe.newHandle()
		return 0
	}
	cServerConnectionDestroy = func(serverConnection uintptr) {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fe.serverDestroys++
	}
	cServerConnectionGetVersion = func(serverConnection uintptr, version *uintptr) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		*version = fe.cstring(fe.version)
		return 0
	}
	cServerConnectionGetNumberOfThreads = func(serverConnection uintptr, numberOfThreads *uint64) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		*numberOfThreads = fe.threads
		return 0
	}
	cServerConnectionSetNumberOfThreads = func(serverConnection uintptr, numberOfThreads uint64) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fe.threads = numberOfThreads
		return 0
	}
	cServerConnectionGetMemoryUse = func(serverConnection uintptr, maxUsedBytes, availableBytes *uint64) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		*maxUsedBytes = fe.memoryUsed
		*availableBytes = fe.memoryAvail
		return 0
	}
	cServerConnectionCreateDataStore = func(serverConnection uintptr, name string, parameters uintptr) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		if fe.failCreateStore != 0 {
			return fe.failCreateStore
		}
		for _, existing := range fe.stores {
			if existing == name {
				return fe.throwLocked("DataStoreAlreadyExistsException",
					"data store '"+name+"' already exists")
			}
		}
		fe.stores = append(fe.stores, name)
		return 0
	}
	cServerConnectionDeleteDataStore = func(serverConnection uintptr, name string) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		for i, existing := range fe.stores {
			if existing == name {
				fe.stores = append(fe.stores[:i], fe.stores[i+1:]...)
				return 0
			}
		}
		return fe.throwLocked("DataStoreDoesNotExistException",
			"data store '"+name+"' does not exist")
	}
	cServerConnectionNewDataStoreConnection = func(serverConnection uintptr, name string, dataStoreConnection *uintptr) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		if fe.failConnect != 0 {
			return fe.failConnect
		}
		fe.connsOpened++
		*dataStoreConnection = fe.newHandle()
		return 0
	}

	cDataStoreConnectionDestroy = func(dataStoreConnection uintptr) {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fe.connsDestroyed++
	}
	cDataStoreConnectionGetID = func(dataStoreConnection uintptr, id *uint32) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		*id = fe.storeID
		return 0
	}
	cDataStoreConnectionGetUniqueID = func(dataStoreConnection uintptr, uniqueID *uintptr) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		*uniqueID = fe.cstring(fe.storeUniqueID)
		return 0
	}
	cDataStoreConnectionBeginTransaction = func(dataStoreConnection uintptr, transactionType int32) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		if fe.failBegin != 0 {
			return fe.failBegin
		}
		fe.begins = append(fe.begins, transactionType)
		return 0
	}
	cDataStoreConnectionCommitTransaction = func(dataStoreConnection uintptr) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		if fe.failCommit != 0 {
			return fe.failCommit
		}
		fe.commits++
		return 0
	}
	cDataStoreConnectionRollbackTransaction = func(dataStoreConnection uintptr) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		if fe.failRollback != 0 {
			return fe.failRollback
		}
		fe.rollbacks++
		return 0
	}
	cDataStoreConnectionImportDataFromFile = func(dataStoreConnection uintptr, graphName string, updateType int32, prefixes uintptr, fileName, formatName string) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		if fe.failImport != 0 {
			return fe.failImport
		}
		content, _ := os.ReadFile(fileName)
		fe.imports = append(fe.imports, fakeImport{
			graph:   graphName,
			file:    fileName,
			format:  formatName,
			update:  updateType,
			content: content,
		})
		return 0
	}
	cDataStoreConnectionImportAxiomsFromTriples = func(dataStoreConnection uintptr, sourceGraphName string, translateAssertions bool, destinationGraphName string, updateType int32) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fe.axiomImports = append(fe.axiomImports, [2]string{sourceGraphName, destinationGraphName})
		return 0
	}
	cDataStoreConnectionEvaluateStatement = func(dataStoreConnection uintptr, baseIRI string, prefixes uintptr, statementText string, statementTextLength uint64, parameters uintptr, outputStream uintptr, queryAnswerFormatName string, numberOfSolutions *uint64) uintptr {
		fe.mu.Lock()
		if fe.failEvaluate != 0 {
			defer fe.mu.Unlock()
			return fe.failEvaluate
		}
		fe.evaluated = append(fe.evaluated, statementText)
		chunks := fe.streamChunks
		solutions := fe.streamSolutions
		fe.mu.Unlock()

		// Drive the callback bodies the way the engine drives the real
		// callbacks: offer each chunk to write, then flush once at the
		// end. The dispatch context rides in the output stream record.
		context := (*cOutputStream)(unsafe.Pointer(outputStream)).context
		for _, chunk := range chunks {
			var data uintptr
			if len(chunk) > 0 {
				data = uintptr(unsafe.Pointer(&chunk[0]))
			}
			if streamWrite(context, data, uintptr(len(chunk))) == 0 {
				return fe.throw("StreamException", "output stream refused data")
			}
		}
		if streamFlush(context) == 0 {
			return fe.throw("StreamException", "output stream flush failed")
		}
		*numberOfSolutions = solutions
		return 0
	}
	cDataStoreConnectionCreateCursor = func(dataStoreConnection uintptr, baseIRI uintptr, prefixes uintptr, statementText string, statementTextLength uint64, parameters uintptr, cursor *uintptr) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		if fe.failCreateCursor != 0 {
			return fe.failCreateCursor
		}
		arity := len(fe.variables)
		indexes := fe.indexes
		if indexes == nil {
			indexes = make([]uint32, arity)
			for i := range indexes {
				indexes[i] = uint32(i)
			}
		}
		bufLen := arity
		for _, idx := range indexes {
			if int(idx)+1 > bufLen {
				bufLen = int(idx) + 1
			}
		}
		h := fe.newHandle()
		fe.cursors[h] = &fakeCursor{
			statement: statementText,
			arity:     arity,
			indexes:   indexes,
			// One spare slot so the buffer address exists even at arity 0.
			buffer: make([]uint64, bufLen+1),
		}
		fe.cursorTexts = append(fe.cursorTexts, statementText)
		*cursor = h
		return 0
	}

	cCursorDestroy = func(cursor uintptr) {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fe.cursorsFreed++
	}
	cCursorOpen = func(cursor uintptr, multiplicity *uint64) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		if fe.failOpen != 0 {
			return fe.failOpen
		}
		fc := fe.cursors[cursor]
		if fc == nil {
			return fe.throwLocked("CursorException", "unknown cursor")
		}
		fc.pos = 0
		fc.advances = 0
		if len(fe.multiplicities) == 0 {
			*multiplicity = 0
			return 0
		}
		fc.serve(fe.rows, 0)
		*multiplicity = fe.multiplicities[0]
		fc.pos = 1
		return 0
	}
	cCursorAdvance = func(cursor uintptr, multiplicity *uint64) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fc := fe.cursors[cursor]
		if fc == nil {
			return fe.throwLocked("CursorException", "unknown cursor")
		}
		fc.advances++
		if fe.failAdvance != 0 && fc.advances == fe.failAdvanceAt {
			return fe.failAdvance
		}
		if fc.pos >= len(fe.multiplicities) {
			*multiplicity = 0
			return 0
		}
		fc.serve(fe.rows, fc.pos)
		*multiplicity = fe.multiplicities[fc.pos]
		fc.pos++
		return 0
	}
	cCursorGetArity = func(cursor uintptr, arity *uint64) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fc := fe.cursors[cursor]
		if fc == nil {
			return fe.throwLocked("CursorException", "unknown cursor")
		}
		*arity = uint64(fc.arity)
		return 0
	}
	cCursorGetArgumentsBuffer = func(cursor uintptr, argumentsBuffer *uintptr) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fc := fe.cursors[cursor]
		if fc == nil {
			return fe.throwLocked("CursorException", "unknown cursor")
		}
		*argumentsBuffer = uintptr(unsafe.Pointer(&fc.buffer[0]))
		return 0
	}
	cCursorGetArgumentIndexes = func(cursor uintptr, argumentIndexes *uintptr) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fc := fe.cursors[cursor]
		if fc == nil {
			return fe.throwLocked("CursorException", "unknown cursor")
		}
		if fc.arity == 0 {
			*argumentIndexes = 0
			return 0
		}
		*argumentIndexes = uintptr(unsafe.Pointer(&fc.indexes[0]))
		return 0
	}
	cCursorGetAnswerVariableName = func(cursor uintptr, variableIndex uint64, answerVariableName *uintptr) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		if int(variableIndex) >= len(fe.variables) {
			return fe.throwLocked("CursorException", "no such answer variable")
		}
		*answerVariableName = fe.cstring(fe.variables[variableIndex])
		return 0
	}
	cCursorGetResourceLexicalForm = func(cursor uintptr, resourceID uint64, buffer *byte, bufferSize uint64, lexicalFormSize *uint64, datatypeID *uint8, resourceResolved *bool) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		if fe.failLexicalForm != 0 {
			return fe.failLexicalForm
		}
		res, ok := fe.resources[resourceID]
		if !ok || !res.resolved {
			*resourceResolved = false
			return 0
		}
		*resourceResolved = true
		*datatypeID = res.datatypeID
		*lexicalFormSize = uint64(len(res.lexical) + 1)
		out := unsafe.Slice(buffer, bufferSize)
		n := copy(out, res.lexical)
		if uint64(n) < bufferSize {
			out[n] = 0
		}
		return 0
	}

	cParametersNewEmptyParameters = func(parameters *uintptr) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fe.paramsAlive++
		*parameters = fe.newHandle()
		return 0
	}
	cParametersDestroy = func(parameters uintptr) {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fe.paramsAlive--
	}
	cParametersSetString = func(parameters uintptr, key, value string) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fe.paramsSet[key] = value
		return 0
	}

	cPrefixesNewDefaultPrefixes = func(prefixes *uintptr) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fe.prefixesAlive++
		*prefixes = fe.newHandle()
		return 0
	}
	cPrefixesDeclarePrefix = func(prefixes uintptr, prefixName, prefixIRI string, result *int32) uintptr {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		if !strings.HasSuffix(prefixName, ":") {
			*result = int32(PrefixInvalidName)
			return 0
		}
		previous, redeclared := fe.declared[prefixName]
		switch {
		case redeclared && previous == prefixIRI:
			*result = int32(PrefixNoChange)
		case redeclared:
			*result = int32(PrefixReplacedExisting)
		default:
			*result = int32(PrefixDeclaredNew)
		}
		fe.declared[prefixName] = prefixIRI
		return 0
	}
	cPrefixesDestroy = func(prefixes uintptr) {
		fe.mu.Lock()
		defer fe.mu.Unlock()
		fe.prefixesAlive--
	}
}

// writeTestFile writes content to path, failing the test on error.
func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// testConnection opens a data store connection through the public API
// against the installed fake.
func testConnection(t *testing.T, fe *fakeEngine) *DataStoreConnection {
	t.Helper()
	server, err := StartServer(NewRoleCreds("admin", "admin"))
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	sc, err := server.ConnectionWithDefaultRole()
	if err != nil {
		t.Fatalf("Failed to connect to server: %v", err)
	}
	t.Cleanup(sc.Close)
	conn, err := sc.ConnectToDataStore("test")
	if err != nil {
		t.Fatalf("Failed to connect to data store: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}
