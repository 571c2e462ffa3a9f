// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import "fmt"

// ServerConnection is an authenticated connection to the local server. It
// manages data stores and opens data store connections. A server connection
// is not safe for concurrent use.
type ServerConnection struct {
	server *Server
	role   RoleCreds
	handle *Handle
}

func newServerConnection(server *Server, role RoleCreds, ptr uintptr) *ServerConnection {
	return &ServerConnection{
		server: server,
		role:   role,
		handle: NewHandle("server connection", ptr, cServerConnectionDestroy),
	}
}

// Role returns the credentials this connection authenticated with.
func (sc *ServerConnection) Role() RoleCreds {
	return sc.role
}

// Server returns the server this connection belongs to.
func (sc *ServerConnection) Server() *Server {
	return sc.server
}

func (sc *ServerConnection) pointer() uintptr {
	return sc.handle.Pointer()
}

// Close destroys the underlying native connection. It is safe to call more
// than once.
func (sc *ServerConnection) Close() {
	if sc.handle.Destroyed() {
		return
	}
	sc.handle.Destroy()
	logger().Debug("closed server connection", "role", sc.role.RoleName)
}

// Version returns the engine version string.
func (sc *ServerConnection) Version() (string, error) {
	var version uintptr
	err := check("getting the server version", cServerConnectionGetVersion(sc.pointer(), &version))
	if err != nil {
		return "", NewError(ErrConnection, fmt.Sprintf("could not get server version: %v", err))
	}
	return goString(version), nil
}

// NumberOfThreads returns the number of threads the server uses.
func (sc *ServerConnection) NumberOfThreads() (uint64, error) {
	var numberOfThreads uint64
	err := check("getting the number of server threads",
		cServerConnectionGetNumberOfThreads(sc.pointer(), &numberOfThreads))
	if err != nil {
		return 0, NewError(ErrConnection, fmt.Sprintf("could not get number of threads: %v", err))
	}
	return numberOfThreads, nil
}

// SetNumberOfThreads sets the number of threads the server uses.
func (sc *ServerConnection) SetNumberOfThreads(numberOfThreads uint64) error {
	err := check("setting the number of server threads",
		cServerConnectionSetNumberOfThreads(sc.pointer(), numberOfThreads))
	if err != nil {
		return NewError(ErrConnection, fmt.Sprintf("could not set number of threads to %d: %v", numberOfThreads, err))
	}
	logger().Debug("set server threads", "threads", numberOfThreads)
	return nil
}

// MemoryUse reports the maximum bytes the server has used and the bytes
// still available to it.
func (sc *ServerConnection) MemoryUse() (maxUsed, available uint64, err error) {
	e := check("getting the server memory use",
		cServerConnectionGetMemoryUse(sc.pointer(), &maxUsed, &available))
	if e != nil {
		return 0, 0, NewError(ErrConnection, fmt.Sprintf("could not get memory use: %v", e))
	}
	return maxUsed, available, nil
}

// CreateDataStore creates the data store on the server using the store's
// parameters, if any.
func (sc *ServerConnection) CreateDataStore(ds *DataStore) (*DataStore, error) {
	logger().Debug("creating data store", "name", ds.Name())
	err := check("creating a data store",
		cServerConnectionCreateDataStore(sc.pointer(), ds.Name(), ds.Parameters().pointer()))
	if err != nil {
		return nil, NewError(ErrDataStore, fmt.Sprintf("could not create %v: %v", ds, err))
	}
	logger().Debug("created data store", "name", ds.Name())
	return ds, nil
}

// DeleteDataStore removes the named data store from the server.
func (sc *ServerConnection) DeleteDataStore(name string) error {
	err := check("deleting a data store", cServerConnectionDeleteDataStore(sc.pointer(), name))
	if err != nil {
		return NewError(ErrDataStore, fmt.Sprintf("could not delete data store %s: %v", name, err))
	}
	logger().Debug("deleted data store", "name", name)
	return nil
}

// Connect opens a connection to the data store.
func (sc *ServerConnection) Connect(ds *DataStore) (*DataStoreConnection, error) {
	var ptr uintptr
	err := check("connecting to a data store",
		cServerConnectionNewDataStoreConnection(sc.pointer(), ds.Name(), &ptr))
	if err != nil {
		return nil, NewError(ErrConnection, fmt.Sprintf("could not connect to %v: %v", ds, err))
	}
	if ptr == 0 {
		return nil, NewError(ErrConnection, fmt.Sprintf("could not establish connection to %v", ds))
	}
	return newDataStoreConnection(ds, ptr), nil
}

// ConnectToDataStore opens a connection to the named data store.
func (sc *ServerConnection) ConnectToDataStore(name string) (*DataStoreConnection, error) {
	return sc.Connect(DefineDataStore(name))
}
