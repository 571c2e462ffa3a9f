package driver

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	rdfox "github.com/semihalev/go-rdfox"
)

// DSN describes one rdfox connection: an optional server directory followed
// by query parameters.
//
//	/var/lib/rdfox?datastore=facts&role=admin&password=admin&persistence=file
//
// Recognized parameters are datastore, role, password, persistence, libdir
// and licensedir.
type DSN struct {
	ServerDirectory string
	Datastore       string
	Role            string
	Password        string
	Persistence     string
	LibDir          string
	LicenseDir      string
}

// ParseDSN splits a DSN into its directory and parameters, filling in the
// defaults: data store "default", role and password "admin", persistence
// off.
func ParseDSN(name string) (DSN, error) {
	dsn := DSN{
		Datastore:   "default",
		Role:        "admin",
		Password:    "admin",
		Persistence: rdfox.PersistOff.String(),
	}
	dir, rawQuery, _ := strings.Cut(name, "?")
	dsn.ServerDirectory = dir
	if rawQuery == "" {
		return dsn, nil
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return DSN{}, fmt.Errorf("rdfox driver: invalid DSN %q: %w", name, err)
	}
	for key := range values {
		value := values.Get(key)
		switch key {
		case "datastore":
			dsn.Datastore = value
		case "role":
			dsn.Role = value
		case "password":
			dsn.Password = value
		case "persistence":
			dsn.Persistence = value
		case "libdir":
			dsn.LibDir = value
		case "licensedir":
			dsn.LicenseDir = value
		default:
			return DSN{}, fmt.Errorf("rdfox driver: unknown DSN parameter %q", key)
		}
	}
	return dsn, nil
}

func (dsn DSN) persistenceMode() (rdfox.PersistenceMode, error) {
	switch dsn.Persistence {
	case "", rdfox.PersistOff.String():
		return rdfox.PersistOff, nil
	case rdfox.PersistFile.String():
		return rdfox.PersistFile, nil
	case rdfox.PersistFileSequence.String():
		return rdfox.PersistFileSequence, nil
	}
	return rdfox.PersistOff, fmt.Errorf("rdfox driver: unknown persistence mode %q", dsn.Persistence)
}

func (dsn DSN) serverParameters() (*rdfox.Parameters, error) {
	mode, err := dsn.persistenceMode()
	if err != nil {
		return nil, err
	}
	params, err := rdfox.NewParameters()
	if err != nil {
		return nil, err
	}
	if err := params.SetPersistDataStores(mode); err != nil {
		params.Close()
		return nil, err
	}
	if err := params.SetPersistRoles(mode); err != nil {
		params.Close()
		return nil, err
	}
	if dsn.ServerDirectory != "" {
		if err := params.SetServerDirectory(dsn.ServerDirectory); err != nil {
			params.Close()
			return nil, err
		}
	}
	if license, err := rdfox.FindLicense(dsn.LicenseDir); err == nil {
		if err := params.SetLicenseFile(license); err != nil {
			params.Close()
			return nil, err
		}
	}
	return params, nil
}

// localEngine holds the process-wide server state every sql.Open shares.
type localEngine struct {
	mu     sync.Mutex
	server *rdfox.Server
	sc     *rdfox.ServerConnection
	dir    string
	stores map[string]*rdfox.DataStore
}

var sharedEngine localEngine

// connect starts the server on first use, makes sure the DSN's data store
// exists and opens a connection to it. The server directory is fixed by the
// first caller.
func (e *localEngine) connect(dsn DSN) (*rdfox.DataStoreConnection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.server == nil {
		if dsn.LibDir != "" {
			rdfox.SetLibraryDir(dsn.LibDir)
		}
		params, err := dsn.serverParameters()
		if err != nil {
			return nil, err
		}
		defer params.Close()
		server, err := rdfox.StartServerWithParameters(rdfox.NewRoleCreds(dsn.Role, dsn.Password), params)
		if err != nil {
			return nil, err
		}
		sc, err := server.ConnectionWithDefaultRole()
		if err != nil {
			return nil, err
		}
		e.server = server
		e.sc = sc
		e.dir = dsn.ServerDirectory
		e.stores = make(map[string]*rdfox.DataStore)
	} else if e.dir != dsn.ServerDirectory {
		return nil, fmt.Errorf("rdfox driver: server already started with directory %q, not %q", e.dir, dsn.ServerDirectory)
	}
	ds, ok := e.stores[dsn.Datastore]
	if !ok {
		ds = rdfox.DefineDataStore(dsn.Datastore)
		// Creating a store that already exists fails; the connect below
		// decides whether the store is usable.
		_, _ = e.sc.CreateDataStore(ds)
		e.stores[dsn.Datastore] = ds
	}
	return e.sc.Connect(ds)
}
