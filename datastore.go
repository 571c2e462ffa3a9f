// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"fmt"
)

// DataStore names a data store on a server together with the parameters it
// should be created with. Defining a data store is purely local; Create on a
// server connection materializes it.
type DataStore struct {
	name   string
	params *Parameters
}

// DefineDataStore defines a data store with the given name and no creation
// parameters.
func DefineDataStore(name string) *DataStore {
	return &DataStore{name: name}
}

// DefineDataStoreWithParameters defines a data store that will be created
// with the given parameters.
func DefineDataStoreWithParameters(name string, params *Parameters) *DataStore {
	return &DataStore{name: name, params: params}
}

// Name returns the data store name.
func (ds *DataStore) Name() string {
	return ds.name
}

// Parameters returns the creation parameters, nil when none were given.
func (ds *DataStore) Parameters() *Parameters {
	return ds.params
}

// String implements fmt.Stringer.
func (ds *DataStore) String() string {
	return fmt.Sprintf("data store [%s]", ds.name)
}

// Create materializes the data store on the server behind the connection.
func (ds *DataStore) Create(sc *ServerConnection) (*DataStore, error) {
	if _, err := sc.CreateDataStore(ds); err != nil {
		return nil, err
	}
	return ds, nil
}
