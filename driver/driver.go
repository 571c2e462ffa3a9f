// Package driver registers the RDFox client as a Go database/sql driver
// under the name "rdfox".
//
// To run SPARQL through the standard database/sql interface, import this
// package for its side effects and open a connection with sql.Open:
//
//	import _ "github.com/semihalev/go-rdfox/driver"
//
//	db, err := sql.Open("rdfox", "/var/lib/rdfox?datastore=facts&role=admin&password=admin")
//
// The DSN is a server directory followed by optional query parameters. The
// engine runs one local server per process, so the first Open starts it and
// fixes the server directory and role; later DSNs must name the same
// directory. SELECT results carry one string column per answer variable, in
// Turtle form; INSERT and DELETE statements run through Exec.
package driver

import (
	"database/sql"
	gosqldriver "database/sql/driver"
)

// DriverName is the name used to register the rdfox driver with database/sql.
const DriverName = "rdfox"

func init() {
	sql.Register(DriverName, &Driver{})
}

// Driver implements database/sql/driver.Driver.
type Driver struct{}

// Open starts the shared local server when needed, ensures the data store
// named by the DSN exists, and connects to it.
func (d *Driver) Open(name string) (gosqldriver.Conn, error) {
	dsn, err := ParseDSN(name)
	if err != nil {
		return nil, err
	}
	conn, err := sharedEngine.connect(dsn)
	if err != nil {
		return nil, err
	}
	return &Conn{conn: conn}, nil
}

// Ensure Driver implements driver.Driver.
var _ gosqldriver.Driver = &Driver{}
