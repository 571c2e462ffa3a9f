/*
Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.

# Overview

Go-RDFox loads the RDFox shared library at runtime and drives its C API
without CGO. It offers two API options:

1. A native API over servers, data stores, transactions and cursors
2. A database/sql facade for running SPARQL through Go's standard interfaces

The native API mirrors the engine's own model: a local server is started
in-process, data store connections are opened against it, and every query
runs as a cursor inside an explicit transaction. All native resources are
owned by Go wrappers that release them exactly once.

# Native API Example

	package main

	import (
		"fmt"
		"log"

		"github.com/semihalev/go-rdfox"
	)

	func main() {
		// Start the local server with its first role
		server, err := rdfox.StartServer(rdfox.NewRoleCreds("admin", "admin"))
		if err != nil {
			log.Fatalf("failed to start server: %v", err)
		}

		sc, err := server.ConnectionWithDefaultRole()
		if err != nil {
			log.Fatalf("failed to connect to server: %v", err)
		}
		defer sc.Close()

		// Create a data store and connect to it
		ds, err := rdfox.DefineDataStore("example").Create(sc)
		if err != nil {
			log.Fatalf("failed to create data store: %v", err)
		}
		conn, err := sc.Connect(ds)
		if err != nil {
			log.Fatalf("failed to connect to data store: %v", err)
		}
		defer conn.Close()

		// Load data into the default graph
		if err := conn.ImportFile(rdfox.Graph{}, "data.ttl", rdfox.FormatTurtle); err != nil {
			log.Fatalf("failed to import data: %v", err)
		}

		// Run a query through a cursor
		ns, err := rdfox.NewNamespaces()
		if err != nil {
			log.Fatalf("failed to create namespaces: %v", err)
		}
		defer ns.Close()
		params, err := rdfox.NewParameters()
		if err != nil {
			log.Fatalf("failed to create parameters: %v", err)
		}
		defer params.Close()

		statement := rdfox.NewStatement(ns, `SELECT ?s ?p ?o WHERE { ?s ?p ?o }`)
		cursor, err := statement.Cursor(conn, params)
		if err != nil {
			log.Fatalf("failed to create cursor: %v", err)
		}
		defer cursor.Destroy()

		count, err := cursor.ExecuteAndRollback(rdfox.DefaultMaxRows, func(row rdfox.ResultRow) error {
			values, err := row.Values()
			if err != nil {
				return err
			}
			for _, v := range values {
				fmt.Printf("%s ", v.Turtle())
			}
			fmt.Println()
			return nil
		})
		if err != nil {
			log.Fatalf("query failed: %v", err)
		}
		fmt.Printf("%d answers\n", count)
	}

# Standard SQL API Example

Using the database/sql facade, with one string column per answer variable:

	package main

	import (
		"database/sql"
		"fmt"
		"log"

		_ "github.com/semihalev/go-rdfox/driver"
	)

	func main() {
		db, err := sql.Open("rdfox", "?datastore=example")
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		_, err = db.Exec(`PREFIX ex: <https://example.com/>
			INSERT DATA { ex:go ex:is ex:fun }`)
		if err != nil {
			log.Fatalf("failed to insert data: %v", err)
		}

		rows, err := db.Query(`SELECT ?s ?p ?o WHERE { ?s ?p ?o }`)
		if err != nil {
			log.Fatalf("failed to query data: %v", err)
		}
		defer rows.Close()

		for rows.Next() {
			var s, p, o string
			if err := rows.Scan(&s, &p, &o); err != nil {
				log.Fatalf("failed to scan row: %v", err)
			}
			fmt.Printf("%s %s %s\n", s, p, o)
		}
	}

# Key Features

1. CGO-Free - the shared library is loaded with purego at runtime
2. Deterministic Resource Handling:
   - every native handle destroyed exactly once, on every exit path
   - transactions resolve explicitly; dropping one rolls it back
3. Guarded Cursor Consumption:
   - per-row multiplicity tracking and duplicate-weighted counts
   - fail-fast row and multiplicity limits instead of unbounded reads
4. Streaming:
   - query answers pushed straight into an io-style sink in Turtle,
     N-Triples, SPARQL JSON/XML, CSV or TSV
5. Operations Support:
   - directory import with bounded concurrency over a connection pool
   - structured logging via log/slog and Prometheus metrics
   - configuration from rdfox.yaml and RDFOX_ environment variables
6. Tooling - a database/sql driver and the rdfox-shell interactive REPL

# Library Loading

The shared library (libRDFox.so, libRDFox.dylib or RDFox.dll) is located at
first use. The search order is:

  - the directory set with SetLibraryDir
  - the RDFOX_LIB_DIR environment variable
  - the standard system library locations

A license file named RDFox.lic is picked up from a configured directory or
from ~/.RDFox.

# DSN Format

The database/sql driver accepts a server directory followed by optional
parameters:

  - In-memory server: `?datastore=example`
  - Persistent server: `/var/lib/rdfox?datastore=example&persistence=file`
  - Credentials: `?datastore=example&role=admin&password=admin`

# RDFox Compatibility

The client targets the CRDFox C API as shipped with RDFox 6.x.
*/
package rdfox
