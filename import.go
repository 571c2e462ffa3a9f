// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// rdfFileFormats maps the file extensions the directory importer picks up to
// their MIME types.
var rdfFileFormats = map[string]string{
	".ttl": FormatTurtle,
	".nt":  FormatNTriples,
}

// collectRDFFiles walks root and returns the paths of all importable RDF
// files. Hidden files and directories are skipped.
func collectRDFFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := rdfFileFormats[strings.ToLower(filepath.Ext(name))]; ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, NewError(ErrImport, fmt.Sprintf("could not walk %s: %v", root, err))
	}
	return files, nil
}

// ImportFromDirectory loads every .ttl and .nt file under root into the
// graph, one file at a time, and returns the number of files imported. The
// walk stops at the first failing file.
func (c *DataStoreConnection) ImportFromDirectory(root string, graph Graph) (int, error) {
	files, err := collectRDFFiles(root)
	if err != nil {
		return 0, err
	}
	logger().Debug("importing directory", "root", root, "files", len(files), "graph", graph.String())
	count := 0
	for _, file := range files {
		format := rdfFileFormats[strings.ToLower(filepath.Ext(file))]
		if err := c.ImportFile(graph, file, format); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// DirectoryImporter loads the RDF files of a directory tree through a
// connection pool, several files at a time.
type DirectoryImporter struct {
	pool    *ConnectionPool
	graph   Graph
	workers int
}

// NewDirectoryImporter builds an importer over the pool, targeting the
// graph, with worker parallelism equal to the pool size.
func NewDirectoryImporter(pool *ConnectionPool, graph Graph) *DirectoryImporter {
	return &DirectoryImporter{pool: pool, graph: graph, workers: pool.Size()}
}

// SetWorkers caps the number of files imported at once.
func (imp *DirectoryImporter) SetWorkers(workers int) {
	if workers < 1 {
		workers = 1
	}
	imp.workers = workers
}

// Run imports every .ttl and .nt file under root into the importer's graph.
// It returns the number of files imported and the first error encountered;
// remaining files are not submitted once a file has failed.
func (imp *DirectoryImporter) Run(ctx context.Context, root string) (int, error) {
	files, err := collectRDFFiles(root)
	if err != nil {
		return 0, err
	}
	jobID := uuid.New().String()
	logger().Debug("importing directory", "job", jobID, "root", root,
		"files", len(files), "graph", imp.graph.String(), "workers", imp.workers)

	var (
		mu       sync.Mutex
		firstErr error
		count    int
		wg       sync.WaitGroup
	)
	workers, err := ants.NewPool(imp.workers, ants.WithPanicHandler(func(v any) {
		logger().Error("import worker panic", "job", jobID, "panic", v)
		mu.Lock()
		if firstErr == nil {
			firstErr = NewError(ErrImport, fmt.Sprintf("import worker panic: %v", v))
		}
		mu.Unlock()
	}))
	if err != nil {
		return 0, NewError(ErrImport, fmt.Sprintf("could not start import workers: %v", err))
	}
	defer workers.Release()

	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	for _, file := range files {
		if failed() || ctx.Err() != nil {
			break
		}
		file := file
		wg.Add(1)
		submitErr := workers.Submit(func() {
			defer wg.Done()
			if failed() {
				return
			}
			importErr := imp.pool.With(ctx, func(conn *DataStoreConnection) error {
				format := rdfFileFormats[strings.ToLower(filepath.Ext(file))]
				return conn.ImportFile(imp.graph, file, format)
			})
			mu.Lock()
			defer mu.Unlock()
			if importErr != nil {
				logger().Error("import failed", "job", jobID, "file", file, "error", importErr)
				if firstErr == nil {
					firstErr = importErr
				}
				return
			}
			count++
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = NewError(ErrImport, fmt.Sprintf("could not submit import of %s: %v", file, submitErr))
			}
			mu.Unlock()
			break
		}
	}
	wg.Wait()

	if firstErr == nil && ctx.Err() != nil {
		firstErr = NewError(ErrImport, fmt.Sprintf("directory import interrupted: %v", ctx.Err()))
	}
	logger().Debug("directory import finished", "job", jobID, "imported", count, "total", len(files))
	return count, firstErr
}
