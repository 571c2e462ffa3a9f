// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"log/slog"
	"sync/atomic"
)

// pkgLogger holds the structured logger used by the whole package.
var pkgLogger atomic.Pointer[slog.Logger]

func init() {
	pkgLogger.Store(slog.Default())
}

// SetLogger replaces the logger used by the package. Passing nil restores
// slog.Default. Safe to call concurrently with running operations.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	pkgLogger.Store(l)
}

func logger() *slog.Logger {
	return pkgLogger.Load()
}
