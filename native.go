// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"unsafe"
)

// Library loader
var (
	nativeLibOnce    sync.Once
	nativeLibLoaded  bool
	nativeLibError   error
	nativeLibPath    string
	nativeLibHandler unsafe.Pointer

	libraryDirMu sync.Mutex
	libraryDir   string
)

// SetLibraryDir sets an explicit directory to search for the RDFox shared
// library. It must be called before the first operation that touches the
// engine; once the library is loaded the setting has no effect.
func SetLibraryDir(dir string) {
	libraryDirMu.Lock()
	libraryDir = dir
	libraryDirMu.Unlock()
}

// NativeLibraryAvailable reports whether the RDFox shared library was found
// and all entry points were bound.
func NativeLibraryAvailable() bool {
	loadNativeLibrary()
	return nativeLibLoaded
}

// NativeLibraryError returns the error that occurred while loading the RDFox
// shared library, if any.
func NativeLibraryError() error {
	loadNativeLibrary()
	return nativeLibError
}

// NativeLibraryPath returns the path the RDFox shared library was loaded
// from, or an empty string when it has not been loaded.
func NativeLibraryPath() string {
	loadNativeLibrary()
	return nativeLibPath
}

// ensureNativeLibrary loads the library on first use and fails operations
// that need the engine when it cannot be loaded.
func ensureNativeLibrary() error {
	loadNativeLibrary()
	if !nativeLibLoaded {
		return NewError(ErrConnection, fmt.Sprintf("RDFox library unavailable: %v", nativeLibError))
	}
	return nil
}

// Attempts to load the native library
func loadNativeLibrary() {
	nativeLibOnce.Do(func() {
		// First, try to find a path to the native library
		nativeLibPath = findNativeLibraryPath()
		if nativeLibPath == "" {
			nativeLibError = errors.New("RDFox shared library not found")
			return
		}

		// Load the dynamic library
		handler, err := loadDynamicLibrary(nativeLibPath)
		if err != nil {
			nativeLibError = fmt.Errorf("failed to load RDFox library: %v", err)
			return
		}
		nativeLibHandler = handler

		// Bind all entry points
		if err := bindNativeFunctions(uintptr(nativeLibHandler)); err != nil {
			closeLibrary(nativeLibHandler)
			nativeLibError = err
			return
		}

		logger().Debug("loaded RDFox library", "path", nativeLibPath)
		nativeLibLoaded = true
	})
}

// bindNativeFunctions registers every entry point against the loaded
// library. Registration panics on a missing symbol, which is converted into
// an error so that loading stays a recoverable failure.
func bindNativeFunctions(handle uintptr) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to bind RDFox entry points: %v", r)
		}
	}()
	registerNativeFunctions(handle)
	return nil
}

// Find the path to the native library based on runtime OS and architecture
func findNativeLibraryPath() string {
	// Get the directory containing the current executable
	execPath, err := os.Executable()
	execDir := ""
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	// Get the module directory (where go-rdfox is installed)
	moduleDir := ""
	if _, thisFile, _, ok := runtime.Caller(0); ok {
		moduleDir = filepath.Dir(thisFile)
	}

	// Determine library name based on OS
	var libName string
	switch runtime.GOOS {
	case "windows":
		libName = "RDFox.dll"
	case "darwin":
		libName = "libRDFox.dylib"
	case "linux":
		libName = "libRDFox.so"
	default:
		return ""
	}

	// OS and architecture specific path within the library
	osArchPath := filepath.Join("lib", runtime.GOOS, runtime.GOARCH, libName)

	libraryDirMu.Lock()
	explicitDir := libraryDir
	libraryDirMu.Unlock()
	if explicitDir == "" {
		explicitDir = os.Getenv("RDFOX_LIB_DIR")
	}

	// Check several possible locations for the library
	var searchPaths []string
	if explicitDir != "" {
		searchPaths = append(searchPaths, filepath.Join(explicitDir, libName))
	}
	searchPaths = append(searchPaths,
		// Current directory
		filepath.Join(".", libName),
		// Executable directory
		filepath.Join(execDir, libName),
		// Module directory
		filepath.Join(moduleDir, libName),
		// OS/arch-specific in module directory
		filepath.Join(moduleDir, osArchPath),
		// GO path
		filepath.Join(os.Getenv("GOPATH"), "pkg", "mod", "github.com", "semihalev", "go-rdfox", osArchPath),
	)

	// Try all paths
	for _, path := range searchPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
