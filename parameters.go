// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"fmt"
	"os"
)

// FactDomain selects which facts a query or cursor sees.
type FactDomain int

const (
	// FactDomainAsserted restricts answers to explicitly asserted facts.
	FactDomainAsserted FactDomain = iota
	// FactDomainInferred restricts answers to derived facts.
	FactDomainInferred
	// FactDomainAll covers asserted and derived facts.
	FactDomainAll
)

// String returns the parameter value the engine expects for the domain.
func (d FactDomain) String() string {
	switch d {
	case FactDomainAsserted:
		return "explicit"
	case FactDomainInferred:
		return "derived"
	default:
		return "all"
	}
}

// PersistenceMode selects how the server persists data stores and roles.
type PersistenceMode int

const (
	// PersistFile stores state in a single file per store.
	PersistFile PersistenceMode = iota
	// PersistFileSequence stores state in a sequence of files.
	PersistFileSequence
	// PersistOff disables persistence.
	PersistOff
)

// String returns the parameter value the engine expects for the mode.
func (m PersistenceMode) String() string {
	switch m {
	case PersistFile:
		return "file"
	case PersistFileSequence:
		return "file-sequence"
	default:
		return "off"
	}
}

// Parameters is a set of key/value options passed to server startup, data
// store creation, queries and cursors. Close releases the native object;
// closing twice is harmless.
type Parameters struct {
	handle *Handle
}

// NewParameters allocates an empty parameters object. The shared library is
// loaded on first use.
func NewParameters() (*Parameters, error) {
	if err := ensureNativeLibrary(); err != nil {
		return nil, err
	}
	var ptr uintptr
	if err := check("allocating parameters", cParametersNewEmptyParameters(&ptr)); err != nil {
		return nil, err
	}
	return &Parameters{
		handle: NewHandle("parameters", ptr, func(p uintptr) { cParametersDestroy(p) }),
	}, nil
}

// SetString sets one parameter.
func (p *Parameters) SetString(key, value string) error {
	err := check("setting parameter "+key, cParametersSetString(p.handle.Pointer(), key, value))
	if err != nil {
		return err
	}
	logger().Debug("set parameter", "key", key, "value", value)
	return nil
}

// SetFactDomain selects the fact domain for query evaluation.
func (p *Parameters) SetFactDomain(d FactDomain) error {
	return p.SetString("fact-domain", d.String())
}

// SwitchOffFileAccessSandboxing lifts the engine's file access restrictions,
// allowing imports from anywhere on the filesystem.
func (p *Parameters) SwitchOffFileAccessSandboxing() error {
	return p.SetString("sandbox-directory", "")
}

// SetPersistDataStores selects the persistence mode for data stores.
func (p *Parameters) SetPersistDataStores(m PersistenceMode) error {
	return p.SetString("persist-ds", m.String())
}

// SetPersistRoles selects the persistence mode for roles.
func (p *Parameters) SetPersistRoles(m PersistenceMode) error {
	return p.SetString("persist-roles", m.String())
}

// SetServerDirectory points the server at its data directory. The directory
// must exist.
func (p *Parameters) SetServerDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return NewError(ErrGeneric, fmt.Sprintf("server directory %q is not a directory", dir))
	}
	return p.SetString("server-directory", dir)
}

// SetLicenseFile points the server at its license file. The file must exist.
func (p *Parameters) SetLicenseFile(file string) error {
	if _, err := os.Stat(file); err != nil {
		return NewError(ErrLicense, fmt.Sprintf("license file %q does not exist", file))
	}
	return p.SetString("license-file", file)
}

// SetImportRenameUserBlankNodes controls whether imports rename blank nodes
// so that nodes from different files stay distinct.
func (p *Parameters) SetImportRenameUserBlankNodes(on bool) error {
	return p.SetString("import.rename-user-blank-nodes", fmt.Sprintf("%v", on))
}

// SetAPILog switches API call logging on or off.
func (p *Parameters) SetAPILog(on bool) error {
	if on {
		return p.SetString("api-log", "on")
	}
	return p.SetString("api-log", "off")
}

// SetAPILogDirectory sets the directory that receives API logs.
func (p *Parameters) SetAPILogDirectory(dir string) error {
	return p.SetString("api-log.directory", dir)
}

// Close releases the native parameters object.
func (p *Parameters) Close() {
	p.handle.Destroy()
}

// pointer returns the native pointer, or zero for nil parameters so that
// callers can treat nil as "no parameters".
func (p *Parameters) pointer() uintptr {
	if p == nil {
		return 0
	}
	return p.handle.Pointer()
}
