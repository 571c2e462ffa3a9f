// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// DefaultLicenseFileName is the file name the engine expects for a license.
const DefaultLicenseFileName = "RDFox.lic"

// FindLicense looks for a license file in dir and then in the engine's home
// directory under the user's home (~/.RDFox). It returns the first existing
// path.
func FindLicense(dir string) (string, error) {
	candidates := make([]string, 0, 2)
	if dir != "" {
		candidates = append(candidates, filepath.Join(dir, DefaultLicenseFileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".RDFox", DefaultLicenseFileName))
	}
	for _, license := range candidates {
		logger().Debug("checking license file", "path", license)
		if _, err := os.Stat(license); err == nil {
			return license, nil
		}
	}
	return "", NewError(ErrLicense, "no license file found")
}

// RoleCreds identifies a server role by name and password. The zero value is
// the anonymous role.
type RoleCreds struct {
	RoleName string
	Password string
}

// NewRoleCreds creates role credentials.
func NewRoleCreds(roleName, password string) RoleCreds {
	return RoleCreds{RoleName: roleName, Password: password}
}

// Server is a local engine instance running inside this process. At most one
// local server exists per process; starting it loads the shared library
// first.
type Server struct {
	defaultRole RoleCreds
	running     int32
}

// StartServer starts the local server with empty parameters and creates the
// first server role from the given credentials.
func StartServer(role RoleCreds) (*Server, error) {
	params, err := NewParameters()
	if err != nil {
		return nil, err
	}
	defer params.Close()
	return StartServerWithParameters(role, params)
}

// StartServerWithParameters starts the local server with the given
// parameters and creates the first server role from the given credentials.
func StartServerWithParameters(role RoleCreds, params *Parameters) (*Server, error) {
	if err := ensureNativeLibrary(); err != nil {
		return nil, err
	}
	logger().Debug("starting local server")
	if err := check("starting the local server", cServerStartLocalServer(params.pointer())); err != nil {
		return nil, NewError(ErrConnection, fmt.Sprintf("could not start local server: %v", err))
	}
	server := &Server{defaultRole: role, running: 1}
	if err := server.CreateRole(role); err != nil {
		return nil, err
	}
	logger().Debug("local server started")
	return server, nil
}

// CreateRole creates a server role. The engine only supports creating the
// first role on a fresh local server.
func (s *Server) CreateRole(role RoleCreds) error {
	logger().Debug("creating server role", "role", role.RoleName)
	err := check("creating the first local server role",
		cServerCreateFirstLocalServerRole(role.RoleName, role.Password))
	if err != nil {
		return NewError(ErrConnection, fmt.Sprintf("could not create server role %s: %v", role.RoleName, err))
	}
	logger().Debug("created server role", "role", role.RoleName)
	return nil
}

// Running reports whether the server has been started.
func (s *Server) Running() bool {
	return atomic.LoadInt32(&s.running) != 0
}

// Connection opens a server connection authenticated as the given role.
func (s *Server) Connection(role RoleCreds) (*ServerConnection, error) {
	if !s.Running() {
		return nil, NewError(ErrConnection, "server is not running")
	}
	var ptr uintptr
	err := check("connecting to the server",
		cServerConnectionNewServerConnection(role.RoleName, role.Password, &ptr))
	if err != nil {
		return nil, NewError(ErrConnection, fmt.Sprintf("could not connect to server: %v", err))
	}
	if ptr == 0 {
		return nil, NewError(ErrConnection, "could not establish connection to server")
	}
	logger().Debug("established server connection", "role", role.RoleName)
	return newServerConnection(s, role, ptr), nil
}

// ConnectionWithDefaultRole opens a server connection authenticated as the
// role the server was started with.
func (s *Server) ConnectionWithDefaultRole() (*ServerConnection, error) {
	return s.Connection(s.defaultRole)
}
