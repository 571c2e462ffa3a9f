// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Role != "admin" || cfg.Server.Password != "admin" {
		t.Errorf("Default credentials: got %s/%s", cfg.Server.Role, cfg.Server.Password)
	}
	if cfg.Server.Persistence != "off" {
		t.Errorf("Default persistence: got %q", cfg.Server.Persistence)
	}
	if cfg.Server.Threads != 0 {
		t.Errorf("Default threads: got %d, want 0 meaning server choice", cfg.Server.Threads)
	}
	if cfg.Shell.Datastore != "default" {
		t.Errorf("Default shell datastore: got %q", cfg.Shell.Datastore)
	}
	if cfg.Shell.Format != FormatTurtle {
		t.Errorf("Default shell format: got %q", cfg.Shell.Format)
	}
	if cfg.Lib.Dir != "" {
		t.Errorf("Default lib dir: got %q", cfg.Lib.Dir)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("RDFOX_SERVER_ROLE", "alice")
	t.Setenv("RDFOX_SERVER_THREADS", "6")
	t.Setenv("RDFOX_SHELL_FORMAT", FormatCSV)
	t.Setenv("RDFOX_LICENSE_DIR", "/opt/licenses")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Role != "alice" {
		t.Errorf("server.role: got %q, want the environment value", cfg.Server.Role)
	}
	if cfg.Server.Threads != 6 {
		t.Errorf("server.threads: got %d, want 6", cfg.Server.Threads)
	}
	if cfg.Shell.Format != FormatCSV {
		t.Errorf("shell.format: got %q", cfg.Shell.Format)
	}
	if cfg.License.Dir != "/opt/licenses" {
		t.Errorf("license.dir: got %q", cfg.License.Dir)
	}
	// Untouched settings keep their defaults.
	if cfg.Server.Password != "admin" {
		t.Errorf("server.password: got %q, want the default", cfg.Server.Password)
	}
}

func TestServerConfigPersistenceMode(t *testing.T) {
	cases := []struct {
		value   string
		want    PersistenceMode
		wantErr bool
	}{
		{"", PersistOff, false},
		{"off", PersistOff, false},
		{"file", PersistFile, false},
		{"file-sequence", PersistFileSequence, false},
		{"bogus", PersistOff, true},
	}
	for _, c := range cases {
		sc := ServerConfig{Persistence: c.value}
		mode, err := sc.PersistenceMode()
		if c.wantErr {
			if !IsError(err, ErrGeneric) {
				t.Errorf("Persistence %q: expected ErrGeneric, got %v", c.value, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Persistence %q: unexpected error %v", c.value, err)
			continue
		}
		if mode != c.want {
			t.Errorf("Persistence %q: got %v, want %v", c.value, mode, c.want)
		}
	}
}

func TestServerConfigRoleCreds(t *testing.T) {
	sc := ServerConfig{Role: "bob", Password: "hunter2"}
	if sc.RoleCreds() != NewRoleCreds("bob", "hunter2") {
		t.Errorf("RoleCreds: got %v", sc.RoleCreds())
	}
}

func TestServerParameters(t *testing.T) {
	fe := newFakeEngine(t)
	t.Setenv("HOME", t.TempDir())

	serverDir := t.TempDir()
	licenseDir := t.TempDir()
	license := filepath.Join(licenseDir, DefaultLicenseFileName)
	writeTestFile(t, license, "license bytes")

	cfg := DefaultConfig()
	cfg.Server.Persistence = "file"
	cfg.Server.Directory = serverDir
	cfg.License.Dir = licenseDir

	params, err := cfg.ServerParameters()
	if err != nil {
		t.Fatalf("ServerParameters failed: %v", err)
	}
	defer params.Close()

	if fe.paramsSet["persist-ds"] != "file" {
		t.Errorf("persist-ds: got %q", fe.paramsSet["persist-ds"])
	}
	if fe.paramsSet["persist-roles"] != "file" {
		t.Errorf("persist-roles: got %q", fe.paramsSet["persist-roles"])
	}
	if fe.paramsSet["server-directory"] != serverDir {
		t.Errorf("server-directory: got %q", fe.paramsSet["server-directory"])
	}
	if fe.paramsSet["license-file"] != license {
		t.Errorf("license-file: got %q", fe.paramsSet["license-file"])
	}
}

func TestServerParametersWithoutLicense(t *testing.T) {
	fe := newFakeEngine(t)
	t.Setenv("HOME", t.TempDir())

	params, err := DefaultConfig().ServerParameters()
	if err != nil {
		t.Fatalf("ServerParameters failed: %v", err)
	}
	defer params.Close()

	// A missing license is not an error; the parameter is simply absent.
	if _, ok := fe.paramsSet["license-file"]; ok {
		t.Errorf("license-file set without a license: %q", fe.paramsSet["license-file"])
	}
	if fe.paramsSet["persist-ds"] != "off" {
		t.Errorf("persist-ds: got %q", fe.paramsSet["persist-ds"])
	}
}

func TestServerParametersRejectsBadPersistence(t *testing.T) {
	newFakeEngine(t)
	cfg := DefaultConfig()
	cfg.Server.Persistence = "sometimes"
	if _, err := cfg.ServerParameters(); !IsError(err, ErrGeneric) {
		t.Errorf("Expected ErrGeneric, got %v", err)
	}
}

func TestStartServerFromConfig(t *testing.T) {
	fe := newFakeEngine(t)
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.Server.Role = "bob"
	cfg.Server.Password = "hunter2"
	cfg.Server.Threads = 5

	server, err := StartServerFromConfig(cfg)
	if err != nil {
		t.Fatalf("StartServerFromConfig failed: %v", err)
	}
	if !server.Running() {
		t.Error("Server does not report running")
	}
	if fe.serverStarts != 1 {
		t.Errorf("Engine saw %d server starts, want 1", fe.serverStarts)
	}
	if len(fe.rolesCreated) != 1 || fe.rolesCreated[0] != [2]string{"bob", "hunter2"} {
		t.Errorf("Roles created: got %v", fe.rolesCreated)
	}
	if fe.threads != 5 {
		t.Errorf("Engine threads: got %d, want the configured 5", fe.threads)
	}
	// The thread-setting connection and the startup parameters are both
	// released.
	if fe.serverDestroys != 1 {
		t.Errorf("Engine saw %d server connection destroys, want 1", fe.serverDestroys)
	}
	if fe.paramsAlive != 0 {
		t.Errorf("Startup leaked %d parameter objects", fe.paramsAlive)
	}
}
