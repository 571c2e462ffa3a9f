// Package rdfox provides a CGO-free Go client for the RDFox knowledge graph engine.
package rdfox

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables the configuration
// loader reads, so RDFOX_SERVER_DIRECTORY sets server.directory.
const EnvPrefix = "RDFOX_"

// Config collects the settings for starting a local server and connecting to
// it. Values come from rdfox.yaml and RDFOX_-prefixed environment variables,
// the environment winning.
type Config struct {
	Lib     LibConfig     `mapstructure:"lib"`
	Server  ServerConfig  `mapstructure:"server"`
	License LicenseConfig `mapstructure:"license"`
	Shell   ShellConfig   `mapstructure:"shell"`
}

// LibConfig locates the shared engine library.
type LibConfig struct {
	// Dir is searched before the standard library locations.
	Dir string `mapstructure:"dir"`
}

// ServerConfig holds local server startup settings.
type ServerConfig struct {
	// Directory is where the server persists its state.
	Directory string `mapstructure:"directory"`
	// Persistence is one of file, file-sequence or off.
	Persistence string `mapstructure:"persistence"`
	Role        string `mapstructure:"role"`
	Password    string `mapstructure:"password"`
	// Threads overrides the server thread count when non-zero.
	Threads uint64 `mapstructure:"threads"`
}

// LicenseConfig locates the license file.
type LicenseConfig struct {
	// Dir is checked before ~/.RDFox.
	Dir string `mapstructure:"dir"`
}

// ShellConfig holds defaults for the interactive shell.
type ShellConfig struct {
	Datastore string `mapstructure:"datastore"`
	Format    string `mapstructure:"format"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Persistence: PersistOff.String(),
			Role:        "admin",
			Password:    "admin",
		},
		Shell: ShellConfig{
			Datastore: "default",
			Format:    FormatTurtle,
		},
	}
}

// LoadConfig reads rdfox.yaml from the working directory, when present, and
// then applies RDFOX_-prefixed environment variables on top of the defaults.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("rdfox")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, NewError(ErrGeneric, fmt.Sprintf("could not read configuration file: %v", err))
		}
	}

	// RDFOX_SERVER_DIRECTORY becomes server.directory and so on.
	for _, envStr := range os.Environ() {
		pair := strings.SplitN(envStr, "=", 2)
		key, value := pair[0], pair[1]
		if !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		propKey := strings.TrimPrefix(key, EnvPrefix)
		propKey = strings.ToLower(strings.ReplaceAll(propKey, "_", "."))
		v.Set(propKey, value)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, NewError(ErrGeneric, fmt.Sprintf("could not unmarshal configuration: %v", err))
	}
	return cfg, nil
}

// PersistenceMode parses the configured persistence value.
func (c *ServerConfig) PersistenceMode() (PersistenceMode, error) {
	switch c.Persistence {
	case "", PersistOff.String():
		return PersistOff, nil
	case PersistFile.String():
		return PersistFile, nil
	case PersistFileSequence.String():
		return PersistFileSequence, nil
	}
	return PersistOff, NewError(ErrGeneric, fmt.Sprintf("unknown persistence mode %q", c.Persistence))
}

// RoleCreds returns the configured server credentials.
func (c *ServerConfig) RoleCreds() RoleCreds {
	return NewRoleCreds(c.Role, c.Password)
}

// ServerParameters builds the startup parameters the configuration
// describes: persistence mode, server directory and license file.
func (c *Config) ServerParameters() (*Parameters, error) {
	mode, err := c.Server.PersistenceMode()
	if err != nil {
		return nil, err
	}
	params, err := NewParameters()
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
	if c.Server.Directory != "" {
		if err := params.SetServerDirectory(c.Server.Directory); err != nil {
			params.Close()
			return nil, err
		}
	}
	if license, err := FindLicense(c.License.Dir); err == nil {
		if err := params.SetLicenseFile(license); err != nil {
			params.Close()
			return nil, err
		}
	}
	return params, nil
}

// StartServerFromConfig loads the library from the configured directory,
// starts the local server with the configured parameters and creates the
// configured role.
func StartServerFromConfig(cfg *Config) (*Server, error) {
	if cfg.Lib.Dir != "" {
		SetLibraryDir(cfg.Lib.Dir)
	}
	params, err := cfg.ServerParameters()
	if err != nil {
		return nil, err
	}
	defer params.Close()
	server, err := StartServerWithParameters(cfg.Server.RoleCreds(), params)
	if err != nil {
		return nil, err
	}
	if cfg.Server.Threads != 0 {
		sc, err := server.ConnectionWithDefaultRole()
		if err != nil {
			return nil, err
		}
		defer sc.Close()
		if err := sc.SetNumberOfThreads(cfg.Server.Threads); err != nil {
			return nil, err
		}
	}
	return server, nil
}
