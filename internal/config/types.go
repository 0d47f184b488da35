// Package config provides project configuration for semgraph. It is
// decoupled from CLI concerns so the server and tests can load configuration
// without a cobra command in hand.
package config

// ServerConfig holds settings for serve mode.
type ServerConfig struct {
	Port  int  `koanf:"port"`
	Watch bool `koanf:"watch"`
}

// Config is the resolved project configuration.
type Config struct {
	// SearchPath is the root scanned for .SemanticModel folders.
	SearchPath string `koanf:"search_path"`

	// Verbose lowers the log level to debug.
	Verbose bool `koanf:"verbose"`

	Server ServerConfig `koanf:"server"`
}

// Defaults used when neither file, environment nor flags say otherwise.
const (
	DefaultSearchPath = "."
	DefaultPort       = 8321
)

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.SearchPath == "" {
		c.SearchPath = DefaultSearchPath
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
}
