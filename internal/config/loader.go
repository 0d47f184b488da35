package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names probed in the working directory.
const (
	ConfigFileName    = "semgraph.yaml"
	ConfigFileNameAlt = "semgraph.yml"
)

// envPrefix namespaces environment overrides, e.g. SEMGRAPH_SEARCH_PATH.
const envPrefix = "SEMGRAPH_"

// Load resolves configuration by layering, lowest precedence first:
// built-in defaults, the config file, SEMGRAPH_* environment variables, and
// explicitly set CLI flags. explicitFile forces a config file path; flags may
// be nil. A missing config file is not an error.
func Load(explicitFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]interface{}{
		"search_path": DefaultSearchPath,
		"server.port": DefaultPort,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path := findConfigFile(explicitFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else if explicitFile != "" {
		return nil, fmt.Errorf("config file not found: %s", explicitFile)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return flagKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// findConfigFile picks the config file: an explicit path wins, otherwise the
// working directory is probed. Empty means no file.
func findConfigFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// flagKey maps a flag name to its koanf key: dashes become underscores and
// server flags live under the server prefix.
func flagKey(name string) string {
	switch name {
	case "port", "watch":
		return "server." + name
	default:
		return strings.ReplaceAll(name, "-", "_")
	}
}
