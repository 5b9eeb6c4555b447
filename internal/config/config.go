// Package config builds store configuration from config.yaml, TOODLE_*
// environment variables and open URIs.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/toodle/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// EnvPrefix scopes environment overrides: TOODLE_BACKEND,
	// TOODLE_SYNC_STRATEGY.
	EnvPrefix = "TOODLE"
)

// Config keys, matching the mapstructure tags of types.Config.
const (
	KeyBackend      = "backend"
	KeyDataDir      = "data_dir"
	KeySyncStrategy = "sync_strategy"
)

// MemoryURI selects an in-memory store, as does the empty URI.
const MemoryURI = ":memory:"

// ErrBadURI is returned for an open URI that cannot be parsed.
var ErrBadURI = errors.New("invalid store URI")

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# toodle configuration

# Store backend: sqlite (pure Go) or sqlite3 (cgo)
backend: sqlite

# When to write the JSONL record: immediate or on_close
sync_strategy: immediate

# Data directory (optional; overridable by --data-dir)
# data_dir:
`

// newViper returns a viper instance with defaults and environment binding.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyBackend, types.BackendSQLite)
	v.SetDefault(KeyDataDir, "")
	v.SetDefault(KeySyncStrategy, types.SyncImmediate)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// Load reads config.yaml from configDir, creating the directory and a
// default file on first run. A missing file is not an error.
func Load(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := newViper()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// StoreConfig decodes the store settings held by v.
func StoreConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// FromURI builds the Config for an open call. The URI path is the data
// directory; the query may set backend= and sync=. The empty URI and
// MemoryURI select an in-memory store. Backend and sync strategy default to
// the TOODLE_* environment.
//
//	""                                     in memory
//	"/var/lib/app/todos"                   durable, defaults
//	"file:///var/lib/app/todos?sync=on_close"
//	":memory:?backend=sqlite3"
func FromURI(uri string) (types.Config, error) {
	v := newViper()
	// The data directory comes only from the URI.
	v.Set(KeyDataDir, "")

	dir, query, err := splitURI(uri)
	if err != nil {
		return types.Config{}, err
	}
	if dir != "" && dir != MemoryURI {
		v.Set(KeyDataDir, dir)
	}
	if b := query.Get("backend"); b != "" {
		v.Set(KeyBackend, b)
	}
	if s := query.Get("sync"); s != "" {
		v.Set(KeySyncStrategy, s)
	}
	return StoreConfig(v)
}

// splitURI separates the directory part of an open URI from its query.
func splitURI(uri string) (string, url.Values, error) {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return "", url.Values{}, nil
	}

	raw, rawQuery, _ := strings.Cut(uri, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadURI, err)
	}

	if rest, ok := strings.CutPrefix(raw, "file:"); ok {
		u, err := url.Parse("file:" + rest)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrBadURI, err)
		}
		raw = u.Path
		if raw == "" {
			raw = u.Opaque
		}
		if raw == "" {
			return "", nil, fmt.Errorf("%w: %q has no path", ErrBadURI, uri)
		}
	}
	if raw == MemoryURI {
		return MemoryURI, query, nil
	}
	return filepath.Clean(raw), query, nil
}

// ensureDefaultConfigFile writes the default config.yaml when absent.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
