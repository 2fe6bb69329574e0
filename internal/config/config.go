package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is the root configuration for purrlog, stored in ~/.purrlog/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// LogDir holds the entry-YYYYMMDD-HHMMSS directories and the catalog index.
	LogDir string `json:"log_dir"`
	// CatalogTitle is the heading of the aggregate index.html.
	CatalogTitle string `json:"catalog_title"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`
	// Color is auto, always or never.
	Color string `json:"color"`
}

const (
	// DefaultCatalogTitle is used when the config leaves the title empty.
	DefaultCatalogTitle = "Observation log"
	DefaultLogLevel     = "info"
	DefaultColor        = "auto"
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig(home string) Config {
	return Config{
		LogDir:       filepath.Join(home, "purrlog"),
		CatalogTitle: DefaultCatalogTitle,
		LogLevel:     DefaultLogLevel,
		Color:        DefaultColor,
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// purrlog configuration – ~/.purrlog/config.json
//
// All settings are optional; empty values fall back to the built-in defaults.
{
  // Directory holding the entry-YYYYMMDD-HHMMSS folders and the catalog
  // index.html. Empty means ~/purrlog. A leading ~/ is expanded.
  "log_dir": "",

  // Heading of the aggregate catalog written next to the entries.
  "catalog_title": "Observation log",

  // Log verbosity: debug, info, warn or error.
  "log_level": "info",

  // Colored terminal output: auto (only on a terminal), always or never.
  "color": "auto"
}
`

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.purrlog/config.json, creating it with annotated defaults on
// first run.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
	}
	return LoadFile(filepath.Join(home, ".purrlog", "config.json"), home)
}

// LoadFile reads the config at path. home is used for defaults and ~/
// expansion. A missing file is created from the template.
func LoadFile(path, home string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(home), nil
	}
	if err != nil {
		return defaultConfig(home), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(home), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	def := defaultConfig(home)
	if cfg.LogDir == "" {
		cfg.LogDir = def.LogDir
	}
	if strings.HasPrefix(cfg.LogDir, "~/") {
		cfg.LogDir = filepath.Join(home, cfg.LogDir[2:])
	}
	if cfg.CatalogTitle == "" {
		cfg.CatalogTitle = def.CatalogTitle
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.Color == "" {
		cfg.Color = def.Color
	}

	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
