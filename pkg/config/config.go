// Package config loads the YAML document describing palette overrides,
// key-binding overrides, and session defaults, following the
// read-file/unmarshal-onto-defaults/write-if-missing idiom used
// elsewhere in the pack for small YAML-backed config files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level document loaded from disk.
type Config struct {
	Session SessionDefaults   `yaml:"session"`
	Palette map[string]string `yaml:"palette"` // index ("0".."15") -> "#rrggbb"
	Keys    []KeyOverride     `yaml:"keys"`
}

// SessionDefaults holds the shell/size/dir knobs that cmd/vtcored copies
// into session.Config when the command line doesn't override them.
type SessionDefaults struct {
	Shell string `yaml:"shell"`
	Dir   string `yaml:"dir"`
	Cols  int    `yaml:"cols"`
	Rows  int    `yaml:"rows"`
}

// KeyOverride rebinds one key symbol (by name, matching the pkg/input
// Key constant names lowercased, e.g. "f5") to a literal escape
// sequence. Load reads these entries; nothing in this module applies
// them to pkg/input's keymap.
type KeyOverride struct {
	Key string `yaml:"key"`
	Seq string `yaml:"seq"`
}

// Default returns the built-in configuration: an 80x24 session running
// the caller's login shell with no palette or key overrides.
func Default() Config {
	return Config{
		Session: SessionDefaults{
			Cols: 80,
			Rows: 24,
		},
	}
}

// Load reads path, merging its contents onto Default(). A missing file
// is not an error: the defaults are written out for future editing,
// mirroring the write-defaults-on-first-run behavior elsewhere in the
// pack, and Default() is returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		writeDefault(path, cfg)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.Session.Cols <= 0 {
		cfg.Session.Cols = 80
	}
	if cfg.Session.Rows <= 0 {
		cfg.Session.Rows = 24
	}

	return cfg, nil
}

func writeDefault(path string, cfg Config) {
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return
	}
	header := []byte("# vtcored configuration\n# palette entries are \"N: \"#rrggbb\"\" for N in 0..15\n\n")
	_ = os.WriteFile(path, append(header, data...), 0o644)
}

// ParsePaletteColor parses a "#rrggbb" string into packed 0xRRGGBB,
// returning ok=false on malformed input so the caller can skip a bad
// entry rather than fail the whole load.
func ParsePaletteColor(s string) (rgb uint32, ok bool) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
