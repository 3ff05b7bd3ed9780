package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// projectConfigName is looked up in the working directory when the user
// config is absent.
const projectConfigName = "slidecast.toml"

// Load reads, normalizes and validates the configuration. With an empty path
// it tries the user config and then ./slidecast.toml; when neither exists the
// defaults are used and the user config path is reported with exists=false.
func Load(path string) (cfg *Config, resolved string, exists bool, err error) {
	resolved, exists, err = locate(path)
	if err != nil {
		return nil, "", false, err
	}

	loaded := Default()
	if exists {
		if err := decodeFile(resolved, &loaded); err != nil {
			return nil, "", false, err
		}
	}
	if err := loaded.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := loaded.Validate(); err != nil {
		return nil, "", false, err
	}
	return &loaded, resolved, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func locate(explicit string) (string, bool, error) {
	var candidates []string
	if explicit != "" {
		candidates = []string{explicit}
	} else {
		candidates = []string{defaultConfigPath, projectConfigName}
	}

	var first string
	for _, candidate := range candidates {
		abs, err := expandPath(candidate)
		if err != nil {
			return "", false, err
		}
		if first == "" {
			first = abs
		}
		info, err := os.Stat(abs)
		switch {
		case err == nil && !info.IsDir():
			return abs, true, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}
	return first, false, nil
}

// DefaultConfigPath is the expanded per-user config location.
func DefaultConfigPath() (string, error) { return expandPath(defaultConfigPath) }

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(p string) (string, error) { return expandPath(p) }

func expandPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}

// CreateSample writes the annotated sample configuration to path.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
