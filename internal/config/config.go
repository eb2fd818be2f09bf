package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rogersnm/todo/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultSlot names the persistent slot used when nothing else selects one.
	DefaultSlot = "todos"

	fileName = "config.yaml"
	appName  = "todo"
)

type Config struct {
	Slot          string       `yaml:"slot,omitempty"`
	DefaultFilter model.Filter `yaml:"default_filter,omitempty"`
	ConfirmClear  *bool        `yaml:"confirm_clear,omitempty"`
}

// SlotName returns the configured slot or DefaultSlot.
func (c *Config) SlotName() string {
	if c.Slot == "" {
		return DefaultSlot
	}
	return c.Slot
}

// ShouldConfirmClear defaults to true when unset.
func (c *Config) ShouldConfirmClear() bool {
	return c.ConfirmClear == nil || *c.ConfirmClear
}

func (c *Config) Validate() error {
	if _, err := model.ParseFilter(string(c.DefaultFilter)); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	if c.Slot != "" {
		if err := ValidateSlotName(c.Slot); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSlotName rejects names that cannot be used as a file name.
func ValidateSlotName(name string) error {
	if name == "" {
		return fmt.Errorf("slot name is required")
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("invalid slot name %q: must not contain path separators", name)
	}
	return nil
}

func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func Save(dataDir string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dataDir, fileName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultDataDir resolves $TODO_DATA_DIR, then $XDG_DATA_HOME/todo, then
// ~/.todo.
func DefaultDataDir() string {
	if d := os.Getenv("TODO_DATA_DIR"); d != "" {
		return d
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+appName)
	}
	return filepath.Join(home, "."+appName)
}
