// Package registry persists the unit name registry: the mapping from
// friendly unit names to network addresses that discovery maintains
// and the apply pipeline consults when resolving units.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appName      = "espcfg"
	registryFile = "units.yaml"
)

// Registry is the persisted unit registry.
type Registry struct {
	Version int              `yaml:"version"`
	Units   map[string]*Unit `yaml:"units,omitempty"` // keyed by unit name
}

// Unit is one known unit.
type Unit struct {
	// Address is the unit's last known IP address or hostname
	Address string `yaml:"address"`

	// Firmware is the build string the unit last reported
	Firmware string `yaml:"firmware,omitempty"`

	// LastSeen is when discovery last saw the unit
	LastSeen time.Time `yaml:"last_seen,omitempty"`
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		Version: 1,
		Units:   make(map[string]*Unit),
	}
}

// Dir returns the OS-appropriate configuration directory:
// $XDG_CONFIG_HOME/espcfg or $HOME/.config/espcfg on Unix-likes,
// %LOCALAPPDATA%\espcfg on Windows.
func Dir() (string, error) {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			return "", fmt.Errorf("cannot determine config directory (LOCALAPPDATA not set)")
		}
		return filepath.Join(localAppData, appName), nil
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the full registry file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, registryFile), nil
}

// Load reads the registry from its default location. A missing file is
// not an error: it yields a fresh empty registry.
func Load() (*Registry, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the registry from an explicit path.
func LoadFrom(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	var r Registry
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse registry: %w", err)
	}
	if r.Version != 1 {
		return nil, fmt.Errorf("unsupported registry version: %d (expected 1)", r.Version)
	}
	if r.Units == nil {
		r.Units = make(map[string]*Unit)
	}
	return &r, nil
}

// Save writes the registry to its default location atomically.
func (r *Registry) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return r.SaveTo(path)
}

// SaveTo writes the registry to an explicit path with a
// write-to-temp-then-rename so a crash never leaves a torn file.
func (r *Registry) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	header := []byte("# espcfg unit registry\n# Maintained by 'espcfg discover'; edit with care.\n\n")
	data = append(header, data...)

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write temporary registry file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to save registry: %w", err)
	}
	return nil
}

// Resolve maps a unit name to its registered address. Unknown names
// resolve to themselves, so raw addresses pass through unchanged.
func (r *Registry) Resolve(name string) string {
	if unit, ok := r.Units[name]; ok && unit.Address != "" {
		return unit.Address
	}
	return name
}

// Record adds or refreshes a unit entry.
func (r *Registry) Record(name, address, firmware string) {
	if r.Units == nil {
		r.Units = make(map[string]*Unit)
	}
	unit, ok := r.Units[name]
	if !ok {
		unit = &Unit{}
		r.Units[name] = unit
	}
	unit.Address = address
	if firmware != "" {
		unit.Firmware = firmware
	}
	unit.LastSeen = time.Now()
}

// Names returns the registered unit names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Units))
	for name := range r.Units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
