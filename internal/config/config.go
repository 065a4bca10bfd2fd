// Package config handles persistence of server settings to a YAML file.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings represents the unified server configuration.
type Settings struct {
	Port         int    `yaml:"port" json:"port"`
	RegistryPath string `yaml:"registry_path" json:"registry_path"`
	LockPath     string `yaml:"lock_path" json:"lock_path"`
}

// DefaultSettings returns the standard configuration, rooted in dir.
func DefaultSettings(dir string) Settings {
	return Settings{
		Port:         3100,
		RegistryPath: filepath.Join(dir, "registry.json"),
		LockPath:     filepath.Join(dir, "toolhub.lock"),
	}
}

// Dir resolves the application directory: TOOLHUB_CONFIG_DIR, or
// <user-config>/toolhub.
func Dir() string {
	if dir := os.Getenv("TOOLHUB_CONFIG_DIR"); dir != "" {
		return dir
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return filepath.Join(configDir, "toolhub")
}

// Store handles loading and saving settings.
type Store struct {
	path string
}

// NewStore creates a settings store at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads settings from the file, filling defaults for unset fields.
// A missing file yields pure defaults.
func (s *Store) Load() (Settings, error) {
	defaults := DefaultSettings(filepath.Dir(s.path))

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults, nil
		}
		return Settings{}, err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, err
	}

	if settings.Port == 0 {
		settings.Port = defaults.Port
	}
	if settings.RegistryPath == "" {
		settings.RegistryPath = defaults.RegistryPath
	}
	if settings.LockPath == "" {
		settings.LockPath = defaults.LockPath
	}
	return settings, nil
}

// Save writes settings to the file.
func (s *Store) Save(settings Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
