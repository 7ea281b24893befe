package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/icebreaker-labs/icebreaker-cli/internal/core/domain"
)

// ConfigStore persists pipeline settings as TOML. Settings are stored in
// a file within the icebreaker config directory; API keys never touch the
// file and come from the environment instead.
type ConfigStore struct {
	mu       sync.RWMutex
	filePath string
	settings domain.Settings
}

// NewConfigStore creates a new TOML-based config store.
// If configDir is empty, defaults to ~/.icebreaker/config.toml.
func NewConfigStore(configDir string) (*ConfigStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".icebreaker")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	s := &ConfigStore{
		filePath: filepath.Join(configDir, "config.toml"),
		settings: domain.DefaultSettings(),
	}

	if err := s.Load(); err != nil {
		return nil, err
	}

	return s, nil
}

// Settings returns a copy of the current settings.
func (s *ConfigStore) Settings() domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Update replaces the settings and persists them immediately.
func (s *ConfigStore) Update(settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	return s.save()
}

// Load reads settings from the TOML file. Missing file means defaults;
// present keys override defaults, absent keys keep them.
func (s *ConfigStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.settings = domain.DefaultSettings()
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	settings := domain.DefaultSettings()
	if err := toml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", s.filePath, err)
	}

	s.settings = settings
	return nil
}

// Save persists the current settings to disk.
func (s *ConfigStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

// save writes settings to the TOML file (caller must hold lock).
func (s *ConfigStore) save() error {
	data, err := toml.Marshal(s.settings)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	// Restricted permissions even though keys are never written here.
	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Path returns the configuration file path.
func (s *ConfigStore) Path() string {
	return s.filePath
}
