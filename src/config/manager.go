package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// Manager manages configuration loading, validation, and access
type Manager struct {
	config     *Config
	loader     *Loader
	configPath string
	mu         sync.RWMutex
}

// NewManager loads configuration from the standard locations. Project
// config is searched upward from the working directory. A non-empty
// userConfig replaces the user config path.
func NewManager(userConfig string) (*Manager, error) {
	fsys := afero.NewOsFs()
	precedence := GetConfigPaths()
	if userConfig != "" {
		precedence.UserConfig = userConfig
	}

	if wd, err := os.Getwd(); err == nil {
		home, _ := os.UserHomeDir()
		if path, err := FindProjectConfig(fsys, wd, home); err == nil {
			precedence.ProjectConfig = path
			precedence.LocalConfig = filepath.Join(filepath.Dir(path), ".convo.local.json")
		}
	}

	return NewManagerWithLoader(NewLoaderWithFs(precedence, fsys, os.Getenv))
}

// NewManagerWithLoader creates a manager from an explicit loader.
func NewManagerWithLoader(loader *Loader) (*Manager, error) {
	config, path, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return &Manager{
		config:     config,
		loader:     loader,
		configPath: path,
	}, nil
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// GetConfigPath returns the highest precedence file that was loaded, or ""
// when only defaults are in effect.
func (m *Manager) GetConfigPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.configPath
}

// Reload re-reads all configuration sources
func (m *Manager) Reload() error {
	config, path, err := m.loader.Load()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
	m.configPath = path
	return nil
}

// SaveTo writes the current configuration to path
func (m *Manager) SaveTo(path string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loader.SaveFile(m.config, path)
}

// ExportConfig exports the configuration as JSON. Secrets are masked
// unless includeSecrets is set.
func (m *Manager) ExportConfig(includeSecrets bool) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	config := *m.config
	if !includeSecrets {
		config.API.APIKey = maskSecret(config.API.APIKey)
	}

	return json.MarshalIndent(config, "", "  ")
}

func maskSecret(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}
