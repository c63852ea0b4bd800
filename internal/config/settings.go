package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Settings is the view of the persisted runtime classifier settings
type Settings struct {
	Endpoint   string
	Credential string
	MockMode   bool
}

// SettingsStore persists the runtime-adjustable classifier settings
// (scoring-service endpoint, credential, mock-mode flag). The backing file
// is loaded synchronously at construction, so a store handle is always
// ready; there is no window where a classification can observe unloaded
// settings.
type SettingsStore struct {
	v    *viper.Viper
	path string
	mu   sync.RWMutex
}

// NewSettingsStore loads (or initializes) the settings file at path.
// Missing files are not an error; defaults apply until the first write.
func NewSettingsStore(path string, defaults ClassifierConfig) (*SettingsStore, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("endpoint", defaults.Endpoint)
	v.SetDefault("credential", defaults.Credential)
	v.SetDefault("mock_mode", defaults.MockMode)

	// No settings persisted yet means defaults apply
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	return &SettingsStore{v: v, path: path}, nil
}

// Get returns the current settings snapshot
func (s *SettingsStore) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Settings{
		Endpoint:   s.v.GetString("endpoint"),
		Credential: s.v.GetString("credential"),
		MockMode:   s.v.GetBool("mock_mode"),
	}
}

// Configure sets the scoring-service endpoint and credential, switches off
// mock mode, and persists the result
func (s *SettingsStore) Configure(endpoint, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set("endpoint", endpoint)
	s.v.Set("credential", credential)
	s.v.Set("mock_mode", endpoint == "")
	return s.persist()
}

// EnableMock forces heuristic-only classification and persists the flag
func (s *SettingsStore) EnableMock() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.v.Set("mock_mode", true)
	return s.persist()
}

// DisableMock re-enables delegated classification and persists the flag.
// It fails when no endpoint has been configured.
func (s *SettingsStore) DisableMock() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.v.GetString("endpoint") == "" {
		return fmt.Errorf("cannot disable mock mode: no scoring endpoint configured")
	}
	s.v.Set("mock_mode", false)
	return s.persist()
}

// persist writes the settings file. Caller must hold the write lock.
func (s *SettingsStore) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to persist settings: %w", err)
	}
	return nil
}
