// Package settings persists the operator-editable application config.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/reefscout/reefscout/pkg/logger"
)

const (
	DefaultDataDirectory = "data"
	DefaultDataFile      = "scouting-data.json"
)

// AppConfig is the document stored in config.json.
type AppConfig struct {
	APIKey        string `json:"tbaApiKey"`
	EventCode     string `json:"eventCode"`
	DataDirectory string `json:"matchDataDirectory"`
	DataFile      string `json:"matchDataFile"`
}

// Defaults returns the config written when no file exists.
func Defaults() AppConfig {
	return AppConfig{DataDirectory: DefaultDataDirectory, DataFile: DefaultDataFile}
}

// Redacted returns a copy safe to log or return to clients.
func (c AppConfig) Redacted() AppConfig {
	switch n := len(c.APIKey); {
	case n == 0:
	case n <= 4:
		c.APIKey = strings.Repeat("*", n)
	default:
		c.APIKey = strings.Repeat("*", n-4) + c.APIKey[n-4:]
	}
	return c
}

// Partial is a sparse update. Nil fields keep their current value.
type Partial struct {
	APIKey        *string `json:"tbaApiKey,omitempty"`
	EventCode     *string `json:"eventCode,omitempty"`
	DataDirectory *string `json:"matchDataDirectory,omitempty"`
	DataFile      *string `json:"matchDataFile,omitempty"`
}

// IsEmpty reports whether p changes nothing.
func (p Partial) IsEmpty() bool {
	return p.APIKey == nil && p.EventCode == nil && p.DataDirectory == nil && p.DataFile == nil
}

func (p Partial) apply(c AppConfig) AppConfig {
	if p.APIKey != nil {
		c.APIKey = strings.TrimSpace(*p.APIKey)
	}
	if p.EventCode != nil {
		c.EventCode = strings.ToLower(strings.TrimSpace(*p.EventCode))
	}
	if p.DataDirectory != nil {
		c.DataDirectory = strings.TrimSpace(*p.DataDirectory)
	}
	if p.DataFile != nil {
		c.DataFile = strings.TrimSpace(*p.DataFile)
	}
	return c
}

// Store reads and writes AppConfig.
type Store interface {
	Get(ctx context.Context) (AppConfig, error)
	Set(ctx context.Context, p Partial) (AppConfig, error)
}

// FileStore keeps AppConfig in a single JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
	log  logger.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.log = l
		}
	}
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{path: path, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the file location.
func (s *FileStore) Path() string { return s.path }

// Get returns the stored config, creating the file with defaults when
// it does not exist.
func (s *FileStore) Get(ctx context.Context) (AppConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Set merges p over the stored config and persists the result.
func (s *FileStore) Set(ctx context.Context, p Partial) (AppConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.load(ctx)
	if err != nil {
		return AppConfig{}, err
	}
	next := p.apply(cur)
	if err := validate(next); err != nil {
		return AppConfig{}, err
	}
	if err := s.write(next); err != nil {
		return AppConfig{}, err
	}
	s.log.Info(ctx, "app config updated",
		logger.String("event_code", next.EventCode),
		logger.Bool("api_key_set", next.APIKey != ""),
	)
	return next, nil
}

func (s *FileStore) load(ctx context.Context) (AppConfig, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := Defaults()
		if err := s.write(cfg); err != nil {
			return AppConfig{}, err
		}
		s.log.Info(ctx, "created default app config", logger.String("path", s.path))
		return cfg, nil
	}
	if err != nil {
		return AppConfig{}, fmt.Errorf("read app config: %w", err)
	}

	cfg := Defaults()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return cfg, nil
}

func (s *FileStore) write(cfg AppConfig) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode app config: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write app config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace app config: %w", err)
	}
	return nil
}

func validate(c AppConfig) error {
	if c.DataFile != "" && filepath.Base(c.DataFile) != c.DataFile {
		return fmt.Errorf("%w: matchDataFile must be a bare file name", ErrInvalid)
	}
	return nil
}

// MemoryStore keeps AppConfig in memory.
type MemoryStore struct {
	mu  sync.Mutex
	cfg AppConfig
}

// NewMemoryStore returns a store seeded with cfg.
func NewMemoryStore(cfg AppConfig) *MemoryStore { return &MemoryStore{cfg: cfg} }

func (m *MemoryStore) Get(context.Context) (AppConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg, nil
}

func (m *MemoryStore) Set(_ context.Context, p Partial) (AppConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := p.apply(m.cfg)
	if err := validate(next); err != nil {
		return AppConfig{}, err
	}
	m.cfg = next
	return next, nil
}

// APIKey returns a resolver reading the remote API key from s on every
// call, so edits apply without a restart.
func APIKey(s Store) func(ctx context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		cfg, err := s.Get(ctx)
		if err != nil {
			return "", err
		}
		return cfg.APIKey, nil
	}
}
