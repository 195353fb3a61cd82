package settings

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestFileStore_GetCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	s := NewFileStore(path)

	cfg, err := s.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk map[string]string
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, "data", onDisk["matchDataDirectory"])
	assert.Equal(t, "scouting-data.json", onDisk["matchDataFile"])
	assert.Contains(t, onDisk, "tbaApiKey")
}

func TestFileStore_SetMerges(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "config.json")
	s := NewFileStore(path)

	cfg, err := s.Set(ctx, Partial{APIKey: ptr(" secret-key "), EventCode: ptr("2025CASJ")})
	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.APIKey)
	assert.Equal(t, "2025casj", cfg.EventCode)
	assert.Equal(t, DefaultDataFile, cfg.DataFile)

	cfg, err = s.Set(ctx, Partial{DataFile: ptr("other.json")})
	require.NoError(t, err)
	assert.Equal(t, "secret-key", cfg.APIKey, "unset fields keep their value")
	assert.Equal(t, "other.json", cfg.DataFile)

	reloaded, err := NewFileStore(path).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestFileStore_Errors(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Get(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)

	_, err = NewMemoryStore(Defaults()).Set(ctx, Partial{DataFile: ptr("../escape.json")})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestRedacted(t *testing.T) {
	assert.Equal(t, "", AppConfig{}.Redacted().APIKey)
	assert.Equal(t, "***", AppConfig{APIKey: "abc"}.Redacted().APIKey)
	assert.Equal(t, "******7890", AppConfig{APIKey: "abcdef7890"}.Redacted().APIKey)
}

func TestPartialIsEmpty(t *testing.T) {
	assert.True(t, Partial{}.IsEmpty())
	assert.False(t, Partial{EventCode: ptr("")}.IsEmpty())
}

func TestAPIKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(Defaults())
	resolve := APIKey(s)

	key, err := resolve(ctx)
	require.NoError(t, err)
	assert.Empty(t, key)

	_, err = s.Set(ctx, Partial{APIKey: ptr("abc123")})
	require.NoError(t, err)
	key, err = resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", key)
}
