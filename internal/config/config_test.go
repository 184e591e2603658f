package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/tanki/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		DeckDir:  "/tmp/decks",
		DeckExt:  ".deck",
		LogLevel: "WARN",
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyDeckDir(t *testing.T) {
	cfg := validConfig()
	cfg.DeckDir = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TANKI_DECK_DIR cannot be empty")
}

func TestValidate_DeckExt(t *testing.T) {
	tests := []struct {
		name string
		ext  string
	}{
		{name: "empty", ext: ""},
		{name: "missing dot", ext: "deck"},
		{name: "path separator", ext: ".de/ck"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.DeckExt = tt.ext

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "TANKI_DECK_EXT")
		})
	}
}

func TestValidate_LogLevel(t *testing.T) {
	tests := []struct {
		level string
		ok    bool
	}{
		{"DEBUG", true},
		{"INFO", true},
		{"WARN", true},
		{"ERROR", true},
		{"debug", true},
		{"INVALID", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "LOG_LEVEL")
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{LogLevel: "LOUD"}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "TANKI_DECK_DIR cannot be empty")
	assert.Contains(t, errStr, "TANKI_DECK_EXT cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TANKI_DECK_DIR", dir)
	t.Setenv("TANKI_DECK_EXT", ".cards")
	t.Setenv("TANKI_JOURNAL_PATH", filepath.Join(dir, "journal.db"))
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_COLORS", "true")

	cfg := config.Load()

	assert.Equal(t, dir, cfg.DeckDir)
	assert.Equal(t, ".cards", cfg.DeckExt)
	assert.Equal(t, filepath.Join(dir, "journal.db"), cfg.JournalPath)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.True(t, cfg.LogColors)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TANKI_DECK_DIR", "")
	t.Setenv("TANKI_DECK_EXT", "")
	t.Setenv("TANKI_JOURNAL_PATH", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_COLORS", "not-a-bool")

	cfg := config.Load()

	assert.Equal(t, ".deck", cfg.DeckExt)
	assert.Equal(t, "WARN", cfg.LogLevel)
	assert.Empty(t, cfg.JournalPath)
	assert.False(t, cfg.LogColors)
	assert.Equal(t, ".tanki_decks", filepath.Base(cfg.DeckDir))
}
