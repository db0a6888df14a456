package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocalPrecedence(t *testing.T) {
	dir := t.TempDir()
	content := []byte("threads: 4\nlocal_only: true\nmax_file_size: 123456\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".repoaudit.yml"), content, 0o644))

	cfg, err := LoadLocal(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg.Threads)
	assert.Equal(t, 4, *cfg.Threads)
	require.NotNil(t, cfg.LocalOnly)
	assert.True(t, *cfg.LocalOnly)
	require.NotNil(t, cfg.MaxFileSize)
	assert.Equal(t, int64(123456), *cfg.MaxFileSize)
}

func TestLoadLocalMissing(t *testing.T) {
	_, err := LoadLocal(t.TempDir())
	assert.Error(t, err)
}

func TestResolveProfile(t *testing.T) {
	cfg := FileConfig{
		Profiles: map[string]Profile{
			"openai": {
				BaseURL:   "https://api.openai.com/v1",
				Model:     "gpt-4o",
				APIKeyEnv: "REPOAUDIT_TEST_KEY",
			},
		},
	}

	t.Setenv("REPOAUDIT_TEST_KEY", "sk-test")
	p, key, err := cfg.ResolveProfile("openai")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", p.Model)
	assert.Equal(t, "sk-test", key)
}

func TestResolveProfileMissingKey(t *testing.T) {
	cfg := FileConfig{
		Profiles: map[string]Profile{
			"openai": {
				BaseURL:   "https://api.openai.com/v1",
				Model:     "gpt-4o",
				APIKeyEnv: "REPOAUDIT_ABSENT_KEY",
			},
		},
	}
	os.Unsetenv("REPOAUDIT_ABSENT_KEY")
	_, _, err := cfg.ResolveProfile("openai")
	assert.Error(t, err)
}

func TestResolveProfileInvalid(t *testing.T) {
	cfg := FileConfig{
		Profiles: map[string]Profile{
			"bad": {BaseURL: "not a url", Model: "", APIKeyEnv: "X"},
		},
	}
	_, _, err := cfg.ResolveProfile("bad")
	assert.Error(t, err)
}

func TestResolveProfileUnknownName(t *testing.T) {
	var cfg FileConfig
	_, _, err := cfg.ResolveProfile("nope")
	assert.ErrorContains(t, err, "not found")
}
