package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8, cfg.LLM.MaxWorkers)
	assert.Equal(t, "chapter_*.md", cfg.Pattern)
	assert.Equal(t, 4, cfg.Bullets.MaxDepth)

	cfg.Bullets.MaxDepth = 0
	assert.NoError(t, cfg.Validate(), "0 disables the depth limit")
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	yml := `
output_dir: fixed
bullets:
  max_depth: 3
llm:
  provider: anthropic
  max_workers: 3
rules:
  timeout: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	t.Setenv("CHAPTERFIX_MAX_WORKERS", "5")
	t.Setenv("ANTHROPIC_API_KEY", "secret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "fixed", cfg.OutputDir)
	assert.Equal(t, 3, cfg.Bullets.MaxDepth)
	assert.Equal(t, 2, cfg.Bullets.SpacesPerLevel, "defaults survive partial files")
	assert.Equal(t, 5, cfg.LLM.MaxWorkers, "environment wins over file")
	assert.Equal(t, 2*time.Second, cfg.Rules.Timeout)
	assert.Equal(t, "secret", cfg.APIKey())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err, "explicit path must exist")
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bullets: [1, 2"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bullets.MaxDepth = 9
	cfg.LLM.Provider = "bard"
	cfg.Render.Engine = "latex"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_depth")
	assert.Contains(t, err.Error(), "bard")
	assert.Contains(t, err.Error(), "latex")
}
