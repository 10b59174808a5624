package framework

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfigDefaults(t *testing.T) {
	c := Config{}.withDefaults()
	assert.Equal(t, DefaultSeparator, c.Separator)
	assert.Equal(t, DefaultBreathInterval, c.BreathInterval)
	assert.NotNil(t, c.Logger)
	assert.False(t, c.AutoStart)

	d := DefaultConfig()
	assert.Equal(t, c.Separator, d.Separator)
	assert.Equal(t, c.BreathInterval, d.BreathInterval)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
separator: " / "
breath_interval: 50ms
auto_start: true
run:
  - "^callbacks"
skip:
  - "slow"
debug: true
json_report: out.json
`)
	fc, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"^callbacks"}, fc.Run)
	assert.Equal(t, []string{"slow"}, fc.Skip)
	assert.True(t, fc.Debug)
	assert.False(t, fc.DebugAll)
	assert.Equal(t, "out.json", fc.JSONReport)

	c := fc.SuiteConfig()
	assert.Equal(t, " / ", c.Separator)
	assert.Equal(t, time.Millisecond*50, c.BreathInterval)
	assert.True(t, c.AutoStart)

	filters, err := fc.Filters()
	require.NoError(t, err)
	assert.True(t, filters.MustMatch.AnyMatch("callbacks are counted"))
	assert.True(t, filters.MustNotMatch.AnyMatch("a slow test"))
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	_, err := LoadConfig(writeConfigFile(t, "run: [unclosed"))
	assert.Error(t, err)
}

func TestConfigFiltersRejectBadPattern(t *testing.T) {
	_, err := FileConfig{Skip: []string{"("}}.Filters()
	assert.Error(t, err)
}
