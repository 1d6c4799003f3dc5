package proof

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/aegraph/internal/graph"
	tt "github.com/gnoswap-labs/aegraph/internal/types"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	c := DefaultConfig()
	assert.Equal(t, "aegraph", c.Name)
	assert.Len(t, c.Rules, len(graph.Rules))
	assert.Empty(t, c.Cache.Dir)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, c Config)
		wantErr bool
	}{
		{
			name: "rules and cache",
			content: `name: mine
rules:
  erasure:
    severity: off
  deiteration:
    severity: warning
cache:
  dir: .cache
  max_age: 1h
`,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "mine", c.Name)
				assert.Equal(t, tt.SeverityOff, c.Rules["erasure"].Severity)
				assert.Equal(t, tt.SeverityWarning, c.Rules["deiteration"].Severity)
				age, err := c.maxAge()
				require.NoError(t, err)
				assert.Equal(t, time.Hour, age)
			},
		},
		{
			name:    "empty file",
			content: "",
			check: func(t *testing.T, c Config) {
				assert.Empty(t, c.Rules)
			},
		},
		{name: "bad severity", content: "rules:\n  erasure:\n    severity: loud\n", wantErr: true},
		{name: "bad max age", content: "cache:\n  dir: x\n  max_age: soon\n", wantErr: true},
	}

	for i, tc := range tests {
		tc := tc
		path := filepath.Join(dir, tc.name+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644), i)
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c, err := LoadConfig(path)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, c)
		})
	}

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestWriteConfigAndNew(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)

	c := DefaultConfig()
	c.Rules["erasure"] = tt.ConfigRule{Severity: tt.SeverityOff}
	require.NoError(t, WriteConfig(path, c))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, c.Rules, loaded.Rules)

	engine, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"deiteration", "double-cut"}, engine.EnabledRules())

	require.NoError(t, os.WriteFile(path, []byte("rules:\n  iteration:\n    severity: error\n"), 0o644))
	_, err = New(path)
	assert.ErrorIs(t, err, graph.ErrUnknownRule)
}

func TestOpenCache(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	cache, err := DefaultConfig().OpenCache()
	require.NoError(t, err)
	assert.Nil(t, cache)

	c := DefaultConfig()
	c.Cache = CacheConfig{Dir: filepath.Join(dir, "cache"), MaxAge: "10m"}
	cache, err = c.OpenCache()
	require.NoError(t, err)
	require.NotNil(t, cache)
	assert.DirExists(t, c.Cache.Dir)
}
