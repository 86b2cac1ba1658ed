package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"store_path":     "from-json.db",
		"session_ttl":    "48h",
		"kdf_iterations": 25000,
	})

	t.Run("loads from flag-named file", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "from-json.db", cfg.StorePath)
		assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
		assert.Equal(t, 25000, cfg.KDFIterations)
	})

	t.Run("no config flag leaves values untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{StorePath: "defaults.db", SessionTTL: 42 * time.Hour, KDFIterations: 7}
		parseJson(cfg)

		assert.Equal(t, "defaults.db", cfg.StorePath)
		assert.Equal(t, 42*time.Hour, cfg.SessionTTL)
		assert.Equal(t, 7, cfg.KDFIterations)
	})

	t.Run("absent fields do not zero values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"store_path": "only-path.db",
		})
		os.Args = []string{"testbin", "-config", partial}

		cfg := &Config{StorePath: "defaults.db", SessionTTL: 42 * time.Hour, KDFIterations: 7}
		parseJson(cfg)

		assert.Equal(t, "only-path.db", cfg.StorePath)
		assert.Equal(t, 42*time.Hour, cfg.SessionTTL)
		assert.Equal(t, 7, cfg.KDFIterations)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
