package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	assert := assert.New(t)
	assert.Equal(8080, c.Server.Port)
	assert.Equal("sqlite", c.Store.Driver)
	assert.Equal("chordstave-scores", c.Store.Table)
	assert.Equal("info", c.Log.Level)
	assert.Equal(10*time.Second, c.ShutdownTimeout())
	assert.Equal(15*time.Second, c.AnalysisTimeout())
	assert.Equal("0.0.0.0:8080", c.Addr())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	conf := `[server]
port = 9000

[store]
driver = "dynamodb"

[render]
colour_voices = true
`
	require.NoError(t, os.WriteFile(path, []byte(conf), 0644))

	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("CHORDSTAVE_ANALYSIS_URL=http://analysis.test/api\n"), 0644))
	t.Setenv("CHORDSTAVE_LOG_LEVEL", "debug")
	t.Setenv("DYNAMODB_ENDPOINT", "http://dynamo.test:8000")
	// godotenv.Load sets variables without registering cleanup
	t.Cleanup(func() { os.Unsetenv("CHORDSTAVE_ANALYSIS_URL") })

	c, err := Load(path, envFile)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(9000, c.Server.Port)
	assert.Equal("dynamodb", c.Store.Driver)
	// untouched sections keep their defaults
	assert.Equal("chordstave-scores", c.Store.Table)
	assert.True(c.Render.ColourVoices)
	assert.Equal("http://analysis.test/api", c.Analysis.URL)
	assert.Equal("debug", c.Log.Level)
	assert.Equal("http://dynamo.test:8000", c.StoreOptions().Endpoint)
}

func TestEnvPortOverride(t *testing.T) {
	t.Setenv("CHORDSTAVE_PORT", "7070")
	t.Setenv("CHORDSTAVE_DB_PATH", ":memory:")
	c, err := Load("", filepath.Join(t.TempDir(), "none.env"))
	assert.Error(t, err)
	assert.Nil(t, c)

	envFile := filepath.Join(t.TempDir(), "empty.env")
	require.NoError(t, os.WriteFile(envFile, nil, 0644))
	c, err = Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, 7070, c.Server.Port)
	assert.Equal(t, ":memory:", c.StoreOptions().Path)

	t.Setenv("CHORDSTAVE_PORT", "eighty")
	_, err = Load("", envFile)
	assert.Error(t, err)
}

func TestLoadRejectsBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server\nport ="), 0644))
	_, err := Load(path, "")
	assert.Error(t, err)
}

func TestWriteExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteExample(path))
	assert.Error(t, WriteExample(path))

	c, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, Default().Store, c.Store)
}
