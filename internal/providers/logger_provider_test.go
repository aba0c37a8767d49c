package providers

import (
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogTypeByRequestType_POST(t *testing.T) {
	assert.Equal(t, TypePost, GetLogTypeByRequestType("POST"))
}

func TestGetLogTypeByRequestType_Other(t *testing.T) {
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("GET"))
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("PUT"))
}

func TestNewLogProvider_CreatesLogFiles(t *testing.T) {
	dir := t.TempDir()
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   dir,
		},
	}

	logger, err := NewLogProvider(conf)
	require.NoError(t, err)

	logger.Infof(TypeApp, "app message")
	logger.Infof(TypeInjector, "injected %d", 3)
	logger.Warnf(TypePost, "post message")
	logger.Debugf(TypeChain, "filtered out")
	logger.Close()

	for _, name := range []string{"app.log", "injector.log", "chain.log", "http.log"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, "injector.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "injected 3")
	assert.Contains(t, string(data), `"type":"injector"`)

	data, err = os.ReadFile(filepath.Join(dir, "chain.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "filtered out")
}

func TestNewLogProvider_InvalidDir(t *testing.T) {
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/nonexistent/directory/path",
		},
	}

	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	conf := &structures.Config{
		Logger: structures.LoggerConfig{Level: "loud", Mode: 0644, Dir: t.TempDir()},
	}
	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}
