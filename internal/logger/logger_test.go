package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "habitlog.log")

	log, err := New(Config{Level: "info", Format: "json", OutputPath: path}, "habitlog")
	require.NoError(t, err)

	log.Info("habit logged")
	log.Debug("filtered out")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"habit logged"`)
	assert.Contains(t, string(data), `"service":"habitlog"`)
	assert.NotContains(t, string(data), "filtered out")
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{Level: "loud"}, "habitlog")
	assert.Error(t, err)

	_, err = New(Config{Level: "info", Format: "xml"}, "habitlog")
	assert.Error(t, err)
}
