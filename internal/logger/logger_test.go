package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithComponent(t *testing.T) {
	log := New()
	entry := log.WithComponent("feed")
	assert.Equal(t, "feed", entry.Data["component"])

	entry = entry.WithField("row", 3)
	assert.Equal(t, "feed", entry.Data["component"])
	assert.Equal(t, 3, entry.Data["row"])
}

func TestConfigure(t *testing.T) {
	log := New()

	require.NoError(t, log.Configure(Options{Level: "DEBUG", Format: "json"}))
	assert.Equal(t, "debug", log.GetLevel().String())

	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.WithComponent("journal").Info("opened")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "opened", rec["message"])
	assert.Equal(t, "journal", rec["component"])
}

func TestConfigureRejectsBadInput(t *testing.T) {
	log := New()
	assert.Error(t, log.Configure(Options{Level: "loud"}))
	assert.Error(t, log.Configure(Options{Format: "xml"}))
	assert.Equal(t, "info", log.GetLevel().String())
}

func TestConfigureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ohlcv.log")
	log := New()
	require.NoError(t, log.Configure(Options{File: path}))
	log.WithComponent("cli").Warn("written to file")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
