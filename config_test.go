package uvc

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevmo314/go-uvc-engine/pkg/transport/transporttest"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Negotiation.Timeout)
	assert.Equal(t, 8, cfg.Stream.QueueDepth)
	assert.Equal(t, 8, cfg.Stream.Transfers)
	assert.Equal(t, 32, cfg.Stream.PacketsPerTransfer)
	assert.False(t, cfg.Descriptors.AllowDanglingSources)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Relay.Listen)
}

func TestLoadConfig_File(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
negotiation:
  timeout: 2s
descriptors:
  allow_dangling_sources: true
log:
  level: debug
  format: json
`))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Negotiation.Timeout)
	assert.True(t, cfg.Descriptors.AllowDanglingSources)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8, cfg.Stream.Transfers)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("UVC_STREAM_QUEUE_DEPTH", "16")
	t.Setenv("UVC_RELAY_LISTEN", "127.0.0.1:9000")
	cfg, err := LoadConfig(writeConfig(t, "stream:\n  queue_depth: 4\n"))
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Stream.QueueDepth)
	assert.Equal(t, "127.0.0.1:9000", cfg.Relay.Listen)
}

func TestLoadConfig_Malformed(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "stream: [\n"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "warn"
	cfg.Log.Format = "json"
	var buf bytes.Buffer
	log, err := newLogger(cfg, &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("dropped")
	log.WithField("iface", 1).Warn("kept")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, float64(1), entry["iface"])

	cfg.Log.Level = "loud"
	_, err = newLogger(cfg, &buf)
	assert.Error(t, err)
	cfg.Log.Level = "info"
	cfg.Log.Format = "xml"
	_, err = newLogger(cfg, &buf)
	assert.Error(t, err)
}

func TestWithConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "negotiation:\n  timeout: 1s\n"))
	require.NoError(t, err)
	d, err := Open(transporttest.New(), testConfiguration(), WithConfig(cfg))
	require.NoError(t, err)
	assert.Equal(t, time.Second, d.timeout)
	assert.Len(t, d.streamOpts, 3)
}
