package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_Defaults(t *testing.T) {
	cfg := &Config{ServiceName: "marketroast"}

	p := NewProvider(cfg)

	assert.NotNil(t, p)
	assert.Equal(t, os.Stderr, cfg.LogOutput)
	assert.NotNil(t, p.Gatherer())
}

func TestDefaultProvider_Logger(t *testing.T) {
	var buf bytes.Buffer
	p := NewProvider(&Config{
		ServiceName:      "marketroast",
		Environment:      "test",
		LogLevel:         "info",
		LogOutput:        &buf,
		AdditionalFields: Fields{"version": "0.01"},
	})

	l1 := p.Logger("fetcher")
	l2 := p.Logger("fetcher")
	assert.Same(t, l1, l2, "should return the same logger for a component")

	l1.Info(context.Background(), "hello", nil)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "marketroast.fetcher", entry["service"])
	assert.Equal(t, "fetcher", entry["component"])
	assert.Equal(t, "0.01", entry["version"])
}

func TestDefaultProvider_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewProvider(&Config{ServiceName: "marketroast", Registry: reg, LogOutput: &bytes.Buffer{}})

	m1 := p.Metrics("fetcher")
	m2 := p.Metrics("fetcher")
	assert.Same(t, m1, m2, "should return the same metrics for a component")

	p.Metrics("archiver").RecordSuccess("archive")
	m1.RecordSuccess("get_report")

	count, err := testutil.GatherAndCount(p.Gatherer(), "marketroast_processed_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestDefaultProvider_Close(t *testing.T) {
	t.Run("does not close stderr", func(t *testing.T) {
		p := NewProvider(&Config{ServiceName: "marketroast"})
		assert.NoError(t, p.Close())
	})

	t.Run("closes file output", func(t *testing.T) {
		f, err := os.Create(filepath.Join(t.TempDir(), "log.json"))
		require.NoError(t, err)

		p := NewProvider(&Config{ServiceName: "marketroast", LogOutput: f})
		require.NoError(t, p.Close())

		_, err = f.Write([]byte("x"))
		assert.Error(t, err, "file should be closed")
	})
}
