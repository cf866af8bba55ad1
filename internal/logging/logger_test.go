package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsight/internal/config"
	"jobsight/internal/logging/adapters"
)

func newBufferLogger(t *testing.T) (*MultiLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := NewMultiLogger()
	require.NoError(t, l.AddAdapter(adapters.NewWriterAdapter("buf", adapters.StdoutConfig{Format: "json"}, &buf)))
	return l, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		m := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestMultiLogger_LevelFilter(t *testing.T) {
	l, buf := newBufferLogger(t)
	l.SetLevel(WarnLevel)

	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept")
	l.Error("kept too")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "warn", lines[0]["level"])
	assert.Equal(t, "error", lines[1]["level"])
}

func TestMultiLogger_Fields(t *testing.T) {
	l, buf := newBufferLogger(t)

	child := l.WithField("component", "extractor").WithFields(map[string]interface{}{"host": "indeed.com"})
	child.WithError(errors.New("boom")).Info("scan", map[string]interface{}{"is_job_page": true})
	l.Info("parent")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "extractor", lines[0]["component"])
	assert.Equal(t, "indeed.com", lines[0]["host"])
	assert.Equal(t, "boom", lines[0]["error"])
	assert.Equal(t, true, lines[0]["is_job_page"])
	assert.NotContains(t, lines[1], "component")
}

func TestMultiLogger_DerivedShareLevel(t *testing.T) {
	l, buf := newBufferLogger(t)
	child := l.WithField("k", "v")
	l.SetLevel(ErrorLevel)

	child.Info("dropped")
	assert.Empty(t, buf.String())
	assert.Equal(t, ErrorLevel, child.GetLevel())
}

func TestMultiLogger_Fatal(t *testing.T) {
	l, buf := newBufferLogger(t)
	code := -1
	l.exit = func(c int) { code = c }

	l.Fatal("bye")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), `"bye"`)
}

func TestMultiLogger_Adapters(t *testing.T) {
	l := NewMultiLogger()
	ring := adapters.NewRingAdapter("ring", adapters.RingConfig{Capacity: 4})
	require.NoError(t, l.AddAdapter(ring))
	assert.Error(t, l.AddAdapter(ring))

	got, ok := l.Adapter("ring")
	assert.True(t, ok)
	assert.Same(t, ring, got)
	assert.Equal(t, []string{"ring"}, l.AdapterNames())

	require.NoError(t, l.RemoveAdapter("ring"))
	assert.Error(t, l.RemoveAdapter("ring"))
}

func TestManager_Initialize(t *testing.T) {
	t.Run("default adapters expose the ring", func(t *testing.T) {
		m := NewManager()
		require.NoError(t, m.Initialize(config.Default()))
		require.NotNil(t, m.Ring())

		m.GetLogger().Info("hello")
		entries := m.Ring().Entries(DebugLevel)
		require.Len(t, entries, 1)
		assert.Equal(t, "hello", entries[0].Message)
	})

	t.Run("no enabled adapters falls back to stdout", func(t *testing.T) {
		cfg := config.Default()
		cfg.Logging.Adapters = nil
		m := NewManager()
		require.NoError(t, m.Initialize(cfg))
		assert.Nil(t, m.Ring())
		assert.Equal(t, []string{"stdout"}, m.logger.AdapterNames())
	})

	t.Run("unknown adapter type", func(t *testing.T) {
		cfg := config.Default()
		cfg.Logging.Adapters = []config.LoggingAdapter{{Name: "x", Type: "betterstack", Enabled: true}}
		assert.Error(t, NewManager().Initialize(cfg))
	})
}
