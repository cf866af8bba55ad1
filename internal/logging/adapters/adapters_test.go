package adapters

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsight/internal/logging/types"
)

func entry(level types.LogLevel, msg string) *types.LogEntry {
	return &types.LogEntry{
		Level:     level,
		Message:   msg,
		Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Fields:    map[string]interface{}{"b": 2, "a": "x"},
	}
}

func TestFormatText(t *testing.T) {
	got := FormatText(entry(types.InfoLevel, "scan done"), "INFO")
	assert.Equal(t, "2024-05-01T12:00:00.000Z [INFO] scan done a=x b=2", got)
}

func TestFormatJSON(t *testing.T) {
	got, err := FormatJSON(entry(types.WarnLevel, "slow"))
	require.NoError(t, err)
	assert.Contains(t, got, `"level":"warn"`)
	assert.Contains(t, got, `"a":"x"`)
}

func TestRingAdapter(t *testing.T) {
	ring := NewRingAdapter("ring", RingConfig{Capacity: 3})

	for i, msg := range []string{"one", "two", "three", "four"} {
		level := types.InfoLevel
		if i%2 == 1 {
			level = types.ErrorLevel
		}
		require.NoError(t, ring.Write(entry(level, msg)))
	}

	var msgs []string
	for _, e := range ring.Entries(types.DebugLevel) {
		msgs = append(msgs, e.Message)
	}
	assert.Equal(t, []string{"two", "three", "four"}, msgs)

	errs := ring.Entries(types.ErrorLevel)
	require.Len(t, errs, 2)
	assert.Equal(t, "two", errs[0].Message)
	assert.Equal(t, "four", errs[1].Message)

	ring.Clear()
	assert.Empty(t, ring.Entries(types.DebugLevel))
}

func TestRingAdapter_DefaultCapacity(t *testing.T) {
	ring := NewRingAdapter("ring", RingConfig{})
	assert.Len(t, ring.entries, 500)
}

func TestFileAdapter_Rotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "jobsight.log")

	a, err := NewFileAdapter("file", FileConfig{
		FilePath:   path,
		Format:     "text",
		MaxSize:    10,
		MaxBackups: 1,
		CreateDirs: true,
	})
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.Write(entry(types.InfoLevel, "first")))
	require.NoError(t, a.Write(entry(types.InfoLevel, "second")))
	require.NoError(t, a.Health())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "second")
	assert.NotContains(t, string(data), "first")

	files, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	backups := 0
	for _, f := range files {
		if strings.HasPrefix(f.Name(), "jobsight.log.") {
			backups++
		}
	}
	assert.Equal(t, 1, backups)
}

func TestFileAdapter_RequiresPath(t *testing.T) {
	_, err := NewFileAdapter("file", FileConfig{})
	assert.Error(t, err)
}
