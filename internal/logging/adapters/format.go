package adapters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"jobsight/internal/logging/types"
)

const textTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatJSON renders an entry as a single JSON object with fields inlined
func FormatJSON(entry *types.LogEntry) (string, error) {
	logData := map[string]interface{}{
		"level":   entry.Level.String(),
		"message": entry.Message,
		"time":    entry.Timestamp.Format(time.RFC3339),
	}
	for k, v := range entry.Fields {
		logData[k] = v
	}

	data, err := json.Marshal(logData)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatText renders an entry as "time [LEVEL] message k=v ..." with sorted keys
func FormatText(entry *types.LogEntry, level string) string {
	out := fmt.Sprintf("%s [%s] %s", entry.Timestamp.Format(textTimeLayout), level, entry.Message)
	if len(entry.Fields) == 0 {
		return out
	}

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
	}
	return out + " " + strings.Join(parts, " ")
}

func format(entry *types.LogEntry, formatName string, level string) (string, error) {
	if strings.EqualFold(formatName, "text") {
		return FormatText(entry, level), nil
	}
	return FormatJSON(entry)
}
