package logging

import (
	"fmt"
	"os"

	"jobsight/internal/logging/adapters"
	"jobsight/internal/logging/types"
)

// AdapterFactory creates logging adapters based on configuration
type AdapterFactory struct{}

// NewAdapterFactory creates a new adapter factory
func NewAdapterFactory() *AdapterFactory {
	return &AdapterFactory{}
}

// CreateAdapter creates a logging adapter based on the provided configuration
func (f *AdapterFactory) CreateAdapter(adapterConfig types.AdapterConfig) (types.LogAdapter, error) {
	switch adapterConfig.Type {
	case "stdout":
		stdoutConfig := adapters.StdoutConfig{
			Format:    getStringOption(adapterConfig.Options, "format", "json"),
			Colorized: getBoolOption(adapterConfig.Options, "colorized", false),
		}
		// stream: stderr keeps stdout free for command output
		if getStringOption(adapterConfig.Options, "stream", "stdout") == "stderr" {
			return adapters.NewWriterAdapter(adapterConfig.Name, stdoutConfig, os.Stderr), nil
		}
		return adapters.NewStdoutAdapter(adapterConfig.Name, stdoutConfig), nil
	case "file":
		return adapters.NewFileAdapter(adapterConfig.Name, adapters.FileConfig{
			FilePath:    getStringOption(adapterConfig.Options, "file_path", ""),
			Format:      getStringOption(adapterConfig.Options, "format", "json"),
			MaxSize:     int64(getIntOption(adapterConfig.Options, "max_size", 0)),
			MaxBackups:  getIntOption(adapterConfig.Options, "max_backups", 10),
			Compress:    getBoolOption(adapterConfig.Options, "compress", false),
			CreateDirs:  getBoolOption(adapterConfig.Options, "create_dirs", true),
			SyncOnWrite: getBoolOption(adapterConfig.Options, "sync_on_write", false),
		})
	case "ring":
		return adapters.NewRingAdapter(adapterConfig.Name, adapters.RingConfig{
			Capacity: getIntOption(adapterConfig.Options, "capacity", 500),
		}), nil
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", adapterConfig.Type)
	}
}

func getStringOption(options map[string]interface{}, key string, defaultValue string) string {
	if value, exists := options[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

// yaml decodes integers as int, JSON as float64
func getIntOption(options map[string]interface{}, key string, defaultValue int) int {
	if value, exists := options[key]; exists {
		switch v := value.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return defaultValue
}

func getBoolOption(options map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := options[key]; exists {
		if b, ok := value.(bool); ok {
			return b
		}
	}
	return defaultValue
}
