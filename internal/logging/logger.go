package logging

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"jobsight/internal/logging/types"
)

// sink is shared by a root MultiLogger and every logger derived from it
type sink struct {
	mu       sync.RWMutex
	adapters map[string]types.LogAdapter
	level    atomic.Int32
}

// MultiLogger fans each entry out to all registered adapters
type MultiLogger struct {
	sink    *sink
	context context.Context
	fields  map[string]interface{}
	exit    func(int)
}

// NewMultiLogger creates a new MultiLogger instance at info level
func NewMultiLogger() *MultiLogger {
	s := &sink{adapters: make(map[string]types.LogAdapter)}
	s.level.Store(int32(InfoLevel))
	return &MultiLogger{
		sink:    s,
		context: context.Background(),
		fields:  make(map[string]interface{}),
		exit:    os.Exit,
	}
}

func (l *MultiLogger) Debug(message string, fields ...map[string]interface{}) {
	l.Log(DebugLevel, message, fields...)
}

func (l *MultiLogger) Info(message string, fields ...map[string]interface{}) {
	l.Log(InfoLevel, message, fields...)
}

func (l *MultiLogger) Warn(message string, fields ...map[string]interface{}) {
	l.Log(WarnLevel, message, fields...)
}

func (l *MultiLogger) Error(message string, fields ...map[string]interface{}) {
	l.Log(ErrorLevel, message, fields...)
}

// Fatal logs, closes every adapter and exits the process
func (l *MultiLogger) Fatal(message string, fields ...map[string]interface{}) {
	l.Log(FatalLevel, message, fields...)
	_ = l.Close()
	l.exit(1)
}

// Log writes a message at the given level to every adapter
func (l *MultiLogger) Log(level LogLevel, message string, fields ...map[string]interface{}) {
	if level < l.GetLevel() {
		return
	}

	entry := &types.LogEntry{
		Level:     level,
		Message:   message,
		Timestamp: time.Now(),
		Context:   l.context,
		Fields:    l.mergeFields(fields...),
	}

	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()

	for name, adapter := range l.sink.adapters {
		if err := adapter.Write(entry); err != nil {
			// stderr, never back into the logger
			fmt.Fprintf(os.Stderr, "logging adapter %s error: %v\n", name, err)
		}
	}
}

func (l *MultiLogger) derive(ctx context.Context, fields map[string]interface{}) *MultiLogger {
	return &MultiLogger{
		sink:    l.sink,
		context: ctx,
		fields:  fields,
		exit:    l.exit,
	}
}

func (l *MultiLogger) WithContext(ctx context.Context) Logger {
	return l.derive(ctx, l.copyFields())
}

func (l *MultiLogger) WithField(key string, value interface{}) Logger {
	fields := l.copyFields()
	fields[key] = value
	return l.derive(l.context, fields)
}

func (l *MultiLogger) WithFields(fields map[string]interface{}) Logger {
	merged := l.copyFields()
	for k, v := range fields {
		merged[k] = v
	}
	return l.derive(l.context, merged)
}

// WithError attaches err under the "error" field; a nil error is ignored
func (l *MultiLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

// SetLevel sets the minimum level for this logger and everything derived from it
func (l *MultiLogger) SetLevel(level LogLevel) {
	l.sink.level.Store(int32(level))
}

func (l *MultiLogger) GetLevel() LogLevel {
	return LogLevel(l.sink.level.Load())
}

// AddAdapter registers an adapter; names must be unique
func (l *MultiLogger) AddAdapter(adapter types.LogAdapter) error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	name := adapter.Name()
	if _, exists := l.sink.adapters[name]; exists {
		return fmt.Errorf("adapter %s already exists", name)
	}
	l.sink.adapters[name] = adapter
	return nil
}

// RemoveAdapter closes and unregisters an adapter
func (l *MultiLogger) RemoveAdapter(adapterName string) error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	adapter, exists := l.sink.adapters[adapterName]
	if !exists {
		return fmt.Errorf("adapter %s not found", adapterName)
	}
	if err := adapter.Close(); err != nil {
		return fmt.Errorf("failed to close adapter %s: %w", adapterName, err)
	}
	delete(l.sink.adapters, adapterName)
	return nil
}

// Adapter returns a registered adapter by name
func (l *MultiLogger) Adapter(name string) (types.LogAdapter, bool) {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()
	a, ok := l.sink.adapters[name]
	return a, ok
}

// AdapterNames lists registered adapters in name order
func (l *MultiLogger) AdapterNames() []string {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()
	names := make([]string, 0, len(l.sink.adapters))
	for name := range l.sink.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close closes all adapters
func (l *MultiLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	var errs []string
	for name, adapter := range l.sink.adapters {
		if err := adapter.Close(); err != nil {
			errs = append(errs, fmt.Sprintf("adapter %s: %v", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to close adapters: %s", strings.Join(errs, ", "))
	}
	return nil
}

func (l *MultiLogger) copyFields() map[string]interface{} {
	fields := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return fields
}

func (l *MultiLogger) mergeFields(additional ...map[string]interface{}) map[string]interface{} {
	fields := l.copyFields()
	for _, m := range additional {
		for k, v := range m {
			fields[k] = v
		}
	}
	return fields
}
