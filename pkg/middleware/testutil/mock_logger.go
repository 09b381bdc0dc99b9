// Package testutil holds helpers shared by middleware tests.
package testutil

import (
	"context"
	"sync"

	"github.com/mistertoy/mistertoy-server/pkg/observability/logger"
)

// MockLogger captures log entries for assertion in tests. Safe for
// concurrent use.
type MockLogger struct {
	mu   sync.Mutex
	logs []LogEntry
}

// LogEntry is a single captured log call.
type LogEntry struct {
	Level  string
	Msg    string
	Fields map[string]interface{}
}

// Entries returns a copy of the captured entries.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]LogEntry{}, m.logs...)
}

func (m *MockLogger) record(level, msg string, args []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, LogEntry{Level: level, Msg: msg, Fields: argsToMap(args)})
}

func (m *MockLogger) Debug(msg string, args ...any) { m.record("debug", msg, args) }
func (m *MockLogger) Info(msg string, args ...any)  { m.record("info", msg, args) }
func (m *MockLogger) Warn(msg string, args ...any)  { m.record("warn", msg, args) }
func (m *MockLogger) Error(msg string, args ...any) { m.record("error", msg, args) }

func (m *MockLogger) With(...any) logger.Logger                 { return m }
func (m *MockLogger) WithContext(context.Context) logger.Logger { return m }

func argsToMap(args []any) map[string]interface{} {
	fields := make(map[string]interface{})
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	return fields
}
