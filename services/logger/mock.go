package logsvc

import (
	"sync"

	"github.com/trezcool/classdesk/core"
)

// Entry is one call recorded by LoggerMock.
type Entry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// LoggerMock keeps log calls in memory instead of printing them.
type LoggerMock struct {
	mu      sync.Mutex
	entries []Entry
}

var _ core.Logger = (*LoggerMock)(nil)

func NewLoggerMock() *LoggerMock {
	return &LoggerMock{}
}

func (l *LoggerMock) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Args: args})
}

// Entries returns the recorded calls, oldest first.
func (l *LoggerMock) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

func (l *LoggerMock) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l *LoggerMock) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l *LoggerMock) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l *LoggerMock) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l *LoggerMock) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg, args) }
