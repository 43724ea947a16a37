// Package logger provides leveled logging utilities for the application
package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// --------------------------------------------------------------------------
// Log Levels
// --------------------------------------------------------------------------

type LogLevel int

const (
	CRITICAL LogLevel = iota
	ERROR
	WARNING
	INFO
	DEBUG
)

// ParseLogLevel converts a string level to a LogLevel
func ParseLogLevel(level string) (LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG, nil
	case "info":
		return INFO, nil
	case "warning", "warn":
		return WARNING, nil
	case "error":
		return ERROR, nil
	default:
		return INFO, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger Interface
// --------------------------------------------------------------------------

// ILogger is the interface implemented by all package loggers
type ILogger interface {
	SetLevel(level LogLevel)
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Panicf(format string, args ...interface{})
}

// --------------------------------------------------------------------------
// Custom Logger
// --------------------------------------------------------------------------

// kvLogger implements the ILogger interface with custom formatting
type kvLogger struct {
	name   string
	level  LogLevel
	logger *log.Logger
}

func (l *kvLogger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *kvLogger) Debugf(format string, args ...interface{}) {
	if l.level >= DEBUG {
		l.log("DEBUG", format, args...)
	}
}

func (l *kvLogger) Infof(format string, args ...interface{}) {
	if l.level >= INFO {
		l.log("INFO", format, args...)
	}
}

func (l *kvLogger) Warningf(format string, args ...interface{}) {
	if l.level >= WARNING {
		l.log("WARN", format, args...)
	}
}

func (l *kvLogger) Errorf(format string, args ...interface{}) {
	if l.level >= ERROR {
		l.log("ERROR", format, args...)
	}
}

func (l *kvLogger) Panicf(format string, args ...interface{}) {
	if l.level >= CRITICAL {
		panic(fmt.Sprintf(format, args...))
	}
}

// log formats and writes a log message. this internal helper is used by the public methods
func (l *kvLogger) log(levelStr string, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	l.logger.Printf("%-5s | %-15s | %s", levelStr, l.name, message)
}

// --------------------------------------------------------------------------
// Logger Registry
// --------------------------------------------------------------------------

var (
	registry   = map[string]*kvLogger{}
	registryMu sync.Mutex
)

// GetLogger returns the logger for the given package name,
// creating it with level INFO on first use.
func GetLogger(pkgName string) ILogger {
	registryMu.Lock()
	defer registryMu.Unlock()

	if l, ok := registry[pkgName]; ok {
		return l
	}

	l := &kvLogger{
		name:   pkgName,
		level:  INFO,
		logger: log.New(os.Stdout, "", log.Ldate|log.Ltime),
	}
	registry[pkgName] = l

	return l
}

// SetGlobalLevel sets the level of all registered loggers
// and the default level for loggers created afterwards is unaffected.
func SetGlobalLevel(level LogLevel) {
	registryMu.Lock()
	defer registryMu.Unlock()

	for _, l := range registry {
		l.level = level
	}
}
