package marionette

import (
	"fmt"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LogFunc receives a fully formatted log line.
type LogFunc func(message string)

// LogLevel filters framework log output. Messages below the configured level
// are dropped.
type LogLevel uint8

const (
	LogLevelVerbose LogLevel = iota // everything, including per-frame chatter
	LogLevelDebug                   // debug diagnostics
	LogLevelInfo                    // lifecycle milestones
	LogLevelWarning                 // sequencing errors and soft failures
	LogLevelError                   // failures the caller should know about
	LogLevelOff                     // logging disabled
)

var logLevelNames = [...]string{"verbose", "debug", "info", "warning", "error", "off"}

// String returns the lower-case level name.
func (l LogLevel) String() string {
	if int(l) < len(logLevelNames) {
		return logLevelNames[l]
	}
	return fmt.Sprintf("LogLevel(%d)", l)
}

// ParseLogLevel maps a level name (case-insensitive) to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "warn" {
		name = "warning"
	}
	for i, n := range logLevelNames {
		if n == name {
			return LogLevel(i), nil
		}
	}
	return LogLevelOff, fmt.Errorf("unknown log level %q", s)
}

// UnmarshalYAML lets config files spell levels by name.
func (l *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	lvl, err := ParseLogLevel(s)
	if err != nil {
		return err
	}
	*l = lvl
	return nil
}

// MarshalYAML writes the level by name.
func (l LogLevel) MarshalYAML() (any, error) {
	return l.String(), nil
}

var stderrLogger = log.New(os.Stderr, "[marionette] ", log.LstdFlags)

// DefaultLogFunction writes to stderr through the standard logger.
func DefaultLogFunction(message string) {
	stderrLogger.Print(message)
}

var levelTags = [...]string{"V", "D", "I", "W", "E", ""}

// formatLog prefixes a message with its level tag.
func formatLog(level LogLevel, format string, args ...any) string {
	tag := "?"
	if int(level) < len(levelTags) {
		tag = levelTags[level]
	}
	return "[" + tag + "] " + fmt.Sprintf(format, args...)
}
