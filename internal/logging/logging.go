// Package logging wraps the standard library's log.Logger with
// level-tagged helpers. The teacher logs exclusively through log.Printf /
// log.Println; this keeps that idiom rather than introducing a
// structured-logging dependency the teacher itself never reaches for.
package logging

import (
	"log"
	"os"
)

// Logger is a thin, level-tagged wrapper over *log.Logger.
type Logger struct {
	out *log.Logger
}

// Default returns a Logger writing to stderr with the standard log flags.
func Default() *Logger {
	return &Logger{out: log.New(os.Stderr, "", log.LstdFlags)}
}

func (l *Logger) Info(format string, args ...any) {
	l.out.Printf("INFO: "+format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.out.Printf("WARN: "+format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.out.Printf("ERROR: "+format, args...)
}
