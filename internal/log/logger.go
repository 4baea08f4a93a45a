// Package log is picsort's structured logger. It wraps logrus with a small
// option-based constructor, field helpers and error-aware enrichment so that
// application errors are logged with their kind, path, label or parameter.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"picsort/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug = false
	logger  = NewLogger()
)

// Field is a single structured key/value pair.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger writes leveled, structured log lines.
type Logger struct {
	base   *logrus.Logger
	fields logrus.Fields
	file   *os.File
}

// Option configures a Logger.
type Option func(*Logger)

// WithOutput sends log lines to w.
func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.base.SetOutput(w)
	}
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(l *Logger) {
		l.base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyLevel: "level",
			},
		})
	}
}

// WithFile tees output to stdout and the given file (appended).
func WithFile(path string) Option {
	return func(l *Logger) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "log: cannot create log directory: %v\n", err)
			return
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log: cannot open log file: %v\n", err)
			return
		}
		l.file = f
		l.base.SetOutput(io.MultiWriter(os.Stdout, f))
	}
}

// NewLogger creates a logger writing text to stdout unless options say otherwise.
func NewLogger(opts ...Option) *Logger {
	base := logrus.New()
	base.SetOutput(os.Stdout)
	base.SetLevel(logrus.TraceLevel)
	base.SetFormatter(&lineFormatter{})

	l := &Logger{base: base, fields: logrus.Fields{}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Configure replaces the global logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// SetDebug toggles debug output for every logger.
func SetDebug(debug bool) {
	isDebug = debug
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	child := &Logger{base: l.base, file: l.file, fields: make(logrus.Fields, len(l.fields)+len(fields))}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	for _, f := range fields {
		child.fields[f.Key] = f.Value
	}
	return child
}

// WithContext is reserved for request-scoped fields; it currently returns l.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return l
}

// WithError attaches err and, for application errors, its kind and subject.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l.With(F("error", "<nil>"))
	}

	fields := []Field{F("error", err.Error())}

	var fileErr *errors.FileError
	var configErr *errors.ConfigError
	var labelErr *errors.LabelError
	var sessErr *errors.SessionError
	var appErr *errors.ApplicationError
	switch {
	case errors.As(err, &configErr):
		fields = append(fields, F("error_kind", int(configErr.Kind())), F("param", configErr.Param()))
	case errors.As(err, &labelErr):
		fields = append(fields, F("error_kind", int(labelErr.Kind())), F("label", labelErr.Label()))
	case errors.As(err, &fileErr):
		fields = append(fields, F("error_kind", int(fileErr.Kind())), F("path", fileErr.Path()))
	case errors.As(err, &sessErr):
		fields = append(fields, F("error_kind", int(sessErr.Kind())))
	case errors.As(err, &appErr):
		fields = append(fields, F("error_kind", int(appErr.Kind())))
	}
	return l.With(fields...)
}

func (l *Logger) entry() *logrus.Entry {
	e := l.base.WithFields(l.fields)
	if file, line, ok := callerOutsideLogger(); ok {
		e = e.WithField("caller", fmt.Sprintf("%s:%d", filepath.Base(file), line))
	}
	return e
}

// Info logs at info level.
func (l *Logger) Info(msg string) { l.entry().Info(msg) }

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...interface{}) { l.entry().Infof(format, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string) { l.entry().Warn(msg) }

// Warnf logs a formatted message at warn level.
func (l *Logger) Warnf(format string, args ...interface{}) { l.entry().Warnf(format, args...) }

// Error logs at error level.
func (l *Logger) Error(msg string) { l.entry().Error(msg) }

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry().Errorf(format, args...) }

// Debug logs at debug level when debug output is enabled.
func (l *Logger) Debug(msg string) {
	if isDebug {
		l.entry().Debug(msg)
	}
}

// Debugf logs a formatted debug message when debug output is enabled.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug {
		l.entry().Debugf(format, args...)
	}
}

// Info logs a formatted message on the global logger.
func Info(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a formatted debug message on the global logger.
func Debug(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Debugf is an alias of Debug.
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Warn logs a formatted warning on the global logger.
func Warn(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// Warnf is an alias of Warn.
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// Error logs a formatted error on the global logger.
func Error(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// Errorf is an alias of Error.
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

// LogWithFields returns the global logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the global logger enriched with err.
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// LogError logs err with a message on the global logger.
func LogError(err error, msg string) {
	logger.WithError(err).Error(msg)
}

// lineFormatter renders "[time] LEVEL: message key=value ..." with keys sorted.
type lineFormatter struct{}

func (lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", e.Time.Format("2006-01-02 15:04:05"), strings.ToUpper(e.Level.String()), e.Message)

	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// callerOutsideLogger walks the stack to the first frame that is neither this
// file nor logrus.
func callerOutsideLogger() (string, int, bool) {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.HasSuffix(frame.File, "internal/log/logger.go") && !strings.Contains(frame.File, "sirupsen/logrus") {
			return frame.File, frame.Line, true
		}
		if !more {
			return "", 0, false
		}
	}
}
