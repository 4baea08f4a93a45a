package log

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"picsort/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("info message")
	assert.Contains(t, buf.String(), "INFO")
	assert.Contains(t, buf.String(), "info message")
	buf.Reset()

	l.Warn("warn message")
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "warn message")
	buf.Reset()

	l.Error("error message")
	assert.Contains(t, buf.String(), "ERROR")
	assert.Contains(t, buf.String(), "error message")
	buf.Reset()

	l.Infof("formatted %s", "message")
	assert.Contains(t, buf.String(), "formatted message")
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	SetDebug(false)
	l.Debug("debug message")
	assert.Empty(t, buf.String())

	SetDebug(true)
	defer SetDebug(false)
	l.Debug("debug message")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "debug message")
	buf.Reset()

	l.Debugf("formatted %s", "debug")
	assert.Contains(t, buf.String(), "formatted debug")
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.With(F("label", "12"), F("count", 3)).Info("image filed")
	output := buf.String()
	assert.Contains(t, output, "image filed")
	assert.Contains(t, output, "label=12")
	assert.Contains(t, output, "count=3")
	buf.Reset()

	l.With(F("session", "abc")).With(F("mode", "copy")).Info("chained fields")
	output = buf.String()
	assert.Contains(t, output, "session=abc")
	assert.Contains(t, output, "mode=copy")
	buf.Reset()

	// The parent is not modified by With
	l.Info("plain")
	assert.NotContains(t, buf.String(), "session=abc")
}

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithJSON())

	l.Info("json message")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logEntry))
	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, "json message", logEntry["message"])
	assert.Contains(t, logEntry, "timestamp")
	assert.Contains(t, logEntry, "caller")
	buf.Reset()

	l.With(F("key1", "value1"), F("key2", 123)).Info("structured json")
	logEntry = map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logEntry))
	assert.Equal(t, "value1", logEntry["key1"])
	assert.Equal(t, float64(123), logEntry["key2"])
}

func TestErrorLogging(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := logger
	Configure(WithOutput(&buf))
	defer func() { logger = originalLogger }()

	LogWithFields(F("error", fmt.Errorf("standard error").Error())).Error("error occurred")
	assert.Contains(t, buf.String(), "standard error")
	buf.Reset()

	LogWithError(errors.New("application error")).Error("app error occurred")
	output := buf.String()
	assert.Contains(t, output, "application error")
	assert.Contains(t, output, "error_kind=0")
	buf.Reset()

	fileErr := errors.NewFileError("file error", "/path/to/file", errors.FileNotFound, nil)
	LogWithError(fileErr).Error("file error occurred")
	output = buf.String()
	assert.Contains(t, output, "file error: /path/to/file")
	assert.Contains(t, output, "path=/path/to/file")
	assert.Contains(t, output, fmt.Sprintf("error_kind=%d", int(errors.FileNotFound)))
	buf.Reset()

	labelErr := errors.NewLabelError("invalid label", "../x", errors.InvalidLabel, nil)
	LogWithError(labelErr).Error("label rejected")
	output = buf.String()
	assert.Contains(t, output, "label=../x")
	assert.Contains(t, output, fmt.Sprintf("error_kind=%d", int(errors.InvalidLabel)))
	buf.Reset()

	LogWithError(errors.Wrap(errors.ErrEmptyLabelInput, "commit")).Warn("nothing to file under")
	assert.Contains(t, buf.String(), fmt.Sprintf("error_kind=%d", int(errors.EmptyLabelInput)))
	buf.Reset()

	LogError(fileErr, "convenient error log")
	assert.Contains(t, buf.String(), "convenient error log")
}

func TestCallerInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("caller test")
	assert.Contains(t, buf.String(), "caller=logger_test.go:")
}

func TestFileOutput(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "picsort.log")

	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	originalLogger := logger
	Configure(WithFile(logPath))
	defer func() {
		os.Stdout = originalStdout
		logger.Close()
		logger = originalLogger
	}()

	Info("file test message")
	w.Close()

	var stdoutBuf bytes.Buffer
	_, err = io.Copy(&stdoutBuf, r)
	require.NoError(t, err)
	assert.Contains(t, stdoutBuf.String(), "file test message")

	fileContent, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(fileContent), "file test message")
}

func TestNestedErrors(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := logger
	Configure(WithOutput(&buf))
	defer func() { logger = originalLogger }()

	baseErr := fmt.Errorf("base error")
	fileErr := errors.NewFileError("file error", "/path/file", errors.FileNotFound, baseErr)
	configErr := errors.NewConfigError("config error", "setting", errors.InvalidConfig, fileErr)

	LogWithError(configErr).Error("nested error occurred")
	output := buf.String()
	assert.Contains(t, output, "config error: setting: file error: /path/file: base error")
	assert.Contains(t, output, fmt.Sprintf("error_kind=%d", int(errors.InvalidConfig)))
	assert.Contains(t, output, "param=setting")
}

func TestConfigure(t *testing.T) {
	originalLogger := logger
	defer func() { logger = originalLogger }()

	var buf bytes.Buffer
	Configure(WithOutput(&buf), WithJSON())
	Info("global config test")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logEntry))
	assert.Equal(t, "global config test", logEntry["message"])
}

func TestNilErrorHandling(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := logger
	Configure(WithOutput(&buf))
	defer func() { logger = originalLogger }()

	LogWithError(nil).Error("nil error test")
	assert.Contains(t, buf.String(), "nil error test")
	assert.Contains(t, buf.String(), "error=<nil>")
}
