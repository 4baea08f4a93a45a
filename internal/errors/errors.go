// Package errors provides standardized error handling for picsort.
// It defines the error kinds a sorting session can report, typed errors that
// carry the offending path, label or config parameter, and helpers for
// consistent creation, wrapping and inspection across the application.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	FileCreateFailed
	FileOperationFailed
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Session error kinds
	NoDirectorySelected
	EmptyImageSet
	EmptyLabelInput
	DestinationNotSelected
	MetadataUnavailable
	InvalidState
	// Label error kinds
	InvalidLabel
)

var kindNames = map[ErrorKind]string{
	Unknown:                "Unknown",
	FileNotFound:           "FileNotFound",
	FileAccessDenied:       "FileAccessDenied",
	InvalidPath:            "InvalidPath",
	FileCreateFailed:       "FileCreateFailed",
	FileOperationFailed:    "FileOperationFailed",
	InvalidConfig:          "InvalidConfig",
	ConfigNotFound:         "ConfigNotFound",
	NoDirectorySelected:    "NoDirectorySelected",
	EmptyImageSet:          "EmptyImageSet",
	EmptyLabelInput:        "EmptyLabelInput",
	DestinationNotSelected: "DestinationNotSelected",
	MetadataUnavailable:    "MetadataUnavailable",
	InvalidState:           "InvalidState",
	InvalidLabel:           "InvalidLabel",
}

// String returns the name of the kind
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Sentinels for the session taxonomy. Compare with Is or KindOf.
var (
	ErrNoDirectorySelected    = NewSessionError("no folder selected", NoDirectorySelected, nil)
	ErrEmptyImageSet          = NewSessionError("no images found in the selected directory", EmptyImageSet, nil)
	ErrEmptyLabelInput        = NewSessionError("label cannot be empty", EmptyLabelInput, nil)
	ErrDestinationNotSelected = NewSessionError("no destination directory selected", DestinationNotSelected, nil)
	ErrMetadataUnavailable    = NewSessionError("image has no metadata", MetadataUnavailable, nil)
	ErrFileNotFound           = NewFileError("file not found", "", FileNotFound, nil)
	ErrInvalidConfig          = NewConfigError("invalid configuration", "", InvalidConfig, nil)
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// Is matches any application error of the same kind, so a wrapped
// SessionError still satisfies Is(err, ErrEmptyLabelInput).
func (e *ApplicationError) Is(target error) bool {
	k, ok := target.(interface{ Kind() ErrorKind })
	if !ok || e.kind == Unknown {
		return false
	}
	return k.Kind() == e.kind
}

// FileError represents errors related to file operations
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// SessionError is reported by session transitions. Every kind is recoverable:
// the caller shows the message and keeps the previous state.
type SessionError struct {
	ApplicationError
}

// NewSessionError creates a new session error
func NewSessionError(msg string, kind ErrorKind, err error) *SessionError {
	return &SessionError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
	}
}

// LabelError represents errors tied to a single user-entered label
type LabelError struct {
	ApplicationError
	label string
}

// NewLabelError creates a new label error
func NewLabelError(msg string, label string, kind ErrorKind, err error) *LabelError {
	return &LabelError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		label: label,
	}
}

// Error returns the label error message
func (e *LabelError) Error() string {
	if e.label != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.label, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.label)
	}
	return e.ApplicationError.Error()
}

// Label returns the label associated with the error
func (e *LabelError) Label() string {
	return e.label
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first application error in err's chain
// that carries a kind other than Unknown.
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(interface{ Kind() ErrorKind }); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsKind reports whether err's chain contains an application error of kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileAccessDenied
	}
	return false
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsSessionError checks if the error came from a session transition
func IsSessionError(err error) bool {
	var sessErr *SessionError
	return errors.As(err, &sessErr)
}
