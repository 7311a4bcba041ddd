// Package fserrors defines the error taxonomy returned by pkg/fsservice
// operations. Every user-facing failure is represented as a *Error carrying
// a stable Code so that callers (and tests) can branch on failure category
// without parsing message text, while still supporting errors.Is/errors.As
// through Unwrap and github.com/pkg/errors-style causal chains.
package fserrors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code identifies the category of a filesystem service failure.
type Code int

const (
	// CodeNotAllowed indicates that a path falls outside every configured
	// allow-list root.
	CodeNotAllowed Code = iota
	// CodeSymlinkInPath indicates that an existing component of a path is a
	// symlink, whether or not its target lies inside the allow-list roots.
	CodeSymlinkInPath
	// CodeNotFound indicates that a path does not exist.
	CodeNotFound
	// CodeAlreadyExists indicates that a creation operation targeted a path
	// that already exists.
	CodeAlreadyExists
	// CodePermissionDenied indicates that the underlying OS denied access.
	CodePermissionDenied
	// CodeInvalidInput indicates malformed or nonsensical arguments.
	CodeInvalidInput
	// CodeInvalidPattern indicates an invalid glob or regular expression.
	CodeInvalidPattern
	// CodeInvalidAstPattern indicates a structural search pattern that
	// failed to parse for the target language.
	CodeInvalidAstPattern
	// CodeUnsupportedLanguage indicates a language with no registered
	// tree-sitter grammar.
	CodeUnsupportedLanguage
	// CodeNoMatch indicates that an edit's old_text could not be located in
	// the file, either literally or by the indentation-tolerant match.
	CodeNoMatch
	// CodeFileTooLarge indicates that a file exceeded a size ceiling.
	CodeFileTooLarge
	// CodeFileTooSmall indicates that a file fell below a size floor.
	CodeFileTooSmall
	// CodeInvalidMediaFile indicates that a media read encountered content
	// whose sniffed MIME type isn't a supported image or audio type.
	CodeInvalidMediaFile
)

// names maps each Code to its stable, lowercase wire/identifier name.
var names = map[Code]string{
	CodeNotAllowed:          "not_allowed",
	CodeSymlinkInPath:       "symlink_in_path",
	CodeNotFound:            "not_found",
	CodeAlreadyExists:       "already_exists",
	CodePermissionDenied:    "permission_denied",
	CodeInvalidInput:        "invalid_input",
	CodeInvalidPattern:      "invalid_pattern",
	CodeInvalidAstPattern:   "invalid_ast_pattern",
	CodeUnsupportedLanguage: "unsupported_language",
	CodeNoMatch:             "no_match",
	CodeFileTooLarge:        "file_too_large",
	CodeFileTooSmall:        "file_too_small",
	CodeInvalidMediaFile:    "invalid_media_file",
}

// String returns the stable identifier for c.
func (c Code) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return "unknown"
}

// Error is the concrete error type returned by pkg/fsservice. It carries a
// stable Code, a human-readable Message, and an optional wrapped Cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap allows errors.Is/errors.As to see through to the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New constructs an *Error with no wrapped cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs an *Error with a formatted message and no wrapped cause.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error that wraps cause, preserving its chain via
// github.com/pkg/errors so that the original stack trace (if any) survives.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: errors.WithMessage(cause, message)}
}

// Wrapf is like Wrap but with a formatted message.
func Wrapf(code Code, cause error, format string, args ...interface{}) *Error {
	message := fmt.Sprintf(format, args...)
	return &Error{Code: code, Message: message, Cause: errors.WithMessage(cause, message)}
}

// Is reports whether err is an *Error with the given code. It is the
// idiomatic entry point for callers using errors.Is-style checks:
//
//	if fserrors.Is(err, fserrors.CodeNotFound) { ... }
func Is(err error, code Code) bool {
	var fsErr *Error
	if errors.As(err, &fsErr) {
		return fsErr.Code == code
	}
	return false
}

// NotAllowed constructs a CodeNotAllowed error for the given path.
func NotAllowed(path string) *Error {
	return Newf(CodeNotAllowed, "path %q is not within any allowed directory", path)
}

// SymlinkInPath constructs a CodeSymlinkInPath error for the given path.
func SymlinkInPath(path string) *Error {
	return Newf(CodeSymlinkInPath, "path %q has a symlink component", path)
}

// NotFound constructs a CodeNotFound error for the given path.
func NotFound(path string) *Error {
	return Newf(CodeNotFound, "path %q does not exist", path)
}

// AlreadyExists constructs a CodeAlreadyExists error for the given path.
func AlreadyExists(path string) *Error {
	return Newf(CodeAlreadyExists, "path %q already exists", path)
}

// PermissionDenied constructs a CodePermissionDenied error, wrapping the
// underlying OS error if provided.
func PermissionDenied(path string, cause error) *Error {
	return Wrapf(CodePermissionDenied, cause, "permission denied for path %q", path)
}

// InvalidInput constructs a CodeInvalidInput error.
func InvalidInput(message string) *Error {
	return New(CodeInvalidInput, message)
}

// InvalidPattern constructs a CodeInvalidPattern error, wrapping the parse
// error if provided.
func InvalidPattern(pattern string, cause error) *Error {
	return Wrapf(CodeInvalidPattern, cause, "invalid pattern %q", pattern)
}

// InvalidAstPattern constructs a CodeInvalidAstPattern error.
func InvalidAstPattern(pattern, language string, cause error) *Error {
	return Wrapf(CodeInvalidAstPattern, cause, "invalid structural pattern %q for language %q", pattern, language)
}

// UnsupportedLanguage constructs a CodeUnsupportedLanguage error.
func UnsupportedLanguage(language string) *Error {
	return Newf(CodeUnsupportedLanguage, "unsupported language %q", language)
}

// NoMatch constructs a CodeNoMatch error.
func NoMatch(description string) *Error {
	return Newf(CodeNoMatch, "no matches for %s", description)
}

// FileTooLarge constructs a CodeFileTooLarge error.
func FileTooLarge(path string, size, max int64) *Error {
	return Newf(CodeFileTooLarge, "file %q is %d bytes, exceeding the maximum of %d bytes", path, size, max)
}

// FileTooSmall constructs a CodeFileTooSmall error.
func FileTooSmall(path string, size, min int64) *Error {
	return Newf(CodeFileTooSmall, "file %q is %d bytes, below the minimum of %d bytes", path, size, min)
}

// InvalidMediaFile constructs a CodeInvalidMediaFile error.
func InvalidMediaFile(path, mime string) *Error {
	return Newf(CodeInvalidMediaFile, "file %q has unsupported media type %q", path, mime)
}
