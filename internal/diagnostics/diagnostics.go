// Package diagnostics defines the error codes and diagnostic values the
// bridge checker reports. Fatal kinds fail compilation of the enclosing
// statement; notes and hints are informational side channels for tooling.
package diagnostics

import (
	"fmt"

	"github.com/mavelang/optbridge/internal/token"
)

// ErrorCode identifies a diagnostic kind. Codes are stable: tooling keys
// suppressions and inspections on them.
type ErrorCode string

const (
	// ErrB001: slot and expression types do not align even after
	// considering the optional-to-nullable bridge.
	ErrB001 ErrorCode = "B001"
	// ErrB002: two or more overloads are directly viable and tie. The
	// bridge is never consulted to break this tie.
	ErrB002 ErrorCode = "B002"
	// ErrB003: two or more overloads become viable only through the bridge
	// and tie.
	ErrB003 ErrorCode = "B003"
	// ErrB004: no overload matches, directly or through the bridge.
	ErrB004 ErrorCode = "B004"
	// NoteB005: the bridge was considered at an eligible site and rejected.
	// The site fails independently with its own type error.
	NoteB005 ErrorCode = "B005"
	// HintB006: a manual extraction call at a position where the implicit
	// bridge would have applied to its receiver.
	HintB006 ErrorCode = "B006"
)

// Severity orders diagnostics from advisory to fatal.
type Severity int

const (
	SeverityHint Severity = iota
	SeverityNote
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityHint:
		return "hint"
	case SeverityNote:
		return "note"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// DiagnosticError is one reported diagnostic, positioned at the original
// site. It implements error so analysis results can flow through ordinary
// error plumbing.
type DiagnosticError struct {
	Code     ErrorCode
	Severity Severity
	Token    token.Token
	File     string
	Message  string
	// Types lists the involved type renderings (source first, then slot or
	// candidate signatures) for structured consumers.
	Types []string
}

func (e *DiagnosticError) Error() string {
	pos := e.Token
	if pos.File == "" {
		pos.File = e.File
	}
	return fmt.Sprintf("%s: %s [%s] %s", pos.Pos(), e.Severity, e.Code, e.Message)
}

// IsFatal reports whether this diagnostic fails compilation.
func (e *DiagnosticError) IsFatal() bool {
	return e.Severity == SeverityError
}

// NewError creates a fatal diagnostic at the given token.
func NewError(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Severity: SeverityError, Token: tok, Message: message}
}

// NewNote creates an informational diagnostic at the given token.
func NewNote(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Severity: SeverityNote, Token: tok, Message: message}
}

// NewHint creates an advisory diagnostic at the given token.
func NewHint(code ErrorCode, tok token.Token, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Severity: SeverityHint, Token: tok, Message: message}
}

// WithTypes attaches the involved type renderings and returns e.
func (e *DiagnosticError) WithTypes(types ...string) *DiagnosticError {
	e.Types = types
	return e
}
