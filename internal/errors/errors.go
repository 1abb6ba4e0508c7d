package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind is the category of a DriftError.
type Kind string

const (
	KindNotFound   Kind = "NotFound"
	KindFormat     Kind = "Format"
	KindComparison Kind = "Comparison"
	KindIO         Kind = "IO"
	KindAuth       Kind = "Authentication"
	KindNetwork    Kind = "Network"
	KindValidation Kind = "Validation"
)

// DriftError is a user-facing error carrying actionable guidance alongside
// the failure itself.
type DriftError struct {
	Kind      Kind
	Message   string
	Cause     string
	Solutions []string
	Verify    string
	Help      string
	wrapped   error
}

// Error implements the error interface.
func (e *DriftError) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\nError: %s\n", e.Message))

	if e.Cause != "" {
		sb.WriteString(fmt.Sprintf("Cause: %s\n", e.Cause))
	}

	if len(e.Solutions) > 0 {
		sb.WriteString("\nSolutions:\n")
		for _, solution := range e.Solutions {
			sb.WriteString(fmt.Sprintf("  %s\n", solution))
		}
	}

	if e.Verify != "" {
		sb.WriteString(fmt.Sprintf("\nVerify: %s\n", e.Verify))
	}

	if e.Help != "" {
		sb.WriteString(fmt.Sprintf("Help: %s\n", e.Help))
	}

	return sb.String()
}

// Unwrap exposes the underlying error, if any, so stdlib errors.Is and
// errors.As keep working through a DriftError.
func (e *DriftError) Unwrap() error {
	return e.wrapped
}

// New creates a DriftError of the given kind.
func New(kind Kind, message string) *DriftError {
	return &DriftError{Kind: kind, Message: message}
}

// Wrap creates a DriftError around an underlying error.
func Wrap(kind Kind, message string, err error) *DriftError {
	de := &DriftError{Kind: kind, Message: message, wrapped: err}
	if err != nil {
		de.Cause = err.Error()
	}
	return de
}

// WithCause adds cause information.
func (e *DriftError) WithCause(cause string) *DriftError {
	e.Cause = cause
	return e
}

// WithSolutions adds solution steps.
func (e *DriftError) WithSolutions(solutions ...string) *DriftError {
	e.Solutions = append(e.Solutions, solutions...)
	return e
}

// WithVerify adds a verification command.
func (e *DriftError) WithVerify(verify string) *DriftError {
	e.Verify = verify
	return e
}

// WithHelp adds a help reference.
func (e *DriftError) WithHelp(help string) *DriftError {
	e.Help = help
	return e
}

// KindOf returns the kind of err when it is (or wraps) a DriftError, and
// "" otherwise.
func KindOf(err error) Kind {
	var de *DriftError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsNotFound reports whether err is a missing-snapshot or missing-data-view
// failure.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsFormat reports whether err is a malformed-input failure.
func IsFormat(err error) bool {
	return KindOf(err) == KindFormat
}

// SnapshotNotFound builds the standard error for a missing snapshot file.
func SnapshotNotFound(path string) *DriftError {
	return New(KindNotFound, fmt.Sprintf("snapshot file not found: %s", path)).
		WithSolutions(
			"Check the path for typos",
			"Run 'cjadrift list' to see stored snapshots",
			"Create one with 'cjadrift snapshot --dataview <id>'",
		).
		WithHelp("cjadrift snapshot --help")
}

// InvalidSnapshotFormat builds the standard error for an unreadable
// snapshot file.
func InvalidSnapshotFormat(path string, err error) *DriftError {
	return Wrap(KindFormat, fmt.Sprintf("snapshot file is not valid: %s", path), err).
		WithSolutions(
			"Confirm the file was written by cjadrift and not edited by hand",
			"Re-create the snapshot from the live data view",
		)
}

// DataViewNotFound builds the standard error for an unknown data view id.
func DataViewNotFound(dataViewID string) *DriftError {
	return New(KindNotFound, fmt.Sprintf("data view not found: %s", dataViewID)).
		WithSolutions(
			"Check the data view ID for typos",
			"Confirm your credentials grant access to this data view",
		).
		WithVerify("cjadrift list --remote")
}
