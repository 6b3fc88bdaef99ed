// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kballard/go-shellquote"
)

// Metadata keys shared across packages
const (
	MetaCommand     = "command"
	MetaExitCode    = "exit_code"
	MetaStderr      = "stderr"
	MetaRemediation = "remediation"
	MetaConflicts   = "conflicts"
	MetaRequired    = "required"
	MetaStep        = "step"
	MetaCompleted   = "completed_steps"
	MetaSiblings    = "siblings"
)

// New creates a WarrenError for the given code. Unknown codes are reported
// as internal failures rather than panicking.
func New(code ErrorCode, details string) *WarrenError {
	def, ok := errorDefinitions[code]
	if !ok {
		def = definition{
			message:    "Unknown error",
			domain:     DomainLifecycle,
			kind:       KindInternal,
			httpStatus: http.StatusInternalServerError,
		}
	}
	return &WarrenError{
		Code:       code,
		Domain:     def.domain,
		Kind:       def.kind,
		Message:    def.message,
		Details:    details,
		HTTPStatus: def.httpStatus,
		Metadata:   make(map[string]string),
	}
}

// Wrap re-labels err with code. Metadata of a wrapped WarrenError is carried
// forward so stderr and argv survive the trip up the stack.
func Wrap(err error, code ErrorCode) *WarrenError {
	if err == nil {
		return nil
	}
	we := New(code, err.Error())
	we.cause = err

	var inner *WarrenError
	if stderrors.As(err, &inner) {
		we.Details = inner.Details
		for k, v := range inner.Metadata {
			we.Metadata[k] = v
		}
	}
	return we
}

// NewToolError describes a command that exited nonzero. stderr is kept
// verbatim.
func NewToolError(argv []string, exitCode int, stderr string) *WarrenError {
	return New(CommandExecution, stderr).
		WithMetadata(MetaCommand, shellquote.Join(argv...)).
		WithMetadata(MetaExitCode, strconv.Itoa(exitCode)).
		WithMetadata(MetaStderr, stderr)
}

func (e *WarrenError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s-%d] %s: %s", e.Domain, e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s-%d] %s", e.Domain, e.Code, e.Message)
}

func (e *WarrenError) Unwrap() error {
	return e.cause
}

// WithMetadata adds a key/value pair and returns the same error for chaining.
func (e *WarrenError) WithMetadata(key, value string) *WarrenError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]string)
	}
	e.Metadata[key] = value
	return e
}

// As reports whether err is or wraps a WarrenError.
func As(err error) (*WarrenError, bool) {
	var we *WarrenError
	if stderrors.As(err, &we) {
		return we, true
	}
	return nil, false
}

// Is reports whether err carries code anywhere in its chain.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		var we *WarrenError
		if !stderrors.As(err, &we) {
			return false
		}
		if we.Code == code {
			return true
		}
		err = we.cause
	}
	return false
}

// KindOf returns the kind of the outermost WarrenError, or KindInternal for
// anything else.
func KindOf(err error) Kind {
	if we, ok := As(err); ok {
		return we.Kind
	}
	return KindInternal
}

// IsKind reports whether err classifies as k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// GetHTTPStatus maps err to a response status.
func GetHTTPStatus(err error) int {
	if we, ok := As(err); ok && we.HTTPStatus != 0 {
		return we.HTTPStatus
	}
	return http.StatusInternalServerError
}
