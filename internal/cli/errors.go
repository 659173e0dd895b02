// errors.go - Error handling shared by all easyq commands.
//
// Handlers always return errors; main decides how to show them and which
// exit code to use.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/easyq/easyq-tui/internal/api"
	"github.com/easyq/easyq-tui/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
	// ExitConfigError indicates a configuration file or settings error
	ExitConfigError = 3
	// ExitNetworkError indicates the backend could not be reached
	ExitNetworkError = 5
	// ExitNotFoundError indicates the menu does not exist
	ExitNotFoundError = 7
	// ExitTimeoutError indicates an operation timed out
	ExitTimeoutError = 8
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// CommandError is a command failure with context.
type CommandError struct {
	Command string // e.g. "cart"
	Action  string // e.g. "add"
	Reason  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s failed: %s: %v", e.Command, e.Action, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Command, e.Action, e.Reason)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// UsageError is a bad invocation.
type UsageError struct {
	Field   string
	Value   string
	Reason  string
	Example string
}

func (e *UsageError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// ErrMissingArgument reports a required argument that was not given.
func ErrMissingArgument(name, example string) error {
	return &UsageError{Field: name, Reason: "required argument missing", Example: example}
}

// ErrInvalidValue reports an argument that could not be parsed.
func ErrInvalidValue(name, value, example string) error {
	return &UsageError{Field: name, Value: value, Reason: "invalid value", Example: example}
}

// =============================================================================
// ERROR DISPLAY
// =============================================================================

// DisplayError writes err to w as styled text, or as JSON in JSON mode.
func DisplayError(w io.Writer, err error, jsonMode bool) {
	if err == nil {
		return
	}
	if jsonMode {
		displayErrorJSON(w, err)
		return
	}
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())
}

func displayErrorJSON(w io.Writer, err error) {
	out := map[string]interface{}{
		"success":    false,
		"error":      err.Error(),
		"error_type": errorType(err),
		"exit_code":  GetExitCode(err),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}

func errorType(err error) string {
	var (
		usage     *UsageError
		valid     *api.ValidationError
		upload    *api.UploadError
		transport *api.TransportError
		stream    *api.StreamError
	)
	switch {
	case errors.As(err, &usage):
		return "usage_error"
	case errors.As(err, &valid):
		return "validation_error"
	case api.IsNotFound(err):
		return "not_found"
	case errors.As(err, &upload):
		return "upload_error"
	case errors.As(err, &stream):
		return "stream_error"
	case errors.As(err, &transport):
		return "transport_error"
	}
	return "generic_error"
}

// GetExitCode maps an error to a process exit code.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var (
		usage   *UsageError
		valid   *api.ValidationError
		cfgErrs config.ValidateErrors
		cfgErr  config.ValidationError
		stream  *api.StreamError
	)
	switch {
	case errors.As(err, &usage), errors.As(err, &valid):
		return ExitUsageError
	case errors.As(err, &cfgErrs), errors.As(err, &cfgErr):
		return ExitConfigError
	case api.IsNotFound(err):
		return ExitNotFoundError
	case errors.Is(err, context.DeadlineExceeded):
		return ExitTimeoutError
	case api.IsTransport(err), errors.As(err, &stream):
		return ExitNetworkError
	}
	return ExitGeneralError
}
