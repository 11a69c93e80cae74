package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/despensa/despensa/internal/catalog"
	"github.com/despensa/despensa/internal/orders"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Domain rule rejected the operation (insufficient stock, bad state)
	ExitCommandError = 2 // Command error (bad arguments, missing entities, storage failures)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// domainExitError classifies a service error into an ExitError. Rule
// rejections keep running systems honest with exit 1; everything else
// (unknown ids, bad input, storage trouble) is a command error.
func domainExitError(message string, err error) *ExitError {
	switch {
	case catalog.IsInsufficientStock(err), orders.IsInvalidState(err), errors.Is(err, orders.ErrEmptyOrder):
		return WrapExitError(ExitFailure, message, err)
	default:
		return WrapExitError(ExitCommandError, message, err)
	}
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	Verbose bool

	printer *message.Printer
}

// NewOutputFormatter builds a formatter writing to w.
func NewOutputFormatter(format string, w io.Writer, verbose bool) *OutputFormatter {
	return &OutputFormatter{
		Format:  format,
		Writer:  w,
		Verbose: verbose,
		printer: message.NewPrinter(language.Spanish),
	}
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`         // "ok" or "error"
	Data   interface{} `json:"data,omitempty"` // success payload
	Error  *CLIError   `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// JSON reports whether the formatter emits JSON.
func (f *OutputFormatter) JSON() bool { return f.Format == "json" }

// Success outputs a successful result. In JSON mode data is wrapped in
// the standard response envelope; in text mode the caller renders lines
// itself and data is ignored when nil.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	if data != nil {
		fmt.Fprintln(f.Writer, data)
	}
	return nil
}

// Textf writes a formatted text line through the locale-aware printer,
// so quantities pick up digit grouping. No-op in JSON mode.
func (f *OutputFormatter) Textf(format string, args ...interface{}) {
	if f.JSON() {
		return
	}
	f.printer.Fprintf(f.Writer, format+"\n", args...)
}
