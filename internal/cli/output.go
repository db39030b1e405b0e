package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"scopedocs/internal/docerr"
	"scopedocs/internal/model"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failed (storage or validation error)
	ExitCommandError = 2 // Command error (bad flags, store cannot be opened)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
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
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// response is the JSON envelope printed with --format json.
type response struct {
	Status string    `json:"status"`
	Data   any       `json:"data,omitempty"`
	Error  *cliError `json:"error,omitempty"`
}

type cliError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// printer writes command results in the selected format.
type printer struct {
	format string
	w      io.Writer
}

func newPrinter(opts *RootOptions, w io.Writer) *printer {
	return &printer{format: opts.Format, w: w}
}

func (p *printer) json(v response) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// documents prints a listing. In text mode it is a table.
func (p *printer) documents(docs []model.DocumentSummary) error {
	if docs == nil {
		docs = []model.DocumentSummary{}
	}
	if p.format == "json" {
		return p.json(response{Status: "ok", Data: docs})
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSIZE\tTYPE")
	for _, d := range docs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", d.ID, d.Name, d.ByteSize, d.MimeType)
	}
	return tw.Flush()
}

// message prints a one-line confirmation.
func (p *printer) message(msg string) error {
	if p.format == "json" {
		return p.json(response{Status: "ok", Data: map[string]string{"message": msg}})
	}
	_, err := fmt.Fprintln(p.w, msg)
	return err
}

// fail reports a store error and converts it into an ExitFailure. In JSON mode
// the error is also printed as an envelope on w.
func (p *printer) fail(err error) error {
	if p.format == "json" {
		_ = p.json(response{Status: "error", Error: &cliError{Code: docerr.Code(err), Message: docerr.Message(err)}})
	}
	return WrapExitError(ExitFailure, "operation failed", err)
}
