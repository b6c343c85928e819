package kernelerrors

import (
	"encoding/json"
	"errors"

	"zokernel/internal/ast"
)

// Report is the canonical structured error type shared by every checker
// phase. All checker errors implement error by wrapping a *Report via
// WrapReport, so callers can always recover structure with AsReport
// regardless of which phase produced the error.
type Report struct {
	Schema   string         `json:"schema"`             // always "zokernel.error/v1"
	Code     string         `json:"code"`               // e.g. "TC008", "POS001"
	Phase    string         `json:"phase"`              // "typecheck", "recursion", "positivity", "erasability"
	Message  string         `json:"message"`            // human-readable summary
	NodePath ast.NodePath   `json:"node_path,omitempty"` // location within the checked expression, if any
	Data     map[string]any `json:"data,omitempty"`      // structured payload (offending indices, expected/actual digests, ...)
}

// ReportError wraps a Report as an error so it survives errors.As
// unwrapping through ordinary Go error-handling idioms.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown kernel error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// Code returns the report's error code, or "" if e is nil.
func (e *ReportError) Code() string {
	if e == nil || e.Rep == nil {
		return ""
	}
	return e.Rep.Code
}

// AsReport attempts to extract a *Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps r as an error. Returns nil if r is nil.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders the report as JSON, indented unless compact is true.
func (r *Report) ToJSON(compact bool) (string, error) {
	if compact {
		data, err := json.Marshal(r)
		return string(data), err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	return string(data), err
}

// New builds a Report for the given phase/code/message with optional
// structured data.
func New(phase, code, message string, data map[string]any) *Report {
	return &Report{
		Schema:  "zokernel.error/v1",
		Code:    code,
		Phase:   phase,
		Message: message,
		Data:    data,
	}
}

// WithPath attaches a node path to r and returns r for chaining.
func (r *Report) WithPath(path ast.NodePath) *Report {
	r.NodePath = path
	return r
}
