// Package diag provides structured findings for schema validation: instead
// of failing on the first unsupported field, a validation pass collects
// everything wrong (and everything merely suspicious) about a record graph
// so it can be fixed in one round.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Severity ranks a finding.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Finding is a single validation result.
type Finding struct {
	Severity Severity
	// Code is a stable identifier for this class of finding.
	Code string
	// Message is the human-readable description.
	Message string
	// Type names the record type the finding relates to.
	Type string
	// FieldPath locates the finding within the record, when field-level.
	FieldPath string
	// Suggestions are potential fixes.
	Suggestions []string
}

func (f Finding) String() string {
	var prefix []string
	if f.Type != "" {
		prefix = append(prefix, "["+f.Type+"]")
	}
	if f.FieldPath != "" {
		prefix = append(prefix, f.FieldPath)
	}

	msg := f.Message
	if f.Code != "" {
		msg = fmt.Sprintf("[%s] %s", f.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}

// Report accumulates findings over one validation pass.
type Report struct {
	Errors   []Finding
	Warnings []Finding
	Infos    []Finding
}

func (r *Report) AddError(code, message, typeName, fieldPath string) {
	r.Errors = append(r.Errors, Finding{
		Severity: Error, Code: code, Message: message, Type: typeName, FieldPath: fieldPath,
	})
}

func (r *Report) AddWarning(code, message, typeName, fieldPath string) {
	r.Warnings = append(r.Warnings, Finding{
		Severity: Warning, Code: code, Message: message, Type: typeName, FieldPath: fieldPath,
	})
}

func (r *Report) AddInfo(code, message, typeName, fieldPath string) {
	r.Infos = append(r.Infos, Finding{
		Severity: Info, Code: code, Message: message, Type: typeName, FieldPath: fieldPath,
	})
}

// HasErrors reports whether any error-severity finding was recorded.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// Merge folds another report into this one.
func (r *Report) Merge(other Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Infos = append(r.Infos, other.Infos...)
}

// Err combines all error findings into one error, or nil when clean.
func (r *Report) Err() error {
	if !r.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(r.Errors))
	for _, f := range r.Errors {
		parts = append(parts, f.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Sdump renders a value for diagnostic messages: deterministic, no pointer
// addresses, map keys sorted.
func Sdump(v any) string {
	return dumpConfig.Sdump(v)
}
