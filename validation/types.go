// Package validation provides structural analysis for instrument method
// and sample documents. Every violation found is collected before the
// result is returned, so a caller can fix a method in one pass.
package validation

import (
	"fmt"
	"strings"

	"github.com/chromalab/go-chroma/method"
)

// Result contains the outcome of validation.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
	Summary  Summary `json:"summary"`
}

// Issue represents a single validation finding.
type Issue struct {
	Severity   string `json:"severity"` // "error" or "warning"
	Category   string `json:"category"` // "structure", "oven", "inlet", "column", "detector", "sample"
	Field      string `json:"field"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Summary provides an overview of the validated documents.
type Summary struct {
	Inlets    int `json:"inlets"`
	Columns   int `json:"columns"`
	Detectors int `json:"detectors"`
	OvenSteps int `json:"oven_steps"`
	Analytes  int `json:"analytes"`
	Errors    int `json:"errors"`
	Warnings  int `json:"warnings"`
}

// Error is returned when validation fails. It carries every issue found.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, fmt.Sprintf("%s: %s", is.Field, is.Message))
	}
	return fmt.Sprintf("validation failed (%d issues): %s", len(e.Issues), strings.Join(parts, "; "))
}

// Validator performs validation checks on a method document and an
// optional sample profile.
type Validator struct {
	params  *method.Parameters
	profile *method.SampleProfile
	result  *Result
}

// NewValidator creates a validator for a method document. The sample
// profile may be nil.
func NewValidator(params *method.Parameters, profile *method.SampleProfile) *Validator {
	v := &Validator{
		params:  params,
		profile: profile,
		result: &Result{
			Valid: true,
			Summary: Summary{
				Inlets:    len(params.Inlets),
				Columns:   len(params.Columns),
				Detectors: len(params.Detectors),
				OvenSteps: len(params.OvenProgram),
			},
		},
	}
	if profile != nil {
		v.result.Summary.Analytes = len(profile.Analytes)
	}
	return v
}

// Validate runs all checks and returns the collected result.
func (v *Validator) Validate() *Result {
	v.checkStructure()
	v.checkOvenProgram()
	v.checkInlets()
	v.checkColumns()
	v.checkDetectors()
	v.checkValves()
	if v.profile != nil {
		v.checkProfile()
	}

	v.result.Valid = len(v.result.Errors) == 0
	v.result.Summary.Errors = len(v.result.Errors)
	v.result.Summary.Warnings = len(v.result.Warnings)
	return v.result
}

// Err returns an *Error carrying all error-severity issues, or nil when
// the documents are valid.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	return &Error{Issues: r.Errors}
}

// AddError adds an error issue.
func (v *Validator) AddError(category, field, message, suggestion string) {
	v.result.Errors = append(v.result.Errors, Issue{
		Severity:   "error",
		Category:   category,
		Field:      field,
		Message:    message,
		Suggestion: suggestion,
	})
}

// AddWarning adds a warning issue.
func (v *Validator) AddWarning(category, field, message, suggestion string) {
	v.result.Warnings = append(v.result.Warnings, Issue{
		Severity:   "warning",
		Category:   category,
		Field:      field,
		Message:    message,
		Suggestion: suggestion,
	})
}
