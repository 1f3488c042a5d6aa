package models

import "strings"

// Validation error codes.
const (
	CodeRequired     = "REQUIRED"
	CodeInvalid      = "INVALID"
	CodeOutOfRange   = "OUT_OF_RANGE"
	CodeTooShort     = "TOO_SHORT"
	CodeInvalidDate  = "INVALID_DATE"
	CodeUnknownValue = "UNKNOWN_VALUE"
)

// ValidationError carries the field errors of a rejected input.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validator accumulates field errors.
type Validator struct {
	errs []FieldError
}

// Add records a field error.
func (v *Validator) Add(field, code, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message, Code: code})
}

// Check records a field error when ok is false.
func (v *Validator) Check(ok bool, field, code, message string) {
	if !ok {
		v.Add(field, code, message)
	}
}

// Err returns a *ValidationError if anything was recorded, nil otherwise.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errs}
}
