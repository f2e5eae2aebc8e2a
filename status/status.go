package status

import (
	"errors"
	"slices"
	"strings"
)

// Status is the outcome of an operation. The zero value is a valid status
// with no message, and is the identity of Combine.
//
// A Status is never mutated after it is returned: every method that changes
// it returns a copy with its own error slice.
type Status struct {
	// Message is the success message. It is empty when the status is invalid.
	Message string
	// Errors lists every failure in the order it was reported.
	Errors []ErrorDetail
}

// Ok returns a valid status carrying message.
func Ok(message string) Status {
	return Status{Message: message}
}

// Fail returns an invalid status with a single error.
func Fail(kind Kind, code, message string) Status {
	return Status{Errors: []ErrorDetail{{Kind: kind, Code: code, Message: message}}}
}

// FromError converts err into an invalid status. Errors produced by this
// package (including joined ones) keep their details; any other error is
// recorded under kind and code with its text verbatim. A nil err yields a
// valid status.
func FromError(kind Kind, code string, err error) Status {
	if err == nil {
		return Status{}
	}

	var details []ErrorDetail
	collectDetails(err, &details)

	if len(details) == 0 {
		details = []ErrorDetail{{Kind: kind, Code: code, Message: err.Error()}}
	}

	return Status{Errors: details}
}

func collectDetails(err error, out *[]ErrorDetail) {
	if se, ok := err.(*Error); ok {
		*out = append(*out, se.Detail)

		return
	}

	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			collectDetails(e, out)
		}

		return
	}

	var se *Error
	if errors.As(err, &se) {
		d := se.Detail
		d.Message = err.Error()
		*out = append(*out, d)
	}
}

// IsValid reports whether the status carries no errors.
func (s Status) IsValid() bool {
	return len(s.Errors) == 0
}

// WithError returns a copy of s with d appended. The message is cleared
// because an invalid status has no success message.
func (s Status) WithError(d ErrorDetail) Status {
	return Status{Errors: append(slices.Clone(s.Errors), d)}
}

// WithMessage returns a copy of s carrying message. It has no effect on an
// invalid status.
func (s Status) WithMessage(message string) Status {
	if !s.IsValid() {
		return s
	}

	return Status{Message: message}
}

// Combine merges two statuses. The result is valid only if both are; errors
// are a's followed by b's; on a valid result the later non-empty message wins.
func Combine(a, b Status) Status {
	if len(a.Errors) > 0 || len(b.Errors) > 0 {
		errs := make([]ErrorDetail, 0, len(a.Errors)+len(b.Errors))
		errs = append(errs, a.Errors...)
		errs = append(errs, b.Errors...)

		return Status{Errors: errs}
	}

	if b.Message != "" {
		return Status{Message: b.Message}
	}

	return Status{Message: a.Message}
}

// CombineAll folds Combine over statuses from left to right.
func CombineAll(statuses ...Status) Status {
	var out Status
	for _, s := range statuses {
		out = Combine(out, s)
	}

	return out
}

// HasKind reports whether any error is of kind k.
func (s Status) HasKind(k Kind) bool {
	for _, e := range s.Errors {
		if e.Kind == k {
			return true
		}
	}

	return false
}

// HasCode reports whether any error carries code.
func (s Status) HasCode(code string) bool {
	for _, e := range s.Errors {
		if e.Code == code {
			return true
		}
	}

	return false
}

// AllErrors joins every error message with a newline.
func (s Status) AllErrors() string {
	return s.JoinErrors("\n")
}

// JoinErrors joins every error message with sep.
func (s Status) JoinErrors(sep string) string {
	msgs := make([]string, 0, len(s.Errors))
	for _, e := range s.Errors {
		msgs = append(msgs, e.Message)
	}

	return strings.Join(msgs, sep)
}

// Err returns nil for a valid status, otherwise all errors joined with
// errors.Join so callers can use errors.Is(err, ErrNotFound) and friends.
func (s Status) Err() error {
	if s.IsValid() {
		return nil
	}

	errs := make([]error, 0, len(s.Errors))
	for _, d := range s.Errors {
		errs = append(errs, &Error{Detail: d})
	}

	return errors.Join(errs...)
}

// String returns the message for a valid status, or every error formatted
// with its entity and property.
func (s Status) String() string {
	if s.IsValid() {
		return s.Message
	}

	parts := make([]string, 0, len(s.Errors))
	for _, e := range s.Errors {
		parts = append(parts, e.String())
	}

	return strings.Join(parts, "; ")
}
