package kernel

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrContractViolation is the root of all panics raised by this package.
	// It signals a caller bug, never an expected domain failure.
	ErrContractViolation = errors.New("kernel contract violation")

	// ErrSuccessWithError is raised when a successful outcome is paired with an error other than None.
	ErrSuccessWithError = errors.New("a successful result must not carry an error")

	// ErrFailureWithoutError is raised when a failed outcome is paired with None.
	ErrFailureWithoutError = errors.New("a failed result must carry an error")

	// ErrValueOfFailure is raised when the value of a failed ResultOf is read.
	ErrValueOfFailure = errors.New("the value of a failed result can not be accessed")
)

const codeSeparator = "."

// Kind is the conventional taxonomy member of an Error, taken from the last segment of its code.
type Kind string

const (
	KindNone       Kind = ""
	KindFailure    Kind = "Failure"
	KindNotFound   Kind = "NotFound"
	KindValidation Kind = "Validation"
	KindConflict   Kind = "Conflict"
)

// Error is a structured, machine-readable description of an expected domain failure.
//
// Code is a stable discriminant, conventionally "<Subject>.<Kind>", e.g. "Order.NotFound".
// Consumers branch on it, so changing or reusing a code is a breaking change.
// Description is human-readable text and carries no compatibility guarantee.
type Error struct {
	Code        string
	Description string
}

// None denotes the absence of an error. It is the zero Error.
var None = Error{}

// NullValue is returned by Create when it is given a nil value.
var NullValue = NewError("Error.NullValue", "A null value was provided.")

// NewError builds an Error from a code and a description.
func NewError(code string, description string) Error {
	return Error{Code: code, Description: description}
}

// NotFound builds the error for a missing subject, e.g. NotFound("Order", 42) has the code "Order.NotFound".
func NotFound(subject string, id any) Error {
	return Error{
		Code:        subject + codeSeparator + string(KindNotFound),
		Description: fmt.Sprintf("%s with id '%v' was not found", subject, id),
	}
}

// Validation builds the error for invalid input concerning subject.
func Validation(subject string, description string) Error {
	return Error{
		Code:        subject + codeSeparator + string(KindValidation),
		Description: description,
	}
}

// Conflict builds the error for an operation that clashes with the current state of subject.
func Conflict(subject string, description string) Error {
	return Error{
		Code:        subject + codeSeparator + string(KindConflict),
		Description: description,
	}
}

// IsNone reports whether e is the None error.
func (e Error) IsNone() bool {
	return e == None
}

// Kind returns the taxonomy member encoded in the code.
// Codes without a known kind segment are reported as KindFailure.
func (e Error) Kind() Kind {
	if e.IsNone() {
		return KindNone
	}

	idx := strings.LastIndex(e.Code, codeSeparator)
	switch kind := Kind(e.Code[idx+1:]); kind {
	case KindNotFound, KindValidation, KindConflict:
		return kind
	default:
		return KindFailure
	}
}

// Error implements the error interface, so an Error can be logged or wrapped at infrastructure boundaries.
func (e Error) Error() string {
	if e.IsNone() {
		return "none"
	}

	return e.Code + ": " + e.Description
}

// contractViolation panics with the given cause wrapped in ErrContractViolation.
func contractViolation(cause error) {
	panic(errors.Join(ErrContractViolation, cause))
}
