package kernel

// Result is the outcome of an operation that either succeeds or fails with an Error.
//
// The invariant IsSuccess() <=> Error().IsNone() holds for every Result that can be built through
// this package. The zero Result is a success.
type Result struct {
	failed bool
	err    Error
}

// newResult is the single place where the success/error pairing is checked.
func newResult(isSuccess bool, err Error) Result {
	if isSuccess && !err.IsNone() {
		contractViolation(ErrSuccessWithError)
	}

	if !isSuccess && err.IsNone() {
		contractViolation(ErrFailureWithoutError)
	}

	return Result{failed: !isSuccess, err: err}
}

// Success returns a successful Result.
func Success() Result {
	return newResult(true, None)
}

// Failure returns a failed Result carrying err. It panics if err is None.
func Failure(err Error) Result {
	return newResult(false, err)
}

// IsSuccess reports whether the operation succeeded.
func (r Result) IsSuccess() bool {
	return !r.failed
}

// IsFailure reports whether the operation failed. It is the exact complement of IsSuccess.
func (r Result) IsFailure() bool {
	return r.failed
}

// Error returns the failure's Error, or None for a success.
func (r Result) Error() Error {
	return r.err
}

// ResultOf is the outcome of an operation that either produces a value of type T or fails with an Error.
//
// A value is present if and only if the result is a success. The zero ResultOf is a success
// carrying the zero value of T.
type ResultOf[T any] struct {
	Result
	value T
}

// SuccessOf returns a successful ResultOf carrying value.
// It is the explicit replacement for an implicit value-to-result conversion.
func SuccessOf[T any](value T) ResultOf[T] {
	return ResultOf[T]{Result: newResult(true, None), value: value}
}

// FailureOf returns a failed ResultOf carrying err and no value. It panics if err is None.
func FailureOf[T any](err Error) ResultOf[T] {
	return ResultOf[T]{Result: newResult(false, err)}
}

// Create returns a successful ResultOf with *value, or a failure with NullValue if value is nil.
func Create[T any](value *T) ResultOf[T] {
	if value == nil {
		return FailureOf[T](NullValue)
	}

	return SuccessOf(*value)
}

// Value returns the value of a successful ResultOf.
// Reading the value of a failed ResultOf is a caller bug and panics.
func (r ResultOf[T]) Value() T {
	if r.IsFailure() {
		contractViolation(ErrValueOfFailure)
	}

	return r.value
}

// WithoutValue drops the value and returns the plain Result.
func (r ResultOf[T]) WithoutValue() Result {
	return r.Result
}

// Map applies fn to the value of a successful ResultOf; failures are passed through unchanged.
func Map[T any, U any](r ResultOf[T], fn func(T) U) ResultOf[U] {
	if r.IsFailure() {
		return FailureOf[U](r.Error())
	}

	return SuccessOf(fn(r.value))
}

// Bind chains an operation that can itself fail; failures are passed through unchanged.
func Bind[T any, U any](r ResultOf[T], fn func(T) ResultOf[U]) ResultOf[U] {
	if r.IsFailure() {
		return FailureOf[U](r.Error())
	}

	return fn(r.value)
}

// FirstFailure returns the first failed Result in results, or Success if there is none.
func FirstFailure(results ...Result) Result {
	for _, r := range results {
		if r.IsFailure() {
			return r
		}
	}

	return Success()
}
