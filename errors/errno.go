// This is a compatibility shim for POSIX-defined errno codes across platforms.
// The syscall package doesn't define all the values we need on every
// platform, nor does it guarantee stable negative values for a FUSE-style
// dispatch table, so the facade maps through ErrnoCode below instead of
// depending on a particular platform's syscall package.

package errors

import (
	"fmt"
)

// DriverError is the error type every facade operation returns: a plain
// `error` that also carries enough structure to attach context
// (WithMessage) or chain an underlying cause (WrapError). WithMessage keeps
// the original DiskoError reachable for ErrnoCode/errors.Is; WrapError makes
// the wrapped error the cause instead, so only that error (and its own chain)
// is reachable afterwards, not the DiskoError WrapError was called on.
type DriverError interface {
	error
	WithMessage(message string) DriverError
	WrapError(err error) DriverError
}

// DiskoError is a filesystem-operation failure drawn from a fixed taxonomy.
// Each constant below is itself a valid DriverError with no annotation.
type DiskoError string

// Taxonomy of errors a filesystem operation can fail with.
const ErrNotFound = DiskoError("No such file or directory")
const ErrIsADirectory = DiskoError("Is a directory")
const ErrNameTooLong = DiskoError("File name too long")
const ErrExists = DiskoError("File exists")
const ErrNoSpaceOnDevice = DiskoError("No space left on device")
const ErrPermissionDenied = DiskoError("Permission denied")
const ErrFileTooLarge = DiskoError("File too large")
const ErrIOFailed = DiskoError("Input/output error")

func (e DiskoError) Error() string {
	return string(e)
}

func (e DiskoError) WithMessage(message string) DriverError {
	return annotatedError{detail: fmt.Sprintf("%s: %s", e.Error(), message), cause: e}
}

func (e DiskoError) WrapError(err error) DriverError {
	return annotatedError{detail: fmt.Sprintf("%s: %s", e.Error(), err.Error()), cause: err}
}

// annotatedError pairs a human-readable detail string with the error it was
// built from. Through WithMessage the previous error stays reachable via
// Unwrap however many times it is chained; WrapError replaces the cause with
// the wrapped error, so the earlier chain is then present only in the detail
// text.
type annotatedError struct {
	detail string
	cause  error
}

func (e annotatedError) Error() string { return e.detail }

func (e annotatedError) WithMessage(message string) DriverError {
	return annotatedError{detail: fmt.Sprintf("%s: %s", e.detail, message), cause: e}
}

func (e annotatedError) WrapError(err error) DriverError {
	return annotatedError{detail: fmt.Sprintf("%s: %s", e.detail, err.Error()), cause: err}
}

func (e annotatedError) Unwrap() error { return e.cause }

// ErrnoCode gives the negative errno-like status code a kernel bridge expects
// back from a dispatch table operation. Unrecognized errors map to -EIO,
// since the facade boundary has no better way to describe them.
func ErrnoCode(err error) int32 {
	switch {
	case err == nil:
		return 0
	case errorIsOneOf(err, ErrNotFound):
		return -2 // ENOENT
	case errorIsOneOf(err, ErrIsADirectory):
		return -21 // EISDIR
	case errorIsOneOf(err, ErrNameTooLong):
		return -36 // ENAMETOOLONG
	case errorIsOneOf(err, ErrExists):
		return -17 // EEXIST
	case errorIsOneOf(err, ErrNoSpaceOnDevice):
		return -28 // ENOSPC
	case errorIsOneOf(err, ErrPermissionDenied):
		return -13 // EACCES
	case errorIsOneOf(err, ErrFileTooLarge):
		return -27 // EFBIG
	default:
		return -5 // EIO
	}
}

// errorIsOneOf walks err's Unwrap chain looking for target, without requiring
// callers to also import the standard library "errors" package for errors.Is.
func errorIsOneOf(err, target error) bool {
	for err != nil {
		if err == target {
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
