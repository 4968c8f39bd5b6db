package errors_test

import (
	"testing"

	"github.com/StevenMonty/File-System/errors"
	"github.com/stretchr/testify/assert"
)

func TestDiskoErrorWithMessage(t *testing.T) {
	newErr := errors.ErrNotFound.WithMessage("/alpha/missing.txt")
	assert.Equal(
		t, "No such file or directory: /alpha/missing.txt", newErr.Error())
	assert.ErrorIs(t, newErr, errors.ErrNotFound)
}

func TestDiskoErrorWrapError(t *testing.T) {
	originalErr := errors.ErrIOFailed
	newErr := errors.ErrNoSpaceOnDevice.WrapError(originalErr)

	assert.Equal(
		t,
		"No space left on device: Input/output error",
		newErr.Error(),
	)
	assert.ErrorIs(t, newErr, originalErr)
}

func TestErrnoCode(t *testing.T) {
	cases := []struct {
		err      error
		expected int32
	}{
		{nil, 0},
		{errors.ErrNotFound, -2},
		{errors.ErrIsADirectory, -21},
		{errors.ErrNameTooLong, -36},
		{errors.ErrExists, -17},
		{errors.ErrNoSpaceOnDevice, -28},
		{errors.ErrPermissionDenied, -13},
		{errors.ErrFileTooLarge, -27},
		{errors.ErrIOFailed, -5},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, errors.ErrnoCode(c.err), "%v", c.err)
	}
}

func TestErrnoCodeWrappedError(t *testing.T) {
	wrapped := errors.ErrNotFound.WithMessage("/alpha/missing.txt")
	assert.EqualValues(t, -2, errors.ErrnoCode(wrapped))
}
