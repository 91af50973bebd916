package app

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationError(t *testing.T) {
	err := NewOperationError("save", "/tmp/a.txt", fs.ErrPermission)

	assert.Equal(t, "save /tmp/a.txt: permission denied", err.Error())
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, "reload", NewOperationError("reload", "", nil).Error())

	var nilErr *OperationError
	assert.Equal(t, "", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}

func TestInitError(t *testing.T) {
	cause := errors.New("boom")
	err := &InitError{Component: "backend", Err: cause}

	assert.Equal(t, "init backend: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestRecoveredPanicError(t *testing.T) {
	assert.Equal(t, "panic: oops", (&RecoveredPanicError{Value: "oops"}).Error())
	assert.Equal(t, "panic: oops\nstack", (&RecoveredPanicError{Value: "oops", Stack: "stack"}).Error())
}
