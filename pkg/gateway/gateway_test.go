package gateway

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("boom")))
	assert.False(t, IsTransient(os.ErrNotExist))
	assert.True(t, IsTransient(MarkTransient(errors.New("backend overloaded"))))
}

func TestIsTransient_Wrapped(t *testing.T) {
	err := errors.Wrap(MarkTransient(errors.New("503")), "failed to delete")
	assert.True(t, IsTransient(err))
}

func TestMarkTransient_Nil(t *testing.T) {
	assert.NoError(t, MarkTransient(nil))
}

func TestMarkTransient_Unwrap(t *testing.T) {
	cause := errors.New("503")
	err := MarkTransient(cause)
	assert.EqualError(t, err, "503")
	assert.ErrorIs(t, err, cause)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(os.ErrNotExist))
	assert.True(t, IsNotFound(errors.Wrap(os.ErrNotExist, "failed to read snapshot")))
	assert.False(t, IsNotFound(errors.New("boom")))
	assert.False(t, IsNotFound(nil))
}
