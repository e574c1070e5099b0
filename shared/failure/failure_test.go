package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeep/shared/failure"
)

func TestGetCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, failure.GetCode(failure.NotFound("room not found")))
	assert.Equal(t, http.StatusConflict, failure.GetCode(failure.Conflict("taken")))
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(failure.BadRequestFromString("bad")))
	assert.Equal(t, http.StatusForbidden, failure.GetCode(failure.ErrAccessDenied))
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(failure.ErrLoginRequired))

	// Anything that is not a Failure is an internal error.
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(errors.New("boom")))
}

func TestGetCode_WrappedFailure(t *testing.T) {
	wrapped := fmt.Errorf("creating booking: %w", failure.Conflict("room is taken"))

	assert.Equal(t, http.StatusConflict, failure.GetCode(wrapped))
	assert.Equal(t, "room is taken", failure.GetMessage(wrapped))
	assert.True(t, failure.IsCode(wrapped, http.StatusConflict))
}

func TestGetMessage(t *testing.T) {
	assert.Equal(t, "room not found", failure.GetMessage(failure.NotFound("room not found")))
	assert.Empty(t, failure.GetMessage(errors.New("boom")))
	assert.Empty(t, failure.GetMessage(nil))
}

func TestIsCode(t *testing.T) {
	assert.True(t, failure.IsCode(failure.NotFound("x"), http.StatusNotFound))
	assert.False(t, failure.IsCode(failure.NotFound("x"), http.StatusConflict))
	assert.False(t, failure.IsCode(nil, http.StatusNotFound))
}

func TestNilErrorConstructors(t *testing.T) {
	assert.Nil(t, failure.BadRequest(nil))
	assert.Nil(t, failure.InternalError(nil))
}
