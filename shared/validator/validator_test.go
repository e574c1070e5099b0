package validator_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"innkeep/shared/failure"
	"innkeep/shared/validator"
)

type sampleRequest struct {
	Email    string `validate:"required,email"`
	CheckIn  string `validate:"required,datetime=2006-01-02"`
	Guests   int    `validate:"omitempty,min=1"`
	Password string `validate:"required,min=8"`
	Confirm  string `validate:"required,eqfield=Password"`
}

func valid() sampleRequest {
	return sampleRequest{
		Email:    "ada@example.com",
		CheckIn:  "2030-01-10",
		Password: "s3cret-pass",
		Confirm:  "s3cret-pass",
	}
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct passes", func(t *testing.T) {
		req := valid()

		assert.NoError(t, validator.ValidateStruct(&req))
	})

	t.Run("violations map to bad request", func(t *testing.T) {
		req := valid()
		req.Email = "not-an-email"

		err := validator.ValidateStruct(&req)

		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
		assert.Contains(t, failure.GetMessage(err), "Email")
	})

	t.Run("datetime tag enforces the date layout", func(t *testing.T) {
		req := valid()
		req.CheckIn = "10/01/2030"

		err := validator.ValidateStruct(&req)

		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
		assert.Contains(t, failure.GetMessage(err), "YYYY-MM-DD")
	})

	t.Run("eqfield catches mismatched confirmation", func(t *testing.T) {
		req := valid()
		req.Confirm = "different"

		err := validator.ValidateStruct(&req)

		assert.True(t, failure.IsCode(err, http.StatusBadRequest))
	})
}

func TestValidateVar(t *testing.T) {
	assert.NoError(t, validator.ValidateVar("ada@example.com", "email"))
	assert.Error(t, validator.ValidateVar("nope", "email"))
}
