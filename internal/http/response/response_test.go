package response

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Email string `validate:"required,email"`
	Date  string `validate:"required,datetime=2006-01-02"`
	Days  int    `validate:"gt=0"`
}

func TestValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(samplePayload{Email: "not-an-email", Date: "01/03/2024", Days: 0})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Email must be a valid email")
	assert.Contains(t, resp.Error, "field Date must be a date in format 2006-01-02")
	assert.Contains(t, resp.Error, "field Days must be greater than 0")
}

func TestValidationError_Required(t *testing.T) {
	v := validator.New()

	err := v.Struct(samplePayload{Date: "2024-03-01", Days: 1})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, "field Email is a required field", resp.Error)
}
