package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
)

func TestOKWithData(t *testing.T) {
	data := map[string]string{"key": "value"}
	resp := OKWithData(data)

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, data, resp.Data)
}

func TestError(t *testing.T) {
	msg := "something went wrong"
	resp := Error(msg)

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, msg, resp.Error)
}

func TestValidationError(t *testing.T) {
	type TestStruct struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=6"`
	}

	v := validator.New()
	ts := TestStruct{
		Email:    "not-an-email",
		Password: "123",
	}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.NotEmpty(t, resp.Error)

	// Все нарушенные поля перечислены в одном сообщении
	errMsg := resp.Error
	assert.Contains(t, errMsg, "field Email must be a valid email address")
	assert.Contains(t, errMsg, "field Password is below the allowed minimum")
}

func TestValidationErrorRequired(t *testing.T) {
	type TestStruct struct {
		Title string `validate:"required"`
	}

	v := validator.New()
	ts := TestStruct{}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Title is a required field")
}

func TestValidationErrorOneof(t *testing.T) {
	type TestStruct struct {
		DurationUnit string `validate:"oneof=hours days weeks months"`
	}

	v := validator.New()
	ts := TestStruct{DurationUnit: "years"}

	err := v.Struct(ts)
	assert.Error(t, err)

	validationErrors := err.(validator.ValidationErrors)
	resp := ValidationError(validationErrors)

	assert.Contains(t, resp.Error, "field DurationUnit must be one of: hours days weeks months")
}
