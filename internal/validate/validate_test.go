package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tutorhub/console/internal/errors"
)

type signup struct {
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=8"`
	ConfirmPassword string  `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string  `json:"roleName" validate:"omitempty,role_name"`
	Percentage      float64 `json:"discountPercentage" validate:"gt=0,lte=100"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(signup{
		Email:           "ops@example.com",
		Password:        "correct horse",
		ConfirmPassword: "correct horse",
		Role:            "ROLE_ADMIN",
		Percentage:      10,
	})
	assert.NoError(t, err)
}

func TestStruct_FieldMessages(t *testing.T) {
	err := Struct(signup{
		Email:           "not-an-email",
		Password:        "short",
		ConfirmPassword: "different",
		Role:            "admin",
		Percentage:      150,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	se, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"email":              "must be a valid email address",
		"password":           "must be at least 8 characters",
		"confirmPassword":    "must match password",
		"roleName":           "must look like ROLE_NAME",
		"discountPercentage": "must be at most 100",
	}, se.Fields)
}

func TestVar_TimeRange(t *testing.T) {
	assert.NoError(t, Var("range", "quarter", "time_range"))

	err := Var("range", "week", "time_range")
	require.Error(t, err)
	se, _ := apperrors.As(err)
	assert.Equal(t, "must be month, quarter or year", se.Fields["range"])
}
