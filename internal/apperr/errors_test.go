package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields(t *testing.T) {
	t.Run("NoViolations", func(t *testing.T) {
		assert.NoError(t, apperr.NewFields("student").Check("firstName", "").Err())
	})

	t.Run("FirstViolationPerFieldWins", func(t *testing.T) {
		err := apperr.NewFields("student").
			Check("firstName", "must not be blank").
			Check("firstName", "must not contain digits").
			Check("email", "is not a valid email").
			Err()

		var verr *apperr.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "student", verr.Entity)
		assert.Equal(t, "must not be blank", verr.Fields["firstName"])
		assert.Len(t, verr.Fields, 2)
		assert.ErrorIs(t, err, apperr.ErrValidation)
		assert.Equal(t, "invalid student: email is not a valid email; firstName must not be blank", err.Error())
	})
}

func TestKinds(t *testing.T) {
	assert.ErrorIs(t, apperr.NotFound("student", 7), apperr.ErrNotFound)
	assert.Equal(t, "student with id 7 not found", apperr.NotFound("student", 7).Error())

	assert.ErrorIs(t, apperr.AlreadyRegistered("email", "a@b.com"), apperr.ErrAlreadyRegistered)

	cause := errors.New("connection refused")
	ext := fmt.Errorf("wrapped: %w", apperr.External("github", "fetch repository", cause))
	assert.ErrorIs(t, ext, apperr.ErrExternalService)
	assert.ErrorIs(t, ext, cause)

	notEnrolled := &apperr.NotEnrolledError{CommissionID: 3, StudentIDs: []int64{4, 9}}
	assert.ErrorIs(t, notEnrolled, apperr.ErrStudentsNotEnrolled)
	assert.Contains(t, notEnrolled.Error(), "[4 9]")
}

func TestFromValidator(t *testing.T) {
	type req struct {
		Email string `validate:"required,email"`
	}

	err := apperr.FromValidator("admin", validator.New().Struct(req{Email: "nope"}))
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields["Email"], "'email'")

	err = apperr.FromValidator("admin", errors.New("boom"))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "boom", verr.Fields["body"])
}
