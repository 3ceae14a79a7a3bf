package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("order not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "order not found", notFoundErr.Message)
	assert.Equal(t, "order not found", err.Error())
}

func TestNotFoundError_Wrapped(t *testing.T) {
	err := fmt.Errorf("loading order: %w", NewNotFoundError("order with id 7 not found"))

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "order with id 7 not found", notFoundErr.Message)
}

func TestNotFoundError_WithOtherError(t *testing.T) {
	notFoundErr, ok := IsNotFoundError(errors.New("some other error"))
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_Details(t *testing.T) {
	err := NewValidationError("validation failed",
		ValidationDetail{Field: "customerEmail", Message: "must be a valid email"},
		ValidationDetail{Field: "customerPhone", Message: "is required"},
	)

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Equal(t, "validation failed", ve.Error())
	assert.Len(t, ve.Details, 2)
	assert.Equal(t, "customerPhone", ve.Details[1].Field)
}

func TestTypedErrors_DoNotCrossMatch(t *testing.T) {
	conflict := NewConflictError("order status changed")

	_, isConflict := IsConflictError(conflict)
	_, isForbidden := IsForbiddenError(conflict)
	_, isUnauthorized := IsUnauthorizedError(conflict)
	_, isDeadlock := IsDeadlockError(conflict)

	assert.True(t, isConflict)
	assert.False(t, isForbidden)
	assert.False(t, isUnauthorized)
	assert.False(t, isDeadlock)
}

func TestGatewayError_Unwrap(t *testing.T) {
	cause := errors.New("paypal returned 503")
	err := NewGatewayError("creating paypal order", cause)

	assert.Equal(t, "creating paypal order: paypal returned 503", err.Error())
	assert.True(t, errors.Is(err, cause))

	ge, ok := IsGatewayError(fmt.Errorf("checkout: %w", err))
	assert.True(t, ok)
	assert.Equal(t, cause, ge.Cause)
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "underlying error")
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestIsInternalError_Wrapped(t *testing.T) {
	err := fmt.Errorf("transition: %w", NewInternalError("committing", errors.New("broken pipe")))

	ie, ok := IsInternalError(err)
	require.True(t, ok)
	assert.Equal(t, "committing", ie.Message)

	_, ok = IsInternalError(NewGatewayError("capturing", nil))
	assert.False(t, ok)
}
