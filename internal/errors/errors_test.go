package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("validation failed", ValidationDetail{
		Field:   "quantity",
		Message: "quantity must be positive",
	})

	assert.Equal(t, "validation failed", err.Error())

	ve, ok := IsValidationError(err)
	require.True(t, ok)
	require.Len(t, ve.Details, 1)
	assert.Equal(t, "quantity", ve.Details[0].Field)

	_, ok = IsValidationError(errors.New("other"))
	assert.False(t, ok)
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("product with id 7 not found")

	_, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Equal(t, "product with id 7 not found", err.Error())

	_, ok = IsNotFoundError(NewValidationError("nope"))
	assert.False(t, ok)
}

func TestInsufficientStockError(t *testing.T) {
	err := NewInsufficientStockError(7, "insufficient stock: requested 5, available 1")

	ise, ok := IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, int64(7), ise.ProductID)
}

func TestDeadlockError(t *testing.T) {
	err := NewDeadlockError("operation failed after retries")

	_, ok := IsDeadlockError(err)
	assert.True(t, ok)
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("duplicate invoice number")

	_, ok := IsConflictError(err)
	assert.True(t, ok)
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError("querying product", cause)

	assert.Equal(t, "querying product: connection refused", err.Error())
	assert.True(t, errors.Is(err, cause))
}
