package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorMessageIsStable(t *testing.T) {
	err := ValidationError{"name": "is required", "amount": "must be positive"}
	// Sorted by field so log lines and assertions are deterministic.
	assert.Equal(t, "validation failed: amount: must be positive; name: is required", err.Error())
}

func TestAsValidationError(t *testing.T) {
	inner := ValidationError{"name": "is required"}
	wrapped := fmt.Errorf("create category: %w", inner)

	fields, ok := AsValidationError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "is required", fields["name"])

	_, ok = AsValidationError(errors.New("boom"))
	assert.False(t, ok)
}

func TestConflictErrorUnwrapsToSentinel(t *testing.T) {
	err := NewConflict("code", "already exists")
	assert.ErrorIs(t, err, ErrConflict)

	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "already exists", conflict.Fields["code"])
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.PerPage)
	assert.Equal(t, 35, p.Total)
	assert.Equal(t, 4, p.TotalPages)

	p = NewPagination(0, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 0, p.TotalPages)
}
