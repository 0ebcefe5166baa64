package apierror_test

import (
	"errors"
	"fmt"
	"testing"

	"citycut/internal/apierror"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_Wrapped(t *testing.T) {
	base := apierror.E(apierror.KindNotFound, "expense.delete", errors.New("0 rows"))
	wrapped := fmt.Errorf("service: %w", base)

	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(wrapped))
	assert.Equal(t, apierror.KindUnknown, apierror.KindOf(errors.New("boom")))
	assert.Equal(t, apierror.KindUnknown, apierror.KindOf(nil))
}

func TestErrNotAuthenticated_Is(t *testing.T) {
	err := fmt.Errorf("record: %w", apierror.E(apierror.KindNotAuthenticated, "record.create", nil))
	assert.True(t, errors.Is(err, apierror.ErrNotAuthenticated))
	assert.False(t, errors.Is(apierror.E(apierror.KindNotFound, "x", nil), apierror.ErrNotAuthenticated))
}

func TestError_Message(t *testing.T) {
	err := apierror.E(apierror.KindConstraintViolation, "customer.update", errors.New("duplicate phone"))
	assert.Equal(t, "customer.update: constraint_violation: duplicate phone", err.Error())
}

func TestEnvelopes(t *testing.T) {
	assert.Equal(t, apierror.ActionResult{Success: true, Message: "ok"}, apierror.OK("ok"))
	assert.False(t, apierror.Fail("Failed to delete expense").Success)
	assert.Equal(t, "Validation failed", apierror.NewValidation(map[string]string{"a": "required"}).Detail)
}
