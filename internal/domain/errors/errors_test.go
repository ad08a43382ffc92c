package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"coffeexport/internal/errors"
)

func TestBaseErrorIsMatchesDerivedDetails(t *testing.T) {
	err := NewInvalidStatusTransition("PENDING", "APPROVE_FX")

	assert.True(t, errors.Is(err, ErrInvalidStatusTransition))
	assert.True(t, errors.Is(errors.Wrap(err, "approve fx"), ErrInvalidStatusTransition))
	assert.False(t, errors.Is(err, ErrExportNotFound))
	assert.Contains(t, err.Details(), "PENDING")
	assert.Equal(t, http.StatusConflict, err.HTTPCode())
}

func TestNewMissingRequiredField(t *testing.T) {
	assert.Equal(t, "rejection_reason is required and must be at least 10 characters",
		NewMissingRequiredField("rejection_reason", 10).Details())
	assert.Equal(t, "lot_id is required", NewMissingRequiredField("lot_id", 0).Details())
}

func TestQualificationFailedError(t *testing.T) {
	err := NewQualificationFailedError(
		[]string{"Export license missing", "Taster missing"},
		[]string{"Apply for export license", "Register a taster"},
	)

	var appErr AppError
	assert.True(t, errors.As(errors.Wrap(err, "create export"), &appErr))
	assert.Equal(t, "QUALIFICATION_FAILED", appErr.ErrorCode())
	assert.Equal(t, "Export license missing; Taster missing", appErr.Details())
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPCode())
}
