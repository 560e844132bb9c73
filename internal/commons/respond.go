package commons

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apperrors "costbook/internal/errors"
)

type ErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func WriteValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

// WriteError maps application errors onto HTTP statuses. Unknown errors are
// logged and reported without internal detail.
func WriteError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		WriteValidationError(w, ve.Message, ve.Details...)
		return
	}

	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		WriteJSON(w, http.StatusNotFound, ErrorResponse{Error: "NOT_FOUND", Message: nfe.Message})
		return
	}

	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		WriteJSON(w, http.StatusConflict, ErrorResponse{Error: "INSUFFICIENT_STOCK", Message: ise.Message})
		return
	}

	if ce, ok := apperrors.IsConflictError(err); ok {
		WriteJSON(w, http.StatusConflict, ErrorResponse{Error: "CONFLICT", Message: ce.Message})
		return
	}

	if de, ok := apperrors.IsDeadlockError(err); ok {
		WriteJSON(w, http.StatusConflict, ErrorResponse{Error: "DEADLOCK", Message: de.Message})
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "INTERNAL_ERROR",
		Message: "an unexpected error occurred",
	})
}
