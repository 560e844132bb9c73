package commons

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "costbook/internal/errors"
)

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperrors.NewValidationError("bad input"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", apperrors.NewNotFoundError("product with id 7 not found"), http.StatusNotFound, "NOT_FOUND"},
		{"insufficient stock", apperrors.NewInsufficientStockError(7, "insufficient stock"), http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"conflict", apperrors.NewConflictError("duplicate"), http.StatusConflict, "CONFLICT"},
		{"deadlock", apperrors.NewDeadlockError("try again"), http.StatusConflict, "DEADLOCK"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tc.err, zap.NewNop())

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantCode, decodeErrorResponse(t, rec).Error)
		})
	}
}

func TestWriteError_UnknownErrorHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("password=hunter2 leaked"), zap.NewNop())

	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "an unexpected error occurred", resp.Message)
}

func TestWriteValidationError_IncludesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, "validation failed", apperrors.ValidationDetail{
		Field:   "quantity",
		Message: "quantity must be positive",
	})

	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "quantity", resp.Details[0].Field)
}

func TestRequireUser(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, int64(42), MustUserID(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("valid header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.Header.Set("X-User-ID", "42")
		rec := httptest.NewRecorder()

		RequireUser(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		rec := httptest.NewRecorder()

		RequireUser(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-numeric header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.Header.Set("X-User-ID", "abc")
		rec := httptest.NewRecorder()

		RequireUser(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
