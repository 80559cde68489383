package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/FACorreiaa/go-ipos-api/internal/types"
)

const (
	defaultErrorMessage   = "Internal Server Error"
	defaultSuccessMessage = "OK"
	validationFailed      = "Validation failed"
)

// WriteJSONResponse encodes data as JSON and writes it with status.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}

	js, err := json.Marshal(data)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to marshal JSON response",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		http.Error(w, defaultErrorMessage, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(js); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write response body",
			slog.Any("error", err),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	}
}

// SuccessResponse writes the success envelope. meta.Status defaults to 200
// and meta.Message to "OK"; meta is echoed back as given.
func SuccessResponse(w http.ResponseWriter, r *http.Request, data any, meta types.Meta) {
	status := meta.Status
	if status == 0 {
		status = http.StatusOK
	}
	message := meta.Message
	if message == "" {
		message = defaultSuccessMessage
	}
	WriteJSONResponse(w, r, status, types.Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// ErrorResponse writes the failure envelope. A zero status means 500 and an
// empty message means "Internal Server Error". details may be nil.
func ErrorResponse(w http.ResponseWriter, r *http.Request, status int, message string, details any) {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if message == "" {
		message = defaultErrorMessage
	}
	WriteJSONResponse(w, r, status, types.ErrorResponse{
		Success: false,
		Message: message,
		Error:   details,
	})
}

// InternalError is ErrorResponse with every default.
func InternalError(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, 0, "", nil)
}

// ValidationErrorResponse writes a 422 with the per-field issue report.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, issues types.ValidationIssues) {
	WriteJSONResponse(w, r, http.StatusUnprocessableEntity, types.ValidationErrorResponse{
		Success: false,
		Message: validationFailed,
		Errors:  issues,
	})
}
