package httputil

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/matzehuels/ocrsynth/pkg/errors"
)

// ErrorBody is the JSON error response.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// StatusCode maps an error to an HTTP status.
func StatusCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeUnknownProfile, errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeRenderFailed, errors.ErrCodeDistortionFailed:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidParameter, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidProfile, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeDuplicateProfile:
		return http.StatusConflict
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	switch {
	case stderrors.Is(err, context.Canceled):
		return 499 // client closed request
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an ErrorBody and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	status := StatusCode(err)
	body := ErrorBody{Code: errors.GetCode(err), Message: errors.UserMessage(err)}
	if status >= http.StatusInternalServerError {
		if body.Code == "" {
			body.Code = errors.ErrCodeInternal
		}
		body.Message = http.StatusText(status)
	}
	WriteJSON(w, status, body)
	return status
}
