package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/ocrsynth/pkg/errors"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeUnknownProfile, "x"), http.StatusNotFound},
		{errors.New(errors.ErrCodeRenderFailed, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeDistortionFailed, "x"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeInvalidInput, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidParameter, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidFormat, "x"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeDuplicateProfile, "x"), http.StatusConflict},
		{errors.New(errors.ErrCodeInternal, "x"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", errors.New(errors.ErrCodeRenderFailed, "x")), http.StatusUnprocessableEntity},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	status := WriteError(rec, errors.New(errors.ErrCodeUnknownProfile, "unknown condition %q", "x"))
	if status != http.StatusNotFound || rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d/%d, want 404", status, rec.Code)
	}
	var body ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Code != errors.ErrCodeUnknownProfile || body.Message != `unknown condition "x"` {
		t.Errorf("body = %+v", body)
	}

	rec = httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("db password is hunter2"))
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Code != errors.ErrCodeInternal || body.Message != "Internal Server Error" {
		t.Errorf("internal error body = %+v", body)
	}
}
