package errors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")

	assert.Equal(t, "bad input", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", err.ErrorCode)
	assert.Nil(t, err.Details)
}

func TestNewWithDetails(t *testing.T) {
	err := NewWithDetails(http.StatusNotFound, "NOT_FOUND", "missing", "the-resource")
	assert.Equal(t, "the-resource", err.Details)
}

func TestRenderSetsStatus(t *testing.T) {
	apiErr := ChartNotFoundError("bogus_chart")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/charts/bogus_chart", nil)
	require.NoError(t, render.Render(w, r, apiErr))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "CHART_NOT_FOUND")
	assert.Contains(t, w.Body.String(), "bogus_chart")
}

func TestHelpers(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"validation", ErrValidation("from", "invalid date"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"not found", NotFoundError("table"), http.StatusNotFound, "NOT_FOUND"},
		{"chart not found", ChartNotFoundError("x"), http.StatusNotFound, "CHART_NOT_FOUND"},
		{"render failed", RenderError("x", assert.AnError), http.StatusInternalServerError, "RENDER_FAILED"},
		{"reload failed", ReloadError(assert.AnError), http.StatusInternalServerError, "RELOAD_FAILED"},
		{"invalid request", InvalidRequestWithError(assert.AnError), http.StatusBadRequest, "INVALID_REQUEST"},
		{"panic", ErrPanic("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.NotNil(t, tt.err.Details)
		})
	}
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{
		{Field: "from", Message: "bad date"},
		{Field: "type", Message: "unknown"},
	})
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.NotNil(t, err.Details)
}
