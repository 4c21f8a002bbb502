package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brightpath/voice-tutor/internal/persona"
)

func TestHandler_RejectsPlainHTTPRequest(t *testing.T) {
	handler := Handler(testConfig(), persona.NewStore(nil))

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/ws/abc", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400 for a non-upgrade request, got %d", rec.Code)
	}
}
