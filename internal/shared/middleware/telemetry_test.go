package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSpanName(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/sync/accounts?x=1", nil)
	if got := spanName("sparebudget-api", req); got != "POST /api/sync/accounts" {
		t.Errorf("spanName() = %q", got)
	}
}

func TestTraced(t *testing.T) {
	tests := map[string]bool{
		"/health":           false,
		"/metrics":          false,
		"/api/transactions": true,
	}
	for path, want := range tests {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if got := traced(req); got != want {
			t.Errorf("traced(%s) = %v, want %v", path, got, want)
		}
	}
}

func TestTelemetry_PassesThrough(t *testing.T) {
	handler := Telemetry("test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/analytics", nil))

	if rr.Code != http.StatusAccepted {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusAccepted)
	}
}
