package transport

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestID_Generated(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if seen == "" {
		t.Error("no request ID in context")
	}
	if w.Header().Get("X-Request-ID") != seen {
		t.Errorf("header = %q, context = %q", w.Header().Get("X-Request-ID"), seen)
	}
}

func TestRequestID_IncomingHonored(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Request-ID", "client-chosen")
	h.ServeHTTP(httptest.NewRecorder(), r)

	if seen != "client-chosen" {
		t.Errorf("request ID = %q, want client value", seen)
	}
}

func TestRecovery_ConvertsPanic(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if w.Body.String() != `{"error":"internal server error"}` {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestLogging_PassesThrough(t *testing.T) {
	h := Logging(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, middleware altered the response", w.Code)
	}
}
