package endpoint

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS_PreflightShortCircuits(t *testing.T) {
	c := NewCORS()
	rc := &Context{Request: httptest.NewRequest("OPTIONS", "/things/", nil)}

	resp := c.Process(rc, nil)
	if resp == nil {
		t.Fatal("preflight did not short-circuit")
	}
	if resp.Status != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.Status)
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Errorf("allow-origin = %q", resp.Headers["Access-Control-Allow-Origin"])
	}
}

func TestCORS_PreHookPassesNonPreflight(t *testing.T) {
	c := NewCORS()
	rc := &Context{Request: httptest.NewRequest("GET", "/things/", nil)}

	if resp := c.Process(rc, nil); resp != nil {
		t.Error("non-preflight request was short-circuited")
	}
}

func TestCORS_PostHookStampsHeaders(t *testing.T) {
	c := NewCORS()
	rc := &Context{Request: httptest.NewRequest("GET", "/things/", nil)}
	resp := NewResponse(http.StatusOK, nil)

	out := c.Process(rc, resp)
	if out == nil {
		t.Fatal("post-hook returned nil")
	}
	if out.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Error("allow-origin header missing on response")
	}
	if out.Headers["Access-Control-Allow-Methods"] == "" {
		t.Error("allow-methods header missing on response")
	}
}
