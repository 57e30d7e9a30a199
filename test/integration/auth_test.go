package integration

import (
	"net/http"
	"testing"
)

func membershipsURL(key string) string {
	return testEnv.BaseURL() + "/memberships/" + key
}

func TestMemberships_RequireToken(t *testing.T) {
	cleanTables(t)

	resp := getJSON(t, membershipsURL(""))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, membershipsURL(""), nil, "garbage-token")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMemberships_CompositeKeyLifecycle(t *testing.T) {
	cleanTables(t)
	token := mintToken(t, "admin")

	resp := doJSON(t, http.MethodPost, membershipsURL(""), map[string]any{
		"user_id":  1,
		"group_id": 2,
		"role":     "member",
	}, token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, readBody(t, resp))
	}
	resp.Body.Close()

	// The composite key travels as one comma-joined token.
	resp = doJSON(t, http.MethodGet, membershipsURL("1,2"), nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("read status = %d: %s", resp.StatusCode, readBody(t, resp))
	}
	var read resultEnvelope
	decodeJSON(t, resp, &read)
	if read.Result["role"] != "member" {
		t.Errorf("role = %v", read.Result["role"])
	}

	resp = doJSON(t, http.MethodPatch, membershipsURL("1,2"), map[string]any{
		"role": "admin",
	}, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch status = %d: %s", resp.StatusCode, readBody(t, resp))
	}
	var patched resultEnvelope
	decodeJSON(t, resp, &patched)
	if patched.Result["role"] != "admin" {
		t.Errorf("patched role = %v", patched.Result["role"])
	}

	resp = doJSON(t, http.MethodDelete, membershipsURL("1,2"), nil, token)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, membershipsURL("1,2"), nil, token)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("read after delete = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestMemberships_WrongKeyArity(t *testing.T) {
	cleanTables(t)
	token := mintToken(t, "admin")

	for _, key := range []string{"1", "1,2,3", "a,b"} {
		resp := doJSON(t, http.MethodGet, membershipsURL(key), nil, token)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET /memberships/%s = %d, want 404", key, resp.StatusCode)
		}
		resp.Body.Close()
	}
}
