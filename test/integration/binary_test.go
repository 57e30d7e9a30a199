package integration

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"testing"
)

func TestBlobBase64RoundTrip(t *testing.T) {
	cleanTables(t)

	payload := []byte{0x00, 0x01, 0x02, 0xFE, 0xFF}
	encoded := base64.StdEncoding.EncodeToString(payload)

	resp := postJSON(t, testEnv.BaseURL()+"/blobs/", map[string]any{
		"name": "probe",
		"data": encoded,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, readBody(t, resp))
	}
	var created resultEnvelope
	decodeJSON(t, resp, &created)
	if created.Result["data"] != encoded {
		t.Errorf("created data = %v, want the base64 text back", created.Result["data"])
	}

	// Reading returns the same base64 text, and it decodes to the
	// original bytes.
	resp = getJSON(t, fmt.Sprintf("%s/blobs/%v", testEnv.BaseURL(), created.Result["id"]))
	var read resultEnvelope
	decodeJSON(t, resp, &read)

	raw, err := base64.StdEncoding.DecodeString(read.Result["data"].(string))
	if err != nil {
		t.Fatalf("stored data is not base64: %v", err)
	}
	if !bytes.Equal(raw, payload) {
		t.Errorf("decoded = %v, want %v", raw, payload)
	}
}

func TestBlobInvalidBase64(t *testing.T) {
	cleanTables(t)

	resp := postJSON(t, testEnv.BaseURL()+"/blobs/", map[string]any{
		"name": "broken",
		"data": "this is not base64 !!",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", resp.StatusCode, readBody(t, resp))
	}
	var body errorEnvelope
	decodeJSON(t, resp, &body)
	if body.Field != "data" {
		t.Errorf("field = %q, want %q", body.Field, "data")
	}
}

func TestBlobNullData(t *testing.T) {
	cleanTables(t)

	resp := postJSON(t, testEnv.BaseURL()+"/blobs/", map[string]any{
		"name": "empty",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d: %s", resp.StatusCode, readBody(t, resp))
	}
	var created resultEnvelope
	decodeJSON(t, resp, &created)
	if created.Result["data"] != nil {
		t.Errorf("data = %v, want null", created.Result["data"])
	}
}
