package endpoint

import (
	"encoding/json"
	"net/http"

	"github.com/veldt-io/tabular/pkg/api"
)

// Response is the dispatcher's result value. Body is marshaled at write
// time unless Raw already holds serialized bytes (cache hits reuse the
// exact bytes that were stored).
type Response struct {
	Status  int
	Body    any
	Raw     []byte
	Headers map[string]string
}

// NewResponse creates a response with the given status and body.
func NewResponse(status int, body any) *Response {
	return &Response{Status: status, Body: body}
}

// SetHeader sets a response header.
func (r *Response) SetHeader(key, value string) {
	if r.Headers == nil {
		r.Headers = map[string]string{}
	}
	r.Headers[key] = value
}

// marshal renders the body, preferring pre-serialized bytes.
func (r *Response) marshal() []byte {
	if r.Raw != nil {
		return r.Raw
	}
	if r.Body == nil {
		return nil
	}
	raw, err := json.Marshal(r.Body)
	if err != nil {
		r.Status = http.StatusInternalServerError
		raw, _ = json.Marshal(api.ErrorResponse{Error: "response serialization failed"})
	}
	return raw
}

// write sends the response. 204s carry no body.
func (r *Response) write(w http.ResponseWriter) {
	for k, v := range r.Headers {
		w.Header().Set(k, v)
	}
	raw := r.marshal()
	if raw == nil || r.Status == http.StatusNoContent {
		w.WriteHeader(r.Status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(r.Status)
	w.Write(raw)
}
