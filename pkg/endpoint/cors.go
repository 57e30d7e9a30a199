package endpoint

import (
	"net/http"
	"strings"
)

// CORS is a two-phase middleware handling cross-origin requests: the
// pre-hook short-circuits OPTIONS preflights, the post-hook stamps the
// allow headers onto every response. It is stateless and safe to share.
type CORS struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

// NewCORS creates a CORS middleware with permissive defaults.
func NewCORS() *CORS {
	return &CORS{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
	}
}

func (c *CORS) Process(rc *Context, resp *Response) *Response {
	if resp == nil {
		if rc.Request.Method == http.MethodOptions {
			preflight := NewResponse(http.StatusOK, map[string]any{})
			c.stamp(preflight)
			return preflight
		}
		return nil
	}
	c.stamp(resp)
	return resp
}

func (c *CORS) stamp(resp *Response) {
	resp.SetHeader("Access-Control-Allow-Origin", strings.Join(c.AllowOrigins, ", "))
	resp.SetHeader("Access-Control-Allow-Methods", strings.Join(c.AllowMethods, ", "))
	resp.SetHeader("Access-Control-Allow-Headers", strings.Join(c.AllowHeaders, ", "))
}
