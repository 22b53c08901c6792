package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
)

// Request is a fully resolved request, built once and handed to an Executor.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE).
	Method string
	// URL is the absolute request URL including the query.
	URL *url.URL
	// Header holds Accept, Content-Type and the authentication headers.
	Header http.Header
	// Body is nil when the request carries no parameter.
	Body []byte
}

// HTTPRequest converts the request into an *http.Request bound to ctx.
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header = r.Header.Clone()
	return req, nil
}

// Method names, mirroring net/http.
const (
	MethodGet    = http.MethodGet
	MethodPost   = http.MethodPost
	MethodPut    = http.MethodPut
	MethodPatch  = http.MethodPatch
	MethodDelete = http.MethodDelete
)
