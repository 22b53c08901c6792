package httpclient

import (
	"net/http"
	"net/url"
	"strings"
)

// buildSpec carries everything the builder needs for one request.
type buildSpec struct {
	baseURL  string
	segments []string
	query    any
	param    any
	hasParam bool
	method   string
	encoding ParameterEncoding
	codec    Codec
	auth     Authentication
}

// buildRequest assembles the request. It fails with ErrInvalidURL,
// ErrEncoding, or ErrLogic when the credentials cannot be computed; in every
// case nothing has been sent.
func buildRequest(spec buildSpec) (*Request, error) {
	codec := spec.codec
	if codec == nil {
		codec = DefaultCodec
	}

	u, err := url.Parse(spec.baseURL)
	if err != nil {
		return nil, NewInvalidURLError(spec.baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, NewInvalidURLError(spec.baseURL, nil)
	}

	if !isAbsent(spec.query) {
		items, err := flatten(codec, spec.query)
		if err != nil {
			return nil, NewEncodingError(err)
		}
		u.RawQuery = items.values().Encode()
	}

	u.Path = appendSegments(u.Path, spec.segments)
	u.RawPath = ""

	var body []byte
	if spec.hasParam {
		body, err = spec.encoding.encodeBody(codec, spec.param)
		if err != nil {
			return nil, NewEncodingError(err)
		}
	}

	header, err := buildHeaders(spec.encoding, spec.auth)
	if err != nil {
		return nil, err
	}

	return &Request{
		Method: spec.method,
		URL:    u,
		Header: header,
		Body:   body,
	}, nil
}

// appendSegments joins segments onto base as literal path components. Empty
// segments add nothing.
func appendSegments(base string, segments []string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return base
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.Join(parts, "/")
}

// buildHeaders starts from Accept and Content-Type; authentication headers
// win on collision.
func buildHeaders(encoding ParameterEncoding, auth Authentication) (http.Header, error) {
	h := http.Header{}
	h.Set("Accept", contentTypeJSON)
	h.Set("Content-Type", encoding.ContentType())
	if auth == nil {
		return h, nil
	}
	credentials, err := authHeaders(auth)
	if err != nil {
		e := NewLogicError("authentication failed: %v", err)
		e.Err = err
		return nil, e
	}
	for k, v := range credentials {
		h.Set(k, v)
	}
	return h, nil
}
