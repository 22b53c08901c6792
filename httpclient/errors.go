package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies request failures. Exactly one kind is produced per
// failed call.
type ErrorKind int

const (
	// ErrInvalidURL indicates the base URL could not be turned into a request URL.
	ErrInvalidURL ErrorKind = iota
	// ErrEncoding indicates the query or body parameter could not be encoded.
	ErrEncoding
	// ErrDecoding indicates a successful response body could not be decoded.
	ErrDecoding
	// ErrStatusCode indicates the server answered outside the 2xx range.
	ErrStatusCode
	// ErrUnderlying indicates a transport-level failure (refused, DNS, timeout).
	ErrUnderlying
	// ErrLogic indicates a precondition violation, e.g. no base URL.
	ErrLogic
)

// String returns the error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidURL:
		return "invalid_url"
	case ErrEncoding:
		return "encoding"
	case ErrDecoding:
		return "decoding"
	case ErrStatusCode:
		return "status_code"
	case ErrUnderlying:
		return "underlying"
	case ErrLogic:
		return "logic"
	default:
		return "unknown"
	}
}

// RawResponse is the status metadata reported by an executor.
type RawResponse struct {
	StatusCode int
	Status     string
	Proto      string
	Header     http.Header
}

// String renders the response line and headers.
func (r *RawResponse) String() string {
	if r == nil {
		return "<no response>"
	}
	status := r.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", r.StatusCode, http.StatusText(r.StatusCode))
	}
	return fmt.Sprintf("%s %s %v", r.Proto, status, r.Header)
}

// RequestError is the single error type returned by the request pipeline.
// It keeps enough context to describe the failure without reissuing the
// request.
type RequestError struct {
	// Kind classifies the error.
	Kind ErrorKind
	// Code is the HTTP status code (ErrStatusCode only).
	Code int
	// Response is the raw response metadata (ErrStatusCode only).
	Response *RawResponse
	// Body holds the response bytes (ErrDecoding, ErrStatusCode).
	Body []byte
	// URL is the offending URL text (ErrInvalidURL only).
	URL string
	// Message describes logic errors.
	Message string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	switch e.Kind {
	case ErrInvalidURL:
		if e.Err != nil {
			return fmt.Sprintf("httpclient: invalid URL %q: %v", e.URL, e.Err)
		}
		return fmt.Sprintf("httpclient: invalid URL %q", e.URL)
	case ErrEncoding:
		return fmt.Sprintf("httpclient: encoding: %v", e.Err)
	case ErrDecoding:
		return fmt.Sprintf("httpclient: decoding: %v%s", e.Err, bodySuffix(e.Body))
	case ErrStatusCode:
		return fmt.Sprintf("httpclient: Code: %d, %s%s", e.Code, e.Response, bodySuffix(e.Body))
	case ErrUnderlying:
		return fmt.Sprintf("httpclient: %v", e.Err)
	case ErrLogic:
		return "httpclient: " + e.Message
	default:
		return "httpclient: unknown error"
	}
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

func bodySuffix(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	return ", JSON: " + string(body)
}

// NewInvalidURLError creates an invalid URL error.
func NewInvalidURLError(raw string, err error) *RequestError {
	return &RequestError{Kind: ErrInvalidURL, URL: raw, Err: err}
}

// NewEncodingError creates an encoding error.
func NewEncodingError(err error) *RequestError {
	return &RequestError{Kind: ErrEncoding, Err: err}
}

// NewDecodingError creates a decoding error carrying the undecodable bytes.
func NewDecodingError(err error, body []byte) *RequestError {
	return &RequestError{Kind: ErrDecoding, Err: err, Body: body}
}

// NewStatusCodeError creates a non-2xx status error.
func NewStatusCodeError(resp *RawResponse, body []byte) *RequestError {
	code := 0
	if resp != nil {
		code = resp.StatusCode
	}
	return &RequestError{Kind: ErrStatusCode, Code: code, Response: resp, Body: body}
}

// NewUnderlyingError wraps a transport-level error.
func NewUnderlyingError(err error) *RequestError {
	return &RequestError{Kind: ErrUnderlying, Err: err}
}

// NewLogicError creates a precondition error.
func NewLogicError(format string, args ...any) *RequestError {
	return &RequestError{Kind: ErrLogic, Message: fmt.Sprintf(format, args...)}
}

func isKind(err error, kind ErrorKind) bool {
	var e *RequestError
	return errors.As(err, &e) && e.Kind == kind
}

// IsInvalidURL checks if an error is an invalid URL error.
func IsInvalidURL(err error) bool { return isKind(err, ErrInvalidURL) }

// IsEncoding checks if an error is an encoding error.
func IsEncoding(err error) bool { return isKind(err, ErrEncoding) }

// IsDecoding checks if an error is a decoding error.
func IsDecoding(err error) bool { return isKind(err, ErrDecoding) }

// IsStatusCode checks if an error is a non-2xx status error.
func IsStatusCode(err error) bool { return isKind(err, ErrStatusCode) }

// IsUnderlying checks if an error is a transport-level error.
func IsUnderlying(err error) bool { return isKind(err, ErrUnderlying) }

// IsLogic checks if an error is a precondition error.
func IsLogic(err error) bool { return isKind(err, ErrLogic) }

// StatusCodeOf returns the HTTP status carried by a status code error.
func StatusCodeOf(err error) (int, bool) {
	var e *RequestError
	if errors.As(err, &e) && e.Kind == ErrStatusCode {
		return e.Code, true
	}
	return 0, false
}
