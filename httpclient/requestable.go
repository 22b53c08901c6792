package httpclient

import (
	"context"
	"net/http"
	"reflect"
)

// None is the parameter or response type of requests that carry no body, or
// whose response body is ignored.
type None struct{}

// Result is delivered by Requestable.Go.
type Result[R any] struct {
	Value R
	Err   error
}

// Requestable describes a family of requests with body parameter type P and
// response type R. The zero value is a JSON GET against the client's base
// URL.
//
//	var getTodo = httpclient.Requestable[httpclient.None, Todo]{}
//	todo, err := getTodo.Do(ctx, client, httpclient.Segments("todos", "1"))
type Requestable[P, R any] struct {
	// Method defaults to GET.
	Method string
	// Encoding selects the Content-Type and body encoding.
	Encoding ParameterEncoding
	// Endpoint, when set, replaces the client's base URL and authentication.
	Endpoint *Endpoint
	// Codec defaults to DefaultCodec.
	Codec Codec
}

type requestSpec struct {
	endpoint *Endpoint
	path     PathProvider
	param    any
	hasParam bool
	method   string
	encoding ParameterEncoding
	codec    Codec
}

// Do sends a request without a body and decodes the response.
func (r Requestable[P, R]) Do(ctx context.Context, c *Client, path PathProvider) (R, error) {
	return r.run(ctx, c, r.spec(path, nil, false))
}

// DoWith sends param as the request body and decodes the response. An absent
// parameter (None, or a nil pointer, map or slice) sends no body.
func (r Requestable[P, R]) DoWith(ctx context.Context, c *Client, path PathProvider, param P) (R, error) {
	return r.run(ctx, c, r.spec(path, param, !isAbsent(param)))
}

// Go runs DoWith in a goroutine. The channel receives exactly one Result.
func (r Requestable[P, R]) Go(ctx context.Context, c *Client, path PathProvider, param P) <-chan Result[R] {
	ch := make(chan Result[R], 1)
	go func() {
		v, err := r.DoWith(ctx, c, path, param)
		ch <- Result[R]{Value: v, Err: err}
	}()
	return ch
}

// Prepare builds the request DoWith would send, without sending it.
func (r Requestable[P, R]) Prepare(c *Client, path PathProvider, param P) (*Request, error) {
	return c.prepare(r.spec(path, param, !isAbsent(param)))
}

func (r Requestable[P, R]) spec(path PathProvider, param any, hasParam bool) requestSpec {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	codec := r.Codec
	if codec == nil {
		codec = DefaultCodec
	}
	return requestSpec{
		endpoint: r.Endpoint,
		path:     path,
		param:    param,
		hasParam: hasParam,
		method:   method,
		encoding: r.Encoding,
		codec:    codec,
	}
}

func (r Requestable[P, R]) run(ctx context.Context, c *Client, spec requestSpec) (R, error) {
	var zero R

	req, err := c.prepare(spec)
	if err != nil {
		return zero, err
	}

	body, err := c.invoke(ctx, req, spec.encoding)
	if err != nil {
		return zero, err
	}

	return decode[R](spec.codec, body)
}

// decode maps response bytes to R. A None response skips the codec.
func decode[R any](codec Codec, body []byte) (R, error) {
	var v R
	if isNone(v) {
		return v, nil
	}
	if err := codec.Unmarshal(body, &v); err != nil {
		var zero R
		return zero, NewDecodingError(err, body)
	}
	return v, nil
}

func isNone(v any) bool {
	switch v.(type) {
	case None, *None:
		return true
	}
	return false
}

// isAbsent reports whether v stands for "no value": None, a nil interface,
// or a nil pointer, map or slice.
func isAbsent(v any) bool {
	if v == nil || isNone(v) {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
