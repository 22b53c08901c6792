package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/net/publicsuffix"

	"github.com/kbukum/chimney/version"
)

// Outcome is what an executor reports for one exchange. Any combination of
// the three fields may be set; the classifier decides what it means.
type Outcome struct {
	// Body holds the bytes received, possibly partial when Err is set.
	Body []byte
	// Response is the status metadata, nil when none was received.
	Response *RawResponse
	// Err is a transport-level failure.
	Err error
}

// Executor sends a request and reports the raw outcome. It is called once
// per request; retries and caching are not its business either.
type Executor interface {
	Execute(ctx context.Context, req *Request) Outcome
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, req *Request) Outcome

// Execute implements Executor.
func (f ExecutorFunc) Execute(ctx context.Context, req *Request) Outcome {
	return f(ctx, req)
}

// HTTPExecutor is the default net/http based executor.
type HTTPExecutor struct {
	httpClient *http.Client
}

// NewHTTPExecutor creates an executor honouring the config's timeout, TLS
// settings and cookie policy.
func NewHTTPExecutor(cfg Config) (*HTTPExecutor, error) {
	cfg.ApplyDefaults()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.TLS != nil {
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, err
		}
		if tlsCfg != nil {
			transport.TLSClientConfig = tlsCfg
		}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}
	if !cfg.DisableCookies {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("httpclient: cookie jar: %w", err)
		}
		client.Jar = jar
	}

	return &HTTPExecutor{httpClient: client}, nil
}

// NewHTTPExecutorFromClient wraps an existing *http.Client.
func NewHTTPExecutorFromClient(c *http.Client) *HTTPExecutor {
	return &HTTPExecutor{httpClient: c}
}

// Execute implements Executor. The trace context of ctx is injected with the
// global propagator. A failure while reading the body is reported together
// with the bytes and status received so far.
func (e *HTTPExecutor) Execute(ctx context.Context, req *Request) Outcome {
	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return Outcome{Err: err}
	}
	if httpReq.Header.Get("User-Agent") == "" {
		httpReq.Header.Set("User-Agent", version.UserAgent())
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return Outcome{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw := &RawResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Proto:      resp.Proto,
		Header:     resp.Header,
	}

	body, err := io.ReadAll(resp.Body)
	if body == nil {
		body = []byte{}
	}
	if err != nil {
		return Outcome{Body: body, Response: raw, Err: fmt.Errorf("read response body: %w", err)}
	}
	return Outcome{Body: body, Response: raw}
}

// Unwrap returns the underlying *http.Client.
func (e *HTTPExecutor) Unwrap() *http.Client {
	return e.httpClient
}

// Close releases idle connections.
func (e *HTTPExecutor) Close() {
	e.httpClient.CloseIdleConnections()
}
