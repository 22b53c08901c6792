package httpclient

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/chimney/logger"
	"github.com/kbukum/chimney/observability"
)

// StatusObserver is notified of every response outside the 2xx range, e.g.
// to react to expired credentials. It runs synchronously before the error is
// returned to the caller.
type StatusObserver func(ctx context.Context, code int, req *Request)

// Client holds an immutable configuration snapshot and the collaborators of
// the request pipeline. It is safe for concurrent use.
type Client struct {
	config   Config
	executor Executor
	log      *logger.Logger
	sink     DiagnosticSink
	observer StatusObserver
	metrics  *observability.Metrics
	owned    *HTTPExecutor
}

// Option configures a Client.
type Option func(*Client)

// WithExecutor replaces the default net/http executor.
func WithExecutor(e Executor) Option {
	return func(c *Client) { c.executor = e }
}

// WithLogger sets the logger used by the default diagnostic sink.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithDiagnosticSink replaces the default log sink.
func WithDiagnosticSink(s DiagnosticSink) Option {
	return func(c *Client) { c.sink = s }
}

// WithStatusObserver registers a hook for non-2xx responses.
func WithStatusObserver(o StatusObserver) Option {
	return func(c *Client) { c.observer = o }
}

// WithMetrics records request metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client from cfg. The config is copied; later changes to cfg
// do not affect the client.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.Get("httpclient")
	}
	if c.sink == nil {
		c.sink = LogSink{Logger: c.log}
	}
	if c.executor == nil {
		e, err := NewHTTPExecutor(cfg)
		if err != nil {
			return nil, err
		}
		c.executor = e
		c.owned = e
	}
	return c, nil
}

// WithConfig returns a new client using cfg and the same collaborators. An
// executor created by New is rebuilt so timeout and TLS changes apply.
func (c *Client) WithConfig(cfg Config) (*Client, error) {
	opts := []Option{
		WithLogger(c.log),
		WithDiagnosticSink(c.sink),
		WithStatusObserver(c.observer),
		WithMetrics(c.metrics),
	}
	if c.owned == nil {
		opts = append(opts, WithExecutor(c.executor))
	}
	return New(cfg, opts...)
}

// Config returns a copy of the client's configuration.
func (c *Client) Config() Config {
	return c.config
}

// Close releases idle connections of the default executor.
func (c *Client) Close() {
	if c.owned != nil {
		c.owned.Close()
	}
}

// prepare resolves endpoint and path and builds the request. Nothing is sent.
func (c *Client) prepare(spec requestSpec) (*Request, error) {
	base, auth := resolveEndpoint(spec.endpoint, &c.config)

	p := spec.path.PathComponents()
	base, segments, err := resolvePath(p, base)
	if err != nil {
		return nil, err
	}

	return buildRequest(buildSpec{
		baseURL:  base,
		segments: segments,
		query:    p.Query,
		param:    spec.param,
		hasParam: spec.hasParam,
		method:   spec.method,
		encoding: spec.encoding,
		codec:    spec.codec,
		auth:     auth,
	})
}

// invoke runs the executor once and classifies the outcome. It is the only
// blocking step of a call.
func (c *Client) invoke(ctx context.Context, req *Request, encoding ParameterEncoding) ([]byte, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPRequest,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(observability.AttrHTTPMethod, req.Method),
			attribute.String(observability.AttrHTTPURL, req.URL.Redacted()),
		),
	)
	defer span.End()

	if c.metrics != nil {
		c.metrics.RecordRequestStart(ctx)
	}

	start := time.Now()
	outcome := c.executor.Execute(ctx, req)
	elapsed := time.Since(start)

	body, err := classify(outcome)

	status := "none"
	if outcome.Response != nil {
		status = strconv.Itoa(outcome.Response.StatusCode)
		span.SetAttributes(attribute.Int(observability.AttrHTTPStatusCode, outcome.Response.StatusCode))
	}
	if c.metrics != nil {
		c.metrics.RecordRequestEnd(ctx, req.Method, req.URL.Host, status, elapsed)
	}

	if err != nil {
		kind := errorKind(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		span.SetAttributes(attribute.String(observability.AttrErrorKind, kind))
		if c.metrics != nil {
			c.metrics.RecordError(ctx, kind, req.Method)
		}
	}

	diag := newDiagnostic(req, encoding, outcome, err, elapsed, c.config.PrettyLogging)
	span.SetAttributes(attribute.String(observability.AttrRequestID, diag.ID))
	c.sink.Record(ctx, diag)

	if c.observer != nil && outcome.Err == nil && outcome.Response != nil && !isSuccess(outcome.Response.StatusCode) {
		c.observer(ctx, outcome.Response.StatusCode, req)
	}

	return body, err
}

func errorKind(err error) string {
	if e, ok := err.(*RequestError); ok {
		return e.Kind.String()
	}
	return "unknown"
}
