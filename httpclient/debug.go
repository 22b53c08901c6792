package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"

	"github.com/kbukum/chimney/logger"
)

const redacted = "[REDACTED]"

// Headers whose values are credentials.
var sensitiveHeaders = map[string]bool{
	"Authorization":       true,
	"Proxy-Authorization": true,
	"Cookie":              true,
	"Set-Cookie":          true,
	"X-Api-Key":           true,
}

// Query parameter names whose values are credentials.
var sensitiveParams = []string{
	"api_key", "apikey", "api-key",
	"token", "access_token", "refresh_token", "id_token",
	"secret", "client_secret",
	"password", "passwd",
	"key", "signature", "sig",
}

// Diagnostic describes one request/response exchange.
type Diagnostic struct {
	ID       string              `yaml:"id"`
	Curl     string              `yaml:"curl"`
	Request  DiagnosticRequest   `yaml:"request"`
	Response *DiagnosticResponse `yaml:"response,omitempty"`
	Error    string              `yaml:"error,omitempty"`
	Duration time.Duration       `yaml:"duration"`

	form bool
}

// DiagnosticRequest is the request half of a Diagnostic.
type DiagnosticRequest struct {
	Method string            `yaml:"method"`
	URL    string            `yaml:"url"`
	Header map[string]string `yaml:"header,omitempty"`
	Body   string            `yaml:"body,omitempty"`

	rawBody []byte
}

// DiagnosticResponse is the response half of a Diagnostic.
type DiagnosticResponse struct {
	Code   int               `yaml:"code"`
	Header map[string]string `yaml:"header,omitempty"`
	Body   string            `yaml:"body,omitempty"`
}

// newDiagnostic captures the request, the executor outcome and the final
// error of one invocation.
func newDiagnostic(req *Request, encoding ParameterEncoding, o Outcome, err error, d time.Duration, pretty bool) Diagnostic {
	diag := Diagnostic{
		ID: uuid.NewString(),
		Request: DiagnosticRequest{
			Method:  req.Method,
			URL:     req.URL.String(),
			Header:  flattenHeader(req.Header),
			Body:    renderBody(req.Body, pretty),
			rawBody: req.Body,
		},
		Duration: d,
		form:     encoding.IsQuery(),
	}
	if o.Response != nil {
		diag.Response = &DiagnosticResponse{
			Code:   o.Response.StatusCode,
			Header: flattenHeader(o.Response.Header),
			Body:   renderBody(o.Body, pretty),
		}
	}
	if err != nil {
		diag.Error = err.Error()
	}
	diag.Curl = diag.curl()
	return diag
}

// YAML renders the diagnostic as a YAML document.
func (d Diagnostic) YAML() (string, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Redacted returns a copy with credential headers and query parameters
// masked. The curl line is rebuilt from the masked values.
func (d Diagnostic) Redacted() Diagnostic {
	d.Request.Header = redactHeader(d.Request.Header)
	d.Request.URL = redactURL(d.Request.URL)
	if d.Response != nil {
		resp := *d.Response
		resp.Header = redactHeader(resp.Header)
		d.Response = &resp
	}
	d.Curl = d.curl()
	return d
}

// curl renders a shell command reproducing the request. Query-encoded bodies
// are written as one -F per form pair.
func (d Diagnostic) curl() string {
	parts := []string{"curl", "-X", d.Request.Method}

	names := make([]string, 0, len(d.Request.Header))
	for name := range d.Request.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		parts = append(parts, "-H", shellescape.Quote(name+": "+d.Request.Header[name]))
	}

	if len(d.Request.rawBody) > 0 {
		if d.form {
			for _, pair := range strings.Split(string(d.Request.rawBody), "&") {
				if pair == "" {
					continue
				}
				if unescaped, err := url.QueryUnescape(pair); err == nil {
					pair = unescaped
				}
				parts = append(parts, "-F", shellescape.Quote(pair))
			}
		} else {
			parts = append(parts, "-d", shellescape.Quote(string(d.Request.rawBody)))
		}
	}

	parts = append(parts, shellescape.Quote(d.Request.URL))
	return strings.Join(parts, " ")
}

func flattenHeader(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}

// renderBody returns indented JSON when pretty is set and the body is JSON,
// the raw text otherwise.
func renderBody(body []byte, pretty bool) string {
	if len(body) == 0 {
		return ""
	}
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err == nil {
			return buf.String()
		}
	}
	return string(body)
}

func redactHeader(h map[string]string) map[string]string {
	if h == nil {
		return nil
	}
	out := make(map[string]string, len(h))
	for k, v := range h {
		if sensitiveHeaders[http.CanonicalHeaderKey(k)] {
			v = redacted
		}
		out[k] = v
	}
	return out
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), redacted)
		}
	}
	if u.RawQuery != "" {
		q := u.Query()
		changed := false
		for name := range q {
			if isSensitiveParam(name) {
				q.Set(name, redacted)
				changed = true
			}
		}
		if changed {
			u.RawQuery = q.Encode()
		}
	}
	return u.String()
}

func isSensitiveParam(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range sensitiveParams {
		if lower == p {
			return true
		}
	}
	return false
}

// DiagnosticSink receives a Diagnostic for every invocation. Sinks must not
// block; they never influence the result of a request.
type DiagnosticSink interface {
	Record(ctx context.Context, d Diagnostic)
}

// DiagnosticSinkFunc adapts a function to DiagnosticSink.
type DiagnosticSinkFunc func(ctx context.Context, d Diagnostic)

// Record implements DiagnosticSink.
func (f DiagnosticSinkFunc) Record(ctx context.Context, d Diagnostic) {
	f(ctx, d)
}

// LogSink writes diagnostics to a logger at debug level. Credentials are
// redacted unless ShowCredentials is set. When ctx carries a span the line
// is tagged with its trace and span IDs.
type LogSink struct {
	Logger          *logger.Logger
	ShowCredentials bool
}

// Record implements DiagnosticSink.
func (s LogSink) Record(ctx context.Context, d Diagnostic) {
	log := s.Logger
	if log == nil {
		log = logger.Get("httpclient")
	}
	if !log.DebugEnabled() {
		return
	}
	if !s.ShowCredentials {
		d = d.Redacted()
	}

	fields := logger.Fields(
		logger.FieldRequestID, d.ID,
		logger.FieldMethod, d.Request.Method,
		logger.FieldURL, d.Request.URL,
		logger.FieldDuration, d.Duration.Milliseconds(),
	)
	if d.Response != nil {
		fields[logger.FieldStatus] = d.Response.Code
	}
	if d.Error != "" {
		fields[logger.FieldError] = d.Error
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields[logger.FieldTraceID] = sc.TraceID().String()
		fields[logger.FieldSpanID] = sc.SpanID().String()
	}

	doc, err := d.YAML()
	if err != nil {
		fields["curl"] = d.Curl
		log.Debug("request diagnostic", fields)
		return
	}
	fields["diagnostic"] = doc
	log.Debug("request diagnostic", fields)
}

// CurlCommand renders a shell command reproducing req.
func CurlCommand(req *Request, encoding ParameterEncoding) string {
	d := Diagnostic{
		Request: DiagnosticRequest{
			Method:  req.Method,
			URL:     req.URL.String(),
			Header:  flattenHeader(req.Header),
			rawBody: req.Body,
		},
		form: encoding.IsQuery(),
	}
	return d.curl()
}
