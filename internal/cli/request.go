package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kbukum/chimney/httpclient"
)

var methods = []string{
	httpclient.MethodGet,
	httpclient.MethodPost,
	httpclient.MethodPut,
	httpclient.MethodPatch,
	httpclient.MethodDelete,
}

// requestOptions are the flags shared by request and curl.
type requestOptions struct {
	query    []string
	data     string
	encoding string
	baseURL  string
	bearer   string
	basic    string
	pretty   bool
}

func (o *requestOptions) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringArrayVar(&o.query, "query", nil, "Query parameter as key=value (repeatable)")
	fs.StringVarP(&o.data, "data", "d", "", "JSON body parameter, or @file to read it from a file")
	fs.StringVar(&o.encoding, "encoding", "json", "Body encoding: json or query (form)")
	fs.StringVar(&o.baseURL, "base-url", "", "Base URL, overrides http.base_url")
	fs.StringVar(&o.bearer, "bearer", "", "Bearer token")
	fs.StringVar(&o.basic, "basic", "", "Basic credentials as user:pass")
	fs.BoolVar(&o.pretty, "pretty", false, "Indent JSON bodies in output and diagnostics")
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	cmd.MarkFlagsMutuallyExclusive("bearer", "basic")
}

// apply overrides the loaded HTTP config with command-line values.
func (o *requestOptions) apply(cfg *httpclient.Config) error {
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	if o.bearer != "" {
		cfg.Auth = httpclient.BearerAuth{Token: o.bearer}
	}
	if o.basic != "" {
		user, pass, ok := strings.Cut(o.basic, ":")
		if !ok || user == "" {
			return errors.New("--basic must be user:pass")
		}
		cfg.Auth = httpclient.BasicAuth{Username: user, Password: pass}
	}
	if o.pretty {
		cfg.PrettyLogging = true
	}
	return nil
}

// call is one request described on the command line.
type call struct {
	method   string
	path     httpclient.Path
	encoding httpclient.ParameterEncoding
	// data is nil when the request has no body.
	data json.RawMessage
}

// parse turns METHOD SEGMENT... and the flags into a call.
func (o *requestOptions) parse(args []string) (*call, error) {
	method := strings.ToUpper(args[0])
	if !validMethod(method) {
		return nil, fmt.Errorf("unsupported method %q (want one of %s)", args[0], strings.Join(methods, ", "))
	}

	c := &call{method: method, path: httpclient.Segments(args[1:]...)}

	if len(o.query) > 0 {
		query := make(map[string]string, len(o.query))
		for _, kv := range o.query {
			k, v, ok := strings.Cut(kv, "=")
			if !ok || k == "" {
				return nil, fmt.Errorf("--query %q: expected key=value", kv)
			}
			query[k] = v
		}
		c.path = c.path.WithQuery(query)
	}

	switch strings.ToLower(o.encoding) {
	case "", "json":
		c.encoding = httpclient.EncodingJSON
	case "query", "form":
		c.encoding = httpclient.EncodingQuery
	default:
		return nil, fmt.Errorf("unknown encoding %q (want json or query)", o.encoding)
	}

	if o.data != "" {
		data := []byte(o.data)
		if name, ok := strings.CutPrefix(o.data, "@"); ok {
			b, err := os.ReadFile(name)
			if err != nil {
				return nil, fmt.Errorf("read --data file: %w", err)
			}
			data = bytes.TrimSpace(b)
		}
		if !json.Valid(data) {
			return nil, errors.New("--data is not valid JSON")
		}
		c.data = data
	}
	return c, nil
}

func validMethod(m string) bool {
	for _, v := range methods {
		if v == m {
			return true
		}
	}
	return false
}

// prepare builds the request without sending it.
func (c *call) prepare(client *httpclient.Client) (*httpclient.Request, error) {
	if c.data == nil {
		return c.withoutBody().Prepare(client, c.path, httpclient.None{})
	}
	return c.withBody().Prepare(client, c.path, c.data)
}

// send issues the request and returns the raw response body.
func (c *call) send(ctx context.Context, client *httpclient.Client) ([]byte, error) {
	if c.data == nil {
		return c.withoutBody().Do(ctx, client, c.path)
	}
	return c.withBody().DoWith(ctx, client, c.path, c.data)
}

func (c *call) withoutBody() httpclient.Requestable[httpclient.None, []byte] {
	return httpclient.Requestable[httpclient.None, []byte]{Method: c.method, Encoding: c.encoding, Codec: rawCodec{}}
}

func (c *call) withBody() httpclient.Requestable[json.RawMessage, []byte] {
	return httpclient.Requestable[json.RawMessage, []byte]{Method: c.method, Encoding: c.encoding, Codec: rawCodec{}}
}

// rawCodec encodes parameters with the default codec and hands response
// bodies back untouched, so any content type can be printed.
type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) {
	return httpclient.DefaultCodec.Marshal(v)
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	p, ok := v.(*[]byte)
	if !ok {
		return httpclient.DefaultCodec.Unmarshal(data, v)
	}
	*p = append([]byte(nil), data...)
	return nil
}

func newRequestCommand(g *globalOptions) *cobra.Command {
	opts := &requestOptions{}
	cmd := &cobra.Command{
		Use:   "request METHOD [SEGMENT...]",
		Short: "Send a request and print the response body",
		Long: `Send one request through the pipeline and print the response body.

Segments are appended to the base URL. A first segment starting with
http:// or https:// replaces the base URL entirely.

Non-2xx responses print the body and exit with an error.`,
		Example: `  chimney request GET todos 1 --base-url https://jsonplaceholder.typicode.com
  chimney request POST todos -d '{"title":"write docs"}' --bearer $TOKEN
  chimney request GET https://api.example.com search --query q=chimney`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, g, opts, args)
		},
	}
	opts.register(cmd)
	return cmd
}

func runRequest(cmd *cobra.Command, g *globalOptions, opts *requestOptions, args []string) error {
	c, err := opts.parse(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(ctx, cmd, g, opts)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	body, err := c.send(ctx, s.client)
	if err != nil {
		var reqErr *httpclient.RequestError
		if errors.As(err, &reqErr) && reqErr.Kind == httpclient.ErrStatusCode {
			writeBody(cmd, reqErr.Body, opts.pretty)
		}
		return err
	}
	writeBody(cmd, body, opts.pretty)
	return nil
}

func writeBody(cmd *cobra.Command, body []byte, pretty bool) {
	if len(body) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, body, "", "  "); err == nil {
			body = buf.Bytes()
		}
	}
	_, _ = out.Write(body)
	if body[len(body)-1] != '\n' {
		_, _ = fmt.Fprintln(out)
	}
}
