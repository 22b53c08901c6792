package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/chimney/httpclient"
	"github.com/kbukum/chimney/testutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func startAPI(t *testing.T) *testutil.TodoAPI {
	t.Helper()
	api := testutil.NewTodoAPI()
	testutil.T(t).Setup(api)
	return api
}

// run executes the root command and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&globalOptions{})
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func TestRequestCommand_Get(t *testing.T) {
	api := startAPI(t)
	cfg := writeConfig(t, "http:\n  base_url: "+api.URL()+"\n")

	out, _, err := run(t, "--config", cfg, "request", "get", "todos", "1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if !strings.Contains(out, `"title":"delectus aut autem"`) {
		t.Errorf("unexpected output: %s", out)
	}
	last, _ := api.LastRequest()
	if last.Method != "GET" || last.Path != "/todos/1" {
		t.Errorf("server saw %s %s", last.Method, last.Path)
	}
	if len(last.Body) != 0 {
		t.Errorf("GET without --data sent a body: %q", last.Body)
	}
}

func TestRequestCommand_Query(t *testing.T) {
	api := startAPI(t)
	cfg := writeConfig(t, "http:\n  base_url: "+api.URL()+"\n")

	out, _, err := run(t, "--config", cfg, "request", "GET", "todos", "--query", "userId=2")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if !strings.Contains(out, "fugiat veniam minus") || strings.Contains(out, "delectus") {
		t.Errorf("filter not applied: %s", out)
	}
	last, _ := api.LastRequest()
	if last.RawQuery != "userId=2" {
		t.Errorf("RawQuery = %q", last.RawQuery)
	}
}

func TestRequestCommand_PostJSONWithBearer(t *testing.T) {
	api := startAPI(t)
	cfg := writeConfig(t, "http:\n  base_url: "+api.URL()+"\n")

	out, _, err := run(t, "--config", cfg, "request", "POST", "todos",
		"-d", `{"title":"write docs","userId":5}`, "--bearer", "tok", "--pretty")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if !strings.Contains(out, "\n  \"title\": \"write docs\"") {
		t.Errorf("expected indented output, got: %s", out)
	}

	last, _ := api.LastRequest()
	if got := last.Header.Get("Authorization"); got != "Bearer: tok" {
		t.Errorf("Authorization = %q", got)
	}
	if got := last.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if string(last.Body) != `{"title":"write docs","userId":5}` {
		t.Errorf("body = %s", last.Body)
	}
}

func TestRequestCommand_FormEncoding(t *testing.T) {
	api := startAPI(t)
	cfg := writeConfig(t, "http:\n  base_url: "+api.URL()+"\n")

	_, _, err := run(t, "--config", cfg, "request", "POST", "todos",
		"--encoding", "query", "-d", `{"title":"a b","userId":3,"completed":null}`)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	last, _ := api.LastRequest()
	if string(last.Body) != "title=a+b&userId=3" {
		t.Errorf("body = %q", last.Body)
	}
	if got := last.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestRequestCommand_DataFromFile(t *testing.T) {
	api := startAPI(t)
	cfg := writeConfig(t, "http:\n  base_url: "+api.URL()+"\n")
	data := filepath.Join(t.TempDir(), "todo.json")
	if err := os.WriteFile(data, []byte("{\"title\":\"from file\"}\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := run(t, "--config", cfg, "request", "PUT", "todos", "2", "-d", "@"+data); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	last, _ := api.LastRequest()
	if string(last.Body) != `{"title":"from file"}` {
		t.Errorf("body = %q", last.Body)
	}
}

func TestRequestCommand_StatusError(t *testing.T) {
	api := startAPI(t)
	cfg := writeConfig(t, "http:\n  base_url: "+api.URL()+"\n")

	out, stderr, err := run(t, "--config", cfg, "request", "GET", "status", "404")
	if !httpclient.IsStatusCode(err) {
		t.Fatalf("expected status code error, got %v", err)
	}
	if code, _ := httpclient.StatusCodeOf(err); code != 404 {
		t.Errorf("code = %d", code)
	}
	if !strings.Contains(out, `"code":404`) {
		t.Errorf("error body not printed: %q", out)
	}
	if !strings.Contains(stderr, "unsuccessful response") {
		t.Errorf("status observer did not log: %q", stderr)
	}
}

func TestRequestCommand_BaseURLFlagAndBasicAuth(t *testing.T) {
	api := startAPI(t)
	cfg := writeConfig(t, "http:\n  base_url: http://127.0.0.1:1\n  auth:\n    type: bearer\n    token: from-config\n")

	_, _, err := run(t, "--config", cfg, "request", "GET", "todos",
		"--base-url", api.URL(), "--basic", "omg:lol")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	last, _ := api.LastRequest()
	if got := last.Header.Get("Authorization"); got != "Basic b21nOmxvbA==" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestRequestCommand_ConfigAuth(t *testing.T) {
	api := startAPI(t)
	cfg := writeConfig(t, "http:\n  base_url: "+api.URL()+"\n  auth:\n    type: bearer\n    token: from-config\n")

	if _, _, err := run(t, "--config", cfg, "request", "GET", "todos"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	last, _ := api.LastRequest()
	if got := last.Header.Get("Authorization"); got != "Bearer: from-config" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestRequestCommand_VerboseLogsDiagnostic(t *testing.T) {
	api := startAPI(t)
	cfg := writeConfig(t, "http:\n  base_url: "+api.URL()+"\n")

	_, stderr, err := run(t, "--config", cfg, "-v", "request", "GET", "todos", "3", "--bearer", "secret-token")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if !strings.Contains(stderr, "request diagnostic") {
		t.Errorf("expected diagnostic in stderr, got: %s", stderr)
	}
	if strings.Contains(stderr, "secret-token") {
		t.Error("credentials leaked into the diagnostic log")
	}
}

func TestRequestCommand_DebugConfigLogsDiagnostic(t *testing.T) {
	api := startAPI(t)
	cfg := writeConfig(t, "debug: true\nhttp:\n  base_url: "+api.URL()+"\n")

	_, stderr, err := run(t, "--config", cfg, "request", "GET", "todos", "1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if !strings.Contains(stderr, "request diagnostic") {
		t.Errorf("debug: true should log diagnostics, got: %s", stderr)
	}

	_, stderr, err = run(t, "--config", cfg, "-q", "request", "GET", "todos", "1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if strings.Contains(stderr, "request diagnostic") {
		t.Errorf("--quiet should override debug: true, got: %s", stderr)
	}
}

func TestRequestCommand_Errors(t *testing.T) {
	cfg := writeConfig(t, "http:\n  base_url: http://127.0.0.1:1\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no method", []string{"request"}, "requires at least 1 arg"},
		{"bad method", []string{"request", "TRACE", "x"}, "unsupported method"},
		{"bad query", []string{"request", "GET", "x", "--query", "novalue"}, "expected key=value"},
		{"bad encoding", []string{"request", "POST", "x", "--encoding", "xml"}, "unknown encoding"},
		{"bad data", []string{"request", "POST", "x", "-d", "{nope"}, "not valid JSON"},
		{"bad basic", []string{"request", "GET", "x", "--basic", "nocolon"}, "user:pass"},
		{"bearer and basic", []string{"request", "GET", "x", "--basic", "a:b", "--bearer", "t"}, "none of the others can be"},
		{"nested form", []string{"request", "POST", "x", "--encoding", "query", "-d", `{"a":{"b":1}}`}, "nested"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, append([]string{"--config", cfg}, tt.args...)...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not contain %q", err, tt.want)
			}
		})
	}
}

func TestRequestCommand_Unreachable(t *testing.T) {
	cfg := writeConfig(t, "http:\n  base_url: http://127.0.0.1:1\n  timeout: 2s\n")

	_, _, err := run(t, "--config", cfg, "request", "GET", "todos")
	if !httpclient.IsUnderlying(err) {
		t.Fatalf("expected underlying error, got %v", err)
	}
}

func TestCurlCommand(t *testing.T) {
	cfg := writeConfig(t, "http:\n  base_url: https://api.example.com\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "json body with basic auth",
			args: []string{"curl", "POST", "todos", "-d", `{"title":"x"}`, "--basic", "omg:lol"},
			want: `curl -X POST -H 'Accept: application/json' -H 'Authorization: Basic b21nOmxvbA==' -H 'Content-Type: application/json' -d '{"title":"x"}' https://api.example.com/todos`,
		},
		{
			name: "form body",
			args: []string{"curl", "POST", "todos", "--encoding", "query", "-d", `{"title":"a b","userId":3}`},
			want: `curl -X POST -H 'Accept: application/json' -H 'Content-Type: application/x-www-form-urlencoded' -F 'title=a b' -F userId=3 https://api.example.com/todos`,
		},
		{
			name: "absolute segment with query",
			args: []string{"curl", "GET", "https://other.example.com/v2", "items", "--query", "page=2", "--query", "sort=asc"},
			want: `curl -X GET -H 'Accept: application/json' -H 'Content-Type: application/json' 'https://other.example.com/v2/items?page=2&sort=asc'`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, append([]string{"--config", cfg}, tt.args...)...)
			if err != nil {
				t.Fatalf("curl failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, strings.TrimSpace(out)); diff != "" {
				t.Errorf("curl mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCurlCommand_NoBaseURL(t *testing.T) {
	cfg := writeConfig(t, "name: chimney\n")

	_, _, err := run(t, "--config", cfg, "curl", "GET", "todos")
	if !httpclient.IsLogic(err) {
		t.Fatalf("expected logic error, got %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "chimney version ") {
		t.Errorf("unexpected output: %q", out)
	}

	out, _, err = run(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json failed: %v", err)
	}
	if !strings.Contains(out, `"version":`) {
		t.Errorf("unexpected JSON output: %q", out)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "http:\n  base_url: https://api.example.com\n  timeout: 5s\n  pretty_logging: true\n")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Name != "chimney" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.HTTP.BaseURL != "https://api.example.com" || cfg.HTTP.Timeout != 5*time.Second || !cfg.HTTP.PrettyLogging {
		t.Errorf("unexpected http config %+v", cfg.HTTP)
	}
	if cfg.Observability != nil {
		t.Errorf("observability should be off by default")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"log level", "logging:\n  level: loud\n"},
		{"base url", "http:\n  base_url: not a url\n"},
		{"auth type", "http:\n  auth:\n    type: digest\n"},
		{"sample rate", "observability:\n  tracing:\n    sample_rate: 2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := loadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestRawCodec(t *testing.T) {
	var body []byte
	if err := (rawCodec{}).Unmarshal([]byte("plain text"), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if string(body) != "plain text" {
		t.Errorf("body = %q", body)
	}

	var m map[string]int
	if err := (rawCodec{}).Unmarshal([]byte(`{"a":1}`), &m); err != nil || m["a"] != 1 {
		t.Errorf("fallback decode failed: %v %v", m, err)
	}
}
