package httpclient

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type todoQuery struct {
	UserID    int     `json:"userId"`
	Completed *bool   `json:"completed"`
	Title     string  `json:"title,omitempty"`
	Score     float64 `json:"score,omitempty"`
}

func TestBuildRequest_URL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		segments []string
		query    any
		want     string
	}{
		{"join", "https://api.example.com", []string{"todos", "1"}, nil, "https://api.example.com/todos/1"},
		{"trailing slash", "https://api.example.com/", []string{"todos"}, nil, "https://api.example.com/todos"},
		{"base path", "https://api.example.com/v1", []string{"todos"}, nil, "https://api.example.com/v1/todos"},
		{"no segments", "https://api.example.com/v1", nil, nil, "https://api.example.com/v1"},
		{"escaped segment", "https://api.example.com", []string{"a b"}, nil, "https://api.example.com/a%20b"},
		{"sorted query", "https://api.example.com", []string{"todos"}, map[string]any{"b": 2, "a": "x y", "c": true}, "https://api.example.com/todos?a=x+y&b=2&c=true"},
		{"null omitted", "https://api.example.com", []string{"todos"}, todoQuery{UserID: 1}, "https://api.example.com/todos?userId=1"},
		{"query replaces base query", "https://api.example.com?old=1", nil, map[string]int{"new": 2}, "https://api.example.com?new=2"},
		{"empty segments skipped", "https://api.example.com", []string{"", "todos", ""}, nil, "https://api.example.com/todos"},
		{"only empty segments", "https://api.example.com/v1", []string{""}, nil, "https://api.example.com/v1"},
		{"nil pointer query is absent", "https://api.example.com?keep=1", []string{"todos"}, (*todoQuery)(nil), "https://api.example.com/todos?keep=1"},
		{"nil map query is absent", "https://api.example.com", []string{"todos"}, map[string]string(nil), "https://api.example.com/todos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := buildRequest(buildSpec{
				baseURL:  tt.base,
				segments: tt.segments,
				query:    tt.query,
				method:   MethodGet,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := req.URL.String(); got != tt.want {
				t.Errorf("URL = %q, want %q", got, tt.want)
			}
			if req.Body != nil {
				t.Errorf("expected no body, got %q", req.Body)
			}
		})
	}
}

func TestBuildRequest_InvalidURL(t *testing.T) {
	for _, base := range []string{"::not a url", "api.example.com", "/relative"} {
		_, err := buildRequest(buildSpec{baseURL: base, method: MethodGet})
		if !IsInvalidURL(err) {
			t.Errorf("base %q: expected invalid URL error, got %v", base, err)
		}
	}
}

func TestBuildRequest_QueryEncodingErrors(t *testing.T) {
	tests := []struct {
		name  string
		query any
	}{
		{"array", []int{1, 2}},
		{"scalar", 42},
		{"nested object", map[string]any{"filter": map[string]int{"a": 1}}},
		{"nested array", map[string]any{"ids": []int{1, 2}}},
		{"unmarshalable", map[string]any{"ch": make(chan int)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildRequest(buildSpec{baseURL: "https://api.example.com", query: tt.query, method: MethodGet})
			if !IsEncoding(err) {
				t.Errorf("expected encoding error, got %v", err)
			}
		})
	}
}

func upper(b []byte) ([]byte, error) { return bytes.ToUpper(b), nil }

func TestBuildRequest_Body(t *testing.T) {
	param := todoQuery{UserID: 7, Title: "x"}
	tests := []struct {
		name        string
		encoding    ParameterEncoding
		wantBody    string
		contentType string
	}{
		{"json", EncodingJSON, `{"userId":7,"completed":null,"title":"x"}`, "application/json"},
		{"query", EncodingQuery, "title=x&userId=7", "application/x-www-form-urlencoded"},
		{"custom", CustomEncoding("text/plain", upper), `{"USERID":7,"COMPLETED":NULL,"TITLE":"X"}`, "text/plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := buildRequest(buildSpec{
				baseURL:  "https://api.example.com",
				segments: []string{"todos"},
				param:    param,
				hasParam: true,
				method:   MethodPost,
				encoding: tt.encoding,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(req.Body) != tt.wantBody {
				t.Errorf("body = %q, want %q", req.Body, tt.wantBody)
			}
			if got := req.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if req.Method != MethodPost {
				t.Errorf("method = %q", req.Method)
			}
		})
	}
}

func TestBuildRequest_CustomNilMeansNoBody(t *testing.T) {
	enc := CustomEncoding("application/octet-stream", func([]byte) ([]byte, error) { return nil, nil })
	req, err := buildRequest(buildSpec{baseURL: "https://api.example.com", param: 1, hasParam: true, method: MethodPut, encoding: enc})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Body != nil {
		t.Errorf("expected no body, got %q", req.Body)
	}
}

func TestBuildRequest_CustomTransformError(t *testing.T) {
	enc := CustomEncoding("text/plain", func([]byte) ([]byte, error) { return nil, errors.New("nope") })
	_, err := buildRequest(buildSpec{baseURL: "https://api.example.com", param: 1, hasParam: true, method: MethodPut, encoding: enc})
	if !IsEncoding(err) {
		t.Errorf("expected encoding error, got %v", err)
	}
}

func TestBuildRequest_Headers(t *testing.T) {
	req, err := buildRequest(buildSpec{
		baseURL: "https://api.example.com",
		method:  MethodGet,
		auth:    BasicAuth{Username: "omg", Password: "lol"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string][]string{
		"Accept":        {"application/json"},
		"Content-Type":  {"application/json"},
		"Authorization": {"Basic b21nOmxvbA=="},
	}
	if diff := cmp.Diff(want, map[string][]string(req.Header)); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
}

type headerAuth map[string]string

func (h headerAuth) AuthorizationHeader() map[string]string { return h }

func TestBuildRequest_AuthWinsOnCollision(t *testing.T) {
	req, err := buildRequest(buildSpec{
		baseURL: "https://api.example.com",
		method:  MethodGet,
		auth:    headerAuth{"Content-Type": "application/vnd.custom+json", "X-Api-Key": "k"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := req.Header.Get("Content-Type"); got != "application/vnd.custom+json" {
		t.Errorf("Content-Type = %q, want auth value", got)
	}
	if got := req.Header.Get("X-Api-Key"); got != "k" {
		t.Errorf("X-Api-Key = %q", got)
	}
}

type failingAuth struct{ err error }

func (a failingAuth) AuthorizationHeader() map[string]string { return map[string]string{} }

func (a failingAuth) Headers() (map[string]string, error) { return nil, a.err }

func TestBuildRequest_AuthFailure(t *testing.T) {
	cause := errors.New("key unavailable")
	_, err := buildRequest(buildSpec{
		baseURL: "https://api.example.com",
		method:  MethodGet,
		auth:    failingAuth{err: cause},
	})
	if !IsLogic(err) {
		t.Fatalf("expected logic error, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped, got %v", err)
	}
	if !strings.Contains(err.Error(), "authentication failed") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestIsAbsent(t *testing.T) {
	var nilIface Authentication
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, true},
		{"nil interface", nilIface, true},
		{"None", None{}, true},
		{"nil *None", (*None)(nil), true},
		{"nil pointer", (*todoQuery)(nil), true},
		{"nil map", map[string]any(nil), true},
		{"nil slice", []int(nil), true},
		{"struct", todoQuery{}, false},
		{"pointer", &todoQuery{}, false},
		{"empty map", map[string]any{}, false},
		{"zero int", 0, false},
		{"empty string", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAbsent(tt.v); got != tt.want {
				t.Errorf("isAbsent(%#v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestRequest_HTTPRequest(t *testing.T) {
	req, err := buildRequest(buildSpec{
		baseURL:  "https://api.example.com",
		segments: []string{"todos"},
		param:    map[string]int{"a": 1},
		hasParam: true,
		method:   MethodPost,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	httpReq, err := req.HTTPRequest(t.Context())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if httpReq.ContentLength != int64(len(`{"a":1}`)) {
		t.Errorf("ContentLength = %d", httpReq.ContentLength)
	}
	httpReq.Header.Set("X-Mutated", "1")
	if req.Header.Get("X-Mutated") != "" {
		t.Error("request headers must not be shared with the http.Request")
	}
	if !strings.HasSuffix(httpReq.URL.Path, "/todos") {
		t.Errorf("path = %q", httpReq.URL.Path)
	}
}
