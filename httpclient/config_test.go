package httpclient

import (
	"testing"
	"time"

	"github.com/kbukum/chimney/security"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}

	cfg = Config{Timeout: 10 * time.Second}
	cfg.ApplyDefaults()
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{}, false},
		{"https base", Config{BaseURL: "https://api.example.com/v1"}, false},
		{"http base", Config{BaseURL: "http://localhost:8080"}, false},
		{"no scheme", Config{BaseURL: "api.example.com"}, true},
		{"no host", Config{BaseURL: "https://"}, true},
		{"negative timeout", Config{Timeout: -time.Second}, true},
		{"credentials", Config{Credentials: &AuthConfig{Type: AuthBasic, Username: "u"}}, false},
		{"bad credentials", Config{Credentials: &AuthConfig{Type: AuthJWT}}, true},
		{"tls key without cert", Config{TLS: &security.TLSConfig{KeyFile: "key.pem"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Authentication(t *testing.T) {
	explicit := BearerAuth{Token: "explicit"}
	cfg := Config{Auth: explicit, Credentials: &AuthConfig{Type: AuthBearer, Token: "file"}}
	if got := cfg.authentication(); got != explicit {
		t.Errorf("expected explicit Auth to win, got %#v", got)
	}

	cfg = Config{}
	if cfg.authentication() != nil {
		t.Error("expected no authentication")
	}
}
