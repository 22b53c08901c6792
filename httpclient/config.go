package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/chimney/security"
	"github.com/kbukum/chimney/validation"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config is the client-wide request configuration: the default base URL and
// credentials used when a request family declares no Endpoint.
//
// A Client keeps its own copy; build a new client (or use WithConfig) to
// change it.
type Config struct {
	// BaseURL is the default base URL that path segments are appended to.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,absurl"`

	// Auth is the default authentication. Takes precedence over Credentials.
	Auth Authentication `yaml:"-" mapstructure:"-" validate:"-"`

	// Credentials is the configuration-file form of Auth.
	Credentials *AuthConfig `yaml:"auth" mapstructure:"auth" validate:"-"`

	// PrettyLogging renders JSON bodies indented in request diagnostics.
	PrettyLogging bool `yaml:"pretty_logging" mapstructure:"pretty_logging"`

	// Timeout bounds a whole exchange in the default executor. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// TLS configures the default executor's transport.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls" validate:"-"`

	// DisableCookies turns off the default executor's cookie jar.
	DisableCookies bool `yaml:"disable_cookies" mapstructure:"disable_cookies"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	if err := c.Credentials.Validate(); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	return nil
}

// authentication returns the effective default authentication.
func (c *Config) authentication() Authentication {
	if c.Auth != nil {
		return c.Auth
	}
	return c.Credentials.Build()
}
