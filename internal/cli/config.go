package cli

import (
	"fmt"

	"github.com/kbukum/chimney/config"
	"github.com/kbukum/chimney/httpclient"
	"github.com/kbukum/chimney/observability"
)

const serviceName = "chimney"

// Config is the chimney configuration file, e.g. ~/.config/chimney/config.yml:
//
//	name: chimney
//	logging:
//	  level: info
//	http:
//	  base_url: https://api.example.com
//	  timeout: 10s
//	  auth:
//	    type: bearer
//	    token: ${API_TOKEN}
//	observability:
//	  tracing:
//	    endpoint: localhost:4318
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	HTTP          httpclient.Config     `yaml:"http" mapstructure:"http"`
	Observability *observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.HTTP.ApplyDefaults()
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("config.http: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}

// loadConfig reads the config file (explicit path or the standard search
// locations) with CHIMNEY_* environment overrides.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	opts := []config.LoaderOption{config.WithEnvPrefix("CHIMNEY")}
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
