package config

import (
	"errors"
	"fmt"

	"github.com/kbukum/chimney/logger"
)

// ServiceConfig holds the settings shared by every chimney binary. Embed it
// in a binary-specific config struct:
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    HTTP httpclient.Config `yaml:"http" mapstructure:"http"`
//	}
type ServiceConfig struct {
	// Name tags log lines; it defaults to the binary name.
	Name string `yaml:"name" mapstructure:"name"`
	// Debug forces the log level to debug, which also turns on request
	// diagnostics.
	Debug   bool          `yaml:"debug" mapstructure:"debug"`
	Logging logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults propagates Name and Debug into the logging config and fills
// in its defaults. Embedding structs call it from their own ApplyDefaults.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	if c.Debug {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return errors.New("config.name is required")
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
