// Package config loads service configuration from a YAML file, a .env file
// and the environment.
//
// Unless given explicitly, files are searched in the working directory, its
// config/ subdirectory and <UserConfigDir>/<service>/, trying <service>.yml
// before config.yml and .env.<service> before .env. Environment variables override file values; with
// WithEnvPrefix only prefixed variables are considered.
//
// # Usage
//
//	type Config struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    HTTP httpclient.Config `yaml:"http" mapstructure:"http"`
//	}
//
//	var cfg Config
//	err := config.LoadConfig("chimney", &cfg, config.WithEnvPrefix("CHIMNEY"))
//
// CHIMNEY_HTTP_BASE_URL then overrides http.base_url.
package config
