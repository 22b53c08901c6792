package httpclient

// Endpoint overrides the base URL and authentication for a family of
// requests. The override is all-or-nothing: an Endpoint without Auth sends
// no credentials, it does not fall back to the client's.
type Endpoint struct {
	URL  string
	Auth Authentication
}

// resolveEndpoint returns the effective base URL and authentication.
func resolveEndpoint(e *Endpoint, cfg *Config) (string, Authentication) {
	if e != nil {
		return e.URL, e.Auth
	}
	return cfg.BaseURL, cfg.authentication()
}
