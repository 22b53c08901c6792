package httpclient

import (
	"encoding/base64"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/chimney/logger"
	"github.com/kbukum/chimney/validation"
)

const headerAuthorization = "Authorization"

// Authentication produces the headers that authorize a request.
type Authentication interface {
	AuthorizationHeader() map[string]string
}

// FallibleAuthentication is an Authentication whose headers are computed
// per request and may fail to compute. The request builder calls Headers and
// fails the request with ErrLogic instead of sending it without credentials.
type FallibleAuthentication interface {
	Authentication
	Headers() (map[string]string, error)
}

// authHeaders returns the headers of auth, honouring FallibleAuthentication.
func authHeaders(auth Authentication) (map[string]string, error) {
	if f, ok := auth.(FallibleAuthentication); ok {
		return f.Headers()
	}
	return auth.AuthorizationHeader(), nil
}

// BasicAuth authenticates with HTTP Basic credentials.
type BasicAuth struct {
	Username string
	Password string
}

// AuthorizationHeader returns `Authorization: Basic <base64(user:pass)>`.
func (a BasicAuth) AuthorizationHeader() map[string]string {
	credentials := base64.StdEncoding.EncodeToString([]byte(a.Username + ":" + a.Password))
	return map[string]string{headerAuthorization: "Basic " + credentials}
}

// BearerAuth authenticates with a bearer token.
type BearerAuth struct {
	Token string
}

// AuthorizationHeader returns `Authorization: Bearer: <token>`. The colon
// after "Bearer" is what the servers this client talks to expect.
func (a BearerAuth) AuthorizationHeader() map[string]string {
	return map[string]string{headerAuthorization: bearerValue(a.Token)}
}

func bearerValue(token string) string {
	return "Bearer: " + token
}

// JWTAuth signs a fresh HS256 token for every request and sends it as a
// bearer credential.
type JWTAuth struct {
	Secret   string
	Issuer   string
	Subject  string
	Audience []string
	// TTL defaults to five minutes.
	TTL time.Duration

	now func() time.Time
}

// AuthorizationHeader signs a token and returns it as a bearer header. A
// signing failure is logged and yields no header; requests built by a Client
// use Headers and fail instead.
func (a JWTAuth) AuthorizationHeader() map[string]string {
	h, err := a.Headers()
	if err != nil {
		logger.Get("httpclient").Warn("jwt signing failed", logger.ErrorFields("auth", err))
		return map[string]string{}
	}
	return h
}

// Headers implements FallibleAuthentication.
func (a JWTAuth) Headers() (map[string]string, error) {
	token, err := a.Sign()
	if err != nil {
		return nil, err
	}
	return map[string]string{headerAuthorization: bearerValue(token)}, nil
}

// Sign returns a signed token string.
func (a JWTAuth) Sign() (string, error) {
	now := time.Now
	if a.now != nil {
		now = a.now
	}
	ttl := a.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	issued := now()
	claims := gojwt.RegisteredClaims{
		Issuer:    a.Issuer,
		Subject:   a.Subject,
		IssuedAt:  gojwt.NewNumericDate(issued),
		ExpiresAt: gojwt.NewNumericDate(issued.Add(ttl)),
	}
	if len(a.Audience) > 0 {
		claims.Audience = gojwt.ClaimStrings(a.Audience)
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(a.Secret))
}

// AuthType names the authentication method in configuration files.
type AuthType string

const (
	// AuthNone disables authentication.
	AuthNone AuthType = ""
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic AuthType = "basic"
	// AuthBearer uses a static bearer token.
	AuthBearer AuthType = "bearer"
	// AuthJWT signs bearer tokens with a shared secret.
	AuthJWT AuthType = "jwt"
)

// AuthConfig is the configuration-file form of an Authentication.
type AuthConfig struct {
	Type     AuthType      `yaml:"type" mapstructure:"type"`
	Username string        `yaml:"username" mapstructure:"username"`
	Password string        `yaml:"password" mapstructure:"password"`
	Token    string        `yaml:"token" mapstructure:"token"`
	Secret   string        `yaml:"secret" mapstructure:"secret"`
	Issuer   string        `yaml:"issuer" mapstructure:"issuer"`
	Subject  string        `yaml:"subject" mapstructure:"subject"`
	Audience []string      `yaml:"audience" mapstructure:"audience"`
	TTL      time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// Validate checks that the fields required by Type are present.
func (a *AuthConfig) Validate() error {
	if a == nil {
		return nil
	}
	v := validation.New().OneOf("auth.type", string(a.Type),
		[]string{string(AuthBasic), string(AuthBearer), string(AuthJWT)})
	switch a.Type {
	case AuthBasic:
		v.Required("auth.username", a.Username)
	case AuthBearer:
		v.Required("auth.token", a.Token)
	case AuthJWT:
		v.Required("auth.secret", a.Secret)
		v.Custom(a.TTL >= 0, "auth.ttl", "must not be negative")
	}
	return v.Err()
}

// Build converts the configuration into an Authentication. A nil config or
// AuthNone yields nil.
func (a *AuthConfig) Build() Authentication {
	if a == nil {
		return nil
	}
	switch a.Type {
	case AuthBasic:
		return BasicAuth{Username: a.Username, Password: a.Password}
	case AuthBearer:
		return BearerAuth{Token: a.Token}
	case AuthJWT:
		return JWTAuth{
			Secret:   a.Secret,
			Issuer:   a.Issuer,
			Subject:  a.Subject,
			Audience: a.Audience,
			TTL:      a.TTL,
		}
	default:
		return nil
	}
}
