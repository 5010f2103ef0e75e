package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/edgegate/edgegate/internal/core"
	"github.com/edgegate/edgegate/internal/policy"
	"github.com/edgegate/edgegate/internal/validation"
)

type Config struct {
	Issuer     IssuerConfig             `yaml:"issuer"`
	Authorizer AuthorizerConfig         `yaml:"authorizer"`
	Assertions []policy.AssertionConfig `yaml:"assertions"`
	Audit      AuditConfig              `yaml:"audit"`
	Server     ServerConfig             `yaml:"server"`

	// CompiledAssertions holds the pre-compiled assertions after Validate.
	CompiledAssertions []*policy.Assertion `yaml:"-"`
}

// IssuerConfig identifies the user pool the authorizer trusts.
type IssuerConfig struct {
	// Region and UserPoolID construct the issuer URL for the default
	// hosted pool layout.
	Region     string `yaml:"region"`
	UserPoolID string `yaml:"user_pool_id"`

	// URL overrides the constructed issuer URL (e.g. for local stubs).
	URL string `yaml:"url"`

	// JWKSTimeout bounds the discovery fetch.
	JWKSTimeout time.Duration `yaml:"jwks_timeout"`
}

// IssuerURL returns the issuer base the tokens must be issued by.
func (c IssuerConfig) IssuerURL() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

func (c IssuerConfig) Validate() error {
	if c.URL == "" && (c.Region == "" || c.UserPoolID == "") {
		return fmt.Errorf("either issuer.url or issuer.region + issuer.user_pool_id must be set")
	}
	if c.JWKSTimeout < 0 {
		return fmt.Errorf("issuer.jwks_timeout must not be negative")
	}
	return nil
}

// AuthorizerConfig holds the per-deployment authorization policy.
type AuthorizerConfig struct {
	// IdentitySource is HEADER or QUERYSTRING.
	IdentitySource string `yaml:"identity_source"`

	// RequiredScopes is the space-delimited scope set a token must satisfy.
	RequiredScopes string `yaml:"required_scopes"`

	// AllowAnonymous permits requests without any credential.
	AllowAnonymous bool `yaml:"allow_anonymous"`

	// AdminScope overrides the administrative scope marker.
	AdminScope string `yaml:"admin_scope"`

	source core.IdentitySource
}

// Source returns the identity source parsed during Validate.
func (c *AuthorizerConfig) Source() core.IdentitySource {
	return c.source
}

// AuditConfig selects the decision audit sink. Type-specific options live
// in the inline map (e.g. 'path' for the file auditor).
type AuditConfig struct {
	Enabled bool           `yaml:"enabled"`
	Type    string         `yaml:"type"`
	Options map[string]any `yaml:",inline"`
}

// ServerConfig configures the standalone HTTP facade.
type ServerConfig struct {
	Addr       string `yaml:"addr"`
	AdminToken string `yaml:"admin_token"`
}

// Load reads, parses, and validates the configuration file at the given
// path. Assertions come back compiled.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Issuer.Validate(); err != nil {
		return err
	}

	source, err := validation.ValidateAuthorizer(c.Authorizer.IdentitySource, c.Authorizer.RequiredScopes)
	if err != nil {
		return fmt.Errorf("validating authorizer config: %w", err)
	}
	c.Authorizer.source = source

	assertions, err := validation.ValidateAssertions(c.Assertions)
	if err != nil {
		return err
	}
	c.CompiledAssertions = assertions

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	return nil
}
