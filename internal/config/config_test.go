package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/edgegate/edgegate/internal/core"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
issuer:
  region: eu-central-1
  user_pool_id: eu-central-1_AbCdEfGhI
  jwks_timeout: 3s
authorizer:
  identity_source: HEADER
  required_scopes: "api/read api/write"
assertions:
  - name: has-client
    expr: claims.client_id != ""
audit:
  enabled: true
  type: file
  path: /var/log/edgegate/audit.log
server:
  addr: ":9090"
  admin_token: sekrit
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.Issuer.IssuerURL(); got != "https://cognito-idp.eu-central-1.amazonaws.com/eu-central-1_AbCdEfGhI" {
		t.Errorf("IssuerURL() = %q", got)
	}
	if cfg.Issuer.JWKSTimeout != 3*time.Second {
		t.Errorf("JWKSTimeout = %v", cfg.Issuer.JWKSTimeout)
	}
	if cfg.Authorizer.Source() != core.IdentitySourceHeader {
		t.Errorf("Source() = %v", cfg.Authorizer.Source())
	}
	if len(cfg.CompiledAssertions) != 1 || cfg.CompiledAssertions[0].Name != "has-client" {
		t.Errorf("unexpected compiled assertions: %+v", cfg.CompiledAssertions)
	}
	if !cfg.Audit.Enabled || cfg.Audit.Type != "file" {
		t.Errorf("unexpected audit config: %+v", cfg.Audit)
	}
	if got := cfg.Audit.Options["path"]; got != "/var/log/edgegate/audit.log" {
		t.Errorf("audit path option = %v", got)
	}
	if cfg.Server.Addr != ":9090" || cfg.Server.AdminToken != "sekrit" {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestIssuerURLOverride(t *testing.T) {
	c := IssuerConfig{
		Region:     "eu-central-1",
		UserPoolID: "eu-central-1_AbCdEfGhI",
		URL:        "http://localhost:9999/stub-pool",
	}
	if got := c.IssuerURL(); got != "http://localhost:9999/stub-pool" {
		t.Errorf("IssuerURL() = %q, want the override", got)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		config string
	}{
		{
			name: "Missing Issuer",
			config: `
authorizer:
  identity_source: HEADER
`,
		},
		{
			name: "Bad Identity Source",
			config: `
issuer:
  url: http://localhost:9999/pool
authorizer:
  identity_source: COOKIE
`,
		},
		{
			name: "Comma Separated Scopes",
			config: `
issuer:
  url: http://localhost:9999/pool
authorizer:
  identity_source: HEADER
  required_scopes: "api/read,api/write"
`,
		},
		{
			name: "Broken Assertion",
			config: `
issuer:
  url: http://localhost:9999/pool
authorizer:
  identity_source: HEADER
assertions:
  - name: broken
    expr: "claims.("
`,
		},
		{
			name: "Negative JWKS Timeout",
			config: `
issuer:
  url: http://localhost:9999/pool
  jwks_timeout: -1s
authorizer:
  identity_source: HEADER
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.config)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
issuer:
  url: http://localhost:9999/pool
authorizer:
  identity_source: QUERYSTRING
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("default server addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Authorizer.Source() != core.IdentitySourceQuery {
		t.Errorf("Source() = %v", cfg.Authorizer.Source())
	}
}
