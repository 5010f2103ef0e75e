package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/edgegate/edgegate/internal/audit"
	"github.com/edgegate/edgegate/internal/authorizer"
	"github.com/edgegate/edgegate/internal/cliconfig"
	"github.com/edgegate/edgegate/internal/config"
	"github.com/edgegate/edgegate/internal/core"
	"github.com/edgegate/edgegate/internal/jwks"
	"github.com/edgegate/edgegate/internal/store"
	"github.com/edgegate/edgegate/internal/verify"
	"github.com/edgegate/edgegate/pkg/client"
)

type Factory struct {
	// RemoteAddr is the address of the edgegate server to connect to.
	RemoteAddr string

	UserConfigPath string

	// ConfigPath contains the authorizer configuration (issuer, scopes,
	// identity source, audit sink).
	ConfigPath string
}

func NewFactory() *Factory {
	return &Factory{}
}

// GetClient returns an authenticated HTTP client for remote operations.
func (f *Factory) GetClient() (*client.Client, error) {
	server := f.RemoteAddr // prio 1: command-line flag
	if server == "" {
		server = viper.GetString(ServerAddrKey) // prio 2: config/env
	}
	if server == "" {
		return nil, fmt.Errorf("server address not configured (use --server or set EDGEGATE_ADDR)")
	}

	var token string
	if cfg, err := cliconfig.Load(); err == nil {
		if cred, err := cfg.GetCredential(server); err == nil { // token prio 1: saved credential
			token = cred.Token
		}
	}

	if envToken := os.Getenv("EDGEGATE_TOKEN"); envToken != "" { // token prio 2: env var
		token = envToken
	}

	return client.New(server, client.WithAuthToken(token)), nil
}

func (f *Factory) LoadConfig() (*config.Config, error) {
	if f.ConfigPath == "" {
		return nil, fmt.Errorf("config file not specified (use --config)")
	}
	return config.Load(f.ConfigPath)
}

// Components is the assembled authorizer with its collaborators, as used
// by the serve command and the local authorize command.
type Components struct {
	Config     *config.Config
	Keys       *jwks.Cache
	Authorizer *authorizer.Authorizer
	Auditor    core.Auditor
	Store      core.DecisionStore
}

// BuildComponents wires the authorizer from the loaded configuration.
func (f *Factory) BuildComponents() (*Components, error) {
	cfg, err := f.LoadConfig()
	if err != nil {
		return nil, err
	}

	fetcher := jwks.NewHTTPFetcher(jwks.URLFor(cfg.Issuer.IssuerURL()), cfg.Issuer.JWKSTimeout)
	keys := jwks.NewCache(fetcher.Fetch)

	verifier := verify.New(keys, verify.Options{
		Issuer:         cfg.Issuer.IssuerURL(),
		RequiredScopes: cfg.Authorizer.RequiredScopes,
		AdminScope:     cfg.Authorizer.AdminScope,
		Assertions:     cfg.CompiledAssertions,
	})

	var auditor core.Auditor
	if cfg.Audit.Enabled {
		auditor, err = audit.New(cfg.Audit.Type, cfg.Audit.Options)
		if err != nil {
			return nil, fmt.Errorf("building auditor: %w", err)
		}
	} else {
		auditor = audit.NewNoopAuditor()
	}

	decisionStore := store.NewInMemoryDecisionStore(store.DefaultCapacity)

	auth := authorizer.New(verifier, authorizer.Options{
		IdentitySource: cfg.Authorizer.Source(),
		AllowAnonymous: cfg.Authorizer.AllowAnonymous,
		Auditor:        auditor,
		Store:          decisionStore,
	})

	return &Components{
		Config:     cfg,
		Keys:       keys,
		Authorizer: auth,
		Auditor:    auditor,
		Store:      decisionStore,
	}, nil
}

func (f *Factory) bindConfigFlag(flags *pflag.FlagSet) {
	flags.StringVarP(&f.ConfigPath, "config", "c", "", "The edgegate config file to use")
}
