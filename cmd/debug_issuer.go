package cmd

import (
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/edgegate/edgegate/internal/jwks"
)

var debugIssuerCmd = &cobra.Command{
	Use:   "issuer [ISSUER-URL]",
	Short: "Check that an issuer publishes a usable OIDC discovery document",
	Long: `The issuer command runs OIDC discovery against the given issuer URL (or the
issuer from the loaded configuration) and reports whether the discovery
document and its JWKS endpoint look sane.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var issuer string
		if len(args) == 1 {
			issuer = args[0]
		} else {
			cfg, err := f.LoadConfig()
			if err != nil {
				return fmt.Errorf("no issuer given and no configuration loaded: %w", err)
			}
			issuer = cfg.Issuer.IssuerURL()
		}
		if issuer == "" {
			return fmt.Errorf("issuer cannot be empty")
		}

		log.Info().Msgf("Running OIDC discovery for %q...", issuer)

		provider, err := oidc.NewProvider(cmd.Context(), issuer)
		if err != nil {
			log.Error().Msgf("%s discovery failed", redCross)
			log.Error().Msgf("error: %v", err)
			return BeQuietError{}
		}

		var discovery struct {
			JWKSURI string `json:"jwks_uri"`
		}
		if err := provider.Claims(&discovery); err != nil {
			return fmt.Errorf("reading discovery document: %w", err)
		}

		log.Info().Msgf("%s discovery document found", greenCheck)
		log.Info().Msgf("JWKS endpoint: %s", discovery.JWKSURI)

		if expected := jwks.URLFor(issuer); discovery.JWKSURI != expected {
			log.Warn().Msgf("JWKS endpoint differs from the conventional %s", expected)
		}

		fetcher := jwks.NewHTTPFetcher(discovery.JWKSURI, jwks.DefaultTimeout)
		keys, err := fetcher.Fetch(cmd.Context())
		if err != nil {
			log.Error().Msgf("%s JWKS endpoint is not usable", redCross)
			log.Error().Msgf("error: %v", err)
			return BeQuietError{}
		}

		log.Info().Msgf("%s JWKS endpoint serves %d usable keys", greenCheck, len(keys))
		return nil
	},
}

func init() {
	debugCmd.AddCommand(debugIssuerCmd)

	f.bindConfigFlag(debugIssuerCmd.Flags())
}
