package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/edgegate/edgegate/internal/jwks"
)

// keysFetchCmd fetches the issuer's key set once and prints it.
var keysFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and display the issuer's JWKS document",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadConfig()
		if err != nil {
			return err
		}

		url := jwks.URLFor(cfg.Issuer.IssuerURL())
		log.Info().Msgf("Fetching key set from %s...", url)

		fetcher := jwks.NewHTTPFetcher(url, cfg.Issuer.JWKSTimeout)
		keys, err := fetcher.Fetch(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching key set: %w", err)
		}

		log.Info().Msgf("Retrieved %d keys", len(keys))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Key ID", "Algorithm"})
		for _, k := range keys {
			t.AppendRow(table.Row{k.KeyID, k.Algorithm})
		}
		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysFetchCmd)

	f.bindConfigFlag(keysFetchCmd.Flags())
}
