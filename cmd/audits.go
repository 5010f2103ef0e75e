package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// auditsCmd lists recent audit entries from a running server.
var auditsCmd = &cobra.Command{
	Use:   "audits",
	Short: "Retrieve and display recent audit entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}

		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		log.Info().Msg("Fetching audit entries...")
		entries, err := cli.ListAudits(cmd.Context(), uint(limit))
		if err != nil {
			return logError(err, "", "failed to list audit entries")
		}

		log.Info().Msgf("Retrieved %d audit entries", len(entries))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Time", "Effect", "Subject", "Resource", "Error Kind", "Fingerprint",
		})

		for _, e := range entries {
			subject := e.Subject
			if subject == "" {
				subject = "(none)"
			}

			t.AppendRow(table.Row{
				e.Time.Format(time.RFC3339),
				string(e.Effect),
				subject,
				truncate(e.Resource, 45),
				e.ErrorKind,
				truncate(e.TokenFingerprint, 16),
			})
		}

		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(auditsCmd)

	auditsCmd.Flags().IntP("limit", "n", 25, "Number of audit entries to retrieve")
}
