package cmd

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// decisionsCmd lists recent decisions from a running server.
var decisionsCmd = &cobra.Command{
	Use:   "decisions",
	Short: "Retrieve and display recent authorization decisions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}

		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		log.Info().Msg("Fetching decisions...")
		records, err := cli.ListDecisions(cmd.Context(), uint(limit))
		if err != nil {
			return logError(err, "", "failed to list decisions")
		}

		log.Info().Msgf("Retrieved %d decisions", len(records))

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{
			"Time", "Effect", "Principal", "Resource", "Error Kind",
		})

		for _, rec := range records {
			effect := "ALLOW"
			if !rec.Decision.Allowed() {
				effect = "DENY"
			}

			principal := rec.Decision.PrincipalID
			if principal == "" {
				principal = "(none)"
			}

			t.AppendRow(table.Row{
				rec.Time.Format(time.RFC3339),
				effect,
				principal,
				truncate(rec.Resource, 45),
				rec.ErrorKind,
			})
		}

		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decisionsCmd)

	decisionsCmd.Flags().IntP("limit", "n", 25, "Number of decisions to retrieve")
}
