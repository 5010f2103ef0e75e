package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// keysListCmd lists the key set a running server has resolved.
var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the key set resolved by a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := f.GetClient()
		if err != nil {
			return err
		}

		keySet, err := cli.Keys(cmd.Context())
		if err != nil {
			return logError(err, "", "failed to fetch key set from server")
		}

		if !keySet.Warm {
			fmt.Printf("%s key cache is cold (no request has needed a key yet)\n", faint("note:"))
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Key ID", "Algorithm"})
		for _, k := range keySet.Keys {
			t.AppendRow(table.Row{k.KeyID, k.Algorithm})
		}
		t.SetStyle(table.StyleLight)
		t.Render()
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysListCmd)
}
