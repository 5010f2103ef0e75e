package cmd

import (
	"github.com/spf13/cobra"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Inspect the issuer's signing keys",
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
