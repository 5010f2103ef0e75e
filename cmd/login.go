package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edgegate/edgegate/internal/cliconfig"
	"github.com/edgegate/edgegate/pkg/client"
)

var loginCmd = &cobra.Command{
	Use:   "login <admin-token>",
	Short: "Store an admin token for a server",
	Long: `Saves an admin token locally so future admin requests (decisions, audits)
are authenticated automatically. The token is verified against the server
before it is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adminToken := args[0]
		if adminToken == "" {
			return fmt.Errorf("token cannot be empty")
		}

		server := f.RemoteAddr
		if server == "" {
			server = viper.GetString(ServerAddrKey)
		}
		if server == "" {
			return fmt.Errorf("server address not configured, provide via --server or env")
		}
		u, err := url.Parse(server)
		if err != nil {
			return fmt.Errorf("parsing server URL: %w", err)
		}

		// verify the token before persisting it
		cli := client.New(server, client.WithAuthToken(adminToken))

		log.Info().Msgf("Verifying admin token against %q...", u.Host)
		if _, err := cli.ListDecisions(cmd.Context(), 1); err != nil {
			if errors.Is(err, client.ErrInvalidAdminToken) {
				log.Error().Msgf("%s server rejected the admin token", redCross)
				return BeQuietError{}
			}
			return logError(err, "", "could not verify admin token")
		}

		cfg, err := cliconfig.Load()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("loading config: %w", err)
			}
			cfg = &cliconfig.CLIConfig{}
		}
		if err := cfg.SetCredential(server, &cliconfig.Credential{
			Token: adminToken,
		}); err != nil {
			return err
		}
		if err := cliconfig.Save(cfg); err != nil {
			return logError(err, "", "token verified but could not save credentials")
		}

		log.Info().Msgf("%s admin token saved for %q", greenCheck, u.Host)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
