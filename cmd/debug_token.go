package cmd

import (
	"fmt"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var debugTokenCmd = &cobra.Command{
	Use:   "token JWT-TOKEN",
	Short: "Prints the header and claims of a JWT token",
	Long: `The token command decodes a provided JWT token and displays its header and
claims. It does not verify the signature or any claim, it simply shows what
the token carries.`,
	Example: `  edgegate debug token <JWT token>`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokenInput := args[0]
		if tokenInput == "" {
			return fmt.Errorf("token cannot be empty")
		}

		parser := jwt.NewParser()
		token, _, err := parser.ParseUnverified(tokenInput, jwt.MapClaims{})
		if err != nil {
			return fmt.Errorf("parsing token: %w", err)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fmt.Errorf("invalid token claims")
		}

		log.Info().Msg("Token Header:")
		log.Info().Msg(spew.Sdump(token.Header))

		log.Info().Msg("Token Claims:")
		log.Info().Msg(spew.Sdump(claims))

		if kidRaw, ok := token.Header["kid"]; ok {
			log.Info().Msgf("Key ID (kid): %v", kidRaw)
		} else {
			log.Warn().Msg("Token header does not contain 'kid'")
		}

		if useRaw, ok := claims["token_use"]; ok {
			log.Info().Msgf("Token use: %v", useRaw)
		} else {
			log.Warn().Msg("Token does not contain 'token_use' claim")
		}

		if issRaw, ok := claims["iss"]; ok {
			log.Info().Msgf("Issuer (iss): %v", issRaw)
		} else {
			log.Warn().Msg("Token does not contain 'iss' claim")
		}

		// print expiration with the remaining lifetime if present
		if expRaw, ok := claims["exp"]; ok {
			if expFloat, ok := expRaw.(float64); ok {
				expTime := time.Unix(int64(expFloat), 0)
				remaining := time.Until(expTime)
				log.Info().Msgf("Expiration (exp): %v (in %v)", expTime, remaining)
			}
		}

		return nil
	},
}

func init() {
	debugCmd.AddCommand(debugTokenCmd)
}
