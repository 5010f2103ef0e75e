package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/edgegate/edgegate/internal/core"
	"github.com/edgegate/edgegate/internal/gateway"
)

var (
	authorizeResource string
	authorizeHeaders  []string
	authorizeQuery    []string
	authorizeToken    string
)

var authorizeCmd = &cobra.Command{
	Use:   "authorize",
	Short: "Run the authorizer once and print the decision",
	Long: `Builds a gateway event from the given flags and runs the authorizer on it.
Without --server the decision is computed locally from the config file;
with --server the event is submitted to a running edgegate instance.`,
	Example: `  edgegate authorize -c edgegate.yaml --header "authorization=Bearer eyJ..." --resource "arn:aws:execute-api:eu-central-1:123:api/*"
  edgegate authorize --server http://localhost:8080 --token eyJ...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		headers, err := parseKeyValues(authorizeHeaders)
		if err != nil {
			return fmt.Errorf("parsing --header: %w", err)
		}
		query, err := parseKeyValues(authorizeQuery)
		if err != nil {
			return fmt.Errorf("parsing --query: %w", err)
		}
		if authorizeToken != "" {
			headers["authorization"] = "Bearer " + authorizeToken
		}

		event := gateway.Event{
			MethodArn:             authorizeResource,
			Headers:               headers,
			QueryStringParameters: query,
		}

		var resp gateway.Response
		if f.RemoteAddr != "" {
			cli, err := f.GetClient()
			if err != nil {
				return err
			}
			remote, correlation, err := cli.Authorize(cmd.Context(), event)
			if err != nil {
				return logError(err, correlation, "authorization request failed")
			}
			resp = *remote
		} else {
			components, err := f.BuildComponents()
			if err != nil {
				return fmt.Errorf("building authorizer: %w", err)
			}
			defer func() {
				_ = components.Auditor.Close()
			}()
			decision := components.Authorizer.Authorize(cmd.Context(), event.Request())
			resp = gateway.FromDecision(decision)
		}

		printDecision(resp)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authorizeCmd)

	authorizeCmd.Flags().StringVar(&authorizeResource, "resource", "arn:local:execute-api/*",
		"Resource identifier the decision is scoped to")
	authorizeCmd.Flags().StringArrayVar(&authorizeHeaders, "header", nil,
		"Request header as key=value (repeatable)")
	authorizeCmd.Flags().StringArrayVar(&authorizeQuery, "query", nil,
		"Query parameter as key=value (repeatable)")
	authorizeCmd.Flags().StringVar(&authorizeToken, "token", "",
		"Shortcut for --header \"authorization=Bearer <token>\"")
	f.bindConfigFlag(authorizeCmd.Flags())
}

func parseKeyValues(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%q is not of the form key=value", pair)
		}
		out[key] = value
	}
	return out, nil
}

func printDecision(resp gateway.Response) {
	allowed := false
	resource := ""
	for _, s := range resp.PolicyDocument.Statement {
		resource = s.Resource
		if s.Effect == core.EffectAllow {
			allowed = true
		}
	}

	if allowed {
		fmt.Printf("\n%s %s (principal: %s)\n", greenCheck, bold("ALLOW"), resp.PrincipalID)
	} else {
		fmt.Printf("\n%s %s\n", redCross, bold("DENY"))
	}
	fmt.Printf("  %s: %s\n", faint("resource"), resource)

	if len(resp.Context) == 0 {
		return
	}

	keys := make([]string, 0, len(resp.Context))
	for k := range resp.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Claim", "Value"})
	for _, k := range keys {
		t.AppendRow(table.Row{k, truncate(resp.Context[k], 60)})
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	log.Debug().Int("claims", len(resp.Context)).Msg("decision context rendered")
}
