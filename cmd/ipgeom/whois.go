package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ipgeom/ipgeom/internal/query"
)

func newWhoisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whois DOMAIN",
		Short: "Query WHOIS for a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := query.DomainWhois(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"server": resp.Server,
				"fields": resp.Fields(),
			})
		},
	}
}
