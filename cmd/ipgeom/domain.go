package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/ipgeom/ipgeom/internal/query"
)

func newDomainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "domain",
		Short: "Inspect domains",
	}
	cmd.AddCommand(newDomainCheckCertificateCmd())
	return cmd
}

func newDomainCheckCertificateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-certificate DOMAIN",
		Short: "Report the TLS certificate a domain presents on port 443",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := query.FetchCertificate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"subject":    info.Subject,
				"issuer":     info.Issuer,
				"not_before": info.NotBefore.Format(time.RFC3339),
				"not_after":  info.NotAfter.Format(time.RFC3339),
				"dns_names":  info.DNSNames,
				"valid":      info.Valid,
			})
		},
	}
}
