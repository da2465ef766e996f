package main

import (
	"encoding/json"

	"github.com/miekg/dns"
	"github.com/spf13/cobra"

	"github.com/ipgeom/ipgeom/internal/resolver"
)

func newDNSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dns",
		Short: "Issue iterative DNS queries",
	}
	cmd.AddCommand(newDNSQueryCmd())
	return cmd
}

func newDNSQueryCmd() *cobra.Command {
	var recordType, server string
	cmd := &cobra.Command{
		Use:   "query NAME",
		Short: "Resolve a name by walking NS delegations from the root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qtype, ok := dns.StringToType[recordType]
			if !ok {
				return usageErrorf("unknown record type: %q", recordType)
			}

			r := resolver.New(log)
			res, err := r.Query(cmd.Context(), args[0], qtype, server)
			if err != nil {
				return err
			}

			answers := make([]string, 0, len(res.Answers))
			for _, rr := range res.Answers {
				answers = append(answers, rr.String())
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"authoritative_server": res.AuthoritativeServer,
				"answers":              answers,
			})
		},
	}
	cmd.Flags().StringVarP(&recordType, "type", "t", "A", "DNS record type (A, AAAA, NS, MX, TXT, ...)")
	cmd.Flags().StringVarP(&server, "server", "s", "", "start delegation walk at this server instead of the root")
	return cmd
}
