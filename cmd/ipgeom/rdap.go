package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ipgeom/ipgeom/internal/query"
)

var rdapQueryTypes = map[string]query.QueryType{
	"domain":     query.QueryDomain,
	"ip":         query.QueryIP,
	"autnum":     query.QueryAutnum,
	"entity":     query.QueryEntity,
	"nameserver": query.QueryNameserver,
}

func newRDAPCmd() *cobra.Command {
	var qtypeName string
	cmd := &cobra.Command{
		Use:   "rdap QUERY",
		Short: "Query RDAP for a domain, IP, autnum, entity, or nameserver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			qtype, ok := rdapQueryTypes[qtypeName]
			if !ok {
				return usageErrorf("unknown rdap query type: %q", qtypeName)
			}
			result, err := query.RDAPQuery(cmd.Context(), qtype, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVarP(&qtypeName, "type", "t", "domain", "rdap object class: domain, ip, autnum, entity, nameserver")
	return cmd
}
