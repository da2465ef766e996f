package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/ipgeom/ipgeom/internal/query"
)

func newTracerouteCmd() *cobra.Command {
	var maxHops, queries int
	var wait time.Duration
	var v4, v6 bool
	cmd := &cobra.Command{
		Use:   "traceroute HOST",
		Short: "Trace the route ICMP packets take to a host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version := query.IPVersionAny
			switch {
			case v4 && v6:
				return usageErrorf("--ipv4 and --ipv6 are mutually exclusive")
			case v4:
				version = query.IPVersionV4
			case v6:
				version = query.IPVersionV6
			}

			res, err := query.Traceroute(cmd.Context(), args[0], uint8(maxHops), queries, wait, version)
			if err != nil {
				return err
			}

			hops := make([]map[string]interface{}, 0, len(res.Hops))
			for _, hop := range res.Hops {
				probes := make([]map[string]interface{}, 0, len(hop.Probes))
				for _, p := range hop.Probes {
					entry := map[string]interface{}{"timeout": p.Timeout, "rtt_ms": msOf(p.RTT)}
					if p.Address != nil {
						entry["address"] = p.Address.String()
					}
					probes = append(probes, entry)
				}
				hops = append(hops, map[string]interface{}{"ttl": hop.TTL, "probes": probes})
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"destination":    res.Destination.String(),
				"reached_target": res.ReachedTarget,
				"hops":           hops,
			})
		},
	}
	cmd.Flags().IntVar(&maxHops, "max-hops", 30, "maximum TTL to probe")
	cmd.Flags().IntVar(&queries, "queries", 3, "number of probes per hop")
	cmd.Flags().DurationVar(&wait, "wait", 3*time.Second, "per-probe timeout")
	cmd.Flags().BoolVar(&v4, "ipv4", false, "force IPv4 resolution")
	cmd.Flags().BoolVar(&v6, "ipv6", false, "force IPv6 resolution")
	return cmd
}
