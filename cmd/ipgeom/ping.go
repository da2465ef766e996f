package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/ipgeom/ipgeom/internal/query"
)

func newPingCmd() *cobra.Command {
	var probes int
	var timeout, interval time.Duration
	var v4, v6 bool
	var iface string
	cmd := &cobra.Command{
		Use:   "ping HOST",
		Short: "Send ICMP echo requests to a host",
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

			res, err := query.Ping(cmd.Context(), args[0], timeout, probes, interval, iface, version)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]interface{}{
				"ip":          res.IP.String(),
				"transmitted": res.Transmitted,
				"received":    res.Received,
				"avg_ms":      msOf(res.AvgRTT),
				"min_ms":      msOf(res.MinRTT),
				"max_ms":      msOf(res.MaxRTT),
			})
		},
	}
	cmd.Flags().IntVar(&probes, "probes", 4, "number of echo requests to send")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "overall time limit for the whole ping run")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "delay between probes")
	cmd.Flags().BoolVar(&v4, "ipv4", false, "force IPv4 resolution")
	cmd.Flags().BoolVar(&v6, "ipv6", false, "force IPv6 resolution")
	cmd.Flags().StringVarP(&iface, "interface", "i", "", "network interface to bind probes to")
	return cmd
}

func msOf(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
