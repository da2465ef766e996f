package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"

	"github.com/oschwald/maxminddb-golang"
	"github.com/spf13/cobra"
)

func newIpdbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ipdb",
		Short: "Query GeoIP database files",
	}
	cmd.AddCommand(newIpdbLookupCmd())
	return cmd
}

func newIpdbLookupCmd() *cobra.Command {
	var dbPath string
	cmd := &cobra.Command{
		Use:   "lookup IP",
		Short: "Look up an IP address in a binary GeoIP database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ip := net.ParseIP(args[0])
			if ip == nil {
				return usageErrorf("invalid ip address: %q", args[0])
			}
			if dbPath == "" {
				return usageErrorf("--db is required")
			}

			reader, err := maxminddb.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open geoip database: %w", err)
			}
			defer reader.Close()

			var record struct {
				Country struct {
					ISOCode string `maxminddb:"iso_code"`
				} `maxminddb:"country"`
			}
			_, found, err := reader.LookupNetwork(ip, &record)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", ip, err)
			}
			if !found {
				fmt.Fprintln(os.Stderr, "address not found")
				return errNotFound
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]string{"country": record.Country.ISOCode})
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "path to the GeoIP database file")
	return cmd
}
