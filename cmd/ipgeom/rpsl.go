package main

import (
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"

	"github.com/spf13/cobra"

	"github.com/ipgeom/ipgeom/internal/rpsl"
	"github.com/ipgeom/ipgeom/internal/rpsl/typed"
)

func newRpslCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rpsl",
		Short: "Inspect RPSL object streams",
	}
	cmd.AddCommand(newRpslPrintCmd())
	return cmd
}

func newRpslPrintCmd() *cobra.Command {
	var ipFilter string
	cmd := &cobra.Command{
		Use:   "print PATH",
		Short: "Parse an RPSL dump and re-print its objects, optionally filtered by address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var addr netip.Addr
			var filtering bool
			if ipFilter != "" {
				var err error
				addr, err = netip.ParseAddr(ipFilter)
				if err != nil {
					return usageErrorf("invalid --ip address: %q", ipFilter)
				}
				filtering = true
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			reader := rpsl.NewObjectReader(f, rpsl.DefaultParserOptions())
			out := cmd.OutOrStdout()
			printed := 0
			for {
				obj, err := reader.Next()
				if err != nil {
					if errors.Is(err, io.EOF) {
						break
					}
					return err
				}
				if filtering && !objectCoversAddr(obj, addr) {
					continue
				}
				fmt.Fprint(out, obj.Serialize())
				printed++
			}
			if filtering && printed == 0 {
				return errNotFound
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ipFilter, "ip", "", "only print objects whose address range contains this IP")
	return cmd
}

func objectCoversAddr(obj *rpsl.Object, addr netip.Addr) bool {
	tobj, err := typed.Project(obj)
	if err != nil {
		return false
	}
	for _, p := range tobj.Prefixes() {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
