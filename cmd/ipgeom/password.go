package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ipgeom/ipgeom/internal/query"
)

func newPasswordCmd() *cobra.Command {
	var method string
	cmd := &cobra.Command{
		Use:   "make-password-hash PASSWORD",
		Short: "Hash a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if method != "bcrypt" {
				return usageErrorf("unsupported hash method: %q", method)
			}
			hash, err := query.GenerateBcryptHash(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]string{"method": method, "hash": hash})
		},
	}
	cmd.Flags().StringVar(&method, "method", "bcrypt", "hash method (bcrypt)")
	return cmd
}
