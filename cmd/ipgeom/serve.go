package main

import (
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ipgeom/ipgeom/internal/resolver"
	"github.com/ipgeom/ipgeom/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listen := viper.GetString("listen")
			handler := server.New(server.Config{
				Resolver: resolver.New(log),
				Log:      log,
			})
			log.Infow("listening", "addr", listen)
			return http.ListenAndServe(listen, handler)
		},
	}
}
