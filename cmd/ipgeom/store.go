package main

import (
	"github.com/spf13/cobra"

	"github.com/ipgeom/ipgeom/internal/geostore"
	"github.com/ipgeom/ipgeom/internal/rir"
	"github.com/ipgeom/ipgeom/internal/rir/registry"
)

func newStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the local RIR data store",
	}
	cmd.AddCommand(newStoreUpdateCmd(), newStoreBuildGeoIPDBCmd(), newStoreBuildSQLiteDBCmd())
	return cmd
}

func newStoreUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Download and refresh all configured RIR dumps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rir.NewStore(dataDir(), log, rir.WithProviders(registry.All()))
			return s.Update(cmd.Context())
		},
	}
}

func newStoreBuildGeoIPDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build-geoipdb PATH",
		Short: "Build a binary (MaxMind-compatible) GeoIP database from the stored RIR dumps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rir.NewStore(dataDir(), log, rir.WithProviders(registry.All()))
			return s.WriteGeoDB(args[0], uint64(buildEpoch()))
		},
	}
}

func newStoreBuildSQLiteDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build-sqlitedb PATH",
		Short: "Build a relational (SQLite) geo-index from the stored RIR dumps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := rir.NewStore(dataDir(), log, rir.WithProviders(registry.All()))

			db, err := geostore.Open(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			return s.Persist(db, rir.DefaultPersistFilter())
		},
	}
}
