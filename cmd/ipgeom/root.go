package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// log is the CLI's shared logger, set up by initLogging before any
// subcommand runs. Persistent settings are read through viper, which
// layers flag > env > default (IPGEOM_DATA_DIR, IPGEOMANCER_DB,
// IPGEOMANCER_LISTEN); see newRootCmd.
var log *zap.SugaredLogger

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ipgeom",
		Short:         "Tools for IP geolocation and network diagnostics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogging()
		},
	}

	cmd.PersistentFlags().StringP("data-dir", "d", "data", "directory where downloaded RIR data and other artifacts are stored")
	_ = viper.BindPFlag("data_dir", cmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindEnv("data_dir", "IPGEOM_DATA_DIR")
	_ = viper.BindEnv("db", "IPGEOMANCER_DB")
	_ = viper.BindEnv("listen", "IPGEOMANCER_LISTEN")
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("db", "ipgeom.db")
	viper.SetDefault("listen", "127.0.0.1:3000")

	cmd.AddCommand(
		newStoreCmd(),
		newIpdbCmd(),
		newRpslCmd(),
		newDNSCmd(),
		newDomainCmd(),
		newWhoisCmd(),
		newRDAPCmd(),
		newPingCmd(),
		newTracerouteCmd(),
		newPasswordCmd(),
		newServeCmd(),
	)
	return cmd
}

func initLogging() error {
	if log != nil {
		return nil
	}
	zl, err := zap.NewProduction()
	if err != nil {
		return err
	}
	log = zl.Sugar()
	return nil
}

func dataDir() string { return viper.GetString("data_dir") }
