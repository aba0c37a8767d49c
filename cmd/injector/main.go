package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rabmarut/ChildChainGaugeInjector/internal/di"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/models"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/providers"
	"github.com/rabmarut/ChildChainGaugeInjector/internal/structures"
)

const version = "0.1.0"

var flags structures.CliFlags

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "injector",
		Short:        "Periodic rewards injector",
		Long:         "injector tops up reward gauges on a per-receiver schedule, driven by a keeper.",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "Path to the YAML config file")
	root.PersistentFlags().BoolVar(&flags.DebugMode, "debug", false, "Enable debug logging to the console")

	root.AddCommand(newServeCmd(), newTokenCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := di.InitApp(&flags)
			return err
		},
	}
}

func newTokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <address>",
		Short: "Issue a caller token for the owner or keeper",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !models.IsValidAddress(args[0]) {
				return fmt.Errorf("%q is not an address", args[0])
			}
			conf, err := providers.NewConfigProvider(&flags)
			if err != nil {
				return err
			}
			if !conf.Auth.Enabled {
				return fmt.Errorf("auth is disabled in %s", flags.ConfigPath)
			}
			logger, err := providers.NewLogProvider(conf)
			if err != nil {
				return err
			}
			defer logger.Close()

			auth := providers.NewAuthProvider(conf, providers.NewClockProvider(), logger)
			token, err := auth.Issue(models.NewAddress(args[0]), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
