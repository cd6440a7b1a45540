package main

import (
	"fmt"

	"polysynth/internal"
	"polysynth/internal/config"
	"polysynth/internal/container"

	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "0.3.0"

var (
	cfgFile string
	cfg     *config.Config
	logger  = internal.DefaultLogger
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "polysynth",
		Short: "Synthetic classification datasets from random polynomials",
		Long: `polysynth draws a random polynomial, samples its variables, and turns the
evaluated value into balanced binary targets. Each run writes one dataset per
enabled target policy and categorical profile, plus a metadata record for each.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			var err error
			cfg, err = config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger.SetLevel(cfg.Level())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./"+config.DefaultConfigFile+")")
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newCatalogCmd())

	return rootCmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the dataset catalog schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := container.New(cfg, logger)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := c.Connect(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Catalog schema is up to date")
			return nil
		},
	}
}
