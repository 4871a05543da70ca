package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/lifeos/internal/config"
)

// BootstrapOptions holds flags for the bootstrap command.
type BootstrapOptions struct {
	*RootOptions
	ConfigFile string
	Day        string
}

// NewBootstrapCommand creates the bootstrap command.
func NewBootstrapCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BootstrapOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Seed the registry with a first config and route the first day",
		Long: `Seed an empty ledger: publish the first scoring config version and pin
it to the given day (default: today). Every later day inherits its routing
from here via carry-forward, so bootstrap runs exactly once per database.

Without --config, the built-in genesis config is published
(weights 0.4/0.3/0.2/0.1, alcohol veto 0, sleep minimum 5).

Example:
  lifeos bootstrap --db ./lifeos.db
  lifeos bootstrap --config ./config.yaml --day 2026-01-01`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBootstrap(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "f", "", "YAML config document (default: built-in genesis)")
	cmd.Flags().StringVar(&opts.Day, "day", "", "first day to route (default: today)")

	return cmd
}

func runBootstrap(opts *BootstrapOptions, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	doc := config.Genesis()
	if opts.ConfigFile != "" {
		loaded, err := config.LoadFile(opts.ConfigFile)
		if err != nil {
			return fail(formatter, err)
		}
		doc = *loaded
	}

	svc, closer, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closer()

	day := opts.Day
	if day == "" {
		day = svc.Today()
	}

	configID, err := svc.Bootstrap(cmd.Context(), doc, day)
	if err != nil {
		return fail(formatter, err)
	}

	return formatter.Successf(
		map[string]interface{}{"config_id": configID, "day": day, "version": doc.VersionName},
		"Seeded config %d (%s), routed to %s", configID, doc.VersionName, day)
}
