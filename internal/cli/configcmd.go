package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/lifeos/internal/config"
)

// ConfigOptions holds flags for the config subcommands.
type ConfigOptions struct {
	*RootOptions
	ConfigFile string
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage scoring config versions",
	}

	publish := &cobra.Command{
		Use:   "publish",
		Short: "Publish a new scoring config version",
		Long: `Validate a YAML config document against the schema and append it as a
new immutable version. The new version governs only days initialized after
publication; existing routing pins never move.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigPublish(opts, cmd)
		},
	}
	publish.Flags().StringVarP(&opts.ConfigFile, "config", "f", "", "YAML config document (required)")
	_ = publish.MarkFlagRequired("config")

	show := &cobra.Command{
		Use:           "show [day]",
		Short:         "Show the config version governing a day",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(opts, args, cmd)
		},
	}

	cmd.AddCommand(publish)
	cmd.AddCommand(show)
	return cmd
}

func runConfigPublish(opts *ConfigOptions, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	doc, err := config.LoadFile(opts.ConfigFile)
	if err != nil {
		return fail(formatter, err)
	}

	svc, closer, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closer()

	id, err := svc.PublishConfig(cmd.Context(), *doc)
	if err != nil {
		return fail(formatter, err)
	}

	return formatter.Successf(
		map[string]interface{}{"config_id": id, "version": doc.VersionName},
		"Published config %d (%s)", id, doc.VersionName)
}

func runConfigShow(opts *ConfigOptions, args []string, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	svc, closer, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closer()

	day := dayArg(args, svc)
	cfg, err := svc.ConfigForDay(cmd.Context(), day)
	if err != nil {
		return fail(formatter, err)
	}

	return formatter.Successf(
		map[string]interface{}{
			"day":       day,
			"config_id": cfg.ID,
			"version":   cfg.VersionName,
			"season":    cfg.SeasonMode,
			"weights":   cfg.WeightsJSON,
			"vetoes":    cfg.VetoesJSON,
		},
		"%s governed by config %d (%s)\n  weights: %s\n  vetoes:  %s",
		day, cfg.ID, cfg.VersionName, cfg.WeightsJSON, cfg.VetoesJSON)
}
