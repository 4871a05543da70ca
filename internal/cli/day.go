package cli

import (
	"github.com/spf13/cobra"
)

// NewDayCommand creates the day command group.
func NewDayCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day",
		Short: "Initialize days (carry-forward config routing)",
	}

	initCmd := &cobra.Command{
		Use:   "init [day]",
		Short: "Initialize a day, inheriting the most recent prior config routing",
		Long: `Pin a day (default: today) to the config version that governs it. A
no-op for already-routed days. The most recent routing strictly before the
day is carried forward; a warning is emitted when that routing is more
than 30 days old.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDayInit(rootOpts, args, cmd)
		},
	}

	ahead := &cobra.Command{
		Use:           "ahead",
		Short:         "Initialize today plus the next seven days",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDayAhead(rootOpts, cmd)
		},
	}

	cmd.AddCommand(initCmd)
	cmd.AddCommand(ahead)
	return cmd
}

func runDayInit(rootOpts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := formatterFor(rootOpts, cmd)

	svc, closer, err := openService(rootOpts)
	if err != nil {
		return err
	}
	defer closer()

	day := dayArg(args, svc)
	res, err := svc.EnsureDayInitialized(cmd.Context(), day)
	if err != nil {
		return fail(formatter, err)
	}

	if !res.Routed {
		return formatter.Successf(
			map[string]interface{}{"day": day, "config_id": res.ConfigID, "routed": false},
			"%s already routed to config %d", day, res.ConfigID)
	}
	return formatter.Successf(
		map[string]interface{}{"day": day, "config_id": res.ConfigID, "routed": true, "inherited_from": res.InheritedFrom},
		"Initialized %s with config %d (inherited from %s)", day, res.ConfigID, res.InheritedFrom)
}

func runDayAhead(rootOpts *RootOptions, cmd *cobra.Command) error {
	formatter := formatterFor(rootOpts, cmd)

	svc, closer, err := openService(rootOpts)
	if err != nil {
		return err
	}
	defer closer()

	if err := svc.EnsureWeekAhead(cmd.Context()); err != nil {
		return fail(formatter, err)
	}
	return formatter.Successf(
		map[string]interface{}{"initialized": 8},
		"Initialized today plus the next seven days")
}
