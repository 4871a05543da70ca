package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/lifeos/internal/ledger"
)

// PlanOptions holds flags for the plan subcommands.
type PlanOptions struct {
	*RootOptions
	Keystone bool
	Status   string
	Notes    string
}

// NewPlanCommand creates the plan command group.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage daily plan commitments",
	}

	add := &cobra.Command{
		Use:           "add <day> <task-id>",
		Short:         "Commit a task to a day's plan",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlanAdd(opts, args, cmd)
		},
	}
	add.Flags().BoolVar(&opts.Keystone, "keystone", false, "mark as the day's keystone task")

	set := &cobra.Command{
		Use:   "set <day> <task-id>",
		Short: "Set a plan entry's completion status",
		Long: `Update a plan entry's completion status (PENDING, COMPLETE, FAILED,
DEFERRED). Plan entries track intent and are freely mutable - the one
exception to the ledger's append-only rule.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlanSet(opts, args, cmd)
		},
	}
	set.Flags().StringVar(&opts.Status, "status", "", "completion status (required)")
	set.Flags().StringVar(&opts.Notes, "notes", "", "completion notes")
	_ = set.MarkFlagRequired("status")

	show := &cobra.Command{
		Use:           "show [day]",
		Short:         "Show a day's plan and hit rate",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlanShow(opts, args, cmd)
		},
	}

	cmd.AddCommand(add)
	cmd.AddCommand(set)
	cmd.AddCommand(show)
	return cmd
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, "invalid task id", err)
	}
	return id, nil
}

func runPlanAdd(opts *PlanOptions, args []string, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	taskID, err := parseTaskID(args[1])
	if err != nil {
		return err
	}

	svc, closer, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closer()

	if err := svc.AddToPlan(cmd.Context(), args[0], taskID, opts.Keystone); err != nil {
		return fail(formatter, err)
	}
	return formatter.Successf(
		map[string]interface{}{"day": args[0], "task_id": taskID, "keystone": opts.Keystone},
		"Planned task %d for %s", taskID, args[0])
}

func runPlanSet(opts *PlanOptions, args []string, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	taskID, err := parseTaskID(args[1])
	if err != nil {
		return err
	}

	svc, closer, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closer()

	var notes *string
	if opts.Notes != "" {
		notes = &opts.Notes
	}

	if err := svc.SetCompletion(cmd.Context(), args[0], taskID, ledger.CompletionStatus(opts.Status), notes); err != nil {
		return fail(formatter, err)
	}
	return formatter.Successf(
		map[string]interface{}{"day": args[0], "task_id": taskID, "status": opts.Status},
		"Task %d on %s -> %s", taskID, args[0], opts.Status)
}

func runPlanShow(opts *PlanOptions, args []string, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	svc, closer, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closer()

	day := dayArg(args, svc)
	entries, err := svc.GetPlan(cmd.Context(), day)
	if err != nil {
		return fail(formatter, err)
	}
	hitRate, err := svc.GetPlanHitRate(cmd.Context(), day)
	if err != nil {
		return fail(formatter, err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]interface{}{
			"day":      day,
			"entries":  entries,
			"hit_rate": hitRate,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Plan for %s (hit rate %.1f%%)\n", day, hitRate)
	for _, e := range entries {
		marker := " "
		if e.Keystone {
			marker = "*"
		}
		fmt.Fprintf(out, "  %s %d [%s] %s - %s\n", marker, e.TaskID, e.Domain, e.Title, e.Status)
	}
	return nil
}
