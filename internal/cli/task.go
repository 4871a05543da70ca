package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/lifeos/internal/ledger"
)

// TaskOptions holds flags for the task subcommands.
type TaskOptions struct {
	*RootOptions
	Domain   string
	Title    string
	Shipping string
	All      bool
}

// NewTaskCommand creates the task command group.
func NewTaskCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TaskOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage the task inventory",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a task to the inventory",
		Long: `Create a task in one of the four domains (ENGINE, VESSEL, RESOURCES,
SYSTEM). A shipping type (INTERNAL, STAGED, LIVE) is valid only on ENGINE
tasks.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskAdd(opts, cmd)
		},
	}
	add.Flags().StringVar(&opts.Domain, "domain", "", "task domain (required)")
	add.Flags().StringVar(&opts.Title, "title", "", "task title (required)")
	add.Flags().StringVar(&opts.Shipping, "shipping", "", "shipping type (ENGINE tasks only)")
	_ = add.MarkFlagRequired("domain")
	_ = add.MarkFlagRequired("title")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List tasks",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskList(opts, cmd)
		},
	}
	list.Flags().BoolVar(&opts.All, "all", false, "include archived tasks")

	archive := &cobra.Command{
		Use:           "archive <task-id>",
		Short:         "Archive a task (tasks are never deleted)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTaskArchive(opts, args, cmd)
		},
	}

	cmd.AddCommand(add)
	cmd.AddCommand(list)
	cmd.AddCommand(archive)
	return cmd
}

func runTaskAdd(opts *TaskOptions, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	svc, closer, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closer()

	var shipping *ledger.ShippingType
	if opts.Shipping != "" {
		st := ledger.ShippingType(opts.Shipping)
		shipping = &st
	}

	id, err := svc.CreateTask(cmd.Context(), ledger.Domain(opts.Domain), opts.Title, shipping)
	if err != nil {
		return fail(formatter, err)
	}

	return formatter.Successf(
		map[string]interface{}{"task_id": id},
		"Created task %d (%s: %s)", id, opts.Domain, opts.Title)
}

func runTaskList(opts *TaskOptions, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	svc, closer, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closer()

	tasks, err := svc.ListTasks(cmd.Context(), opts.All)
	if err != nil {
		return fail(formatter, err)
	}

	if opts.Format == "json" {
		return formatter.Success(tasks)
	}
	for _, t := range tasks {
		line := "  " + strconv.FormatInt(t.ID, 10) + "  [" + string(t.Domain) + "] " + t.Title
		if t.Status == ledger.TaskArchived {
			line += " (archived)"
		}
		if _, err := cmd.OutOrStdout().Write([]byte(line + "\n")); err != nil {
			return err
		}
	}
	return nil
}

func runTaskArchive(opts *TaskOptions, args []string, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid task id", err)
	}

	svc, closer, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closer()

	if err := svc.ArchiveTask(cmd.Context(), id); err != nil {
		return fail(formatter, err)
	}
	return formatter.Successf(
		map[string]interface{}{"task_id": id, "status": "ARCHIVED"},
		"Archived task %d", id)
}
