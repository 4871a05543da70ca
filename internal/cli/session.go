package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/lifeos/internal/ledger"
)

// SessionOptions holds flags for the session subcommands.
type SessionOptions struct {
	*RootOptions
	TaskID   int64
	Kind     string
	Evidence string
}

// NewSessionCommand creates the session command group.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Track focus sessions (one open at a time)",
	}

	start := &cobra.Command{
		Use:   "start",
		Short: "Start a focus session",
		Long: `Open a new focus session. At most one session may be open system-wide:
starting while another is open fails with FOCUS_LOCK_ACTIVE.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionStart(opts, cmd)
		},
	}
	start.Flags().Int64Var(&opts.TaskID, "task", 0, "task id to attribute the session to")
	start.Flags().StringVar(&opts.Kind, "type", string(ledger.SessionDeep), "session type (DEEP|SHALLOW)")

	stop := &cobra.Command{
		Use:   "stop [session-id]",
		Short: "Close a session (default: the active one)",
		Long: `Close a session, recording end time, floor-divided whole-minute duration
and optional evidence atomically. Closing is the only permitted mutation;
a closed session can never change again.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionStop(opts, args, cmd)
		},
	}
	stop.Flags().StringVar(&opts.Evidence, "evidence", "", "evidence reference (URL)")

	status := &cobra.Command{
		Use:           "status",
		Short:         "Show the active session and recent history",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionStatus(opts, cmd)
		},
	}

	cmd.AddCommand(start)
	cmd.AddCommand(stop)
	cmd.AddCommand(status)
	return cmd
}

func runSessionStart(opts *SessionOptions, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	svc, closer, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closer()

	var taskID *int64
	if cmd.Flags().Changed("task") {
		taskID = &opts.TaskID
	}

	id, err := svc.StartSession(cmd.Context(), taskID, ledger.SessionType(opts.Kind))
	if err != nil {
		return fail(formatter, err)
	}
	return formatter.Successf(
		map[string]interface{}{"session_id": id, "type": opts.Kind},
		"Session %d started (%s)", id, opts.Kind)
}

func runSessionStop(opts *SessionOptions, args []string, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	svc, closer, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closer()

	var id int64
	if len(args) > 0 {
		id, err = strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid session id", err)
		}
	} else {
		active, err := svc.ActiveSession(cmd.Context())
		if err != nil {
			return fail(formatter, err)
		}
		if active == nil {
			return fail(formatter, &ledger.Error{
				Code:    ledger.ErrCodeSessionNotFound,
				Message: "no active session to stop",
			})
		}
		id = active.ID
	}

	var evidence *string
	if opts.Evidence != "" {
		evidence = &opts.Evidence
	}

	duration, err := svc.StopSession(cmd.Context(), id, evidence)
	if err != nil {
		return fail(formatter, err)
	}
	return formatter.Successf(
		map[string]interface{}{"session_id": id, "duration_minutes": duration},
		"Session %d closed: +%d mins logged", id, duration)
}

func runSessionStatus(opts *SessionOptions, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	svc, closer, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closer()

	active, err := svc.ActiveSession(cmd.Context())
	if err != nil {
		return fail(formatter, err)
	}
	recent, err := svc.RecentSessions(cmd.Context(), 5)
	if err != nil {
		return fail(formatter, err)
	}

	if opts.Format == "json" {
		return formatter.Success(map[string]interface{}{
			"active": active,
			"recent": recent,
		})
	}

	out := cmd.OutOrStdout()
	if active == nil {
		fmt.Fprintln(out, "No active session")
	} else {
		started := time.Unix(active.StartTS, 0).Format("15:04")
		fmt.Fprintf(out, "Session %d active (%s) since %s\n", active.ID, active.Type, started)
	}
	for _, s := range recent {
		dur := "-"
		if s.DurationMinutes != nil {
			dur = strconv.FormatInt(*s.DurationMinutes, 10) + "m"
		}
		fmt.Fprintf(out, "  #%d %s %s\n", s.ID, s.Type, dur)
	}
	return nil
}
