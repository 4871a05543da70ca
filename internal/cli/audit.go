package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewAuditCommand creates the audit command.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit [day]",
		Short: "Show a day's audit trail",
		Long: `List the append-only audit events recorded for a day, in insertion
order. Every event carries the op token of the operation that wrote it.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(rootOpts, args, cmd)
		},
	}
}

func runAudit(rootOpts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := formatterFor(rootOpts, cmd)

	svc, closer, err := openService(rootOpts)
	if err != nil {
		return err
	}
	defer closer()

	day := dayArg(args, svc)
	events, err := svc.AuditTrail(cmd.Context(), day)
	if err != nil {
		return fail(formatter, err)
	}

	if rootOpts.Format == "json" {
		return formatter.Success(events)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Audit trail for %s (%d events)\n", day, len(events))
	for _, e := range events {
		ts := time.Unix(e.Timestamp, 0).UTC().Format(time.RFC3339)
		fmt.Fprintf(out, "  #%d %s %s sev=%d op=%s\n", e.ID, ts, e.EventType, e.Severity, e.OpToken)
		if e.UserInput != "" {
			fmt.Fprintf(out, "      %s\n", e.UserInput)
		}
	}
	return nil
}
