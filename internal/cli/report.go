package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/lifeos/internal/dayops"
)

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report [day]",
		Short: "Render the day's scorecard",
		Long: `Render a day's scorecard: the four domain scores, the safety multiplier,
the final NPS and a WIN/HOLD/FAIL banner, plus the plan hit rate. Reads
the latest derived score; days never scored render as unscored.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(rootOpts, args, cmd)
		},
	}
}

func runReport(rootOpts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := formatterFor(rootOpts, cmd)

	svc, closer, err := openService(rootOpts)
	if err != nil {
		return err
	}
	defer closer()

	day := dayArg(args, svc)
	card, err := svc.BuildScorecard(cmd.Context(), day)
	if err != nil {
		return fail(formatter, err)
	}

	if rootOpts.Format == "json" {
		return formatter.Success(card)
	}
	fmt.Fprint(cmd.OutOrStdout(), renderScorecard(card))
	return nil
}

// renderScorecard formats a scorecard as fixed-width text. Deterministic
// for a given card, so the output is golden-testable.
func renderScorecard(card *dayops.Scorecard) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== SCORECARD %s ===\n", card.Day)
	if !card.Scored {
		fmt.Fprintf(&b, "Not scored yet (plan hit rate %.1f%%)\n", card.HitRate)
		return b.String()
	}

	fmt.Fprintf(&b, "Engine     %6.1f\n", card.Engine)
	fmt.Fprintf(&b, "Vessel     %6.1f\n", card.Vessel)
	fmt.Fprintf(&b, "Resources  %6.1f\n", card.Resources)
	fmt.Fprintf(&b, "System     %6.1f\n", card.System)
	fmt.Fprintf(&b, "Multiplier %6.1f\n", card.Multiplier)
	fmt.Fprintf(&b, "Hit rate   %5.1f%%\n", card.HitRate)
	fmt.Fprintf(&b, "NPS        %6.1f  [%s]\n", card.NPS, card.Status)
	fmt.Fprintf(&b, "(config version %d)\n", card.ConfigID)
	return b.String()
}
