package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewScoreCommand creates the score command group.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute and inspect derived scores",
	}

	run := &cobra.Command{
		Use:   "run [day]",
		Short: "Run the Judge for a day and append a derived score",
		Long: `Read the day's immutable log, its routed config and its plan completion
facts, compute the weighted veto-adjusted score, and append one derived
row. Re-running appends another row; the latest row is authoritative.

Fails with NO_LOG_YET until the day's log has been submitted.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScoreRun(rootOpts, args, cmd)
		},
	}

	show := &cobra.Command{
		Use:           "show [day]",
		Short:         "Show the latest derived score for a day",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScoreShow(rootOpts, args, cmd)
		},
	}

	history := &cobra.Command{
		Use:           "history [day]",
		Short:         "Show every derived score recorded for a day",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScoreHistory(rootOpts, args, cmd)
		},
	}

	cmd.AddCommand(run)
	cmd.AddCommand(show)
	cmd.AddCommand(history)
	return cmd
}

func runScoreRun(rootOpts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := formatterFor(rootOpts, cmd)

	svc, closer, err := openService(rootOpts)
	if err != nil {
		return err
	}
	defer closer()

	day := dayArg(args, svc)
	score, err := svc.ComputeScore(cmd.Context(), day)
	if err != nil {
		return fail(formatter, err)
	}

	return formatter.Successf(
		map[string]interface{}{
			"day":        day,
			"nps":        score.NPS,
			"multiplier": score.SafetyMultiplier,
			"config_id":  score.ConfigID,
		},
		"NPS for %s: %.1f (multiplier %.1f, config %d)",
		day, score.NPS, score.SafetyMultiplier, score.ConfigID)
}

func runScoreShow(rootOpts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := formatterFor(rootOpts, cmd)

	svc, closer, err := openService(rootOpts)
	if err != nil {
		return err
	}
	defer closer()

	day := dayArg(args, svc)
	score, err := svc.GetLatestScore(cmd.Context(), day)
	if err != nil {
		return fail(formatter, err)
	}
	if score == nil {
		return formatter.Successf(
			map[string]interface{}{"day": day, "scored": false},
			"%s has not been scored yet", day)
	}

	return formatter.Successf(score,
		"%s: NPS %.1f\n  engine %.1f | vessel %.1f | resources %.1f | system %.1f\n  multiplier %.1f, config %d",
		day, score.NPS, score.ScoreEngine, score.ScoreVessel,
		score.ScoreResources, score.ScoreSystem, score.SafetyMultiplier, score.ConfigID)
}

func runScoreHistory(rootOpts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := formatterFor(rootOpts, cmd)

	svc, closer, err := openService(rootOpts)
	if err != nil {
		return err
	}
	defer closer()

	day := dayArg(args, svc)
	scores, err := svc.ScoreHistory(cmd.Context(), day)
	if err != nil {
		return fail(formatter, err)
	}

	if rootOpts.Format == "json" {
		return formatter.Success(scores)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Score history for %s (%d computations)\n", day, len(scores))
	for _, sc := range scores {
		fmt.Fprintf(out, "  #%d NPS %.1f (multiplier %.1f, config %d)\n",
			sc.ID, sc.NPS, sc.SafetyMultiplier, sc.ConfigID)
	}
	return nil
}
