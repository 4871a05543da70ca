package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/lifeos/internal/ledger"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Weight float64
	Sleep  int
	Units  int
	Spend  float64
	Screen int
	Notes  string
}

// NewLogCommand creates the log command group.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Submit the immutable end-of-day log",
	}

	submit := &cobra.Command{
		Use:   "submit [day]",
		Short: "Submit the day's metrics (write-once)",
		Long: `Record the day's raw metrics: sleep score, alcohol units, total spend,
screen time, optional morning weight and notes. Exactly one log may exist
per day - a second submission is rejected with DUPLICATE_LOG. Corrections
are new rows in the derived history, never edits.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogSubmit(opts, args, cmd)
		},
	}
	submit.Flags().Float64Var(&opts.Weight, "weight", 0, "morning weight (omit for none)")
	submit.Flags().IntVar(&opts.Sleep, "sleep", 0, "sleep score 0-100 (required)")
	submit.Flags().IntVar(&opts.Units, "alcohol", 0, "alcohol units")
	submit.Flags().Float64Var(&opts.Spend, "spend", 0, "total spend")
	submit.Flags().IntVar(&opts.Screen, "screen", 0, "screen time in minutes")
	submit.Flags().StringVar(&opts.Notes, "notes", "", "debrief notes")
	_ = submit.MarkFlagRequired("sleep")

	cmd.AddCommand(submit)
	return cmd
}

func runLogSubmit(opts *LogOptions, args []string, cmd *cobra.Command) error {
	formatter := formatterFor(opts.RootOptions, cmd)

	svc, closer, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer closer()

	day := dayArg(args, svc)

	log := ledger.DailyLog{
		Day:            day,
		SleepScore:     opts.Sleep,
		AlcoholUnits:   opts.Units,
		TotalSpend:     opts.Spend,
		ScreenTimeMins: opts.Screen,
		ManualNotes:    opts.Notes,
	}
	if cmd.Flags().Changed("weight") {
		log.MorningWeight = &opts.Weight
	}

	if err := svc.SubmitLog(cmd.Context(), log); err != nil {
		return fail(formatter, err)
	}
	return formatter.Successf(
		map[string]interface{}{"day": day},
		"Logged %s. The day is locked.", day)
}
