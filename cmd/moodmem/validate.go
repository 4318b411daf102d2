package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sandevgo/moodmem/internal/service/ui"
)

var (
	validator      string
	validatorNotes string
)

var validateCmd = &cobra.Command{
	Use:          "validate <memory-id> <score-id> <score>",
	Short:        "Record a human rating against a stored mood score",
	Args:         cobra.ExactArgs(3),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		scoreID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid score id %q: %w", args[1], err)
		}
		score, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid score %q: %w", args[2], err)
		}

		c, err := initComponents(ctx, true)
		if err != nil {
			return err
		}
		defer c.db.Close()

		v, err := c.pipeline.StoreValidation(ctx, args[0], scoreID, score, validator, validatorNotes)
		if err != nil {
			return err
		}

		fmt.Println(ui.Row("validation", strconv.FormatInt(v.ID, 10)))
		fmt.Println(ui.Row("validated score", ui.Score(v.ValidatedScore)))
		fmt.Println(ui.Row("discrepancy", fmt.Sprintf("%.2f", v.Discrepancy)))
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validator, "validator", "", "who provided the rating")
	validateCmd.Flags().StringVar(&validatorNotes, "notes", "", "free-form notes")
	_ = validateCmd.MarkFlagRequired("validator")
	rootCmd.AddCommand(validateCmd)
}
