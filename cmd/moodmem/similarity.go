package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/similarity"
	"github.com/sandevgo/moodmem/internal/service/ui"
)

var similarityJSON bool

var similarityCmd = &cobra.Command{
	Use:          "similarity <a.json> <b.json>",
	Short:        "Compare two memories across the five feature dimensions",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		var a, b core.ExtractedMemory
		if err := readJSON(args[0], &a); err != nil {
			return err
		}
		if err := readJSON(args[1], &b); err != nil {
			return err
		}

		c, err := initComponents(ctx, false)
		if err != nil {
			return err
		}

		bd := c.calc.Compare(similarity.Prepare(a), similarity.Prepare(b))
		if similarityJSON {
			return writeJSON(bd)
		}

		fmt.Println(ui.TitleStyle.Render(fmt.Sprintf("%s vs %s", a.ID, b.ID)))
		fmt.Println(ui.Row("emotional tone", ui.Ratio(bd.EmotionalTone)))
		fmt.Println(ui.Row("communication style", ui.Ratio(bd.CommunicationStyle)))
		fmt.Println(ui.Row("relationship context", ui.Ratio(bd.RelationshipContext)))
		fmt.Println(ui.Row("psychological indicators", ui.Ratio(bd.PsychologicalIndicators)))
		fmt.Println(ui.Row("temporal context", ui.Ratio(bd.TemporalContext)))
		if bd.ThemePenalty {
			fmt.Println(ui.Row("theme penalty", ui.DescStyle.Render("no shared descriptors")))
		}
		fmt.Println(ui.Row("total", ui.Ratio(bd.Total)))
		return nil
	},
}

func init() {
	similarityCmd.Flags().BoolVar(&similarityJSON, "json", false, "print the breakdown as JSON")
	rootCmd.AddCommand(similarityCmd)
}
