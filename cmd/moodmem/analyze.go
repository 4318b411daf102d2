package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/analysis"
	"github.com/sandevgo/moodmem/internal/service/ui"
	"github.com/sandevgo/moodmem/pkg/log"
)

// analyzeInput is the document read by `analyze`.
type analyzeInput struct {
	Memory        core.ExtractedMemory `json:"memory"`
	Conversations []core.Conversation  `json:"conversations"`
}

var (
	analyzeDryRun bool
	analyzeJSON   bool
)

var analyzeCmd = &cobra.Command{
	Use:          "analyze <file.json>",
	Short:        "Score a memory's conversations and store the mood history",
	Long:         `Reads {"memory": ..., "conversations": [...]} and runs mood scoring, delta detection and significance analysis. With --dry-run nothing is stored.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		var in analyzeInput
		if err := readJSON(args[0], &in); err != nil {
			return err
		}

		c, err := initComponents(ctx, !analyzeDryRun)
		if err != nil {
			return err
		}
		if c.db != nil {
			defer c.db.Close()
		}

		if analyzeDryRun {
			preview, err := c.pipeline.Preview(in.Conversations)
			if err != nil {
				return err
			}
			if analyzeJSON {
				return writeJSON(preview)
			}
			printPreview(preview)
			return nil
		}

		report, err := c.pipeline.Process(ctx, in.Memory, in.Conversations)
		if err != nil {
			return err
		}
		log.FromCtx(ctx).Debug().Str("memory_id", report.MemoryID).Msg("analysis stored")

		if analyzeJSON {
			return writeJSON(report)
		}
		printReport(report)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeDryRun, "dry-run", false, "analyze without storing anything")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func printReport(r *analysis.Report) {
	fmt.Println(ui.TitleStyle.Render("MEMORY " + r.MemoryID))
	for _, s := range r.Scores {
		fmt.Println(ui.Row(fmt.Sprintf("score #%d", s.ID), scoreLine(s.MoodAnalysisResult)))
	}
	printDeltas(r.Deltas)

	if len(r.Patterns) > 0 {
		fmt.Println(ui.TitleStyle.Render("PATTERNS"))
		for _, p := range r.Patterns {
			fmt.Println(ui.Row(string(p.Type), fmt.Sprintf("significance %.2f  %s", p.Significance, ui.DescStyle.Render(p.Description))))
		}
	}
	if len(r.TurningPoints) > 0 {
		fmt.Println(ui.TitleStyle.Render("TURNING POINTS"))
		for _, tp := range r.TurningPoints {
			fmt.Println(ui.Row(string(tp.Type), fmt.Sprintf("magnitude %.2f  significance %.2f", tp.Magnitude, tp.Significance)))
		}
	}

	tone := r.Features.EmotionalTone
	fmt.Println(ui.TitleStyle.Render("FEATURES"))
	fmt.Println(ui.Row("intensity", ui.Ratio(tone.EmotionalIntensity)))
	fmt.Println(ui.Row("descriptors", strings.Join(tone.EmotionalDescriptors, ", ")))
}

func printPreview(p *analysis.Preview) {
	fmt.Println(ui.TitleStyle.Render("PREVIEW"))
	for i, a := range p.Analyses {
		fmt.Println(ui.Row(fmt.Sprintf("analysis %d", i+1), scoreLine(a)))
	}
	printDeltas(p.Deltas)

	if len(p.TurningPoints) > 0 {
		fmt.Println(ui.TitleStyle.Render("TURNING POINTS"))
		for _, tp := range p.TurningPoints {
			fmt.Println(ui.Row(string(tp.Input.Type), fmt.Sprintf("magnitude %.2f", tp.Input.Magnitude)))
		}
	}
}

func printDeltas(deltas []core.MoodDelta) {
	if len(deltas) == 0 {
		return
	}
	fmt.Println(ui.TitleStyle.Render("DELTAS"))
	for _, d := range deltas {
		fmt.Println(ui.Row(
			fmt.Sprintf("%s (%s)", d.Type, d.Direction),
			fmt.Sprintf("%s -> %s  magnitude %.2f  significance %.2f",
				ui.Score(d.FromScore), ui.Score(d.ToScore), d.Magnitude, d.Significance),
		))
	}
}

func scoreLine(a core.MoodAnalysisResult) string {
	return fmt.Sprintf("%s  confidence %s  %s",
		ui.Score(a.Score), ui.Ratio(a.Confidence), ui.DescStyle.Render(strings.Join(a.Descriptors, ", ")))
}
