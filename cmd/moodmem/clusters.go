package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/moodmem/internal/service/cluster"
	"github.com/sandevgo/moodmem/internal/service/ui"
	"github.com/sandevgo/moodmem/pkg/log"
)

var (
	clustersRun  bool
	clustersJSON bool
)

var clustersCmd = &cobra.Command{
	Use:          "clusters",
	Short:        "List memory clusters",
	Long:         `Lists stored clusters. With --run, one clustering batch is processed first.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		c, err := initComponents(ctx, true)
		if err != nil {
			return err
		}
		defer c.db.Close()

		if clustersRun {
			engine := cluster.NewEngine(c.calc, c.app.ClusterThreshold)
			worker := cluster.NewWorker(engine, c.memories, c.clusters, c.app.ClusterInterval, c.app.ClusterBatchSize)
			n, err := worker.ProcessBatch(ctx)
			if err != nil {
				return err
			}
			log.FromCtx(ctx).Info().Int("memories", n).Msg("clustering batch done")
		}

		clusters, err := c.clusters.ListClusters(ctx)
		if err != nil {
			return err
		}
		if clustersJSON {
			return writeJSON(clusters)
		}

		for _, cl := range clusters {
			fmt.Println(ui.TitleStyle.Render(fmt.Sprintf("%s  %s", cl.Theme, ui.DescStyle.Render(cl.ClusterID))))
			fmt.Println(ui.Row("coherence", ui.Ratio(cl.CoherenceScore)))
			fmt.Println(ui.Row("significance", ui.Ratio(cl.PsychologicalSignificance)))
			fmt.Println(ui.Row("members", fmt.Sprintf("%d  %s", cl.Metadata.MemoryCount, strings.Join(cl.MemoryIDs, ", "))))
		}
		return nil
	},
}

func init() {
	clustersCmd.Flags().BoolVar(&clustersRun, "run", false, "process one clustering batch before listing")
	clustersCmd.Flags().BoolVar(&clustersJSON, "json", false, "print clusters as JSON")
	rootCmd.AddCommand(clustersCmd)
}
