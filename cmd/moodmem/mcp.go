package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sandevgo/moodmem/internal/transport/mcp"
	"github.com/sandevgo/moodmem/pkg/log"
	"github.com/sandevgo/moodmem/pkg/srv"
)

var mcpCmd = &cobra.Command{
	Use:          "mcp",
	Short:        "Serve the analytics tools over MCP stdio",
	Long:         `Exposes analyze_conversation, detect_deltas, extract_features and calculate_similarity as MCP tools. With MOODMEM_MCP_PERSIST=true, process_memory stores results and the clustering worker runs alongside.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		c := newComponents(ctx)
		persist := c.app.MCPPersist
		if persist {
			if err := c.initStorage(ctx); err != nil {
				return err
			}
		}
		c.initPipeline()

		server := mcp.NewServer(c.pipeline, c.analyzer, c.calc, persist)

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		background := c.backgroundServices()
		srv.StartServices(ctx, background)

		err := server.Start(ctx)
		logger.Debug().Err(err).Msg("mcp server stopped")

		cancel()
		srv.ShutdownServices(ctx, background)
		return err
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
