// Package mcp exposes the analytics engine as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	mcpproto "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/analysis"
	"github.com/sandevgo/moodmem/internal/service/mood"
	"github.com/sandevgo/moodmem/internal/service/similarity"
	"github.com/sandevgo/moodmem/pkg/log"
)

// ToolHandler takes raw JSON arguments and returns a JSON document.
type ToolHandler func(ctx context.Context, args json.RawMessage) (string, error)

type Tool struct {
	Name        string
	Description string
	Schema      string
	Handler     ToolHandler
}

type Server struct {
	pipeline *analysis.Pipeline
	analyzer *mood.Analyzer
	calc     *similarity.Calculator
	persist  bool
	mcp      *server.MCPServer
}

// NewServer registers the read-only analytics tools, plus process_memory
// when persist is set.
func NewServer(
	pipeline *analysis.Pipeline,
	analyzer *mood.Analyzer,
	calc *similarity.Calculator,
	persist bool,
) *Server {
	s := &Server{
		pipeline: pipeline,
		analyzer: analyzer,
		calc:     calc,
		persist:  persist,
		mcp:      server.NewMCPServer(core.MoodMemName, core.MoodMemVersion, server.WithToolCapabilities(false)),
	}
	for _, t := range s.Tools() {
		s.mcp.AddTool(mcpproto.NewToolWithRawSchema(t.Name, t.Description, json.RawMessage(t.Schema)), s.wrap(t))
	}
	return s
}

func (s *Server) Tools() []Tool {
	tools := []Tool{
		{
			Name:        "analyze_conversation",
			Description: "Score the mood of one conversation on a 0-10 scale with confidence, descriptors and factors.",
			Schema:      analyzeConversationSchema,
			Handler:     s.AnalyzeConversation,
		},
		{
			Name:        "detect_deltas",
			Description: "Score a sequence of conversations and return the mood changes between them with significance.",
			Schema:      detectDeltasSchema,
			Handler:     s.DetectDeltas,
		},
		{
			Name:        "extract_features",
			Description: "Extract clustering features (tone, communication, relationship, psychological, temporal) from a memory.",
			Schema:      extractFeaturesSchema,
			Handler:     s.ExtractFeatures,
		},
		{
			Name:        "calculate_similarity",
			Description: "Compare two memories and return the weighted similarity with its per-dimension breakdown.",
			Schema:      calculateSimilaritySchema,
			Handler:     s.CalculateSimilarity,
		},
	}
	if s.persist {
		tools = append(tools, Tool{
			Name:        "process_memory",
			Description: "Analyze a memory's conversations and store scores, deltas, patterns and turning points.",
			Schema:      processMemorySchema,
			Handler:     s.ProcessMemory,
		})
	}
	return tools
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// Start serves on stdin/stdout until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ctx = log.WithComponent(ctx, "mcp")
	log.FromCtx(ctx).Info().Bool("persist", s.persist).Msg("serving MCP over stdio")

	stdio := server.NewStdioServer(s.mcp)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp stdio server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return nil
}

func (s *Server) wrap(t Tool) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcpproto.CallToolRequest) (*mcpproto.CallToolResult, error) {
		logger := log.FromCtx(ctx).With().Str("tool", t.Name).Logger()

		args, err := json.Marshal(req.GetArguments())
		if err != nil {
			return mcpproto.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		out, err := t.Handler(ctx, args)
		if err != nil {
			logger.Warn().Err(err).Msg("tool call failed")
			return mcpproto.NewToolResultError(err.Error()), nil
		}

		logger.Debug().Int("bytes", len(out)).Msg("tool call completed")
		return mcpproto.NewToolResultText(out), nil
	}
}
