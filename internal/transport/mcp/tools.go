package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/features"
	"github.com/sandevgo/moodmem/internal/service/similarity"
)

const analyzeConversationSchema = `
{
  "type": "object",
  "properties": {
    "conversation": {
      "type": "object",
      "description": "Conversation with id, messages [{id, content, authorId, timestamp}], participants [{id, name, role}], startTime and endTime"
    }
  },
  "required": ["conversation"]
}
`

const detectDeltasSchema = `
{
  "type": "object",
  "properties": {
    "conversations": {
      "type": "array",
      "items": { "type": "object" },
      "description": "Conversations in chronological order. A single conversation is split into overlapping segments."
    }
  },
  "required": ["conversations"]
}
`

const extractFeaturesSchema = `
{
  "type": "object",
  "properties": {
    "memory": { "type": "object", "description": "Extracted memory" },
    "context": {
      "type": "array",
      "items": { "type": "object" },
      "description": "Other memories used for temporal context"
    }
  },
  "required": ["memory"]
}
`

const calculateSimilaritySchema = `
{
  "type": "object",
  "properties": {
    "a": { "type": "object", "description": "First memory" },
    "b": { "type": "object", "description": "Second memory" }
  },
  "required": ["a", "b"]
}
`

const processMemorySchema = `
{
  "type": "object",
  "properties": {
    "memory": { "type": "object", "description": "Extracted memory to store" },
    "conversations": {
      "type": "array",
      "items": { "type": "object" },
      "description": "Conversations belonging to the memory, in chronological order"
    }
  },
  "required": ["memory", "conversations"]
}
`

func (s *Server) AnalyzeConversation(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		Conversation *core.Conversation `json:"conversation"`
	}
	if err := decode(args, &input); err != nil {
		return "", err
	}
	if input.Conversation == nil {
		return "", core.NewValidationError("conversation", "is required")
	}

	res, err := s.analyzer.AnalyzeConversation(*input.Conversation)
	if err != nil {
		return "", err
	}
	return encode(res)
}

func (s *Server) DetectDeltas(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		Conversations []core.Conversation `json:"conversations"`
	}
	if err := decode(args, &input); err != nil {
		return "", err
	}

	preview, err := s.pipeline.Preview(input.Conversations)
	if err != nil {
		return "", err
	}
	return encode(preview)
}

func (s *Server) ExtractFeatures(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		Memory  *core.ExtractedMemory  `json:"memory"`
		Context []core.ExtractedMemory `json:"context"`
	}
	if err := decode(args, &input); err != nil {
		return "", err
	}
	if input.Memory == nil {
		return "", core.NewValidationError("memory", "is required")
	}
	if err := input.Memory.Validate(); err != nil {
		return "", err
	}
	return encode(features.Extract(*input.Memory, input.Context...))
}

func (s *Server) CalculateSimilarity(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		A *core.ExtractedMemory `json:"a"`
		B *core.ExtractedMemory `json:"b"`
	}
	if err := decode(args, &input); err != nil {
		return "", err
	}
	if input.A == nil || input.B == nil {
		return "", core.NewValidationError("a, b", "both memories are required")
	}
	for _, m := range []*core.ExtractedMemory{input.A, input.B} {
		if err := m.Validate(); err != nil {
			return "", err
		}
	}
	return encode(s.calc.Compare(similarity.Prepare(*input.A), similarity.Prepare(*input.B)))
}

func (s *Server) ProcessMemory(ctx context.Context, args json.RawMessage) (string, error) {
	var input struct {
		Memory        core.ExtractedMemory `json:"memory"`
		Conversations []core.Conversation  `json:"conversations"`
	}
	if err := decode(args, &input); err != nil {
		return "", err
	}

	report, err := s.pipeline.Process(ctx, input.Memory, input.Conversations)
	if err != nil {
		return "", err
	}
	return encode(report)
}

func decode(args json.RawMessage, v any) error {
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func encode(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}
