// Package analysis runs a memory's conversations through scoring, delta
// detection and significance analysis and persists every stage.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/delta"
	"github.com/sandevgo/moodmem/internal/service/features"
	"github.com/sandevgo/moodmem/internal/service/mood"
	"github.com/sandevgo/moodmem/internal/service/significance"
	"github.com/sandevgo/moodmem/pkg/log"
	"github.com/sandevgo/moodmem/pkg/retry"
)

// Report is everything Process produced for one memory.
type Report struct {
	MemoryID       string                  `json:"memoryId"`
	ConversationID string                  `json:"conversationId"`
	Scores         []core.StoredMoodScore  `json:"scores"`
	Deltas         []core.MoodDelta        `json:"deltas"`
	Patterns       []core.DeltaPattern     `json:"patterns"`
	TurningPoints  []core.TurningPoint     `json:"turningPoints"`
	Features       core.ClusteringFeatures `json:"features"`
}

// Preview is the unpersisted outcome of scoring a set of conversations.
type Preview struct {
	Analyses      []core.MoodAnalysisResult            `json:"analyses"`
	Deltas        []core.MoodDelta                     `json:"deltas"`
	TurningPoints []significance.TurningPointCandidate `json:"turningPoints"`
}

type Pipeline struct {
	analyzer *mood.Analyzer
	detector *delta.Detector
	engine   *significance.Engine
	memories core.MemoryRepository
	moods    core.MoodRepository
	segments mood.SegmentConfig
	retrier  *retry.Retrier
	version  string
}

func NewPipeline(
	analyzer *mood.Analyzer,
	detector *delta.Detector,
	engine *significance.Engine,
	memories core.MemoryRepository,
	moods core.MoodRepository,
	segments mood.SegmentConfig,
	retryCfg *retry.Config,
) *Pipeline {
	if retryCfg == nil {
		retryCfg = retry.NewDefaultConfig()
	}
	return &Pipeline{
		analyzer: analyzer,
		detector: detector,
		engine:   engine,
		memories: memories,
		moods:    moods,
		segments: segments,
		retrier:  retry.NewRetrier(retryCfg, retry.WithPermanent(isPermanent)),
		version:  core.AlgorithmVersion,
	}
}

// WithAlgorithmVersion sets the version stamped on stored mood scores.
func (p *Pipeline) WithAlgorithmVersion(v string) *Pipeline {
	if v != "" {
		p.version = v
	}
	return p
}

type scored struct {
	result     core.MoodAnalysisResult
	durationMs int64
}

// Process validates and analyzes every conversation before anything is
// written, so malformed input leaves storage untouched. A single
// conversation is split into overlapping segments to yield a trajectory.
func (p *Pipeline) Process(ctx context.Context, mem core.ExtractedMemory, convs []core.Conversation) (*Report, error) {
	ctx = log.WithComponent(ctx, "analysis")
	logger := log.FromCtx(ctx)

	if err := mem.Validate(); err != nil {
		return nil, err
	}
	if len(convs) == 0 {
		return nil, core.NewValidationError("conversations", "must contain at least one conversation")
	}
	for i, c := range convs {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("conversations[%d]: %w", i, err)
		}
	}

	analyses, err := p.analyze(convs)
	if err != nil {
		return nil, err
	}
	deltas, err := p.detector.DetectConversationalDeltas(results(analyses))
	if err != nil {
		return nil, fmt.Errorf("failed to detect deltas: %w", err)
	}

	if mem.EmotionalAnalysis.MoodScoring.IsZero() {
		mem.EmotionalAnalysis.MoodScoring = analyses[len(analyses)-1].result
	}

	report := &Report{
		MemoryID:       mem.ID,
		ConversationID: convs[0].ID,
		Features:       features.Extract(mem),
	}

	if err := p.do(ctx, func() error { return p.memories.SaveMemory(ctx, mem) }); err != nil {
		return nil, fmt.Errorf("failed to persist memory: %w", err)
	}

	for _, a := range analyses {
		var stored *core.StoredMoodScore
		err := p.do(ctx, func() error {
			var err error
			stored, err = p.moods.StoreMoodScore(ctx, mem.ID, a.result, core.ScoreMetadata{
				DurationMs:       a.durationMs,
				AlgorithmVersion: p.version,
			})
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to persist mood score: %w", err)
		}
		report.Scores = append(report.Scores, *stored)
	}

	start, durationMs := span(convs)
	err = p.do(ctx, func() error {
		var err error
		report.Deltas, err = p.engine.StoreDeltaHistory(ctx, mem.ID, report.ConversationID, deltas, durationMs, start)
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, in := range significance.DetectPatterns(report.Deltas) {
		var pattern *core.DeltaPattern
		err := p.do(ctx, func() error {
			var err error
			pattern, err = p.engine.StoreDeltaPattern(ctx, mem.ID, in)
			return err
		})
		if err != nil {
			return nil, err
		}
		report.Patterns = append(report.Patterns, *pattern)
	}

	for _, c := range p.engine.DetectTurningPoints(report.Deltas) {
		var tp *core.TurningPoint
		err := p.do(ctx, func() error {
			var err error
			tp, err = p.engine.StoreTurningPoint(ctx, mem.ID, c.Input, c.TemporalContext, c.DeltaID)
			return err
		})
		if err != nil {
			return nil, err
		}
		report.TurningPoints = append(report.TurningPoints, *tp)
	}

	logger.Info().
		Str("memory_id", mem.ID).
		Int("scores", len(report.Scores)).
		Int("deltas", len(report.Deltas)).
		Int("patterns", len(report.Patterns)).
		Int("turning_points", len(report.TurningPoints)).
		Msg("memory analyzed")
	return report, nil
}

// Preview scores conversations and annotates the resulting deltas without
// touching storage. Delta IDs are zero.
func (p *Pipeline) Preview(convs []core.Conversation) (*Preview, error) {
	if len(convs) == 0 {
		return nil, core.NewValidationError("conversations", "must contain at least one conversation")
	}
	for i, c := range convs {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("conversations[%d]: %w", i, err)
		}
	}

	analyses, err := p.analyze(convs)
	if err != nil {
		return nil, err
	}
	deltas, err := p.detector.DetectConversationalDeltas(results(analyses))
	if err != nil {
		return nil, fmt.Errorf("failed to detect deltas: %w", err)
	}

	cfg := p.engine.Config()
	start, durationMs := span(convs)
	annotated := cfg.Annotate(deltas, durationMs, start)
	return &Preview{
		Analyses:      results(analyses),
		Deltas:        annotated,
		TurningPoints: cfg.DetectTurningPoints(annotated),
	}, nil
}

// StoreValidation records a human rating against a stored mood score.
func (p *Pipeline) StoreValidation(
	ctx context.Context,
	memoryID string,
	scoreID int64,
	validatedScore float64,
	validator, notes string,
) (*core.MoodValidation, error) {
	var v *core.MoodValidation
	err := p.do(ctx, func() error {
		var err error
		v, err = p.moods.StoreValidation(ctx, core.MoodValidation{
			MemoryID:       memoryID,
			MoodScoreID:    scoreID,
			Validator:      validator,
			ValidatedScore: validatedScore,
			Notes:          notes,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store validation: %w", err)
	}
	return v, nil
}

func (p *Pipeline) analyze(convs []core.Conversation) ([]scored, error) {
	if len(convs) == 1 {
		windows, err := mood.Segment(convs[0], p.segments)
		if err != nil {
			return nil, err
		}
		out := make([]scored, 0, len(windows))
		for _, w := range windows {
			res, err := p.analyzer.AnalyzeConversation(w)
			if err != nil {
				return nil, fmt.Errorf("failed to analyze %s: %w", w.ID, err)
			}
			out = append(out, scored{result: res, durationMs: w.Duration().Milliseconds()})
		}
		return out, nil
	}

	out := make([]scored, 0, len(convs))
	for _, c := range convs {
		res, err := p.analyzer.AnalyzeConversation(c)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze %s: %w", c.ID, err)
		}
		out = append(out, scored{result: res, durationMs: c.Duration().Milliseconds()})
	}
	return out, nil
}

// do retries transient storage failures; input and integrity errors are final.
func (p *Pipeline) do(ctx context.Context, op func() error) error {
	return p.retrier.Do(ctx, op)
}

func isPermanent(err error) bool {
	return errors.Is(err, core.ErrValidation) ||
		errors.Is(err, core.ErrReferentialIntegrity) ||
		errors.Is(err, core.ErrInvalidFactor) ||
		errors.Is(err, core.ErrUnknownEnum) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func results(in []scored) []core.MoodAnalysisResult {
	out := make([]core.MoodAnalysisResult, len(in))
	for i, s := range in {
		out[i] = s.result
	}
	return out
}

// span is the start of the first conversation and the time until the last
// one ends.
func span(convs []core.Conversation) (time.Time, int64) {
	start := convs[0].Start()
	last := convs[len(convs)-1]
	end := last.Start().Add(last.Duration())
	if !last.EndTime.IsZero() {
		end = last.EndTime
	}
	if start.IsZero() || end.Before(start) {
		return start, 0
	}
	return start, end.Sub(start).Milliseconds()
}
