package significance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/pkg/log"
)

// Engine annotates deltas, derives patterns and turning points and hands
// them to the delta repository.
type Engine struct {
	cfg  Config
	repo core.DeltaRepository
}

func NewEngine(cfg Config, repo core.DeltaRepository) *Engine {
	return &Engine{
		cfg:  cfg,
		repo: repo,
	}
}

func (e *Engine) Config() Config {
	return e.cfg
}

// StoreDeltaHistory annotates deltas with sequence, temporal context and
// significance and persists them as one batch.
func (e *Engine) StoreDeltaHistory(
	ctx context.Context,
	memoryID, conversationID string,
	deltas []core.MoodDelta,
	durationMs int64,
	start time.Time,
) ([]core.MoodDelta, error) {
	if memoryID == "" {
		return nil, core.NewValidationError("memoryId", "must not be empty")
	}
	if durationMs < 0 {
		return nil, core.NewValidationError("durationMs", "must not be negative")
	}
	for i, d := range deltas {
		if err := validateDelta(d); err != nil {
			return nil, fmt.Errorf("deltas[%d]: %w", i, err)
		}
	}
	if len(deltas) == 0 {
		return []core.MoodDelta{}, nil
	}

	annotated := e.cfg.Annotate(deltas, durationMs, start)
	stored, err := e.repo.InsertDeltas(ctx, memoryID, conversationID, annotated)
	if err != nil {
		return nil, fmt.Errorf("failed to store delta history: %w", err)
	}

	log.FromCtx(ctx).Debug().
		Str("memory_id", memoryID).
		Str("conversation_id", conversationID).
		Int("deltas", len(stored)).
		Msg("delta history stored")
	return stored, nil
}

// StoreDeltaPattern derives significance and confidence for a pattern and
// persists it with its delta associations.
func (e *Engine) StoreDeltaPattern(ctx context.Context, memoryID string, in core.PatternInput) (*core.DeltaPattern, error) {
	if memoryID == "" {
		return nil, core.NewValidationError("memoryId", "must not be empty")
	}
	if _, err := core.ParsePatternType(string(in.Type)); err != nil {
		return nil, core.NewValidationError("pattern.type", err.Error())
	}
	if len(in.DeltaIDs) == 0 {
		return nil, core.NewValidationError("pattern.deltaIds", "must reference at least one delta")
	}
	seen := make(map[int64]struct{}, len(in.DeltaIDs))
	for _, id := range in.DeltaIDs {
		if _, ok := seen[id]; ok {
			return nil, core.NewValidationError("pattern.deltaIds", fmt.Sprintf("duplicate delta id %d", id))
		}
		seen[id] = struct{}{}
	}
	if in.AverageMagnitude < 0 || math.IsNaN(in.AverageMagnitude) {
		return nil, core.NewValidationError("pattern.averageMagnitude", "must be non-negative")
	}

	n := len(in.DeltaIDs)
	pattern, err := e.repo.InsertPattern(ctx, core.DeltaPattern{
		MemoryID:     memoryID,
		Significance: PatternSignificance(n, in.AverageMagnitude),
		Confidence:   PatternConfidence(n, in.AverageMagnitude),
		PatternInput: in,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store delta pattern: %w", err)
	}
	return pattern, nil
}

// StoreTurningPoint derives significance from the turning-point type weight
// and persists it. deltaID is an optional weak reference.
func (e *Engine) StoreTurningPoint(
	ctx context.Context,
	memoryID string,
	in core.TurningPointInput,
	tc core.TemporalContext,
	deltaID *int64,
) (*core.TurningPoint, error) {
	if memoryID == "" {
		return nil, core.NewValidationError("memoryId", "must not be empty")
	}
	if _, err := core.ParseTurningPointType(string(in.Type)); err != nil {
		return nil, core.NewValidationError("turningPoint.type", err.Error())
	}
	if in.Magnitude < 0 || math.IsNaN(in.Magnitude) {
		return nil, core.NewValidationError("turningPoint.magnitude", "must be non-negative")
	}

	tp, err := e.repo.InsertTurningPoint(ctx, core.TurningPoint{
		MemoryID:          memoryID,
		TurningPointInput: in,
		Significance:      e.cfg.TurningPointSignificance(in.Type, in.Magnitude),
		TemporalContext:   tc,
		DeltaID:           deltaID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store turning point: %w", err)
	}
	return tp, nil
}

// DetectTurningPoints delegates to the engine's configuration.
func (e *Engine) DetectTurningPoints(deltas []core.MoodDelta) []TurningPointCandidate {
	return e.cfg.DetectTurningPoints(deltas)
}

func (e *Engine) GetDeltasByMemoryID(ctx context.Context, memoryID string) ([]core.MoodDelta, error) {
	return e.repo.GetDeltasByMemoryID(ctx, memoryID)
}

// GetDeltasBySignificance returns deltas with significance >= threshold.
func (e *Engine) GetDeltasBySignificance(ctx context.Context, threshold float64) ([]core.MoodDelta, error) {
	return e.repo.GetDeltasBySignificance(ctx, threshold)
}

func (e *Engine) GetDeltasInTimeRange(ctx context.Context, from, to time.Time) ([]core.MoodDelta, error) {
	if to.Before(from) {
		return nil, core.NewValidationError("timeRange", "end precedes start")
	}
	return e.repo.GetDeltasInTimeRange(ctx, from, to)
}

// GetDeltaPatternsByMemoryID returns patterns ordered by significance, highest first.
func (e *Engine) GetDeltaPatternsByMemoryID(ctx context.Context, memoryID string) ([]core.DeltaPattern, error) {
	return e.repo.GetDeltaPatternsByMemoryID(ctx, memoryID)
}

// GetTurningPointsByMemoryID returns turning points in timestamp order.
func (e *Engine) GetTurningPointsByMemoryID(ctx context.Context, memoryID string) ([]core.TurningPoint, error) {
	return e.repo.GetTurningPointsByMemoryID(ctx, memoryID)
}

func validateDelta(d core.MoodDelta) error {
	if _, err := core.ParseDeltaType(string(d.Type)); err != nil {
		return core.NewValidationError("delta.type", err.Error())
	}
	if _, err := core.ParseDeltaDirection(string(d.Direction)); err != nil {
		return core.NewValidationError("delta.direction", err.Error())
	}
	if d.Magnitude < 0 || math.IsNaN(d.Magnitude) {
		return core.NewValidationError("delta.magnitude", "must be non-negative")
	}
	if d.Confidence < 0 || d.Confidence > 1 || math.IsNaN(d.Confidence) {
		return core.NewValidationError("delta.confidence", "must be within [0,1]")
	}
	return nil
}
