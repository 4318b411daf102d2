package significance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/moodmem/internal/core"
)

type fakeDeltaRepo struct {
	deltas   []core.MoodDelta
	patterns []core.DeltaPattern
	points   []core.TurningPoint
	err      error
}

func (f *fakeDeltaRepo) InsertDeltas(_ context.Context, memoryID, conversationID string, deltas []core.MoodDelta) ([]core.MoodDelta, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]core.MoodDelta, len(deltas))
	for i, d := range deltas {
		d.ID = int64(len(f.deltas) + 1)
		d.MemoryID, d.ConversationID = memoryID, conversationID
		f.deltas = append(f.deltas, d)
		out[i] = d
	}
	return out, nil
}

func (f *fakeDeltaRepo) GetDeltasByMemoryID(context.Context, string) ([]core.MoodDelta, error) {
	return f.deltas, nil
}

func (f *fakeDeltaRepo) GetDeltasBySignificance(_ context.Context, threshold float64) ([]core.MoodDelta, error) {
	var out []core.MoodDelta
	for _, d := range f.deltas {
		if d.Significance >= threshold {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDeltaRepo) GetDeltasInTimeRange(context.Context, time.Time, time.Time) ([]core.MoodDelta, error) {
	return f.deltas, nil
}

func (f *fakeDeltaRepo) InsertPattern(_ context.Context, p core.DeltaPattern) (*core.DeltaPattern, error) {
	if f.err != nil {
		return nil, f.err
	}
	p.ID = int64(len(f.patterns) + 1)
	f.patterns = append(f.patterns, p)
	return &p, nil
}

func (f *fakeDeltaRepo) GetDeltaPatternsByMemoryID(context.Context, string) ([]core.DeltaPattern, error) {
	return f.patterns, nil
}

func (f *fakeDeltaRepo) InsertTurningPoint(_ context.Context, tp core.TurningPoint) (*core.TurningPoint, error) {
	tp.ID = int64(len(f.points) + 1)
	f.points = append(f.points, tp)
	return &tp, nil
}

func (f *fakeDeltaRepo) GetTurningPointsByMemoryID(context.Context, string) ([]core.TurningPoint, error) {
	return f.points, nil
}

func TestEngine_StoreDeltaHistory(t *testing.T) {
	repo := &fakeDeltaRepo{}
	e := NewEngine(DefaultConfig(), repo)
	ctx := context.Background()

	stored, err := e.StoreDeltaHistory(ctx, "mem-1", "conv-1", []core.MoodDelta{
		down(2), flat(), repair(3),
	}, 9000, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, stored, 3)

	for i, d := range stored {
		assert.Equal(t, int64(i+1), d.ID)
		assert.Equal(t, "mem-1", d.MemoryID)
		assert.Equal(t, i, d.DeltaSequence)
		assert.Positive(t, d.Significance)
	}
	assert.Equal(t, core.PositionConclusion, stored[2].TemporalContext.Position)

	high, err := e.GetDeltasBySignificance(ctx, stored[2].Significance)
	require.NoError(t, err)
	assert.Len(t, high, 1, "threshold is inclusive")
}

func TestEngine_StoreDeltaHistoryValidation(t *testing.T) {
	repo := &fakeDeltaRepo{}
	e := NewEngine(DefaultConfig(), repo)
	ctx := context.Background()

	_, err := e.StoreDeltaHistory(ctx, "", "conv", []core.MoodDelta{up(1)}, 0, time.Now())
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = e.StoreDeltaHistory(ctx, "mem", "conv", []core.MoodDelta{{Type: "spike", Direction: core.DirectionPositive}}, 0, time.Now())
	assert.ErrorIs(t, err, core.ErrValidation)

	bad := up(1)
	bad.Confidence = 1.5
	_, err = e.StoreDeltaHistory(ctx, "mem", "conv", []core.MoodDelta{bad}, 0, time.Now())
	assert.ErrorIs(t, err, core.ErrValidation)

	assert.Empty(t, repo.deltas, "rejected input is never persisted")
}

func TestEngine_StoreDeltaPattern(t *testing.T) {
	repo := &fakeDeltaRepo{}
	e := NewEngine(DefaultConfig(), repo)

	p, err := e.StoreDeltaPattern(context.Background(), "mem-1", core.PatternInput{
		Type:             core.PatternSustainedDecline,
		DeltaIDs:         []int64{1, 2, 3},
		Description:      "three declines",
		DurationMs:       4000,
		AverageMagnitude: 2.3,
	})
	require.NoError(t, err)
	assert.Equal(t, 10.0, p.Significance)
	assert.InDelta(t, 0.896, p.Confidence, 1e-9)
	assert.Equal(t, "mem-1", p.MemoryID)

	_, err = e.StoreDeltaPattern(context.Background(), "mem-1", core.PatternInput{Type: core.PatternVolatility})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "pattern.deltaIds", vErr.Field)
}

func TestEngine_StoreDeltaPatternRejectsDuplicateDeltas(t *testing.T) {
	repo := &fakeDeltaRepo{}
	e := NewEngine(DefaultConfig(), repo)

	_, err := e.StoreDeltaPattern(context.Background(), "mem-1", core.PatternInput{
		Type:             core.PatternSustainedDecline,
		DeltaIDs:         []int64{1, 1, 1, 1, 1},
		AverageMagnitude: 1,
	})
	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "pattern.deltaIds", vErr.Field)
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Empty(t, repo.patterns)

	p, err := e.StoreDeltaPattern(context.Background(), "mem-1", core.PatternInput{
		Type:             core.PatternSustainedDecline,
		DeltaIDs:         []int64{1},
		AverageMagnitude: 1,
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, p.Significance, 1e-9)
	assert.InDelta(t, 0.77, p.Confidence, 1e-9)
}

func TestEngine_StoreTurningPoint(t *testing.T) {
	repo := &fakeDeltaRepo{}
	e := NewEngine(DefaultConfig(), repo)
	id := int64(7)

	tp, err := e.StoreTurningPoint(context.Background(), "mem-1", core.TurningPointInput{
		Type:      core.TurningRealization,
		Magnitude: 2,
		Timestamp: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}, core.TemporalContext{Position: core.PositionMiddle, PrecedingDeltas: 1, FollowingDeltas: 1}, &id)
	require.NoError(t, err)
	assert.InDelta(t, 2.6, tp.Significance, 1e-9)
	assert.Equal(t, &id, tp.DeltaID)

	_, err = e.StoreTurningPoint(context.Background(), "mem-1", core.TurningPointInput{Type: "epiphany"}, core.TemporalContext{}, nil)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestEngine_PropagatesRepositoryErrors(t *testing.T) {
	repo := &fakeDeltaRepo{err: core.ErrReferentialIntegrity}
	e := NewEngine(DefaultConfig(), repo)

	_, err := e.StoreDeltaHistory(context.Background(), "missing", "conv", []core.MoodDelta{up(1)}, 0, time.Now())
	assert.True(t, errors.Is(err, core.ErrReferentialIntegrity))

	_, err = e.StoreDeltaPattern(context.Background(), "missing", core.PatternInput{Type: core.PatternVolatility, DeltaIDs: []int64{1}})
	assert.ErrorIs(t, err, core.ErrReferentialIntegrity)
}
