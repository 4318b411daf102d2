package significance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/moodmem/internal/core"
)

func TestConfig_Orderings(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Greater(t, cfg.TypeWeight(core.DeltaMoodRepair), cfg.TypeWeight(core.DeltaDecline))
	assert.Greater(t, cfg.TypeWeight(core.DeltaDecline), cfg.TypeWeight(core.DeltaCelebration))
	assert.Greater(t, cfg.TypeWeight(core.DeltaCelebration), cfg.TypeWeight(core.DeltaPlateau))

	assert.Greater(t, cfg.PositionWeight(core.PositionConclusion), cfg.PositionWeight(core.PositionEarly))
	assert.Greater(t, cfg.PositionWeight(core.PositionEarly), cfg.PositionWeight(core.PositionMiddle))

	assert.Greater(t, cfg.TurningPointWeight(core.TurningBreakthrough), cfg.TurningPointWeight(core.TurningRealization))
}

func TestConfig_ValidateRejectsBrokenOrdering(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Types.Plateau = 2
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Positions.Middle = 1.15
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.BreakthroughThreshold = 1
	assert.Error(t, cfg.Validate())
}

func TestDeltaSignificance_PositionOrdering(t *testing.T) {
	cfg := DefaultConfig()
	base := core.MoodDelta{Type: core.DeltaDecline, Magnitude: 2.5, Confidence: 0.8}

	sig := func(p core.TemporalPosition) float64 {
		d := base
		d.TemporalContext.Position = p
		return cfg.DeltaSignificance(d)
	}

	assert.Greater(t, sig(core.PositionConclusion), sig(core.PositionEarly))
	assert.Greater(t, sig(core.PositionEarly), sig(core.PositionMiddle))
	assert.InDelta(t, 1.3*2.5*0.8*1.0, sig(core.PositionMiddle), 1e-9)
}

func TestPatternFormulas(t *testing.T) {
	tests := []struct {
		name           string
		n              int
		m              float64
		wantSig        float64
		wantConfidence float64
	}{
		{"capped significance", 3, 2.3, 10, 0.896},
		{"single small delta", 1, 0.5, 1.0, 0.76},
		{"confidence caps", 10, 8, 10, 1.0},
		{"two moderate", 2, 1.2, 4.8, 0.824},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantSig, PatternSignificance(tt.n, tt.m), 1e-9)
			assert.InDelta(t, tt.wantConfidence, PatternConfidence(tt.n, tt.m), 1e-9)
		})
	}
}

func TestPositionFor(t *testing.T) {
	assert.Equal(t, core.PositionEarly, PositionFor(0, 1))
	assert.Equal(t, core.PositionEarly, PositionFor(0, 4))
	assert.Equal(t, core.PositionMiddle, PositionFor(1, 4))
	assert.Equal(t, core.PositionMiddle, PositionFor(2, 4))
	assert.Equal(t, core.PositionConclusion, PositionFor(3, 4))
	assert.Equal(t, core.PositionConclusion, PositionFor(1, 2))
}

func TestAnnotate(t *testing.T) {
	cfg := DefaultConfig()
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	deltas := []core.MoodDelta{
		{Type: core.DeltaDecline, Direction: core.DirectionNegative, Magnitude: 2, Confidence: 0.5},
		{Type: core.DeltaPlateau, Direction: core.DirectionNeutral, Magnitude: 0.05, Confidence: 0.5},
		{Type: core.DeltaMoodRepair, Direction: core.DirectionPositive, Magnitude: 3, Confidence: 0.5},
	}

	out := cfg.Annotate(deltas, 60_000, start)
	require.Len(t, out, 3)

	wantRelative := []int64{0, 30_000, 60_000}
	wantPositions := []core.TemporalPosition{core.PositionEarly, core.PositionMiddle, core.PositionConclusion}
	for i, d := range out {
		assert.Equal(t, i, d.DeltaSequence)
		assert.Equal(t, i, d.TemporalContext.PrecedingDeltas)
		assert.Equal(t, 2-i, d.TemporalContext.FollowingDeltas)
		assert.Equal(t, wantRelative[i], d.TemporalContext.RelativeTimestamp)
		assert.Equal(t, wantPositions[i], d.TemporalContext.Position)
		assert.Equal(t, start.Add(time.Duration(wantRelative[i])*time.Millisecond), d.Timestamp)
	}
	assert.InDelta(t, 1.3*2*0.5*1.1, out[0].Significance, 1e-4)
	assert.InDelta(t, 1.5*3*0.5*1.2, out[2].Significance, 1e-4)

	assert.Zero(t, deltas[0].DeltaSequence, "input must not be mutated")
	assert.Empty(t, deltas[2].TemporalContext.Position)
}

func TestAnnotate_ZeroDurationStillMonotonic(t *testing.T) {
	start := time.Date(2024, 3, 14, 18, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		durationMs int64
	}{
		{name: "zero", durationMs: 0},
		{name: "negative", durationMs: -5},
		{name: "shorter than steps", durationMs: 2},
		{name: "one per step", durationMs: 3},
		{name: "long", durationMs: 9000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := DefaultConfig().Annotate(make([]core.MoodDelta, 4), tt.durationMs, start)
			for i := 1; i < len(out); i++ {
				assert.Greater(t, out[i].TemporalContext.RelativeTimestamp, out[i-1].TemporalContext.RelativeTimestamp)
				assert.True(t, out[i].Timestamp.After(out[i-1].Timestamp))
			}
		})
	}
}
