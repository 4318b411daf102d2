package significance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/moodmem/internal/core"
)

func storedDeltas(specs ...core.MoodDelta) []core.MoodDelta {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	out := DefaultConfig().Annotate(specs, int64(len(specs))*1000, start)
	for i := range out {
		out[i].ID = int64(i + 1)
	}
	return out
}

func d(typ core.DeltaType, dir core.DeltaDirection, magnitude float64) core.MoodDelta {
	return core.MoodDelta{Type: typ, Direction: dir, Magnitude: magnitude, Confidence: 0.8}
}

var (
	up     = func(m float64) core.MoodDelta { return d(core.DeltaCelebration, core.DirectionPositive, m) }
	repair = func(m float64) core.MoodDelta { return d(core.DeltaMoodRepair, core.DirectionPositive, m) }
	down   = func(m float64) core.MoodDelta { return d(core.DeltaDecline, core.DirectionNegative, m) }
	flat   = func() core.MoodDelta { return d(core.DeltaPlateau, core.DirectionNeutral, 0.05) }
)

func patternTypes(ps []core.PatternInput) []core.PatternType {
	var out []core.PatternType
	for _, p := range ps {
		out = append(out, p.Type)
	}
	return out
}

func TestDetectPatterns(t *testing.T) {
	tests := []struct {
		name   string
		deltas []core.MoodDelta
		want   []core.PatternType
	}{
		{"empty", nil, nil},
		{"single change", storedDeltas(up(1)), nil},
		{"sustained improvement", storedDeltas(up(1), repair(1.5)), []core.PatternType{core.PatternSustainedImprovement}},
		{"sustained decline", storedDeltas(down(1), down(2)), []core.PatternType{core.PatternSustainedDecline}},
		{
			"recovery cycle with volatility",
			storedDeltas(up(1), down(2), repair(2)),
			[]core.PatternType{core.PatternRecoveryCycle, core.PatternVolatility},
		},
		{"stability", storedDeltas(flat(), flat(), up(1)), []core.PatternType{core.PatternEmotionalStability}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, patternTypes(DetectPatterns(tt.deltas)))
		})
	}
}

func TestDetectPatterns_RunDetails(t *testing.T) {
	deltas := storedDeltas(down(1), down(2), down(3), up(0.8))
	patterns := DetectPatterns(deltas)
	require.NotEmpty(t, patterns)

	decline := patterns[0]
	assert.Equal(t, core.PatternSustainedDecline, decline.Type)
	assert.Equal(t, []int64{1, 2, 3}, decline.DeltaIDs)
	assert.Equal(t, 2.0, decline.AverageMagnitude)
	assert.Equal(t, deltas[2].TemporalContext.RelativeTimestamp-deltas[0].TemporalContext.RelativeTimestamp, decline.DurationMs)
	assert.NotEmpty(t, decline.Description)
}

func TestDetectTurningPoints(t *testing.T) {
	cfg := DefaultConfig()
	deltas := storedDeltas(down(2.5), repair(3.2), repair(2.0), up(2.1), flat(), up(1.9))

	got := cfg.DetectTurningPoints(deltas)
	require.Len(t, got, 4)

	wantTypes := []core.TurningPointType{
		core.TurningSetback,
		core.TurningBreakthrough,
		core.TurningSupportReceived,
		core.TurningRealization,
	}
	for i, tp := range got {
		assert.Equal(t, wantTypes[i], tp.Input.Type)
		require.NotNil(t, tp.DeltaID)
		assert.Equal(t, deltas[*tp.DeltaID-1].Timestamp, tp.Input.Timestamp)
		assert.Equal(t, deltas[*tp.DeltaID-1].TemporalContext, tp.TemporalContext)
	}
}

func TestDetectTurningPoints_ShortConversationOrdered(t *testing.T) {
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	cfg := DefaultConfig()
	deltas := cfg.Annotate([]core.MoodDelta{down(2.5), repair(3.2), down(2.2), up(2.1)}, 2, start)

	got := cfg.DetectTurningPoints(deltas)
	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].Input.Timestamp.After(got[i-1].Input.Timestamp))
		assert.Greater(t, got[i].TemporalContext.RelativeTimestamp, got[i-1].TemporalContext.RelativeTimestamp)
	}
}

func TestTurningPointSignificance(t *testing.T) {
	cfg := DefaultConfig()
	assert.Greater(t,
		cfg.TurningPointSignificance(core.TurningBreakthrough, 3),
		cfg.TurningPointSignificance(core.TurningRealization, 3),
	)
	assert.InDelta(t, 18.0, cfg.TurningPointSignificance(core.TurningBreakthrough, 12), 1e-9)
}
