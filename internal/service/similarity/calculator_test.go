package similarity

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/features"
	"github.com/sandevgo/moodmem/test"
)

func newCalculator() *Calculator {
	return NewCalculator(DefaultWeights(), DefaultPenalties())
}

func TestCalculateSimilarity_Reflexive(t *testing.T) {
	c := newCalculator()
	for _, mem := range test.Memories() {
		t.Run(mem.ID, func(t *testing.T) {
			assert.Equal(t, 1.0, c.CalculateSimilarity(mem, mem))
		})
	}
}

func TestCalculateSimilarity_SymmetricAndBounded(t *testing.T) {
	c := newCalculator()
	mems := test.Memories()

	for i := range mems {
		for j := range mems {
			if i == j {
				continue
			}
			ab := c.CalculateSimilarity(mems[i], mems[j])
			ba := c.CalculateSimilarity(mems[j], mems[i])
			assert.Equal(t, ab, ba, "%s vs %s", mems[i].ID, mems[j].ID)
			assert.GreaterOrEqual(t, ab, 0.0)
			assert.LessOrEqual(t, ab, 1.0)
		}
	}
}

func TestCalculateSimilarity_ThematicallySimilarPair(t *testing.T) {
	c := newCalculator()
	bd := c.Compare(Prepare(test.SarahMemory()), Prepare(test.MomMemory()))

	assert.False(t, bd.ThemePenalty)
	assert.Greater(t, bd.Total, 0.7)
	assert.Less(t, bd.Total, 1.0)
	assert.InDelta(t, 0.866, bd.Total, 0.01)
}

func TestCalculateSimilarity_NoSharedDescriptors(t *testing.T) {
	c := newCalculator()
	bd := c.Compare(Prepare(test.AnxiousMemory()), Prepare(test.CelebrationMemory()))

	assert.True(t, bd.ThemePenalty)
	assert.Less(t, bd.Total, 0.4)
	assert.Less(t, bd.EmotionalTone, 0.2+1e-9)
}

func TestCalculateSimilarity_SameIDDifferentContent(t *testing.T) {
	c := newCalculator()
	a := test.SarahMemory()
	b := test.SarahMemory()
	b.Content = "Talking with Sarah made me feel worse"

	got := c.CalculateSimilarity(a, b)
	assert.Less(t, got, 1.0)
}

func TestCompare_BreakdownMatchesTotal(t *testing.T) {
	w := DefaultWeights()
	c := NewCalculator(w, DefaultPenalties())
	bd := c.Compare(Prepare(test.SarahMemory()), Prepare(test.MomMemory()))

	want := w.EmotionalTone*bd.EmotionalTone +
		w.CommunicationStyle*bd.CommunicationStyle +
		w.RelationshipContext*bd.RelationshipContext +
		w.PsychologicalIndicators*bd.PsychologicalIndicators +
		w.TemporalContext*bd.TemporalContext
	assert.InDelta(t, want, bd.Total, 1e-3)
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"mismatched length", []float64{1, 2}, []float64{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
		{"both zero", []float64{0, 0}, []float64{0, 0}, 1},
		{"one zero", []float64{0, 0}, []float64{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, Cosine(tt.b, tt.a), 1e-9)
		})
	}
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 1.0, Jaccard(nil, nil))
	assert.Equal(t, 0.0, Jaccard([]string{"a"}, nil))
	assert.Equal(t, 0.5, Jaccard([]string{"a", "b", "c"}, []string{"b", "c", "d"}))
	assert.Equal(t, 1.0, Jaccard([]string{"a", "a"}, []string{"a"}))
}

func TestTemporalContext(t *testing.T) {
	at := time.Date(2024, 3, 14, 19, 0, 0, 0, time.UTC)
	a := core.TemporalContextFeatures{Timestamp: at, TimeOfDay: "evening", DayOfWeek: "thursday", Season: "spring"}

	assert.InDelta(t, 1.0, TemporalContext(a, a), 1e-9)

	b := a
	b.Timestamp = time.Time{}
	assert.InDelta(t, 0.7, TemporalContext(a, b), 1e-9)

	weekLater := a
	weekLater.Timestamp = at.AddDate(0, 0, 7)
	assert.InDelta(t, 0.7+0.3*math.Exp(-1), TemporalContext(a, weekLater), 1e-9)
	assert.InDelta(t, 0.7+0.3*features.DecayedProximity(at, weekLater.Timestamp), TemporalContext(weekLater, a), 1e-9)
}

func TestDimensionWeights_Validate(t *testing.T) {
	require.NoError(t, DefaultWeights().Validate())
	assert.Error(t, DimensionWeights{EmotionalTone: 0.5}.Validate())
	assert.Error(t, DimensionWeights{EmotionalTone: 1.2, TemporalContext: -0.2}.Validate())
}
