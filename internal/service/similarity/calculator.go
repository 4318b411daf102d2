// Package similarity compares memories across the five feature dimensions.
// Every sub-metric is a symmetric function of its two inputs, so the
// combined score is symmetric and bounded to [0,1].
package similarity

import (
	"fmt"
	"math"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/features"
)

// DimensionWeights are the per-dimension weights; they must sum to 1.
type DimensionWeights struct {
	EmotionalTone           float64 `env:"EMOTIONAL_TONE" envDefault:"0.35"`
	CommunicationStyle      float64 `env:"COMMUNICATION_STYLE" envDefault:"0.25"`
	RelationshipContext     float64 `env:"RELATIONSHIP_CONTEXT" envDefault:"0.20"`
	PsychologicalIndicators float64 `env:"PSYCHOLOGICAL_INDICATORS" envDefault:"0.15"`
	TemporalContext         float64 `env:"TEMPORAL_CONTEXT" envDefault:"0.05"`
}

func DefaultWeights() DimensionWeights {
	return DimensionWeights{
		EmotionalTone:           0.35,
		CommunicationStyle:      0.25,
		RelationshipContext:     0.20,
		PsychologicalIndicators: 0.15,
		TemporalContext:         0.05,
	}
}

func (w DimensionWeights) Validate() error {
	sum := 0.0
	for _, v := range []float64{w.EmotionalTone, w.CommunicationStyle, w.RelationshipContext, w.PsychologicalIndicators, w.TemporalContext} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("dimension weight %v must be non-negative", v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("dimension weights must sum to 1, got %.4f", sum)
	}
	return nil
}

// Penalties applied when two memories share no emotional descriptors.
type Penalties struct {
	Tone   float64 `env:"TONE" envDefault:"0.2"`
	Global float64 `env:"GLOBAL" envDefault:"0.6"`
}

func DefaultPenalties() Penalties {
	return Penalties{Tone: 0.2, Global: 0.6}
}

// Breakdown is the per-dimension similarity before weighting.
type Breakdown struct {
	EmotionalTone           float64 `json:"emotionalTone"`
	CommunicationStyle      float64 `json:"communicationStyle"`
	RelationshipContext     float64 `json:"relationshipContext"`
	PsychologicalIndicators float64 `json:"psychologicalIndicators"`
	TemporalContext         float64 `json:"temporalContext"`
	ThemePenalty            bool    `json:"themePenalty"`
	Total                   float64 `json:"total"`
}

// Featured is a memory with its extracted features, so repeated
// comparisons do not re-extract.
type Featured struct {
	Memory   core.ExtractedMemory
	Features core.ClusteringFeatures
}

func Prepare(mem core.ExtractedMemory) Featured {
	return Featured{Memory: mem, Features: features.Extract(mem)}
}

type Calculator struct {
	weights   DimensionWeights
	penalties Penalties
}

func NewCalculator(weights DimensionWeights, penalties Penalties) *Calculator {
	return &Calculator{
		weights:   weights,
		penalties: penalties,
	}
}

// CalculateSimilarity returns a score in [0,1]. A memory compared with
// itself (same id and content) scores exactly 1.
func (c *Calculator) CalculateSimilarity(a, b core.ExtractedMemory) float64 {
	return c.Compare(Prepare(a), Prepare(b)).Total
}

func (c *Calculator) Compare(a, b Featured) Breakdown {
	if a.Memory.ID == b.Memory.ID && a.Memory.Content == b.Memory.Content {
		return Breakdown{
			EmotionalTone:           1,
			CommunicationStyle:      1,
			RelationshipContext:     1,
			PsychologicalIndicators: 1,
			TemporalContext:         1,
			Total:                   1,
		}
	}

	fa, fb := a.Features, b.Features
	descA, descB := fa.EmotionalTone.EmotionalDescriptors, fb.EmotionalTone.EmotionalDescriptors
	penalty := disjointThemes(descA, descB)

	bd := Breakdown{
		EmotionalTone:           EmotionalTone(fa.EmotionalTone, fb.EmotionalTone),
		CommunicationStyle:      CommunicationStyle(fa.CommunicationStyle, fb.CommunicationStyle),
		RelationshipContext:     RelationshipContext(fa.RelationshipContext, fb.RelationshipContext),
		PsychologicalIndicators: PsychologicalIndicators(fa.PsychologicalIndicators, fb.PsychologicalIndicators),
		TemporalContext:         TemporalContext(fa.TemporalContext, fb.TemporalContext),
		ThemePenalty:            penalty,
	}
	if penalty {
		bd.EmotionalTone *= c.penalties.Tone
	}

	total := c.weights.EmotionalTone*bd.EmotionalTone +
		c.weights.CommunicationStyle*bd.CommunicationStyle +
		c.weights.RelationshipContext*bd.RelationshipContext +
		c.weights.PsychologicalIndicators*bd.PsychologicalIndicators +
		c.weights.TemporalContext*bd.TemporalContext
	if penalty {
		total *= c.penalties.Global
	}

	bd.EmotionalTone = round4(bd.EmotionalTone)
	bd.CommunicationStyle = round4(bd.CommunicationStyle)
	bd.RelationshipContext = round4(bd.RelationshipContext)
	bd.PsychologicalIndicators = round4(bd.PsychologicalIndicators)
	bd.TemporalContext = round4(bd.TemporalContext)
	bd.Total = round4(clamp01(total))
	return bd
}

// disjointThemes reports zero shared descriptors while at least one side
// has some. Two memories without any descriptors are not penalized.
func disjointThemes(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return false
	}
	return intersection(a, b) == 0
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
