package mood

import (
	"fmt"
	"math"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/lexicon"
)

const (
	neutralScore       = core.NeutralMoodScore
	baselineConfidence = 0.1
	maxConfidence      = 0.95
)

// Weights are the factor weights used to combine internal factor scores.
type Weights struct {
	Sentiment     float64 `env:"SENTIMENT" envDefault:"0.40"`
	Psychological float64 `env:"PSYCHOLOGICAL" envDefault:"0.25"`
	Relationship  float64 `env:"RELATIONSHIP" envDefault:"0.20"`
	Progression   float64 `env:"PROGRESSION" envDefault:"0.15"`
}

func DefaultWeights() Weights {
	return Weights{Sentiment: 0.40, Psychological: 0.25, Relationship: 0.20, Progression: 0.15}
}

func (w Weights) Validate() error {
	sum := 0.0
	for _, v := range []float64{w.Sentiment, w.Psychological, w.Relationship, w.Progression} {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("mood weight %v must be non-negative", v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("mood weights must sum to 1, got %.4f", sum)
	}
	return nil
}

// Analyzer computes mood scores from conversation transcripts.
// It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	weights Weights
}

func NewAnalyzer(weights Weights) *Analyzer {
	return &Analyzer{weights: weights}
}

// NeutralBaseline is the result for a conversation without content:
// score 5.0, confidence 0.1, every factor at the neutral midpoint.
func (a *Analyzer) NeutralBaseline() core.MoodAnalysisResult {
	factors := make([]core.MoodFactor, 0, 4)
	for _, f := range a.factorWeights() {
		factors = append(factors, core.MoodFactor{
			Type:          f.typ,
			Weight:        f.weight,
			Description:   "no conversational content",
			Evidence:      []string{},
			InternalScore: neutralScore,
		})
	}
	return core.MoodAnalysisResult{
		Score:       neutralScore,
		Confidence:  baselineConfidence,
		Descriptors: []string{"neutral"},
		Factors:     factors,
	}
}

// AnalyzeConversation scores a conversation. Malformed input is rejected
// with a validation error; an empty conversation yields NeutralBaseline.
func (a *Analyzer) AnalyzeConversation(conv core.Conversation) (core.MoodAnalysisResult, error) {
	if err := conv.Validate(); err != nil {
		return core.MoodAnalysisResult{}, err
	}

	texts := make([]lexicon.Text, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		t := lexicon.NewText(m.Content)
		if t.IsEmpty() {
			continue
		}
		texts = append(texts, t)
	}
	if len(texts) == 0 {
		return a.NeutralBaseline(), nil
	}

	sig := collectSignals(texts)
	factors := []core.MoodFactor{
		a.sentimentFactor(sig),
		a.psychologicalFactor(sig),
		a.relationshipFactor(sig),
		a.progressionFactor(texts),
	}

	var weighted, totalWeight float64
	for _, f := range factors {
		if err := f.Validate(); err != nil {
			return core.MoodAnalysisResult{}, fmt.Errorf("analyze conversation %s: %w", conv.ID, err)
		}
		weighted += f.Weight * f.InternalScore
		totalWeight += f.Weight
	}
	if totalWeight == 0 {
		return core.MoodAnalysisResult{}, fmt.Errorf("analyze conversation %s: %w: all factor weights are zero", conv.ID, core.ErrInvalidFactor)
	}

	score := round2(clamp(weighted/totalWeight, 0, 10))
	return core.MoodAnalysisResult{
		Score:       score,
		Confidence:  confidence(factors, len(texts)),
		Descriptors: describe(score, sig),
		Factors:     factors,
	}, nil
}

type factorWeight struct {
	typ    core.FactorType
	weight float64
}

func (a *Analyzer) factorWeights() []factorWeight {
	return []factorWeight{
		{core.FactorSentiment, a.weights.Sentiment},
		{core.FactorPsychological, a.weights.Psychological},
		{core.FactorRelationship, a.weights.Relationship},
		{core.FactorProgression, a.weights.Progression},
	}
}

// confidence blends inter-factor agreement among factors that found
// evidence, the amount of evidence, and the number of messages.
func confidence(factors []core.MoodFactor, messages int) float64 {
	var scores []float64
	evidence := 0
	for _, f := range factors {
		if len(f.Evidence) > 0 {
			scores = append(scores, f.InternalScore)
			evidence += len(f.Evidence)
		}
	}

	agreement := 0.5
	if len(scores) >= 2 {
		agreement = clamp(1-stddev(scores)/5, 0, 1)
	}
	coverage := math.Min(1, float64(evidence)/6)
	volume := math.Min(1, float64(messages)/4)

	c := 0.25 + 0.3*agreement + 0.3*coverage + 0.15*volume
	return round2(clamp(c, 0, maxConfidence))
}

func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	variance := 0.0
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	return math.Sqrt(variance / float64(len(xs)))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
