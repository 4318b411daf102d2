package features

import (
	"math"
	"strings"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/lexicon"
)

const (
	neutralMoodBand     = 0.5
	neutralDampening    = 0.3
	stabilityBaseline   = 0.8
	neutralStability    = 0.85
	defaultConfidence   = 0.5
	dominanceFloor      = 0.1
	transitionPenalty   = 0.1
	mixedMarkerPenalty  = 0.15
	themeIntensityBoost = 0.1
)

var sentimentNames = [core.SentimentDimensions]string{"positive", "negative", "anxiety", "gratitude", "mixed"}

// ExtractEmotionalTone derives the emotional tone bundle. Near-neutral
// mood on logistics-style content dampens intensity and variance. A memory
// without a mood score is read as neutral.
func ExtractEmotionalTone(mem core.ExtractedMemory) core.EmotionalToneFeatures {
	text := lexicon.NewText(mem.Content)
	scoring := mem.EmotionalAnalysis.MoodScoring
	if scoring.IsZero() {
		scoring.Score = core.NeutralMoodScore
	}
	themes := lowerUnique(mem.EmotionalContext.Themes)
	neutral := isNeutral(scoring.Score, text)

	vector := sentimentVector(text, scoring.Score)

	base := mem.EmotionalContext.Intensity
	if base <= 0 {
		base = math.Abs(scoring.Score-5) / 5
	}
	confidence := scoring.Confidence
	if confidence <= 0 {
		confidence = defaultConfidence
	}
	intensity := base * confidence * (1 + themeIntensityBoost*float64(len(themes)))
	variance := mem.EmotionalAnalysis.Trajectory.Delta()/5*0.7 + 0.05*float64(len(themes))
	stability := stabilityBaseline
	if neutral {
		intensity *= neutralDampening
		variance *= 0.5
		stability = neutralStability
	}
	stability -= transitionPenalty*float64(text.Count(lexicon.Transitions)) +
		mixedMarkerPenalty*float64(text.Count(lexicon.Mixed))

	return core.EmotionalToneFeatures{
		SentimentVector:      vector,
		EmotionalIntensity:   round3(clamp01(intensity)),
		EmotionalVariance:    round3(clamp01(variance)),
		EmotionalStability:   round3(clamp01(stability)),
		MoodScore:            scoring.Score,
		DominantSentiment:    dominant(vector),
		EmotionalDescriptors: lowerUnique(append(append([]string{}, scoring.Descriptors...), mem.EmotionalContext.EmotionalMarkers...)),
		Themes:               themes,
	}
}

// sentimentVector always has core.SentimentDimensions entries in [0,1].
func sentimentVector(text lexicon.Text, score float64) []float64 {
	lift := math.Max(0, (score-5)/5) * 0.6
	drop := math.Max(0, (5-score)/5) * 0.6

	v := make([]float64, core.SentimentDimensions)
	v[core.SentimentPositive] = clamp01(0.25*float64(text.Count(lexicon.Positive)) + lift)
	v[core.SentimentNegative] = clamp01(0.25*float64(text.Count(lexicon.Negative)) + drop)
	v[core.SentimentAnxiety] = clamp01(0.3 * float64(text.Count(lexicon.Anxiety)))
	v[core.SentimentGratitude] = clamp01(0.3 * float64(text.Count(lexicon.Gratitude)))
	v[core.SentimentMixed] = clamp01(0.3*float64(text.Count(lexicon.Mixed)) +
		0.5*math.Min(v[core.SentimentPositive], v[core.SentimentNegative]))

	for i := range v {
		v[i] = round3(v[i])
	}
	return v
}

func dominant(v []float64) string {
	best, idx := dominanceFloor, -1
	for i, x := range v {
		if x >= best && (idx < 0 || x > v[idx]) {
			best, idx = x, i
		}
	}
	if idx < 0 {
		return "neutral"
	}
	return sentimentNames[idx]
}

func isNeutral(score float64, text lexicon.Text) bool {
	return math.Abs(score-5) < neutralMoodBand && (text.IsNeutralContent() || text.IsMinimal())
}

func lowerUnique(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
