package similarity

import (
	"math"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/features"
)

func EmotionalTone(a, b core.EmotionalToneFeatures) float64 {
	return clamp01(0.4*Cosine(a.SentimentVector, b.SentimentVector) +
		0.2*closeness(a.EmotionalIntensity, b.EmotionalIntensity, 1) +
		0.15*closeness(a.MoodScore, b.MoodScore, 10) +
		0.1*closeness(a.EmotionalVariance, b.EmotionalVariance, 1) +
		0.15*Jaccard(a.EmotionalDescriptors, b.EmotionalDescriptors))
}

func CommunicationStyle(a, b core.CommunicationStyleFeatures) float64 {
	return clamp01(0.3*closeness(a.EmotionalOpenness, b.EmotionalOpenness, 1) +
		0.2*match(a.SupportSeekingStyle, b.SupportSeekingStyle) +
		0.2*match(a.CopingCommunication, b.CopingCommunication) +
		0.15*closeness(a.RelationshipIntimacy, b.RelationshipIntimacy, 1) +
		0.15*Jaccard(patternTypes(a.LinguisticPatterns), patternTypes(b.LinguisticPatterns)))
}

func RelationshipContext(a, b core.RelationshipContextFeatures) float64 {
	typeScore := 0.0
	switch {
	case a.RelationshipType == b.RelationshipType:
		typeScore = 1
	case features.SameClosenessTier(a.RelationshipType, b.RelationshipType):
		typeScore = 0.6
	}

	return clamp01(0.3*typeScore +
		0.25*closeness(a.IntimacyLevel, b.IntimacyLevel, 1) +
		0.2*supportLevelMatch(a.SupportDynamics.Level, b.SupportDynamics.Level) +
		0.15*closeness(a.ConnectionStrength, b.ConnectionStrength, 1) +
		0.1*match(a.AuthorRole, b.AuthorRole))
}

func PsychologicalIndicators(a, b core.PsychologicalIndicatorFeatures) float64 {
	return clamp01(0.25*Jaccard(copingTypes(a.CopingMechanisms), copingTypes(b.CopingMechanisms)) +
		0.15*Jaccard(indicatorTypes(a.ResilienceIndicators), indicatorTypes(b.ResilienceIndicators)) +
		0.15*Jaccard(indicatorTypes(a.StressMarkers), indicatorTypes(b.StressMarkers)) +
		0.15*Jaccard(indicatorTypes(a.GrowthIndicators), indicatorTypes(b.GrowthIndicators)) +
		0.15*closeness(a.SupportUtilization, b.SupportUtilization, 1) +
		0.15*closeness(a.EmotionalRegulation, b.EmotionalRegulation, 1))
}

func TemporalContext(a, b core.TemporalContextFeatures) float64 {
	proximity := 0.0
	if !a.Timestamp.IsZero() && !b.Timestamp.IsZero() {
		proximity = features.DecayedProximity(a.Timestamp, b.Timestamp)
	}
	return clamp01(0.3*match(a.TimeOfDay, b.TimeOfDay) +
		0.2*match(a.DayOfWeek, b.DayOfWeek) +
		0.2*match(a.Season, b.Season) +
		0.3*proximity)
}

// Cosine returns the cosine similarity of two equal-length vectors.
// Mismatched or empty vectors yield 0; two all-zero vectors are identical
// and yield 1, a single all-zero vector yields 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	switch {
	case na == 0 && nb == 0:
		return 1
	case na == 0 || nb == 0:
		return 0
	}
	return clamp01(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

// Jaccard is |a∩b| / |a∪b| over distinct values; two empty sets are identical.
func Jaccard(a, b []string) float64 {
	union := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		union[s] = struct{}{}
	}
	for _, s := range b {
		union[s] = struct{}{}
	}
	if len(union) == 0 {
		return 1
	}
	return float64(intersection(a, b)) / float64(len(union))
}

func intersection(a, b []string) int {
	inA := make(map[string]struct{}, len(a))
	for _, s := range a {
		inA[s] = struct{}{}
	}
	n := 0
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		if _, ok := inA[s]; ok {
			n++
		}
	}
	return n
}

func closeness(a, b, scale float64) float64 {
	return clamp01(1 - math.Abs(a-b)/scale)
}

func match(a, b string) float64 {
	if a == b {
		return 1
	}
	return 0
}

var supportRank = map[string]int{
	features.SupportLow:    0,
	features.SupportMedium: 1,
	features.SupportHigh:   2,
}

func supportLevelMatch(a, b string) float64 {
	ra, okA := supportRank[a]
	rb, okB := supportRank[b]
	switch {
	case !okA || !okB:
		return match(a, b)
	case ra == rb:
		return 1
	case ra-rb == 1 || rb-ra == 1:
		return 0.5
	default:
		return 0
	}
}

func patternTypes(ps []core.LinguisticPattern) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Type
	}
	return out
}

func copingTypes(cs []core.CopingMechanism) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Type
	}
	return out
}

func indicatorTypes(is []core.Indicator) []string {
	out := make([]string, len(is))
	for i, ind := range is {
		out[i] = ind.Type
	}
	return out
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
