package mood

import (
	"fmt"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/lexicon"
)

// signals aggregates keyword evidence over all messages.
type signals struct {
	positive, negative, anxiety, gratitude, mixed, relief []string
	coping, resilience, growth, stress, crisis            []string
	support, conflict                                     []string
}

func collectSignals(texts []lexicon.Text) signals {
	var s signals
	for _, t := range texts {
		s.positive = appendUnique(s.positive, t.Matches(lexicon.Positive)...)
		s.negative = appendUnique(s.negative, t.Matches(lexicon.Negative)...)
		s.anxiety = appendUnique(s.anxiety, t.Matches(lexicon.Anxiety)...)
		s.gratitude = appendUnique(s.gratitude, t.Matches(lexicon.Gratitude)...)
		s.mixed = appendUnique(s.mixed, t.Matches(lexicon.Mixed)...)
		s.relief = appendUnique(s.relief, t.Matches(lexicon.Relief)...)
		s.coping = appendUnique(s.coping, t.Matches(lexicon.Coping)...)
		s.resilience = appendUnique(s.resilience, t.Matches(lexicon.Resilience)...)
		s.growth = appendUnique(s.growth, t.Matches(lexicon.Growth)...)
		s.stress = appendUnique(s.stress, t.Matches(lexicon.Stress)...)
		s.crisis = appendUnique(s.crisis, t.Matches(lexicon.Crisis)...)
		s.support = appendUnique(s.support, t.Matches(lexicon.Support)...)
		s.conflict = appendUnique(s.conflict, t.Matches(lexicon.Conflict)...)
	}
	return s
}

func (a *Analyzer) sentimentFactor(s signals) core.MoodFactor {
	pos := len(s.positive) + len(s.gratitude)
	neg := len(s.negative) + len(s.anxiety)
	raw := float64(pos-neg) / float64(pos+neg+1)

	return core.MoodFactor{
		Type:          core.FactorSentiment,
		Weight:        a.weights.Sentiment,
		Description:   fmt.Sprintf("%d positive vs %d negative sentiment markers", pos, neg),
		Evidence:      concat(s.positive, s.gratitude, s.negative, s.anxiety),
		InternalScore: round2(clamp(neutralScore+5*raw, 0, 10)),
	}
}

func (a *Analyzer) psychologicalFactor(s signals) core.MoodFactor {
	protective := len(s.coping) + len(s.resilience) + len(s.growth)
	risk := len(s.stress) + 2*len(s.crisis)
	score := neutralScore + 1.0*float64(protective) - 1.2*float64(risk)

	return core.MoodFactor{
		Type:          core.FactorPsychological,
		Weight:        a.weights.Psychological,
		Description:   fmt.Sprintf("%d protective vs %d risk indicators", protective, risk),
		Evidence:      concat(s.coping, s.resilience, s.growth, s.stress, s.crisis),
		InternalScore: round2(clamp(score, 0, 10)),
	}
}

func (a *Analyzer) relationshipFactor(s signals) core.MoodFactor {
	score := neutralScore + 1.2*float64(len(s.support)) - 1.5*float64(len(s.conflict))

	return core.MoodFactor{
		Type:          core.FactorRelationship,
		Weight:        a.weights.Relationship,
		Description:   fmt.Sprintf("%d support vs %d conflict markers", len(s.support), len(s.conflict)),
		Evidence:      concat(s.support, s.conflict),
		InternalScore: round2(clamp(score, 0, 10)),
	}
}

// progressionFactor compares net sentiment of the second half of the
// conversation against the first half.
func (a *Analyzer) progressionFactor(texts []lexicon.Text) core.MoodFactor {
	f := core.MoodFactor{
		Type:          core.FactorProgression,
		Weight:        a.weights.Progression,
		Description:   "single message, no progression",
		Evidence:      []string{},
		InternalScore: neutralScore,
	}
	if len(texts) < 2 {
		return f
	}

	half := len(texts) / 2
	first, second := netSentiment(texts[:half]), netSentiment(texts[half:])
	shift := second - first

	f.InternalScore = round2(clamp(neutralScore+2.5*shift, 0, 10))
	f.Description = fmt.Sprintf("net sentiment moved from %.2f to %.2f", first, second)
	switch {
	case shift > 0:
		f.Evidence = []string{"improving"}
	case shift < 0:
		f.Evidence = []string{"worsening"}
	}
	return f
}

func netSentiment(texts []lexicon.Text) float64 {
	if len(texts) == 0 {
		return 0
	}
	net := 0
	for _, t := range texts {
		net += t.Count(lexicon.Positive) + t.Count(lexicon.Gratitude)
		net -= t.Count(lexicon.Negative) + t.Count(lexicon.Anxiety)
	}
	return float64(net) / float64(len(texts))
}

func describe(score float64, s signals) []string {
	var out []string
	switch {
	case score >= 8:
		out = append(out, "joyful")
	case score >= 6.5:
		out = append(out, "positive")
	case score >= 5.5:
		out = append(out, "content")
	case score > 4.5:
		out = append(out, "neutral")
	case score >= 3:
		out = append(out, "low")
	default:
		out = append(out, "distressed")
	}

	if len(s.gratitude) > 0 {
		out = append(out, "grateful")
	}
	if len(s.support) > 0 {
		out = append(out, "supported")
	}
	if len(s.relief) > 0 {
		out = append(out, "relieved")
	}
	if len(s.anxiety) > 0 {
		out = append(out, "anxious")
	}
	if len(s.negative) > 0 {
		out = append(out, "hurting")
	}
	if len(s.mixed) > 0 || (len(s.positive) > 0 && len(s.negative)+len(s.anxiety) > 0) {
		out = append(out, "mixed")
	}
	if len(s.growth) > 0 {
		out = append(out, "reflective")
	}
	if len(s.resilience) > 0 {
		out = append(out, "resilient")
	}
	if len(s.conflict) > 0 {
		out = append(out, "strained")
	}
	return out
}

func appendUnique(dst []string, items ...string) []string {
	for _, it := range items {
		found := false
		for _, d := range dst {
			if d == it {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, it)
		}
	}
	return dst
}

func concat(lists ...[]string) []string {
	out := []string{}
	for _, l := range lists {
		out = appendUnique(out, l...)
	}
	return out
}
