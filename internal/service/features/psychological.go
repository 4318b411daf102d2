package features

import (
	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/lexicon"
)

// ExtractPsychologicalIndicators applies the coping, resilience, stress and
// growth rule tables. Minimal or neutral content yields empty lists.
func ExtractPsychologicalIndicators(mem core.ExtractedMemory) core.PsychologicalIndicatorFeatures {
	text := lexicon.NewText(mem.Content)

	out := core.PsychologicalIndicatorFeatures{
		CopingMechanisms:     []core.CopingMechanism{},
		ResilienceIndicators: []core.Indicator{},
		StressMarkers:        []core.Indicator{},
		GrowthIndicators:     []core.Indicator{},
		EmotionalRegulation:  0.5,
	}
	if text.IsMinimal() || text.IsNeutralContent() {
		return out
	}

	out.CopingMechanisms = append(out.CopingMechanisms, lexicon.AllMatches(copingMechanismRules, text)...)
	out.ResilienceIndicators = append(out.ResilienceIndicators, lexicon.AllMatches(resilienceRules, text)...)
	out.StressMarkers = append(out.StressMarkers, lexicon.AllMatches(stressRules, text)...)
	out.GrowthIndicators = append(out.GrowthIndicators, lexicon.AllMatches(growthRules, text)...)

	utilization := 0.0
	adaptive, avoidant := 0, 0
	for _, c := range out.CopingMechanisms {
		if c.Type == "social_support" {
			utilization += 0.4
		}
		if c.Type == "avoidance" {
			avoidant++
		} else {
			adaptive++
		}
	}
	if text.Any(lexicon.ReceivingLanguage) {
		utilization += 0.2
	}
	switch mem.RelationshipDynamics.SupportLevel {
	case SupportHigh:
		utilization += 0.2
	case SupportMedium:
		utilization += 0.1
	}
	if text.Any(lexicon.Gratitude) {
		utilization += 0.1
	}

	regulation := 0.5 +
		0.1*float64(adaptive) +
		0.1*float64(len(out.ResilienceIndicators)) +
		0.05*float64(len(out.GrowthIndicators)) -
		0.1*float64(len(out.StressMarkers)) -
		0.1*float64(avoidant)

	out.SupportUtilization = round3(clamp01(utilization))
	out.EmotionalRegulation = round3(clamp01(regulation))
	return out
}
