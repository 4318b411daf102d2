package features

import (
	"math"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/lexicon"
)

func ExtractCommunicationStyle(mem core.ExtractedMemory) core.CommunicationStyleFeatures {
	text := lexicon.NewText(mem.Content)

	patterns := []core.LinguisticPattern{}
	for _, p := range linguisticPatterns {
		if n := text.Count(p.keywords); n > 0 {
			patterns = append(patterns, core.LinguisticPattern{
				Type:     p.name,
				Strength: math.Min(1, float64(n)*0.25),
			})
		}
	}

	emotional := text.EmotionalWordCount()
	pronouns := text.Occurrences(lexicon.PersonalPronouns)
	vulnerable := text.Count(lexicon.Vulnerability)

	openness := 0.3*float64(vulnerable) + 0.05*float64(min(pronouns, 6)) + 0.15*float64(emotional)

	seeking, _ := lexicon.FirstMatch(supportSeekingRules, text, "minimal_seeking")
	coping, _ := lexicon.FirstMatch(copingCommunicationRules, text, "minimal_expression")

	intimacy := mem.RelationshipDynamics.ConnectionStrength + 0.05*float64(len(patterns))
	if pronouns >= 2 {
		intimacy += 0.1
	}
	if vulnerable > 0 {
		intimacy += 0.1
	}

	return core.CommunicationStyleFeatures{
		LinguisticPatterns:   patterns,
		EmotionalOpenness:    round3(clamp01(openness)),
		EmotionalVocabulary:  round3(clamp01(0.2 * float64(emotional))),
		SupportSeekingStyle:  seeking,
		CopingCommunication:  coping,
		RelationshipIntimacy: round3(clamp01(intimacy)),
	}
}
