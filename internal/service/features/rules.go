package features

import (
	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/lexicon"
)

var (
	hedging     = []string{"maybe", "perhaps", "i guess", "kind of", "sort of", "i think", "probably", "might"}
	emphatic    = []string{"so", "really", "very", "totally", "absolutely", "such", "so much", "incredibly"}
	questioning = []string{"what if", "why", "how do", "should i", "do you think", "am i", "is it"}
	reflective  = []string{"i feel", "i felt", "looking back", "thinking about", "i realized", "i wonder", "i noticed"}
	directive   = []string{"you should", "you need", "try to", "make sure", "let's", "don't forget"}

	directRequests = []string{
		"can you help", "need help", "need your help", "need advice", "need someone", "could you",
		"please help", "need to talk", "can we talk",
	}
	problemWords  = []string{"problem", "issue", "dealing with", "going through", "struggling with", "situation"}
	indirectHints = []string{"i guess", "whatever", "doesn't matter", "never mind", "it's fine", "not a big deal"}

	problemSolving = []string{"plan", "figure out", "solution", "decided", "next step", "fix", "organize"}
	release        = []string{"cry", "cried", "crying", "vent", "venting", "let it out", "scream"}
	avoidance      = []string{"avoid*", "ignore", "distract*", "don't want to think", "pretend"}

	mindfulness = []string{"breath*", "meditat*", "mindful*", "yoga"}
	physical    = []string{"exercise*", "walk", "walked", "run", "ran", "gym", "workout", "hike"}
	journaling  = []string{"journal*", "wrote", "writing"}
	optimism    = []string{"hopeful", "hope", "optimistic", "look forward", "looking forward", "things will get better"}
	efficacy    = []string{"i can", "i managed", "i handled", "proud of myself", "i did it"}
	selfCare    = []string{"kind to myself", "forgive myself", "self-care", "self care", "rest"}
)

// linguisticPatterns are all evaluated; each match count scales strength.
var linguisticPatterns = []struct {
	name     string
	keywords []string
}{
	{"hedging", hedging},
	{"emphatic", emphatic},
	{"questioning", questioning},
	{"reflective", reflective},
	{"directive", directive},
}

var supportSeekingRules = []lexicon.Rule[lexicon.Text, string]{
	lexicon.KeywordRule("direct request", directRequests, "direct_verbal"),
	{
		Name: "emotional disclosure",
		When: func(t lexicon.Text) bool {
			return t.Any(lexicon.Vulnerability) ||
				(t.EmotionalWordCount() >= 1 && t.Occurrences(lexicon.PersonalPronouns) >= 1)
		},
		Then: "emotional_expression",
	},
	lexicon.KeywordRule("problem description", problemWords, "problem_sharing"),
	lexicon.KeywordRule("indirect hint", indirectHints, "indirect_hint"),
}

var copingCommunicationRules = []lexicon.Rule[lexicon.Text, string]{
	lexicon.KeywordRule("connection", concat(lexicon.Support, lexicon.ReceivingLanguage), "seeking_connection"),
	lexicon.KeywordRule("reflection", lexicon.Growth, "reflective_processing"),
	lexicon.KeywordRule("problem solving", problemSolving, "problem_solving"),
	lexicon.KeywordRule("release", release, "emotional_release"),
	lexicon.KeywordRule("avoidance", avoidance, "avoidance"),
}

// relationshipTypeRules map participant vocabulary to a relationship type.
// A friend mention outranks workplace vocabulary. Plain friends and anything
// unmatched are promoted to close_friend on strong supportive connection.
var relationshipTypeRules = []lexicon.Rule[lexicon.Text, string]{
	lexicon.KeywordRule("family", lexicon.Family, "family"),
	lexicon.KeywordRule("romantic", lexicon.Romantic, "romantic_partner"),
	lexicon.KeywordRule("therapeutic", lexicon.Therapeutic, "therapist"),
	lexicon.KeywordRule("close friend", lexicon.CloseFriends, "close_friend"),
	lexicon.KeywordRule("friend", lexicon.FriendWords, "friend"),
	lexicon.KeywordRule("professional", lexicon.Professional, "colleague"),
}

var authorRoleRules = []lexicon.Rule[lexicon.Text, string]{
	lexicon.KeywordRule("receiving support", lexicon.ReceivingLanguage, "vulnerable_sharer"),
	lexicon.KeywordRule("offering support", lexicon.SupporterLanguage, "supporter"),
	{Name: "neutral", When: lexicon.Text.IsNeutralContent, Then: "observer"},
}

var copingMechanismRules = []lexicon.Rule[lexicon.Text, core.CopingMechanism]{
	lexicon.KeywordRule("social support", concat(lexicon.Support, lexicon.ReceivingLanguage),
		core.CopingMechanism{Type: "social_support", Strength: 0.8, Effectiveness: 0.8}),
	lexicon.KeywordRule("mindfulness", mindfulness,
		core.CopingMechanism{Type: "mindfulness", Strength: 0.7, Effectiveness: 0.75}),
	lexicon.KeywordRule("physical activity", physical,
		core.CopingMechanism{Type: "physical_activity", Strength: 0.6, Effectiveness: 0.7}),
	lexicon.KeywordRule("journaling", journaling,
		core.CopingMechanism{Type: "journaling", Strength: 0.6, Effectiveness: 0.65}),
	lexicon.KeywordRule("problem solving", problemSolving,
		core.CopingMechanism{Type: "problem_solving", Strength: 0.7, Effectiveness: 0.7}),
	lexicon.KeywordRule("avoidance", avoidance,
		core.CopingMechanism{Type: "avoidance", Strength: 0.5, Effectiveness: 0.3}),
}

var resilienceRules = []lexicon.Rule[lexicon.Text, core.Indicator]{
	lexicon.KeywordRule("perseverance", lexicon.Resilience, core.Indicator{Type: "perseverance", Strength: 0.7}),
	lexicon.KeywordRule("optimism", optimism, core.Indicator{Type: "optimism", Strength: 0.6}),
	lexicon.KeywordRule("self efficacy", efficacy, core.Indicator{Type: "self_efficacy", Strength: 0.65}),
}

var stressRules = []lexicon.Rule[lexicon.Text, core.Indicator]{
	lexicon.KeywordRule("overwhelm", lexicon.Stress, core.Indicator{Type: "overwhelm", Strength: 0.7}),
	lexicon.KeywordRule("anxiety", lexicon.Anxiety, core.Indicator{Type: "anxiety", Strength: 0.6}),
	lexicon.KeywordRule("crisis", lexicon.Crisis, core.Indicator{Type: "crisis", Strength: 0.9}),
	lexicon.KeywordRule("conflict", lexicon.Conflict, core.Indicator{Type: "interpersonal_conflict", Strength: 0.5}),
}

var growthRules = []lexicon.Rule[lexicon.Text, core.Indicator]{
	lexicon.KeywordRule("insight", lexicon.Growth, core.Indicator{Type: "insight", Strength: 0.7}),
	lexicon.KeywordRule("gratitude", lexicon.Gratitude, core.Indicator{Type: "gratitude_practice", Strength: 0.5}),
	lexicon.KeywordRule("self compassion", selfCare, core.Indicator{Type: "self_compassion", Strength: 0.6}),
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
