package features

import (
	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/lexicon"
)

const (
	SupportHigh   = "high"
	SupportMedium = "medium"
	SupportLow    = "low"
)

// Relationship type tiers used for partial matches.
var closenessTier = map[string]int{
	"family":           0,
	"romantic_partner": 0,
	"close_friend":     0,
	"friend":           1,
	"colleague":        1,
	"therapist":        2,
}

// SameClosenessTier reports whether two relationship types are comparably close.
func SameClosenessTier(a, b string) bool {
	ta, okA := closenessTier[a]
	tb, okB := closenessTier[b]
	return okA && okB && ta == tb
}

func ExtractRelationshipContext(mem core.ExtractedMemory) core.RelationshipContextFeatures {
	text := lexicon.NewText(mem.Content)
	dyn := mem.RelationshipDynamics

	receiving := text.Any(lexicon.ReceivingLanguage)
	giving := text.Any(lexicon.SupporterLanguage)
	supportive := receiving || text.Any(lexicon.Support) || dyn.SupportLevel == SupportHigh

	relType, _ := lexicon.FirstMatch(relationshipTypeRules, text, "friend")
	if relType == "friend" && supportive && dyn.ConnectionStrength >= 0.6 {
		relType = "close_friend"
	}

	intimacy := dyn.IntimacyLevel
	if intimacy <= 0 {
		intimacy = dyn.ConnectionStrength * 0.8
	}
	if text.Any(lexicon.Vulnerability) {
		intimacy += 0.1
	}
	if closenessTier[relType] == 0 {
		intimacy += 0.05
	}
	intimacy = clamp01(intimacy)
	if text.IsMinimal() {
		intimacy = min(intimacy*0.5, 0.35)
	}

	quality := 5 +
		1.5*float64(text.Count(lexicon.Support)) +
		1.0*float64(text.Count(lexicon.ReceivingLanguage)) +
		1.0*float64(text.Count(lexicon.SupporterLanguage)) -
		2.0*float64(text.Count(lexicon.Conflict))
	switch dyn.SupportLevel {
	case SupportHigh:
		quality += 1.5
	case SupportLow:
		quality -= 1.5
	}
	quality = max(0, min(10, quality))

	direction := "none"
	switch {
	case receiving && giving:
		direction = "mutual"
	case receiving:
		direction = "receiving"
	case giving:
		direction = "giving"
	}

	authorRole, _ := lexicon.FirstMatch(authorRoleRules, text, "vulnerable_sharer")

	return core.RelationshipContextFeatures{
		RelationshipType:   relType,
		IntimacyLevel:      round3(intimacy),
		ConnectionStrength: clamp01(dyn.ConnectionStrength),
		SupportDynamics: core.SupportDynamics{
			Level:     SupportLevel(quality),
			Quality:   round3(quality),
			Direction: direction,
		},
		ParticipantRoles: participantRoles(mem, authorRole, supportive),
		AuthorRole:       authorRole,
	}
}

// SupportLevel maps support quality on a 0-10 scale to high/medium/low.
func SupportLevel(quality float64) string {
	switch {
	case quality > 7:
		return SupportHigh
	case quality > 4:
		return SupportMedium
	default:
		return SupportLow
	}
}

func participantRoles(mem core.ExtractedMemory, authorRole string, supportive bool) []core.ParticipantRole {
	roles := []core.ParticipantRole{}
	if mem.Author.ID != "" {
		roles = append(roles, core.ParticipantRole{ParticipantID: mem.Author.ID, Role: authorRole})
	}

	other := "participant"
	switch {
	case authorRole == "vulnerable_sharer" && supportive:
		other = "supporter"
	case authorRole == "supporter":
		other = "support_receiver"
	}
	for _, p := range mem.Participants {
		if p.ID == "" || p.ID == mem.Author.ID {
			continue
		}
		roles = append(roles, core.ParticipantRole{ParticipantID: p.ID, Role: other})
	}
	return roles
}
