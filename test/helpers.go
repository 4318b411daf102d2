// Package test holds shared fixtures for package tests.
package test

import (
	"time"

	"github.com/sandevgo/moodmem/internal/core"
)

var (
	Author = core.Participant{ID: "u-alex", Name: "Alex", Role: "author"}
	Sarah  = core.Participant{ID: "u-sarah", Name: "Sarah", Role: "friend"}
	Mom    = core.Participant{ID: "u-mom", Name: "Mom", Role: "family"}
	Sister = core.Participant{ID: "u-jo", Name: "Jo", Role: "family"}
	Team   = core.Participant{ID: "u-team", Name: "Team", Role: "group"}
)

func trajectory(at time.Time, scores ...float64) core.EmotionalTrajectory {
	points := make([]core.TrajectoryPoint, len(scores))
	for i, s := range scores {
		points[i] = core.TrajectoryPoint{Timestamp: at.Add(time.Duration(i) * time.Minute), MoodScore: s}
	}
	return core.EmotionalTrajectory{Direction: "improving", Points: points}
}

// SarahMemory is a supportive conversation with a close friend (mood 6.8).
func SarahMemory() core.ExtractedMemory {
	at := time.Date(2024, 3, 14, 19, 0, 0, 0, time.UTC)
	return core.ExtractedMemory{
		ID:           "mem-sarah",
		Content:      "Talking with Sarah helped me feel so much better",
		Timestamp:    at,
		Author:       Author,
		Participants: []core.Participant{Author, Sarah},
		EmotionalContext: core.EmotionalContext{
			PrimaryEmotion:   "relief",
			Intensity:        0.6,
			Themes:           []string{"support", "friendship"},
			EmotionalMarkers: []string{"relieved", "grateful"},
		},
		RelationshipDynamics: core.RelationshipDynamics{
			Type:               "close_friend",
			IntimacyLevel:      0.7,
			SupportLevel:       "high",
			ConnectionStrength: 0.8,
		},
		EmotionalAnalysis: core.EmotionalAnalysis{
			MoodScoring: core.MoodAnalysisResult{
				Score:       6.8,
				Confidence:  0.8,
				Descriptors: []string{"grateful", "supported", "relieved"},
			},
			Trajectory: trajectory(at, 5.5, 6.8),
		},
	}
}

// MomMemory is thematically close to SarahMemory (mood 7.2).
func MomMemory() core.ExtractedMemory {
	at := time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC)
	return core.ExtractedMemory{
		ID:           "mem-mom",
		Content:      "My mom gave me such great advice",
		Timestamp:    at,
		Author:       Author,
		Participants: []core.Participant{Author, Mom},
		EmotionalContext: core.EmotionalContext{
			PrimaryEmotion:   "gratitude",
			Intensity:        0.65,
			Themes:           []string{"support", "family"},
			EmotionalMarkers: []string{"grateful", "supported"},
		},
		RelationshipDynamics: core.RelationshipDynamics{
			Type:               "family",
			IntimacyLevel:      0.75,
			SupportLevel:       "high",
			ConnectionStrength: 0.85,
		},
		EmotionalAnalysis: core.EmotionalAnalysis{
			MoodScoring: core.MoodAnalysisResult{
				Score:       7.2,
				Confidence:  0.8,
				Descriptors: []string{"grateful", "supported", "hopeful"},
			},
			Trajectory: trajectory(at, 6.0, 7.2),
		},
	}
}

// AnxiousMemory mixes anxiety with support from a sibling.
func AnxiousMemory() core.ExtractedMemory {
	at := time.Date(2024, 6, 3, 23, 30, 0, 0, time.UTC)
	return core.ExtractedMemory{
		ID:           "mem-anxious",
		Content:      "I've been so anxious about the exam but my sister supported me and listened",
		Timestamp:    at,
		Author:       Author,
		Participants: []core.Participant{Author, Sister},
		EmotionalContext: core.EmotionalContext{
			PrimaryEmotion:   "anxiety",
			Intensity:        0.7,
			Themes:           []string{"anxiety", "support"},
			EmotionalMarkers: []string{"anxious"},
		},
		RelationshipDynamics: core.RelationshipDynamics{
			Type:               "family",
			IntimacyLevel:      0.65,
			SupportLevel:       "high",
			ConnectionStrength: 0.7,
		},
		EmotionalAnalysis: core.EmotionalAnalysis{
			MoodScoring: core.MoodAnalysisResult{
				Score:       5.5,
				Confidence:  0.7,
				Descriptors: []string{"anxious", "supported"},
			},
			Trajectory: trajectory(at, 4.0, 5.5),
		},
	}
}

// CelebrationMemory shares no emotional descriptors with AnxiousMemory.
func CelebrationMemory() core.ExtractedMemory {
	at := time.Date(2024, 9, 21, 14, 0, 0, 0, time.UTC)
	return core.ExtractedMemory{
		ID:           "mem-celebration",
		Content:      "We won the championship! Celebrating with the whole team tonight",
		Timestamp:    at,
		Author:       Author,
		Participants: []core.Participant{Author, Team},
		EmotionalContext: core.EmotionalContext{
			PrimaryEmotion:   "joy",
			Intensity:        0.9,
			Themes:           []string{"achievement", "celebration"},
			EmotionalMarkers: []string{"excited", "proud"},
		},
		RelationshipDynamics: core.RelationshipDynamics{
			Type:               "team",
			IntimacyLevel:      0.5,
			SupportLevel:       "medium",
			ConnectionStrength: 0.6,
		},
		EmotionalAnalysis: core.EmotionalAnalysis{
			MoodScoring: core.MoodAnalysisResult{
				Score:       8.5,
				Confidence:  0.9,
				Descriptors: []string{"joyful", "excited"},
			},
			Trajectory: trajectory(at, 7.0, 8.5),
		},
	}
}

// MinimalMemory is short logistics content with a neutral mood.
func MinimalMemory() core.ExtractedMemory {
	at := time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)
	return core.ExtractedMemory{
		ID:           "mem-minimal",
		Content:      "Meeting at 3pm.",
		Timestamp:    at,
		Author:       Author,
		Participants: []core.Participant{Author},
		EmotionalContext: core.EmotionalContext{
			Intensity: 0.8,
		},
		RelationshipDynamics: core.RelationshipDynamics{
			IntimacyLevel:      0.6,
			ConnectionStrength: 0.5,
		},
		EmotionalAnalysis: core.EmotionalAnalysis{
			MoodScoring: core.MoodAnalysisResult{
				Score:       5.0,
				Confidence:  0.9,
				Descriptors: []string{"neutral"},
			},
		},
	}
}

// Memories returns every fixture.
func Memories() []core.ExtractedMemory {
	return []core.ExtractedMemory{SarahMemory(), MomMemory(), AnxiousMemory(), CelebrationMemory(), MinimalMemory()}
}
