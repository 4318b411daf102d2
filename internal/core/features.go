package core

import "time"

// Sentiment vector indices.
const (
	SentimentPositive = iota
	SentimentNegative
	SentimentAnxiety
	SentimentGratitude
	SentimentMixed

	SentimentDimensions
)

type EmotionalToneFeatures struct {
	SentimentVector      []float64 `json:"sentimentVector"`
	EmotionalIntensity   float64   `json:"emotionalIntensity"`
	EmotionalVariance    float64   `json:"emotionalVariance"`
	EmotionalStability   float64   `json:"emotionalStability"`
	MoodScore            float64   `json:"moodScore"`
	DominantSentiment    string    `json:"dominantSentiment"`
	EmotionalDescriptors []string  `json:"emotionalDescriptors"`
	Themes               []string  `json:"themes"`
}

type LinguisticPattern struct {
	Type     string  `json:"type"`
	Strength float64 `json:"strength"`
}

type CommunicationStyleFeatures struct {
	LinguisticPatterns   []LinguisticPattern `json:"linguisticPatterns"`
	EmotionalOpenness    float64             `json:"emotionalOpenness"`
	EmotionalVocabulary  float64             `json:"emotionalVocabulary"`
	SupportSeekingStyle  string              `json:"supportSeekingStyle"`
	CopingCommunication  string              `json:"copingCommunication"`
	RelationshipIntimacy float64             `json:"relationshipIntimacy"`
}

type SupportDynamics struct {
	Level     string  `json:"level"`
	Quality   float64 `json:"quality"`
	Direction string  `json:"direction"`
}

type ParticipantRole struct {
	ParticipantID string `json:"participantId"`
	Role          string `json:"role"`
}

type RelationshipContextFeatures struct {
	RelationshipType   string            `json:"relationshipType"`
	IntimacyLevel      float64           `json:"intimacyLevel"`
	ConnectionStrength float64           `json:"connectionStrength"`
	SupportDynamics    SupportDynamics   `json:"supportDynamics"`
	ParticipantRoles   []ParticipantRole `json:"participantRoles"`
	AuthorRole         string            `json:"authorRole"`
}

type CopingMechanism struct {
	Type          string  `json:"type"`
	Strength      float64 `json:"strength"`
	Effectiveness float64 `json:"effectiveness"`
}

type Indicator struct {
	Type     string  `json:"type"`
	Strength float64 `json:"strength"`
}

type PsychologicalIndicatorFeatures struct {
	CopingMechanisms     []CopingMechanism `json:"copingMechanisms"`
	ResilienceIndicators []Indicator       `json:"resilienceIndicators"`
	StressMarkers        []Indicator       `json:"stressMarkers"`
	GrowthIndicators     []Indicator       `json:"growthIndicators"`
	SupportUtilization   float64           `json:"supportUtilization"`
	EmotionalRegulation  float64           `json:"emotionalRegulation"`
}

type TemporalContextFeatures struct {
	Timestamp         time.Time `json:"timestamp"`
	TimeOfDay         string    `json:"timeOfDay"`
	DayOfWeek         string    `json:"dayOfWeek"`
	Season            string    `json:"season"`
	IsWeekend         bool      `json:"isWeekend"`
	TemporalStability float64   `json:"temporalStability"`
	TemporalProximity float64   `json:"temporalProximity"`
}

// ClusteringFeatures bundles the five independently extracted dimensions.
type ClusteringFeatures struct {
	MemoryID                string                         `json:"memoryId"`
	EmotionalTone           EmotionalToneFeatures          `json:"emotionalTone"`
	CommunicationStyle      CommunicationStyleFeatures     `json:"communicationStyle"`
	RelationshipContext     RelationshipContextFeatures    `json:"relationshipContext"`
	PsychologicalIndicators PsychologicalIndicatorFeatures `json:"psychologicalIndicators"`
	TemporalContext         TemporalContextFeatures        `json:"temporalContext"`
}
