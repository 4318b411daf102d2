package core

import (
	"fmt"
	"time"
)

// EmotionalContext is the extracted emotional summary of a memory.
type EmotionalContext struct {
	PrimaryEmotion   string   `json:"primaryEmotion,omitempty"`
	Intensity        float64  `json:"intensity"`
	Themes           []string `json:"themes,omitempty"`
	EmotionalMarkers []string `json:"emotionalMarkers,omitempty"`
}

// RelationshipDynamics describes how the participants relate.
// SupportLevel is one of "high", "medium", "low" or empty.
type RelationshipDynamics struct {
	Type               string  `json:"type,omitempty"`
	IntimacyLevel      float64 `json:"intimacyLevel"`
	SupportLevel       string  `json:"supportLevel,omitempty"`
	ConnectionStrength float64 `json:"connectionStrength"`
	ConflictLevel      float64 `json:"conflictLevel"`
}

type TrajectoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	MoodScore float64   `json:"moodScore"`
}

type EmotionalTrajectory struct {
	Direction    string            `json:"direction,omitempty"`
	Significance float64           `json:"significance"`
	Points       []TrajectoryPoint `json:"points,omitempty"`
}

// Delta returns the spread between the lowest and highest trajectory score.
func (t EmotionalTrajectory) Delta() float64 {
	if len(t.Points) == 0 {
		return 0
	}
	lo, hi := t.Points[0].MoodScore, t.Points[0].MoodScore
	for _, p := range t.Points[1:] {
		lo = min(lo, p.MoodScore)
		hi = max(hi, p.MoodScore)
	}
	return hi - lo
}

type EmotionalPattern struct {
	Type         string  `json:"type"`
	Description  string  `json:"description,omitempty"`
	Confidence   float64 `json:"confidence"`
	Significance float64 `json:"significance"`
}

type EmotionalAnalysis struct {
	Context     EmotionalContext    `json:"context"`
	MoodScoring MoodAnalysisResult  `json:"moodScoring"`
	Trajectory  EmotionalTrajectory `json:"trajectory"`
	Patterns    []EmotionalPattern  `json:"patterns,omitempty"`
}

// ExtractedMemory is an immutable input to feature extraction and clustering.
type ExtractedMemory struct {
	ID                   string               `json:"id"`
	Content              string               `json:"content"`
	Timestamp            time.Time            `json:"timestamp"`
	Author               Participant          `json:"author"`
	Participants         []Participant        `json:"participants"`
	EmotionalContext     EmotionalContext     `json:"emotionalContext"`
	RelationshipDynamics RelationshipDynamics `json:"relationshipDynamics"`
	EmotionalAnalysis    EmotionalAnalysis    `json:"emotionalAnalysis"`
}

func (m ExtractedMemory) Validate() error {
	if m.ID == "" {
		return NewValidationError("memory.id", "must not be empty")
	}
	score := m.EmotionalAnalysis.MoodScoring.Score
	if score < 0 || score > 10 {
		return NewValidationError("memory.emotionalAnalysis.moodScoring.score", fmt.Sprintf("%v outside [0,10]", score))
	}
	conf := m.EmotionalAnalysis.MoodScoring.Confidence
	if conf < 0 || conf > 1 {
		return NewValidationError("memory.emotionalAnalysis.moodScoring.confidence", fmt.Sprintf("%v outside [0,1]", conf))
	}
	if i := m.EmotionalContext.Intensity; i < 0 || i > 1 {
		return NewValidationError("memory.emotionalContext.intensity", fmt.Sprintf("%v outside [0,1]", i))
	}
	if c := m.RelationshipDynamics.ConnectionStrength; c < 0 || c > 1 {
		return NewValidationError("memory.relationshipDynamics.connectionStrength", fmt.Sprintf("%v outside [0,1]", c))
	}
	return nil
}
