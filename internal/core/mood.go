package core

import (
	"fmt"
	"math"
	"time"
)

// MoodFactor is one weighted contribution to a mood score.
type MoodFactor struct {
	Type          FactorType `json:"type"`
	Weight        float64    `json:"weight"`
	Description   string     `json:"description"`
	Evidence      []string   `json:"evidence"`
	InternalScore float64    `json:"internalScore"`
}

// Validate rejects factors that cannot be part of a well-formed analysis.
func (f MoodFactor) Validate() error {
	if _, err := ParseFactorType(string(f.Type)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFactor, err)
	}
	if math.IsNaN(f.Weight) || f.Weight < 0 || f.Weight > 1 {
		return fmt.Errorf("%w: %s weight %v outside [0,1]", ErrInvalidFactor, f.Type, f.Weight)
	}
	if math.IsNaN(f.InternalScore) || math.IsInf(f.InternalScore, 0) {
		return fmt.Errorf("%w: %s internal score is not finite", ErrInvalidFactor, f.Type)
	}
	return nil
}

// MoodAnalysisResult is the scored view of one conversation.
type MoodAnalysisResult struct {
	Score       float64      `json:"score"`
	Confidence  float64      `json:"confidence"`
	Descriptors []string     `json:"descriptors"`
	Factors     []MoodFactor `json:"factors"`
}

// NeutralMoodScore is the baseline for content with no mood evidence.
const NeutralMoodScore = 5.0

// IsZero reports whether the result was never computed: no confidence and
// no factors.
func (r MoodAnalysisResult) IsZero() bool {
	return r.Confidence == 0 && len(r.Factors) == 0
}

// ScoreMetadata accompanies a persisted mood score.
type ScoreMetadata struct {
	DurationMs       int64  `json:"durationMs"`
	AlgorithmVersion string `json:"algorithmVersion"`
}

type StoredMoodScore struct {
	ID       int64  `json:"id"`
	MemoryID string `json:"memoryId"`
	MoodAnalysisResult
	ScoreMetadata
	CreatedAt time.Time `json:"createdAt"`
}

// MoodValidation is a human rating recorded against an algorithmic score.
type MoodValidation struct {
	ID             int64     `json:"id"`
	MemoryID       string    `json:"memoryId"`
	MoodScoreID    int64     `json:"moodScoreId"`
	Validator      string    `json:"validator"`
	ValidatedScore float64   `json:"validatedScore"`
	Discrepancy    float64   `json:"discrepancy"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}
