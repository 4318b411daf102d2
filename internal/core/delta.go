package core

import "time"

// TemporalContext locates a delta or turning point within its conversation.
type TemporalContext struct {
	Position          TemporalPosition `json:"position"`
	PrecedingDeltas   int              `json:"precedingDeltas"`
	FollowingDeltas   int              `json:"followingDeltas"`
	RelativeTimestamp int64            `json:"relativeTimestamp"`
}

// MoodDelta is a detected change between two sequential analyses.
// Significance, TemporalContext and DeltaSequence are filled in when the
// delta history is stored.
type MoodDelta struct {
	ID              int64           `json:"id,omitempty"`
	MemoryID        string          `json:"memoryId,omitempty"`
	ConversationID  string          `json:"conversationId,omitempty"`
	Magnitude       float64         `json:"magnitude"`
	Direction       DeltaDirection  `json:"direction"`
	Type            DeltaType       `json:"type"`
	Confidence      float64         `json:"confidence"`
	Factors         []string        `json:"factors"`
	FromScore       float64         `json:"fromScore"`
	ToScore         float64         `json:"toScore"`
	Significance    float64         `json:"significance"`
	TemporalContext TemporalContext `json:"temporalContext"`
	DeltaSequence   int             `json:"deltaSequence"`
	Timestamp       time.Time       `json:"timestamp"`
}

// PatternInput is the caller-supplied part of a delta pattern.
type PatternInput struct {
	Type             PatternType `json:"type"`
	DeltaIDs         []int64     `json:"deltaIds"`
	Description      string      `json:"description"`
	DurationMs       int64       `json:"duration"`
	AverageMagnitude float64     `json:"averageMagnitude"`
}

type DeltaPattern struct {
	ID           int64   `json:"id"`
	MemoryID     string  `json:"memoryId"`
	Significance float64 `json:"significance"`
	Confidence   float64 `json:"confidence"`
	PatternInput
	CreatedAt time.Time `json:"createdAt"`
}

// TurningPointInput is the caller-supplied part of a turning point.
type TurningPointInput struct {
	Type        TurningPointType `json:"type"`
	Magnitude   float64          `json:"magnitude"`
	Description string           `json:"description"`
	Timestamp   time.Time        `json:"timestamp"`
}

// TurningPoint optionally refers back to the delta it originated from.
// The reference is weak: deleting the delta leaves the turning point.
type TurningPoint struct {
	ID       int64  `json:"id"`
	MemoryID string `json:"memoryId"`
	TurningPointInput
	Significance    float64         `json:"significance"`
	TemporalContext TemporalContext `json:"temporalContext"`
	DeltaID         *int64          `json:"deltaId,omitempty"`
}
