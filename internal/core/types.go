package core

import (
	"fmt"
	"time"
)

const (
	MoodMemName          = "MoodMem"
	MoodMemRepositoryURL = "https://github.com/sandevgo/moodmem"
	MoodMemVersion       = "0.1.0"

	// AlgorithmVersion is stamped on every persisted mood score.
	AlgorithmVersion = "mood-scoring/1.0"
)

type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the input contract for mood scoring.
type Conversation struct {
	ID           string        `json:"id"`
	Messages     []Message     `json:"messages"`
	Participants []Participant `json:"participants"`
	Timestamp    time.Time     `json:"timestamp"`
	StartTime    time.Time     `json:"startTime"`
	EndTime      time.Time     `json:"endTime"`
}

// Validate rejects malformed conversations before any computation.
// An empty message list is not an error: it is scored as a neutral baseline.
func (c Conversation) Validate() error {
	if c.ID == "" {
		return NewValidationError("conversation.id", "must not be empty")
	}
	if !c.StartTime.IsZero() && !c.EndTime.IsZero() && c.EndTime.Before(c.StartTime) {
		return NewValidationError("conversation.endTime", "must not precede startTime")
	}

	known := make(map[string]struct{}, len(c.Participants))
	for i, p := range c.Participants {
		if p.ID == "" {
			return NewValidationError(fmt.Sprintf("conversation.participants[%d].id", i), "must not be empty")
		}
		known[p.ID] = struct{}{}
	}

	for i, m := range c.Messages {
		if m.ID == "" {
			return NewValidationError(fmt.Sprintf("conversation.messages[%d].id", i), "must not be empty")
		}
		if m.AuthorID == "" {
			return NewValidationError(fmt.Sprintf("conversation.messages[%d].authorId", i), "must not be empty")
		}
		if len(known) > 0 {
			if _, ok := known[m.AuthorID]; !ok {
				return NewValidationError(fmt.Sprintf("conversation.messages[%d].authorId", i), "is not a listed participant")
			}
		}
	}
	return nil
}

// Duration returns the span covered by the conversation, falling back to
// message timestamps when start/end are missing.
func (c Conversation) Duration() time.Duration {
	if !c.StartTime.IsZero() && !c.EndTime.IsZero() {
		return c.EndTime.Sub(c.StartTime)
	}
	if len(c.Messages) < 2 {
		return 0
	}
	first, last := c.Messages[0].Timestamp, c.Messages[len(c.Messages)-1].Timestamp
	if first.IsZero() || last.IsZero() || last.Before(first) {
		return 0
	}
	return last.Sub(first)
}

// Start returns the best known start time of the conversation.
func (c Conversation) Start() time.Time {
	switch {
	case !c.StartTime.IsZero():
		return c.StartTime
	case len(c.Messages) > 0 && !c.Messages[0].Timestamp.IsZero():
		return c.Messages[0].Timestamp
	default:
		return c.Timestamp
	}
}
