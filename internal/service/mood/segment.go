package mood

import (
	"fmt"

	"github.com/sandevgo/moodmem/internal/core"
)

type SegmentConfig struct {
	Size    int `env:"SEGMENT_SIZE" envDefault:"6"`
	Overlap int `env:"SEGMENT_OVERLAP" envDefault:"2"`
}

func DefaultSegmentConfig() SegmentConfig {
	return SegmentConfig{
		Size:    6,
		Overlap: 2,
	}
}

func (c SegmentConfig) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("segment size must be positive, got %d", c.Size)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("segment overlap must be in [0, %d), got %d", c.Size, c.Overlap)
	}
	return nil
}

// Segment splits a conversation into overlapping windows of messages.
// A conversation with at most cfg.Size messages yields a single segment
// equal to the input.
func Segment(conv core.Conversation, cfg SegmentConfig) ([]core.Conversation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(conv.Messages) <= cfg.Size {
		return []core.Conversation{conv}, nil
	}

	step := cfg.Size - cfg.Overlap
	var segments []core.Conversation
	for start := 0; ; start += step {
		end := min(start+cfg.Size, len(conv.Messages))
		window := conv.Messages[start:end]

		seg := core.Conversation{
			ID:           fmt.Sprintf("%s#%d", conv.ID, len(segments)),
			Messages:     window,
			Participants: conv.Participants,
			Timestamp:    conv.Timestamp,
		}
		if ts := window[0].Timestamp; !ts.IsZero() {
			seg.StartTime = ts
		}
		if ts := window[len(window)-1].Timestamp; !ts.IsZero() && !ts.Before(seg.StartTime) {
			seg.EndTime = ts
		}
		segments = append(segments, seg)

		if end == len(conv.Messages) {
			break
		}
	}
	return segments, nil
}

// AnalyzeSegments scores each window of a conversation in order, producing
// the sequence consumed by delta detection.
func (a *Analyzer) AnalyzeSegments(conv core.Conversation, cfg SegmentConfig) ([]core.MoodAnalysisResult, error) {
	if err := conv.Validate(); err != nil {
		return nil, err
	}
	segments, err := Segment(conv, cfg)
	if err != nil {
		return nil, err
	}

	results := make([]core.MoodAnalysisResult, 0, len(segments))
	for _, seg := range segments {
		res, err := a.AnalyzeConversation(seg)
		if err != nil {
			return nil, fmt.Errorf("segment %s: %w", seg.ID, err)
		}
		results = append(results, res)
	}
	return results, nil
}
