package mood

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name     string
		messages int
		cfg      SegmentConfig
		wantIDs  []string
		wantLens []int
	}{
		{"fits in one window", 3, DefaultSegmentConfig(), []string{"c"}, []int{3}},
		{"exact window", 6, DefaultSegmentConfig(), []string{"c"}, []int{6}},
		{"two windows with overlap", 10, DefaultSegmentConfig(), []string{"c#0", "c#1"}, []int{6, 6}},
		{"short tail", 11, DefaultSegmentConfig(), []string{"c#0", "c#1", "c#2"}, []int{6, 6, 3}},
		{"no overlap", 4, SegmentConfig{Size: 2}, []string{"c#0", "c#1"}, []int{2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contents := make([]string, tt.messages)
			for i := range contents {
				contents[i] = "hello"
			}
			segs, err := Segment(conversation("c", contents...), tt.cfg)
			require.NoError(t, err)

			var ids []string
			var lens []int
			for _, s := range segs {
				ids = append(ids, s.ID)
				lens = append(lens, len(s.Messages))
				assert.NoError(t, s.Validate())
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantLens, lens)
		})
	}
}

func TestSegment_OverlapSharesMessages(t *testing.T) {
	contents := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	segs, err := Segment(conversation("c", contents...), DefaultSegmentConfig())
	require.NoError(t, err)
	require.Len(t, segs, 2)
	assert.Equal(t, segs[0].Messages[4].ID, segs[1].Messages[0].ID)
	assert.Equal(t, segs[0].Messages[5].ID, segs[1].Messages[1].ID)
}

func TestSegment_InvalidConfig(t *testing.T) {
	conv := conversation("c", "a", "b")
	for _, cfg := range []SegmentConfig{{Size: 0}, {Size: 3, Overlap: 3}, {Size: 3, Overlap: -1}} {
		_, err := Segment(conv, cfg)
		assert.Error(t, err)
	}
}

func TestAnalyzeSegments(t *testing.T) {
	a := NewAnalyzer(DefaultWeights())
	conv := conversation("c",
		"I'm sad", "that sounds hard", "I feel terrible", "I'm here for you",
		"thanks, talking helps", "I'm grateful", "feeling better now", "so happy",
	)

	results, err := a.AnalyzeSegments(conv, SegmentConfig{Size: 4, Overlap: 0})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Greater(t, results[1].Score, results[0].Score)
}
