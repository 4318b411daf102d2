// Package features maps an extracted memory to the five independent
// feature dimensions used for similarity and clustering. Every extractor
// is a pure function over its input.
package features

import "github.com/sandevgo/moodmem/internal/core"

// Extract builds all five dimensions. others is only used for temporal
// proximity and may be empty.
func Extract(mem core.ExtractedMemory, others ...core.ExtractedMemory) core.ClusteringFeatures {
	return core.ClusteringFeatures{
		MemoryID:                mem.ID,
		EmotionalTone:           ExtractEmotionalTone(mem),
		CommunicationStyle:      ExtractCommunicationStyle(mem),
		RelationshipContext:     ExtractRelationshipContext(mem),
		PsychologicalIndicators: ExtractPsychologicalIndicators(mem),
		TemporalContext:         ExtractTemporalContext(mem, others),
	}
}
