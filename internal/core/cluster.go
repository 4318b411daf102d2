package core

import "time"

type ClusterQualityMetrics struct {
	Cohesion          float64 `json:"cohesion"`
	MinPairSimilarity float64 `json:"minPairSimilarity"`
	AverageIntensity  float64 `json:"averageIntensity"`
}

type ClusterMetadata struct {
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
	MemoryCount    int                   `json:"memoryCount"`
	QualityMetrics ClusterQualityMetrics `json:"qualityMetrics"`
}

// MemoryCluster groups memories whose similarity exceeds the coherence threshold.
type MemoryCluster struct {
	ClusterID                 string          `json:"clusterId"`
	Theme                     string          `json:"theme"`
	CoherenceScore            float64         `json:"coherenceScore"`
	PsychologicalSignificance float64         `json:"psychologicalSignificance"`
	MemoryIDs                 []string        `json:"memoryIds"`
	Metadata                  ClusterMetadata `json:"metadata"`
}
