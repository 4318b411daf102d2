package core

import (
	"context"
	"time"
)

type MemoryRepository interface {
	SaveMemory(ctx context.Context, mem ExtractedMemory) error
	GetMemory(ctx context.Context, id string) (*ExtractedMemory, error)
	DeleteMemory(ctx context.Context, id string) error
	ListUnclusteredMemories(ctx context.Context, limit int) ([]ExtractedMemory, error)
}

type MoodRepository interface {
	StoreMoodScore(ctx context.Context, memoryID string, result MoodAnalysisResult, meta ScoreMetadata) (*StoredMoodScore, error)
	GetMoodScoresByMemoryID(ctx context.Context, memoryID string) ([]StoredMoodScore, error)
	GetMoodScoresInRange(ctx context.Context, minScore, maxScore float64) ([]StoredMoodScore, error)
	GetMoodScoresByConfidence(ctx context.Context, minConfidence, maxConfidence float64) ([]StoredMoodScore, error)
	GetMoodScoresInTimeRange(ctx context.Context, from, to time.Time) ([]StoredMoodScore, error)
	StoreValidation(ctx context.Context, v MoodValidation) (*MoodValidation, error)
	GetValidationsByMemoryID(ctx context.Context, memoryID string) ([]MoodValidation, error)
}

// DeltaRepository persists annotated deltas, patterns and turning points.
// Significance and temporal context are computed by the caller.
type DeltaRepository interface {
	InsertDeltas(ctx context.Context, memoryID, conversationID string, deltas []MoodDelta) ([]MoodDelta, error)
	GetDeltasByMemoryID(ctx context.Context, memoryID string) ([]MoodDelta, error)
	GetDeltasBySignificance(ctx context.Context, threshold float64) ([]MoodDelta, error)
	GetDeltasInTimeRange(ctx context.Context, from, to time.Time) ([]MoodDelta, error)

	InsertPattern(ctx context.Context, pattern DeltaPattern) (*DeltaPattern, error)
	GetDeltaPatternsByMemoryID(ctx context.Context, memoryID string) ([]DeltaPattern, error)

	InsertTurningPoint(ctx context.Context, tp TurningPoint) (*TurningPoint, error)
	GetTurningPointsByMemoryID(ctx context.Context, memoryID string) ([]TurningPoint, error)
}

type ClusterRepository interface {
	SaveCluster(ctx context.Context, cluster MemoryCluster, similarities map[string]float64) error
	GetCluster(ctx context.Context, clusterID string) (*MemoryCluster, error)
	ListClusters(ctx context.Context) ([]MemoryCluster, error)
}
