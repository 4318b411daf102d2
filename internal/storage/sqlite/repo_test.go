package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/test"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "data", "moodmem.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedMemory(t *testing.T, db *sql.DB, mems ...core.ExtractedMemory) {
	t.Helper()
	repo := NewMemoriesRepo(db)
	for _, m := range mems {
		require.NoError(t, repo.SaveMemory(context.Background(), m))
	}
}

func count(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func sampleResult(score float64) core.MoodAnalysisResult {
	return core.MoodAnalysisResult{
		Score:       score,
		Confidence:  0.8,
		Descriptors: []string{"positive", "supported"},
		Factors: []core.MoodFactor{
			{Type: core.FactorSentiment, Weight: 0.4, Description: "sentiment", Evidence: []string{"happy"}, InternalScore: 7},
			{Type: core.FactorPsychological, Weight: 0.25, Description: "coping", Evidence: nil, InternalScore: 6},
			{Type: core.FactorRelationship, Weight: 0.2, Description: "support", Evidence: []string{"friend"}, InternalScore: 6.2},
			{Type: core.FactorProgression, Weight: 0.15, Description: "stable", Evidence: []string{}, InternalScore: 5},
		},
	}
}

func TestMemoriesRepo(t *testing.T) {
	db := newTestDB(t)
	repo := NewMemoriesRepo(db)
	ctx := context.Background()
	mem := test.SarahMemory()

	require.NoError(t, repo.SaveMemory(ctx, mem))

	got, err := repo.GetMemory(ctx, mem.ID)
	require.NoError(t, err)
	assert.Equal(t, mem.ID, got.ID)
	assert.Equal(t, mem.Content, got.Content)
	assert.True(t, mem.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, mem.Author, got.Author)
	assert.Equal(t, mem.EmotionalAnalysis.MoodScoring.Score, got.EmotionalAnalysis.MoodScoring.Score)

	mem.Content = "updated"
	require.NoError(t, repo.SaveMemory(ctx, mem))
	got, err = repo.GetMemory(ctx, mem.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Content)
	assert.Equal(t, 1, count(t, db, "memories"))

	_, err = repo.GetMemory(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, repo.DeleteMemory(ctx, mem.ID))
	assert.ErrorIs(t, repo.DeleteMemory(ctx, mem.ID), core.ErrNotFound)
}

func TestMemoriesRepo_RejectsInvalid(t *testing.T) {
	db := newTestDB(t)
	mem := test.SarahMemory()
	mem.ID = ""

	err := NewMemoriesRepo(db).SaveMemory(context.Background(), mem)
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Zero(t, count(t, db, "memories"))
}

func TestMoodsRepo_StoreAndQuery(t *testing.T) {
	db := newTestDB(t)
	seedMemory(t, db, test.SarahMemory(), test.MomMemory())
	repo := NewMoodsRepo(db)
	ctx := context.Background()

	stored, err := repo.StoreMoodScore(ctx, "mem-sarah", sampleResult(6.57), core.ScoreMetadata{DurationMs: 12})
	require.NoError(t, err)
	assert.NotZero(t, stored.ID)
	assert.Equal(t, core.AlgorithmVersion, stored.AlgorithmVersion)

	_, err = repo.StoreMoodScore(ctx, "mem-mom", sampleResult(3.2), core.ScoreMetadata{AlgorithmVersion: "v0"})
	require.NoError(t, err)

	scores, err := repo.GetMoodScoresByMemoryID(ctx, "mem-sarah")
	require.NoError(t, err)
	require.Len(t, scores, 1)
	s := scores[0]
	assert.Equal(t, 6.57, s.Score)
	assert.Equal(t, int64(12), s.DurationMs)
	assert.Equal(t, []string{"positive", "supported"}, s.Descriptors)
	require.Len(t, s.Factors, 4)
	assert.Equal(t, core.FactorSentiment, s.Factors[0].Type)
	assert.Equal(t, core.FactorProgression, s.Factors[3].Type)
	assert.Equal(t, []string{"happy"}, s.Factors[0].Evidence)
	assert.Equal(t, []string{}, s.Factors[1].Evidence)
	assert.Equal(t, 6.2, s.Factors[2].InternalScore)

	tests := []struct {
		name     string
		min, max float64
		want     int
	}{
		{"inclusive lower bound", 6.57, 10, 1},
		{"inclusive upper bound", 0, 3.2, 1},
		{"both", 3.2, 6.57, 2},
		{"none", 7, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetMoodScoresInRange(ctx, tt.min, tt.max)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	byConf, err := repo.GetMoodScoresByConfidence(ctx, 0.8, 0.8)
	require.NoError(t, err)
	assert.Len(t, byConf, 2)

	now := time.Now()
	inTime, err := repo.GetMoodScoresInTimeRange(ctx, now.Add(-time.Minute), now.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, inTime, 2)

	empty, err := repo.GetMoodScoresByMemoryID(ctx, "mem-none")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMoodsRepo_Errors(t *testing.T) {
	db := newTestDB(t)
	repo := NewMoodsRepo(db)
	ctx := context.Background()

	_, err := repo.StoreMoodScore(ctx, "mem-missing", sampleResult(5), core.ScoreMetadata{})
	assert.ErrorIs(t, err, core.ErrReferentialIntegrity)
	assert.Zero(t, count(t, db, "mood_scores"))
	assert.Zero(t, count(t, db, "mood_factors"), "no partial writes")

	_, err = repo.StoreMoodScore(ctx, "mem-missing", sampleResult(11), core.ScoreMetadata{})
	assert.ErrorIs(t, err, core.ErrValidation)

	bad := sampleResult(5)
	bad.Factors[0].Type = "bogus"
	_, err = repo.StoreMoodScore(ctx, "mem-missing", bad, core.ScoreMetadata{})
	assert.ErrorIs(t, err, core.ErrInvalidFactor)
}

func TestMoodsRepo_Validations(t *testing.T) {
	db := newTestDB(t)
	seedMemory(t, db, test.SarahMemory(), test.MomMemory())
	repo := NewMoodsRepo(db)
	ctx := context.Background()

	stored, err := repo.StoreMoodScore(ctx, "mem-sarah", sampleResult(6.5), core.ScoreMetadata{})
	require.NoError(t, err)

	v, err := repo.StoreValidation(ctx, core.MoodValidation{
		MemoryID:       "mem-sarah",
		MoodScoreID:    stored.ID,
		Validator:      "clinician",
		ValidatedScore: 8,
		Notes:          "underestimated",
	})
	require.NoError(t, err)
	assert.NotZero(t, v.ID)
	assert.Equal(t, 1.5, v.Discrepancy)

	list, err := repo.GetValidationsByMemoryID(ctx, "mem-sarah")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "clinician", list[0].Validator)
	assert.Equal(t, "underestimated", list[0].Notes)

	_, err = repo.StoreValidation(ctx, core.MoodValidation{
		MemoryID: "mem-mom", MoodScoreID: stored.ID, Validator: "x", ValidatedScore: 5,
	})
	assert.ErrorIs(t, err, core.ErrReferentialIntegrity)

	_, err = repo.StoreValidation(ctx, core.MoodValidation{
		MemoryID: "mem-sarah", MoodScoreID: 999, Validator: "x", ValidatedScore: 5,
	})
	assert.ErrorIs(t, err, core.ErrReferentialIntegrity)

	_, err = repo.StoreValidation(ctx, core.MoodValidation{MemoryID: "mem-sarah", MoodScoreID: stored.ID, ValidatedScore: 5})
	assert.ErrorIs(t, err, core.ErrValidation)
}

var deltaStart = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func sampleDeltas() []core.MoodDelta {
	mk := func(i int, typ core.DeltaType, dir core.DeltaDirection, mag, sig float64) core.MoodDelta {
		return core.MoodDelta{
			Magnitude:     mag,
			Direction:     dir,
			Type:          typ,
			Confidence:    0.7,
			Factors:       []string{"score"},
			FromScore:     5,
			ToScore:       5 + mag,
			Significance:  sig,
			DeltaSequence: i,
			Timestamp:     deltaStart.Add(time.Duration(i) * time.Minute),
			TemporalContext: core.TemporalContext{
				Position:          core.PositionEarly,
				FollowingDeltas:   2 - i,
				PrecedingDeltas:   i,
				RelativeTimestamp: int64(i) * 60000,
			},
		}
	}
	return []core.MoodDelta{
		mk(0, core.DeltaMoodRepair, core.DirectionPositive, 3, 4.95),
		mk(1, core.DeltaCelebration, core.DirectionPositive, 1.5, 1.65),
		mk(2, core.DeltaPlateau, core.DirectionNeutral, 0.2, 0.12),
	}
}

func TestDeltasRepo_Deltas(t *testing.T) {
	db := newTestDB(t)
	seedMemory(t, db, test.SarahMemory())
	repo := NewDeltasRepo(db)
	ctx := context.Background()

	stored, err := repo.InsertDeltas(ctx, "mem-sarah", "conv-1", sampleDeltas())
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, d := range stored {
		assert.NotZero(t, d.ID)
		assert.Equal(t, "mem-sarah", d.MemoryID)
		assert.Equal(t, "conv-1", d.ConversationID)
	}

	all, err := repo.GetDeltasByMemoryID(ctx, "mem-sarah")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, stored[0].ID, all[0].ID)
	assert.Equal(t, core.DeltaMoodRepair, all[0].Type)
	assert.Equal(t, []string{"score"}, all[0].Factors)
	assert.Equal(t, int64(60000), all[1].TemporalContext.RelativeTimestamp)
	assert.True(t, all[2].Timestamp.Equal(deltaStart.Add(2*time.Minute)))

	significant, err := repo.GetDeltasBySignificance(ctx, 1.65)
	require.NoError(t, err)
	require.Len(t, significant, 2, "threshold is inclusive")
	assert.Equal(t, 4.95, significant[0].Significance)

	window, err := repo.GetDeltasInTimeRange(ctx, deltaStart, deltaStart.Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, window, 2)

	_, err = repo.InsertDeltas(ctx, "mem-missing", "conv-1", sampleDeltas())
	assert.ErrorIs(t, err, core.ErrReferentialIntegrity)
	assert.Equal(t, 3, count(t, db, "mood_deltas"), "failed batch leaves no rows")
}

func TestDeltasRepo_Patterns(t *testing.T) {
	db := newTestDB(t)
	seedMemory(t, db, test.SarahMemory(), test.MomMemory())
	repo := NewDeltasRepo(db)
	ctx := context.Background()

	stored, err := repo.InsertDeltas(ctx, "mem-sarah", "conv-1", sampleDeltas())
	require.NoError(t, err)
	other, err := repo.InsertDeltas(ctx, "mem-mom", "conv-2", sampleDeltas()[:1])
	require.NoError(t, err)

	low, err := repo.InsertPattern(ctx, core.DeltaPattern{
		MemoryID: "mem-sarah", Significance: 3, Confidence: 0.8,
		PatternInput: core.PatternInput{
			Type: core.PatternEmotionalStability, DeltaIDs: []int64{stored[2].ID}, AverageMagnitude: 0.2,
		},
	})
	require.NoError(t, err)
	assert.NotZero(t, low.ID)

	_, err = repo.InsertPattern(ctx, core.DeltaPattern{
		MemoryID: "mem-sarah", Significance: 9, Confidence: 0.9,
		PatternInput: core.PatternInput{
			Type: core.PatternSustainedImprovement, DeltaIDs: []int64{stored[0].ID, stored[1].ID},
			Description: "two improvements", DurationMs: 60000, AverageMagnitude: 2.25,
		},
	})
	require.NoError(t, err)

	patterns, err := repo.GetDeltaPatternsByMemoryID(ctx, "mem-sarah")
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, core.PatternSustainedImprovement, patterns[0].Type)
	assert.Equal(t, []int64{stored[0].ID, stored[1].ID}, patterns[0].DeltaIDs)
	assert.Equal(t, int64(60000), patterns[0].DurationMs)
	assert.Equal(t, core.PatternEmotionalStability, patterns[1].Type)

	_, err = repo.InsertPattern(ctx, core.DeltaPattern{
		MemoryID: "mem-sarah", Significance: 1, Confidence: 0.7,
		PatternInput: core.PatternInput{
			Type: core.PatternVolatility, DeltaIDs: []int64{stored[0].ID, other[0].ID}, AverageMagnitude: 1,
		},
	})
	assert.ErrorIs(t, err, core.ErrReferentialIntegrity)
	assert.Equal(t, 2, count(t, db, "delta_patterns"))
	assert.Equal(t, 3, count(t, db, "pattern_deltas"))
}

func TestDeltasRepo_TurningPoints(t *testing.T) {
	db := newTestDB(t)
	seedMemory(t, db, test.SarahMemory())
	repo := NewDeltasRepo(db)
	ctx := context.Background()

	stored, err := repo.InsertDeltas(ctx, "mem-sarah", "conv-1", sampleDeltas())
	require.NoError(t, err)
	deltaID := stored[0].ID

	later, err := repo.InsertTurningPoint(ctx, core.TurningPoint{
		MemoryID: "mem-sarah",
		TurningPointInput: core.TurningPointInput{
			Type: core.TurningSetback, Magnitude: 2.5, Timestamp: deltaStart.Add(time.Hour),
		},
		Significance: 2.5,
	})
	require.NoError(t, err)
	assert.Equal(t, core.PositionEarly, later.TemporalContext.Position)

	_, err = repo.InsertTurningPoint(ctx, core.TurningPoint{
		MemoryID: "mem-sarah",
		TurningPointInput: core.TurningPointInput{
			Type: core.TurningBreakthrough, Magnitude: 3, Description: "breakthrough", Timestamp: deltaStart,
		},
		Significance:    4.5,
		TemporalContext: core.TemporalContext{Position: core.PositionConclusion, PrecedingDeltas: 2},
		DeltaID:         &deltaID,
	})
	require.NoError(t, err)

	tps, err := repo.GetTurningPointsByMemoryID(ctx, "mem-sarah")
	require.NoError(t, err)
	require.Len(t, tps, 2)
	assert.Equal(t, core.TurningBreakthrough, tps[0].Type)
	require.NotNil(t, tps[0].DeltaID)
	assert.Equal(t, deltaID, *tps[0].DeltaID)
	assert.Equal(t, core.PositionConclusion, tps[0].TemporalContext.Position)
	assert.Nil(t, tps[1].DeltaID)

	_, err = db.Exec(`DELETE FROM mood_deltas WHERE id = ?`, deltaID)
	require.NoError(t, err)
	tps, err = repo.GetTurningPointsByMemoryID(ctx, "mem-sarah")
	require.NoError(t, err)
	require.Len(t, tps, 2, "turning point survives its delta")
	assert.Nil(t, tps[0].DeltaID)

	missing := int64(9999)
	_, err = repo.InsertTurningPoint(ctx, core.TurningPoint{
		MemoryID:          "mem-sarah",
		TurningPointInput: core.TurningPointInput{Type: core.TurningSetback, Magnitude: 2},
		DeltaID:           &missing,
	})
	assert.ErrorIs(t, err, core.ErrReferentialIntegrity)
}

func TestDeltasRepo_TurningPointRejectsForeignDelta(t *testing.T) {
	db := newTestDB(t)
	seedMemory(t, db, test.SarahMemory(), test.MomMemory())
	repo := NewDeltasRepo(db)
	ctx := context.Background()

	other, err := repo.InsertDeltas(ctx, "mem-mom", "conv-2", sampleDeltas()[:1])
	require.NoError(t, err)

	_, err = repo.InsertTurningPoint(ctx, core.TurningPoint{
		MemoryID:          "mem-sarah",
		TurningPointInput: core.TurningPointInput{Type: core.TurningSetback, Magnitude: 2.5, Timestamp: deltaStart},
		Significance:      2.5,
		DeltaID:           &other[0].ID,
	})
	assert.ErrorIs(t, err, core.ErrReferentialIntegrity)
	assert.Zero(t, count(t, db, "turning_points"))

	_, err = repo.InsertTurningPoint(ctx, core.TurningPoint{
		MemoryID:          "mem-mom",
		TurningPointInput: core.TurningPointInput{Type: core.TurningSetback, Magnitude: 2.5, Timestamp: deltaStart},
		Significance:      2.5,
		DeltaID:           &other[0].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, db, "turning_points"))
}

func TestClustersRepo(t *testing.T) {
	db := newTestDB(t)
	seedMemory(t, db, test.SarahMemory(), test.MomMemory(), test.CelebrationMemory())
	repo := NewClustersRepo(db)
	memories := NewMemoriesRepo(db)
	ctx := context.Background()

	c := core.MemoryCluster{
		ClusterID:                 "cluster-1",
		Theme:                     "support",
		CoherenceScore:            0.87,
		PsychologicalSignificance: 0.7,
		MemoryIDs:                 []string{"mem-sarah"},
		Metadata: core.ClusterMetadata{
			CreatedAt: deltaStart,
			UpdatedAt: deltaStart,
			QualityMetrics: core.ClusterQualityMetrics{
				Cohesion: 0.87, MinPairSimilarity: 0.87, AverageIntensity: 0.5,
			},
		},
	}
	require.NoError(t, repo.SaveCluster(ctx, c, map[string]float64{"mem-sarah": 1}))

	c.MemoryIDs = []string{"mem-sarah", "mem-mom"}
	c.Metadata.UpdatedAt = deltaStart.Add(time.Minute)
	require.NoError(t, repo.SaveCluster(ctx, c, map[string]float64{"mem-sarah": 0.87, "mem-mom": 0.87}))

	got, err := repo.GetCluster(ctx, "cluster-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"mem-sarah", "mem-mom"}, got.MemoryIDs)
	assert.Equal(t, 2, got.Metadata.MemoryCount, "maintained by triggers")
	assert.True(t, got.Metadata.CreatedAt.Equal(deltaStart))
	assert.Equal(t, 0.5, got.Metadata.QualityMetrics.AverageIntensity)

	sims, err := repo.MemberSimilarities(ctx, "cluster-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"mem-sarah": 0.87, "mem-mom": 0.87}, sims)

	pending, err := memories.ListUnclusteredMemories(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "mem-celebration", pending[0].ID)

	require.NoError(t, memories.DeleteMemory(ctx, "mem-mom"))
	got, err = repo.GetCluster(ctx, "cluster-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"mem-sarah"}, got.MemoryIDs)
	assert.Equal(t, 1, got.Metadata.MemoryCount)

	all, err := repo.ListClusters(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = repo.GetCluster(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	c.ClusterID = "cluster-2"
	c.MemoryIDs = []string{"mem-missing"}
	assert.ErrorIs(t, repo.SaveCluster(ctx, c, nil), core.ErrReferentialIntegrity)
	_, err = repo.GetCluster(ctx, "cluster-2")
	assert.ErrorIs(t, err, core.ErrNotFound, "failed save leaves no cluster")

	c.MemoryIDs = []string{"mem-sarah", "mem-sarah"}
	assert.ErrorIs(t, repo.SaveCluster(ctx, c, nil), core.ErrValidation)
}

func TestDeleteMemory_Cascades(t *testing.T) {
	db := newTestDB(t)
	seedMemory(t, db, test.SarahMemory())
	ctx := context.Background()

	moods := NewMoodsRepo(db)
	score, err := moods.StoreMoodScore(ctx, "mem-sarah", sampleResult(6), core.ScoreMetadata{})
	require.NoError(t, err)
	_, err = moods.StoreValidation(ctx, core.MoodValidation{
		MemoryID: "mem-sarah", MoodScoreID: score.ID, Validator: "v", ValidatedScore: 7,
	})
	require.NoError(t, err)

	deltas := NewDeltasRepo(db)
	stored, err := deltas.InsertDeltas(ctx, "mem-sarah", "conv-1", sampleDeltas())
	require.NoError(t, err)
	_, err = deltas.InsertPattern(ctx, core.DeltaPattern{
		MemoryID: "mem-sarah", Significance: 1, Confidence: 0.8,
		PatternInput: core.PatternInput{
			Type: core.PatternSustainedImprovement, DeltaIDs: []int64{stored[0].ID, stored[1].ID}, AverageMagnitude: 2,
		},
	})
	require.NoError(t, err)
	_, err = deltas.InsertTurningPoint(ctx, core.TurningPoint{
		MemoryID:          "mem-sarah",
		TurningPointInput: core.TurningPointInput{Type: core.TurningBreakthrough, Magnitude: 3},
		DeltaID:           &stored[0].ID,
	})
	require.NoError(t, err)
	require.NoError(t, NewClustersRepo(db).SaveCluster(ctx, core.MemoryCluster{
		ClusterID: "c", Theme: "general", CoherenceScore: 1, MemoryIDs: []string{"mem-sarah"},
	}, nil))

	require.NoError(t, NewMemoriesRepo(db).DeleteMemory(ctx, "mem-sarah"))

	for _, table := range []string{
		"mood_scores", "mood_factors", "mood_validations", "mood_deltas",
		"delta_patterns", "pattern_deltas", "turning_points", "cluster_memberships",
	} {
		assert.Zero(t, count(t, db, table), table)
	}
}
