package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/pkg/log"
)

type MoodsRepo struct {
	db *sql.DB
}

func NewMoodsRepo(db *sql.DB) *MoodsRepo {
	return &MoodsRepo{db: db}
}

// StoreMoodScore writes the score and its factors in one transaction.
func (r *MoodsRepo) StoreMoodScore(
	ctx context.Context,
	memoryID string,
	result core.MoodAnalysisResult,
	meta core.ScoreMetadata,
) (*core.StoredMoodScore, error) {
	if err := validateScore(memoryID, result); err != nil {
		return nil, err
	}
	if meta.AlgorithmVersion == "" {
		meta.AlgorithmVersion = core.AlgorithmVersion
	}

	descriptors, err := encodeList(result.Descriptors)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	createdAt := time.Now().UTC().Truncate(time.Millisecond)
	res, err := tx.ExecContext(ctx, `
		INSERT INTO mood_scores (memory_id, score, confidence, descriptors, duration_ms, algorithm_version, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		memoryID, result.Score, result.Confidence, descriptors, meta.DurationMs, meta.AlgorithmVersion, createdAt.UnixMilli())
	if err != nil {
		return nil, translate(err, "insert mood score")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	for i, f := range result.Factors {
		evidence, err := encodeList(f.Evidence)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO mood_factors (mood_score_id, position, type, weight, description, evidence, internal_score)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, i, string(f.Type), f.Weight, f.Description, evidence, f.InternalScore)
		if err != nil {
			return nil, translate(err, "insert mood factor")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit mood score: %w", err)
	}

	log.FromCtx(ctx).Debug().
		Str("memory_id", memoryID).
		Int64("score_id", id).
		Float64("score", result.Score).
		Int("factors", len(result.Factors)).
		Msg("mood score stored")

	return &core.StoredMoodScore{
		ID:                 id,
		MemoryID:           memoryID,
		MoodAnalysisResult: result,
		ScoreMetadata:      meta,
		CreatedAt:          createdAt,
	}, nil
}

func validateScore(memoryID string, result core.MoodAnalysisResult) error {
	if memoryID == "" {
		return core.NewValidationError("memoryId", "must not be empty")
	}
	if math.IsNaN(result.Score) || result.Score < 0 || result.Score > 10 {
		return core.NewValidationError("score", fmt.Sprintf("%v outside [0,10]", result.Score))
	}
	if math.IsNaN(result.Confidence) || result.Confidence < 0 || result.Confidence > 1 {
		return core.NewValidationError("confidence", fmt.Sprintf("%v outside [0,1]", result.Confidence))
	}
	for _, f := range result.Factors {
		if err := f.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (r *MoodsRepo) GetMoodScoresByMemoryID(ctx context.Context, memoryID string) ([]core.StoredMoodScore, error) {
	return r.queryScores(ctx, `memory_id = ?`, memoryID)
}

func (r *MoodsRepo) GetMoodScoresInRange(ctx context.Context, minScore, maxScore float64) ([]core.StoredMoodScore, error) {
	return r.queryScores(ctx, `score >= ? AND score <= ?`, minScore, maxScore)
}

func (r *MoodsRepo) GetMoodScoresByConfidence(ctx context.Context, minConfidence, maxConfidence float64) ([]core.StoredMoodScore, error) {
	return r.queryScores(ctx, `confidence >= ? AND confidence <= ?`, minConfidence, maxConfidence)
}

func (r *MoodsRepo) GetMoodScoresInTimeRange(ctx context.Context, from, to time.Time) ([]core.StoredMoodScore, error) {
	return r.queryScores(ctx, `created_at >= ? AND created_at <= ?`, from.UnixMilli(), to.UnixMilli())
}

func (r *MoodsRepo) queryScores(ctx context.Context, where string, args ...any) ([]core.StoredMoodScore, error) {
	query := `
		SELECT id, memory_id, score, confidence, descriptors, duration_ms, algorithm_version, created_at
		FROM mood_scores
		WHERE ` + where + `
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood scores: %w", err)
	}
	defer rows.Close()

	scores := []core.StoredMoodScore{}
	index := make(map[int64]int)
	for rows.Next() {
		var s core.StoredMoodScore
		var descriptors string
		var createdAt int64
		if err := rows.Scan(&s.ID, &s.MemoryID, &s.Score, &s.Confidence, &descriptors,
			&s.DurationMs, &s.AlgorithmVersion, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan mood score: %w", err)
		}
		if s.Descriptors, err = decodeList(descriptors); err != nil {
			return nil, err
		}
		s.CreatedAt = fromMillis(createdAt)
		s.Factors = []core.MoodFactor{}
		index[s.ID] = len(scores)
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return scores, nil
	}

	if err := r.attachFactors(ctx, scores, index); err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *MoodsRepo) attachFactors(ctx context.Context, scores []core.StoredMoodScore, index map[int64]int) error {
	placeholders := make([]string, len(scores))
	args := make([]any, len(scores))
	for i, s := range scores {
		placeholders[i] = "?"
		args[i] = s.ID
	}

	query := `
		SELECT mood_score_id, type, weight, description, evidence, internal_score
		FROM mood_factors
		WHERE mood_score_id IN (` + strings.Join(placeholders, ",") + `)
		ORDER BY mood_score_id ASC, position ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query mood factors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var scoreID int64
		var typ, evidence string
		var f core.MoodFactor
		if err := rows.Scan(&scoreID, &typ, &f.Weight, &f.Description, &evidence, &f.InternalScore); err != nil {
			return fmt.Errorf("failed to scan mood factor: %w", err)
		}
		if f.Type, err = core.ParseFactorType(typ); err != nil {
			return err
		}
		if f.Evidence, err = decodeList(evidence); err != nil {
			return err
		}
		i := index[scoreID]
		scores[i].Factors = append(scores[i].Factors, f)
	}
	return rows.Err()
}

// StoreValidation records a human rating against a stored score. The
// discrepancy is derived from the stored algorithmic score.
func (r *MoodsRepo) StoreValidation(ctx context.Context, v core.MoodValidation) (*core.MoodValidation, error) {
	switch {
	case v.MemoryID == "":
		return nil, core.NewValidationError("validation.memoryId", "must not be empty")
	case v.Validator == "":
		return nil, core.NewValidationError("validation.validator", "must not be empty")
	case math.IsNaN(v.ValidatedScore) || v.ValidatedScore < 0 || v.ValidatedScore > 10:
		return nil, core.NewValidationError("validation.validatedScore", fmt.Sprintf("%v outside [0,10]", v.ValidatedScore))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var owner string
	var score float64
	err = tx.QueryRowContext(ctx, `SELECT memory_id, score FROM mood_scores WHERE id = ?`, v.MoodScoreID).Scan(&owner, &score)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: mood score %d does not exist", core.ErrReferentialIntegrity, v.MoodScoreID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query mood score: %w", err)
	}
	if owner != v.MemoryID {
		return nil, fmt.Errorf("%w: mood score %d belongs to memory %s", core.ErrReferentialIntegrity, v.MoodScoreID, owner)
	}

	v.Discrepancy = math.Round(math.Abs(v.ValidatedScore-score)*100) / 100
	v.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)

	res, err := tx.ExecContext(ctx, `
		INSERT INTO mood_validations (memory_id, mood_score_id, validator, validated_score, discrepancy, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.MemoryID, v.MoodScoreID, v.Validator, v.ValidatedScore, v.Discrepancy, v.Notes, v.CreatedAt.UnixMilli())
	if err != nil {
		return nil, translate(err, "insert mood validation")
	}
	if v.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit mood validation: %w", err)
	}
	return &v, nil
}

func (r *MoodsRepo) GetValidationsByMemoryID(ctx context.Context, memoryID string) ([]core.MoodValidation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, memory_id, mood_score_id, validator, validated_score, discrepancy, notes, created_at
		FROM mood_validations
		WHERE memory_id = ?
		ORDER BY created_at ASC, id ASC`, memoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood validations: %w", err)
	}
	defer rows.Close()

	out := []core.MoodValidation{}
	for rows.Next() {
		var v core.MoodValidation
		var createdAt int64
		if err := rows.Scan(&v.ID, &v.MemoryID, &v.MoodScoreID, &v.Validator, &v.ValidatedScore,
			&v.Discrepancy, &v.Notes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan mood validation: %w", err)
		}
		v.CreatedAt = fromMillis(createdAt)
		out = append(out, v)
	}
	return out, rows.Err()
}
