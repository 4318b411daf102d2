package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/pkg/log"
)

type ClustersRepo struct {
	db *sql.DB
}

func NewClustersRepo(db *sql.DB) *ClustersRepo {
	return &ClustersRepo{db: db}
}

// SaveCluster upserts the cluster and replaces its memberships in one
// transaction. member_count is maintained by triggers on the membership table.
func (r *ClustersRepo) SaveCluster(ctx context.Context, c core.MemoryCluster, similarities map[string]float64) error {
	if c.ClusterID == "" {
		return core.NewValidationError("cluster.clusterId", "must not be empty")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	q := c.Metadata.QualityMetrics
	_, err = tx.ExecContext(ctx, `
		INSERT INTO memory_clusters (id, theme, coherence_score, psychological_significance,
			cohesion, min_pair_similarity, average_intensity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			theme = excluded.theme,
			coherence_score = excluded.coherence_score,
			psychological_significance = excluded.psychological_significance,
			cohesion = excluded.cohesion,
			min_pair_similarity = excluded.min_pair_similarity,
			average_intensity = excluded.average_intensity,
			updated_at = excluded.updated_at`,
		c.ClusterID, c.Theme, c.CoherenceScore, c.PsychologicalSignificance,
		q.Cohesion, q.MinPairSimilarity, q.AverageIntensity,
		toMillis(c.Metadata.CreatedAt), toMillis(c.Metadata.UpdatedAt))
	if err != nil {
		return translate(err, "upsert memory cluster")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cluster_memberships WHERE cluster_id = ?`, c.ClusterID); err != nil {
		return fmt.Errorf("failed to clear cluster memberships: %w", err)
	}

	for i, memoryID := range c.MemoryIDs {
		sim, ok := similarities[memoryID]
		if !ok {
			sim = c.CoherenceScore
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cluster_memberships (cluster_id, memory_id, position, similarity_score)
			VALUES (?, ?, ?, ?)`,
			c.ClusterID, memoryID, i, sim)
		if err != nil {
			return translate(err, "insert cluster membership")
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cluster: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("cluster_id", c.ClusterID).Int("members", len(c.MemoryIDs)).Msg("cluster saved")
	return nil
}

const clusterColumns = `id, theme, coherence_score, psychological_significance, member_count,
	cohesion, min_pair_similarity, average_intensity, created_at, updated_at`

func (r *ClustersRepo) GetCluster(ctx context.Context, clusterID string) (*core.MemoryCluster, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+clusterColumns+` FROM memory_clusters WHERE id = ?`, clusterID)
	c, err := scanCluster(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cluster %s: %w", clusterID, core.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if c.MemoryIDs, err = r.memberIDs(ctx, clusterID); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListClusters returns clusters in creation order.
func (r *ClustersRepo) ListClusters(ctx context.Context) ([]core.MemoryCluster, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clusterColumns+` FROM memory_clusters ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query clusters: %w", err)
	}
	defer rows.Close()

	clusters := []core.MemoryCluster{}
	for rows.Next() {
		c, err := scanCluster(rows)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range clusters {
		if clusters[i].MemoryIDs, err = r.memberIDs(ctx, clusters[i].ClusterID); err != nil {
			return nil, err
		}
	}
	return clusters, nil
}

// MemberSimilarities returns the stored similarity of each member to the
// rest of its cluster.
func (r *ClustersRepo) MemberSimilarities(ctx context.Context, clusterID string) (map[string]float64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT memory_id, similarity_score FROM cluster_memberships WHERE cluster_id = ?`, clusterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cluster memberships: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var id string
		var sim float64
		if err := rows.Scan(&id, &sim); err != nil {
			return nil, fmt.Errorf("failed to scan cluster membership: %w", err)
		}
		out[id] = sim
	}
	return out, rows.Err()
}

func (r *ClustersRepo) memberIDs(ctx context.Context, clusterID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT memory_id FROM cluster_memberships WHERE cluster_id = ? ORDER BY position ASC`, clusterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cluster members: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan cluster member: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCluster(s scanner) (core.MemoryCluster, error) {
	var c core.MemoryCluster
	var createdAt, updatedAt int64
	q := &c.Metadata.QualityMetrics
	err := s.Scan(&c.ClusterID, &c.Theme, &c.CoherenceScore, &c.PsychologicalSignificance, &c.Metadata.MemoryCount,
		&q.Cohesion, &q.MinPairSimilarity, &q.AverageIntensity, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return c, err
	}
	if err != nil {
		return c, fmt.Errorf("failed to scan cluster: %w", err)
	}
	c.Metadata.CreatedAt = fromMillis(createdAt)
	c.Metadata.UpdatedAt = fromMillis(updatedAt)
	return c, nil
}
