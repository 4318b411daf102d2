package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/pkg/log"
)

type MemoriesRepo struct {
	db *sql.DB
}

func NewMemoriesRepo(db *sql.DB) *MemoriesRepo {
	return &MemoriesRepo{db: db}
}

// SaveMemory inserts mem or replaces its payload in place, keeping
// dependent rows intact.
func (r *MemoriesRepo) SaveMemory(ctx context.Context, mem core.ExtractedMemory) error {
	if err := mem.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(mem)
	if err != nil {
		return fmt.Errorf("failed to marshal memory: %w", err)
	}

	query := `
		INSERT INTO memories (id, content, author_id, timestamp, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			author_id = excluded.author_id,
			timestamp = excluded.timestamp,
			payload = excluded.payload`

	_, err = r.db.ExecContext(ctx, query,
		mem.ID, mem.Content, mem.Author.ID, toMillis(mem.Timestamp), string(payload), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to save memory: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("memory_id", mem.ID).Msg("memory saved")
	return nil
}

func (r *MemoriesRepo) GetMemory(ctx context.Context, id string) (*core.ExtractedMemory, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM memories WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("memory %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query memory: %w", err)
	}

	var mem core.ExtractedMemory
	if err := json.Unmarshal([]byte(payload), &mem); err != nil {
		return nil, fmt.Errorf("failed to unmarshal memory %s: %w", id, err)
	}
	return &mem, nil
}

// DeleteMemory removes the memory and, through cascades, every score,
// delta, pattern, turning point, validation and membership that depends on it.
func (r *MemoriesRepo) DeleteMemory(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete memory: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("memory %s: %w", id, core.ErrNotFound)
	}
	return nil
}

// ListUnclusteredMemories returns memories without a cluster membership in
// insertion order.
func (r *MemoriesRepo) ListUnclusteredMemories(ctx context.Context, limit int) ([]core.ExtractedMemory, error) {
	query := `
		SELECT m.id, m.payload
		FROM memories m
		LEFT JOIN cluster_memberships cm ON cm.memory_id = m.id
		WHERE cm.memory_id IS NULL
		ORDER BY m.rowid ASC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unclustered memories: %w", err)
	}
	defer rows.Close()

	var out []core.ExtractedMemory
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		var mem core.ExtractedMemory
		if err := json.Unmarshal([]byte(payload), &mem); err != nil {
			return nil, fmt.Errorf("failed to unmarshal memory %s: %w", id, err)
		}
		out = append(out, mem)
	}
	return out, rows.Err()
}
