package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/pkg/log"
)

type DeltasRepo struct {
	db *sql.DB
}

func NewDeltasRepo(db *sql.DB) *DeltasRepo {
	return &DeltasRepo{db: db}
}

const deltaColumns = `id, memory_id, conversation_id, delta_sequence, magnitude, direction, type, confidence,
	factors, from_score, to_score, significance, position, preceding_deltas, following_deltas,
	relative_timestamp, timestamp`

// InsertDeltas writes an annotated delta batch atomically and returns it
// with database IDs.
func (r *DeltasRepo) InsertDeltas(
	ctx context.Context,
	memoryID, conversationID string,
	deltas []core.MoodDelta,
) ([]core.MoodDelta, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO mood_deltas (memory_id, conversation_id, delta_sequence, magnitude, direction, type, confidence,
			factors, from_score, to_score, significance, position, preceding_deltas, following_deltas,
			relative_timestamp, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare delta insert: %w", err)
	}
	defer stmt.Close()

	out := make([]core.MoodDelta, len(deltas))
	for i, d := range deltas {
		factors, err := encodeList(d.Factors)
		if err != nil {
			return nil, err
		}
		tc := d.TemporalContext
		res, err := stmt.ExecContext(ctx,
			memoryID, conversationID, d.DeltaSequence, d.Magnitude, string(d.Direction), string(d.Type), d.Confidence,
			factors, d.FromScore, d.ToScore, d.Significance, string(tc.Position), tc.PrecedingDeltas, tc.FollowingDeltas,
			tc.RelativeTimestamp, toMillis(d.Timestamp))
		if err != nil {
			return nil, translate(err, "insert mood delta")
		}

		d.ID, err = res.LastInsertId()
		if err != nil {
			return nil, err
		}
		d.MemoryID = memoryID
		d.ConversationID = conversationID
		d.Timestamp = fromMillis(toMillis(d.Timestamp))
		out[i] = d
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit delta batch: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("memory_id", memoryID).Int("deltas", len(out)).Msg("delta batch inserted")
	return out, nil
}

func (r *DeltasRepo) GetDeltasByMemoryID(ctx context.Context, memoryID string) ([]core.MoodDelta, error) {
	return r.queryDeltas(ctx, `memory_id = ? ORDER BY conversation_id ASC, delta_sequence ASC, id ASC`, memoryID)
}

func (r *DeltasRepo) GetDeltasBySignificance(ctx context.Context, threshold float64) ([]core.MoodDelta, error) {
	return r.queryDeltas(ctx, `significance >= ? ORDER BY significance DESC, id ASC`, threshold)
}

func (r *DeltasRepo) GetDeltasInTimeRange(ctx context.Context, from, to time.Time) ([]core.MoodDelta, error) {
	return r.queryDeltas(ctx, `timestamp >= ? AND timestamp <= ? ORDER BY timestamp ASC, id ASC`,
		from.UnixMilli(), to.UnixMilli())
}

func (r *DeltasRepo) queryDeltas(ctx context.Context, clause string, args ...any) ([]core.MoodDelta, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+deltaColumns+` FROM mood_deltas WHERE `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query mood deltas: %w", err)
	}
	defer rows.Close()

	out := []core.MoodDelta{}
	for rows.Next() {
		d, err := scanDelta(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDelta(rows *sql.Rows) (core.MoodDelta, error) {
	var d core.MoodDelta
	var direction, typ, factors, position string
	var ts int64
	err := rows.Scan(&d.ID, &d.MemoryID, &d.ConversationID, &d.DeltaSequence, &d.Magnitude, &direction, &typ,
		&d.Confidence, &factors, &d.FromScore, &d.ToScore, &d.Significance, &position,
		&d.TemporalContext.PrecedingDeltas, &d.TemporalContext.FollowingDeltas, &d.TemporalContext.RelativeTimestamp, &ts)
	if err != nil {
		return d, fmt.Errorf("failed to scan mood delta: %w", err)
	}

	if d.Direction, err = core.ParseDeltaDirection(direction); err != nil {
		return d, err
	}
	if d.Type, err = core.ParseDeltaType(typ); err != nil {
		return d, err
	}
	if d.TemporalContext.Position, err = core.ParseTemporalPosition(position); err != nil {
		return d, err
	}
	if d.Factors, err = decodeList(factors); err != nil {
		return d, err
	}
	d.Timestamp = fromMillis(ts)
	return d, nil
}

// InsertPattern stores a pattern and its delta associations atomically.
// Every referenced delta must belong to the pattern's memory.
func (r *DeltasRepo) InsertPattern(ctx context.Context, p core.DeltaPattern) (*core.DeltaPattern, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := checkDeltaOwnership(ctx, tx, p.MemoryID, p.DeltaIDs); err != nil {
		return nil, err
	}

	p.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	res, err := tx.ExecContext(ctx, `
		INSERT INTO delta_patterns (memory_id, pattern_type, description, duration_ms, average_magnitude,
			significance, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.MemoryID, string(p.Type), p.Description, p.DurationMs, p.AverageMagnitude,
		p.Significance, p.Confidence, p.CreatedAt.UnixMilli())
	if err != nil {
		return nil, translate(err, "insert delta pattern")
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}

	for i, deltaID := range p.DeltaIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO pattern_deltas (pattern_id, delta_id, position) VALUES (?, ?, ?)`,
			p.ID, deltaID, i)
		if err != nil {
			return nil, translate(err, "insert pattern delta")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit delta pattern: %w", err)
	}
	return &p, nil
}

func checkDeltaOwnership(ctx context.Context, tx *sql.Tx, memoryID string, ids []int64) error {
	placeholders := make([]string, len(ids))
	args := make([]any, 0, len(ids)+1)
	args = append(args, memoryID)
	distinct := make(map[int64]struct{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args = append(args, id)
		distinct[id] = struct{}{}
	}

	var n int
	query := `SELECT COUNT(*) FROM mood_deltas WHERE memory_id = ? AND id IN (` + strings.Join(placeholders, ",") + `)`
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return fmt.Errorf("failed to verify deltas: %w", err)
	}
	if n != len(distinct) {
		return fmt.Errorf("%w: deltas outside memory %s", core.ErrReferentialIntegrity, memoryID)
	}
	return nil
}

// GetDeltaPatternsByMemoryID returns patterns by significance, highest first.
func (r *DeltasRepo) GetDeltaPatternsByMemoryID(ctx context.Context, memoryID string) ([]core.DeltaPattern, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, memory_id, pattern_type, description, duration_ms, average_magnitude, significance, confidence, created_at
		FROM delta_patterns
		WHERE memory_id = ?
		ORDER BY significance DESC, id ASC`, memoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query delta patterns: %w", err)
	}
	defer rows.Close()

	patterns := []core.DeltaPattern{}
	for rows.Next() {
		var p core.DeltaPattern
		var typ string
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.MemoryID, &typ, &p.Description, &p.DurationMs, &p.AverageMagnitude,
			&p.Significance, &p.Confidence, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan delta pattern: %w", err)
		}
		if p.Type, err = core.ParsePatternType(typ); err != nil {
			return nil, err
		}
		p.CreatedAt = fromMillis(createdAt)
		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range patterns {
		if patterns[i].DeltaIDs, err = r.patternDeltaIDs(ctx, patterns[i].ID); err != nil {
			return nil, err
		}
	}
	return patterns, nil
}

func (r *DeltasRepo) patternDeltaIDs(ctx context.Context, patternID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT delta_id FROM pattern_deltas WHERE pattern_id = ? ORDER BY position ASC`, patternID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pattern deltas: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan pattern delta: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// InsertTurningPoint stores a turning point. A linked delta must belong to
// the same memory.
func (r *DeltasRepo) InsertTurningPoint(ctx context.Context, tp core.TurningPoint) (*core.TurningPoint, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var deltaID sql.NullInt64
	if tp.DeltaID != nil {
		if err := checkDeltaOwnership(ctx, tx, tp.MemoryID, []int64{*tp.DeltaID}); err != nil {
			return nil, err
		}
		deltaID = sql.NullInt64{Int64: *tp.DeltaID, Valid: true}
	}
	tc := tp.TemporalContext
	position := tc.Position
	if position == "" {
		position = core.PositionEarly
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO turning_points (memory_id, delta_id, type, magnitude, description, significance, position,
			preceding_deltas, following_deltas, relative_timestamp, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tp.MemoryID, deltaID, string(tp.Type), tp.Magnitude, tp.Description, tp.Significance, string(position),
		tc.PrecedingDeltas, tc.FollowingDeltas, tc.RelativeTimestamp, toMillis(tp.Timestamp))
	if err != nil {
		return nil, translate(err, "insert turning point")
	}
	if tp.ID, err = res.LastInsertId(); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit turning point: %w", err)
	}
	tp.TemporalContext.Position = position
	tp.Timestamp = fromMillis(toMillis(tp.Timestamp))
	return &tp, nil
}

// GetTurningPointsByMemoryID returns turning points in timestamp order.
func (r *DeltasRepo) GetTurningPointsByMemoryID(ctx context.Context, memoryID string) ([]core.TurningPoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, memory_id, delta_id, type, magnitude, description, significance, position,
			preceding_deltas, following_deltas, relative_timestamp, timestamp
		FROM turning_points
		WHERE memory_id = ?
		ORDER BY timestamp ASC, id ASC`, memoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query turning points: %w", err)
	}
	defer rows.Close()

	out := []core.TurningPoint{}
	for rows.Next() {
		var tp core.TurningPoint
		var deltaID sql.NullInt64
		var typ, position string
		var ts int64
		if err := rows.Scan(&tp.ID, &tp.MemoryID, &deltaID, &typ, &tp.Magnitude, &tp.Description, &tp.Significance,
			&position, &tp.TemporalContext.PrecedingDeltas, &tp.TemporalContext.FollowingDeltas,
			&tp.TemporalContext.RelativeTimestamp, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan turning point: %w", err)
		}
		if tp.Type, err = core.ParseTurningPointType(typ); err != nil {
			return nil, err
		}
		if tp.TemporalContext.Position, err = core.ParseTemporalPosition(position); err != nil {
			return nil, err
		}
		if deltaID.Valid {
			id := deltaID.Int64
			tp.DeltaID = &id
		}
		tp.Timestamp = fromMillis(ts)
		out = append(out, tp)
	}
	return out, rows.Err()
}
