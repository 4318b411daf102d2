package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sandevgo/moodmem/internal/core"
	sqlitepkg "github.com/sandevgo/moodmem/pkg/sqlite"
)

// Timestamps are stored as unix milliseconds; 0 is the zero time.
func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// encodeList stores nil slices as "[]" so reads never yield null.
func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal list: %w", err)
	}
	return string(b), nil
}

func decodeList(s string) ([]string, error) {
	out := []string{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal list: %w", err)
	}
	return out, nil
}

// translate maps driver constraint failures onto core sentinels.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if sqlitepkg.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: %s: %v", core.ErrReferentialIntegrity, what, err)
	}
	if sqlitepkg.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s: duplicate entry: %v", core.ErrValidation, what, err)
	}
	return fmt.Errorf("failed to %s: %w", what, err)
}
