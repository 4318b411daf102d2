package features

import (
	"math"
	"strings"
	"time"

	"github.com/sandevgo/moodmem/internal/core"
)

const (
	defaultTemporalStability = 0.5
	proximityDecayDays       = 7.0
)

// ExtractTemporalContext derives calendar features from the memory
// timestamp. Proximity is the decayed distance to the closest other
// memory and is 0 when none are given.
func ExtractTemporalContext(mem core.ExtractedMemory, others []core.ExtractedMemory) core.TemporalContextFeatures {
	ts := mem.Timestamp.UTC()

	proximity := 0.0
	for _, o := range others {
		if o.ID == mem.ID || o.Timestamp.IsZero() {
			continue
		}
		proximity = math.Max(proximity, DecayedProximity(mem.Timestamp, o.Timestamp))
	}

	return core.TemporalContextFeatures{
		Timestamp:         mem.Timestamp,
		TimeOfDay:         TimeOfDay(ts),
		DayOfWeek:         strings.ToLower(ts.Weekday().String()),
		Season:            Season(ts),
		IsWeekend:         ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday,
		TemporalStability: defaultTemporalStability,
		TemporalProximity: round3(proximity),
	}
}

// DecayedProximity is exp(-days/7) for the distance between two instants.
func DecayedProximity(a, b time.Time) float64 {
	days := math.Abs(a.Sub(b).Hours()) / 24
	return math.Exp(-days / proximityDecayDays)
}

func TimeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 21:
		return "evening"
	default:
		return "night"
	}
}

// Season uses northern hemisphere meteorological seasons.
func Season(t time.Time) string {
	switch t.Month() {
	case time.December, time.January, time.February:
		return "winter"
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return "autumn"
	}
}
