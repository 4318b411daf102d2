package significance

import (
	"fmt"
	"math"
	"time"

	"github.com/sandevgo/moodmem/internal/core"
)

type TypeWeights struct {
	MoodRepair  float64 `env:"MOOD_REPAIR" envDefault:"1.5"`
	Decline     float64 `env:"DECLINE" envDefault:"1.3"`
	Celebration float64 `env:"CELEBRATION" envDefault:"1.1"`
	Plateau     float64 `env:"PLATEAU" envDefault:"0.5"`
}

type PositionWeights struct {
	Conclusion float64 `env:"CONCLUSION" envDefault:"1.2"`
	Early      float64 `env:"EARLY" envDefault:"1.1"`
	Middle     float64 `env:"MIDDLE" envDefault:"1.0"`
}

type TurningPointWeights struct {
	Breakthrough    float64 `env:"BREAKTHROUGH" envDefault:"1.5"`
	Realization     float64 `env:"REALIZATION" envDefault:"1.3"`
	SupportReceived float64 `env:"SUPPORT_RECEIVED" envDefault:"1.2"`
	Setback         float64 `env:"SETBACK" envDefault:"1.0"`
}

// Config holds every weight table used by the significance engine.
type Config struct {
	Types         TypeWeights         `envPrefix:"TYPE_"`
	Positions     PositionWeights     `envPrefix:"POSITION_"`
	TurningPoints TurningPointWeights `envPrefix:"TURNING_"`

	// TurningPointThreshold is the minimum delta magnitude for a turning point.
	TurningPointThreshold float64 `env:"TURNING_POINT_THRESHOLD" envDefault:"2.0"`
	// BreakthroughThreshold separates breakthroughs from ordinary support.
	BreakthroughThreshold float64 `env:"BREAKTHROUGH_THRESHOLD" envDefault:"3.0"`
}

func DefaultConfig() Config {
	return Config{
		Types: TypeWeights{
			MoodRepair:  1.5,
			Decline:     1.3,
			Celebration: 1.1,
			Plateau:     0.5,
		},
		Positions: PositionWeights{
			Conclusion: 1.2,
			Early:      1.1,
			Middle:     1.0,
		},
		TurningPoints: TurningPointWeights{
			Breakthrough:    1.5,
			Realization:     1.3,
			SupportReceived: 1.2,
			Setback:         1.0,
		},
		TurningPointThreshold: 2.0,
		BreakthroughThreshold: 3.0,
	}
}

// Validate enforces the documented weight orderings.
func (c Config) Validate() error {
	t := c.Types
	if !(t.MoodRepair > t.Decline && t.Decline > t.Celebration && t.Celebration > t.Plateau && t.Plateau >= 0) {
		return fmt.Errorf("delta type weights must satisfy mood_repair > decline > celebration > plateau >= 0")
	}
	p := c.Positions
	if !(p.Conclusion > p.Early && p.Early > p.Middle && p.Middle >= 0) {
		return fmt.Errorf("position weights must satisfy conclusion > early > middle >= 0")
	}
	if c.TurningPoints.Breakthrough <= c.TurningPoints.Realization {
		return fmt.Errorf("turning point weights must satisfy breakthrough > realization")
	}
	if c.TurningPointThreshold <= 0 || c.BreakthroughThreshold < c.TurningPointThreshold {
		return fmt.Errorf("turning point thresholds must satisfy 0 < threshold <= breakthrough threshold")
	}
	return nil
}

func (c Config) TypeWeight(t core.DeltaType) float64 {
	switch t {
	case core.DeltaMoodRepair:
		return c.Types.MoodRepair
	case core.DeltaDecline:
		return c.Types.Decline
	case core.DeltaCelebration:
		return c.Types.Celebration
	case core.DeltaPlateau:
		return c.Types.Plateau
	default:
		return 0
	}
}

func (c Config) PositionWeight(p core.TemporalPosition) float64 {
	switch p {
	case core.PositionConclusion:
		return c.Positions.Conclusion
	case core.PositionEarly:
		return c.Positions.Early
	case core.PositionMiddle:
		return c.Positions.Middle
	default:
		return 0
	}
}

func (c Config) TurningPointWeight(t core.TurningPointType) float64 {
	switch t {
	case core.TurningBreakthrough:
		return c.TurningPoints.Breakthrough
	case core.TurningRealization:
		return c.TurningPoints.Realization
	case core.TurningSupportReceived:
		return c.TurningPoints.SupportReceived
	case core.TurningSetback:
		return c.TurningPoints.Setback
	default:
		return 0
	}
}

// DeltaSignificance = typeWeight * magnitude * confidence * positionWeight.
func (c Config) DeltaSignificance(d core.MoodDelta) float64 {
	return c.TypeWeight(d.Type) * d.Magnitude * d.Confidence * c.PositionWeight(d.TemporalContext.Position)
}

// TurningPointSignificance is the type weight times the magnitude. It is
// not capped.
func (c Config) TurningPointSignificance(t core.TurningPointType, magnitude float64) float64 {
	return round4(c.TurningPointWeight(t) * magnitude)
}

// PatternSignificance is min(10, averageMagnitude * n * 2).
func PatternSignificance(n int, averageMagnitude float64) float64 {
	return round4(math.Min(10, averageMagnitude*float64(n)*2.0))
}

// PatternConfidence is 0.7 + min(0.2, 0.05n) + min(0.1, 0.02m).
func PatternConfidence(n int, averageMagnitude float64) float64 {
	return round4(0.7 + math.Min(0.2, 0.05*float64(n)) + math.Min(0.1, 0.02*averageMagnitude))
}

// PositionFor maps a delta index to its temporal position. The first (or
// only) delta is early and the last is the conclusion.
func PositionFor(index, total int) core.TemporalPosition {
	switch {
	case index == 0 || total <= 1:
		return core.PositionEarly
	case index == total-1:
		return core.PositionConclusion
	default:
		return core.PositionMiddle
	}
}

// Annotate returns copies of deltas with sequence index, temporal context
// and significance set. Relative timestamps spread the deltas evenly over
// durationMs, so they increase strictly with the index even when
// durationMs is shorter than the number of steps.
func (c Config) Annotate(deltas []core.MoodDelta, durationMs int64, start time.Time) []core.MoodDelta {
	n := len(deltas)
	out := make([]core.MoodDelta, n)
	steps := int64(max(n-1, 1))
	// At least one millisecond per step keeps timestamps strictly increasing.
	span := max(durationMs, int64(n-1))

	for i, d := range deltas {
		relative := span * int64(i) / steps
		d.DeltaSequence = i
		d.TemporalContext = core.TemporalContext{
			Position:          PositionFor(i, n),
			PrecedingDeltas:   i,
			FollowingDeltas:   n - 1 - i,
			RelativeTimestamp: relative,
		}
		d.Significance = round4(c.DeltaSignificance(d))
		if d.Timestamp.IsZero() {
			d.Timestamp = start.Add(time.Duration(relative) * time.Millisecond)
		}
		d.Factors = append([]string(nil), d.Factors...)
		out[i] = d
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
