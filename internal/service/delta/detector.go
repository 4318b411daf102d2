package delta

import (
	"fmt"
	"math"

	"github.com/sandevgo/moodmem/internal/core"
)

// Thresholds drive direction and type classification of deltas.
type Thresholds struct {
	// NeutralEpsilon is the smallest change that has a direction.
	NeutralEpsilon float64 `env:"NEUTRAL_EPSILON" envDefault:"0.1"`
	// Plateau is the magnitude below which a change is a plateau.
	Plateau float64 `env:"PLATEAU" envDefault:"0.5"`
	// Repair is the minimum recovery magnitude classified as mood repair.
	Repair float64 `env:"REPAIR" envDefault:"1.0"`
	// LowMood is the score below which an improvement counts as recovery.
	LowMood float64 `env:"LOW_MOOD" envDefault:"4.0"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		NeutralEpsilon: 0.1,
		Plateau:        0.5,
		Repair:         1.0,
		LowMood:        4.0,
	}
}

func (t Thresholds) Validate() error {
	if t.NeutralEpsilon < 0 || t.Plateau < t.NeutralEpsilon || t.Repair < t.Plateau {
		return fmt.Errorf("delta thresholds must satisfy 0 <= epsilon <= plateau <= repair, got %.2f/%.2f/%.2f",
			t.NeutralEpsilon, t.Plateau, t.Repair)
	}
	return nil
}

type Detector struct {
	cfg Thresholds
}

func NewDetector(cfg Thresholds) *Detector {
	return &Detector{cfg: cfg}
}

// DetectConversationalDeltas compares each sequential pair of analyses.
// Fewer than two analyses yield no deltas. Out-of-range scores or
// confidences are rejected.
func (d *Detector) DetectConversationalDeltas(analyses []core.MoodAnalysisResult) ([]core.MoodDelta, error) {
	for i, a := range analyses {
		if math.IsNaN(a.Score) || a.Score < 0 || a.Score > 10 {
			return nil, core.NewValidationError(fmt.Sprintf("analyses[%d].score", i), fmt.Sprintf("%v outside [0,10]", a.Score))
		}
		if math.IsNaN(a.Confidence) || a.Confidence < 0 || a.Confidence > 1 {
			return nil, core.NewValidationError(fmt.Sprintf("analyses[%d].confidence", i), fmt.Sprintf("%v outside [0,1]", a.Confidence))
		}
	}
	if len(analyses) < 2 {
		return []core.MoodDelta{}, nil
	}

	deltas := make([]core.MoodDelta, 0, len(analyses)-1)
	for i := 1; i < len(analyses); i++ {
		from, to := analyses[i-1], analyses[i]
		change := to.Score - from.Score

		var prior *core.MoodDelta
		if len(deltas) > 0 {
			prior = &deltas[len(deltas)-1]
		}

		deltas = append(deltas, core.MoodDelta{
			Magnitude:     round2(math.Abs(change)),
			Direction:     d.direction(change),
			Type:          d.classify(change, from.Score, prior),
			Confidence:    round2((from.Confidence + to.Confidence) / 2),
			Factors:       contributingFactors(from, to),
			FromScore:     from.Score,
			ToScore:       to.Score,
			DeltaSequence: i - 1,
		})
	}
	return deltas, nil
}

func (d *Detector) direction(change float64) core.DeltaDirection {
	switch {
	case math.Abs(change) < d.cfg.NeutralEpsilon:
		return core.DirectionNeutral
	case change > 0:
		return core.DirectionPositive
	default:
		return core.DirectionNegative
	}
}

// classify applies, in order: plateau, decline, repair (improving out of
// a prior negative trend or a low mood), celebration.
func (d *Detector) classify(change, fromScore float64, prior *core.MoodDelta) core.DeltaType {
	magnitude := math.Abs(change)
	switch {
	case magnitude < d.cfg.Plateau:
		return core.DeltaPlateau
	case change < 0:
		return core.DeltaDecline
	case magnitude >= d.cfg.Repair && (fromScore < d.cfg.LowMood || (prior != nil && prior.Direction == core.DirectionNegative)):
		return core.DeltaMoodRepair
	default:
		return core.DeltaCelebration
	}
}

// contributingFactors lists the score transition, descriptors that appeared
// or disappeared, and the factor whose internal score moved most.
func contributingFactors(from, to core.MoodAnalysisResult) []string {
	out := []string{fmt.Sprintf("score %.2f -> %.2f", from.Score, to.Score)}

	before := make(map[string]struct{}, len(from.Descriptors))
	for _, d := range from.Descriptors {
		before[d] = struct{}{}
	}
	after := make(map[string]struct{}, len(to.Descriptors))
	for _, d := range to.Descriptors {
		after[d] = struct{}{}
		if _, ok := before[d]; !ok {
			out = append(out, "gained:"+d)
		}
	}
	for _, d := range from.Descriptors {
		if _, ok := after[d]; !ok {
			out = append(out, "lost:"+d)
		}
	}

	prev := make(map[core.FactorType]float64, len(from.Factors))
	for _, f := range from.Factors {
		prev[f.Type] = f.InternalScore
	}
	var driver core.FactorType
	largest := 0.0
	for _, f := range to.Factors {
		p, ok := prev[f.Type]
		if !ok {
			continue
		}
		if diff := math.Abs(f.InternalScore - p); diff > largest {
			largest, driver = diff, f.Type
		}
	}
	if driver != "" {
		out = append(out, "driver:"+string(driver))
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
