package significance

import (
	"fmt"
	"math"

	"github.com/sandevgo/moodmem/internal/core"
)

// TurningPointCandidate is a turning point derived from a stored delta,
// ready to be passed to StoreTurningPoint.
type TurningPointCandidate struct {
	Input           core.TurningPointInput `json:"input"`
	TemporalContext core.TemporalContext   `json:"temporalContext"`
	DeltaID         *int64                 `json:"deltaId,omitempty"`
}

type grouping struct {
	typ      core.PatternType
	minRun   int
	member   func(prev, cur core.MoodDelta, runLen int) bool
	describe func(n int) string
}

// patternRules are evaluated in order; each yields maximal runs of
// consecutive deltas satisfying member.
var patternRules = []grouping{
	{
		typ:    core.PatternSustainedImprovement,
		minRun: 2,
		member: func(_, cur core.MoodDelta, _ int) bool { return isImprovement(cur) },
		describe: func(n int) string {
			return fmt.Sprintf("%d consecutive improvements in mood", n)
		},
	},
	{
		typ:    core.PatternSustainedDecline,
		minRun: 2,
		member: func(_, cur core.MoodDelta, _ int) bool { return cur.Type == core.DeltaDecline },
		describe: func(n int) string {
			return fmt.Sprintf("%d consecutive declines in mood", n)
		},
	},
	{
		typ:    core.PatternVolatility,
		minRun: 3,
		member: func(prev, cur core.MoodDelta, runLen int) bool {
			if !isSwing(cur) {
				return false
			}
			return runLen == 0 || cur.Direction != prev.Direction
		},
		describe: func(n int) string {
			return fmt.Sprintf("mood alternated direction across %d changes", n)
		},
	},
	{
		typ:    core.PatternEmotionalStability,
		minRun: 2,
		member: func(_, cur core.MoodDelta, _ int) bool { return cur.Type == core.DeltaPlateau },
		describe: func(n int) string {
			return fmt.Sprintf("mood held steady across %d changes", n)
		},
	},
}

func isImprovement(d core.MoodDelta) bool {
	return d.Direction == core.DirectionPositive && (d.Type == core.DeltaCelebration || d.Type == core.DeltaMoodRepair)
}

func isSwing(d core.MoodDelta) bool {
	return d.Type != core.DeltaPlateau && d.Direction != core.DirectionNeutral
}

// DetectPatterns groups deltas (ordered by sequence) into pattern inputs.
// Deltas must already be stored so their IDs can be referenced.
func DetectPatterns(deltas []core.MoodDelta) []core.PatternInput {
	var out []core.PatternInput

	for _, rule := range patternRules {
		start := 0
		for start < len(deltas) {
			end := start
			for end < len(deltas) {
				var prev core.MoodDelta
				if end > start {
					prev = deltas[end-1]
				}
				if !rule.member(prev, deltas[end], end-start) {
					break
				}
				end++
			}
			if end-start >= rule.minRun {
				out = append(out, patternFrom(rule.typ, deltas[start:end], rule.describe(end-start)))
			}
			if end == start {
				end++
			}
			start = end
		}

		if rule.typ == core.PatternSustainedDecline {
			out = append(out, recoveryCycles(deltas)...)
		}
	}
	return out
}

// recoveryCycles pairs each decline with an immediately following repair.
func recoveryCycles(deltas []core.MoodDelta) []core.PatternInput {
	var out []core.PatternInput
	for i := 1; i < len(deltas); i++ {
		if deltas[i-1].Type == core.DeltaDecline && deltas[i].Type == core.DeltaMoodRepair {
			out = append(out, patternFrom(core.PatternRecoveryCycle, deltas[i-1:i+1], "decline followed by mood repair"))
		}
	}
	return out
}

func patternFrom(typ core.PatternType, run []core.MoodDelta, description string) core.PatternInput {
	ids := make([]int64, 0, len(run))
	total := 0.0
	for _, d := range run {
		ids = append(ids, d.ID)
		total += d.Magnitude
	}
	first, last := run[0].TemporalContext.RelativeTimestamp, run[len(run)-1].TemporalContext.RelativeTimestamp

	return core.PatternInput{
		Type:             typ,
		DeltaIDs:         ids,
		Description:      description,
		DurationMs:       last - first,
		AverageMagnitude: math.Round(total/float64(len(run))*100) / 100,
	}
}

// DetectTurningPoints emits a turning point for every non-plateau delta at
// or above the configured magnitude threshold.
func (c Config) DetectTurningPoints(deltas []core.MoodDelta) []TurningPointCandidate {
	var out []TurningPointCandidate
	for _, d := range deltas {
		if d.Magnitude < c.TurningPointThreshold {
			continue
		}

		var typ core.TurningPointType
		var desc string
		switch d.Type {
		case core.DeltaMoodRepair:
			typ, desc = core.TurningSupportReceived, "mood recovered"
			if d.Magnitude >= c.BreakthroughThreshold {
				typ, desc = core.TurningBreakthrough, "strong recovery from a low point"
			}
		case core.DeltaCelebration:
			typ, desc = core.TurningRealization, "marked lift in mood"
		case core.DeltaDecline:
			typ, desc = core.TurningSetback, "sharp drop in mood"
		default:
			continue
		}

		cand := TurningPointCandidate{
			Input: core.TurningPointInput{
				Type:        typ,
				Magnitude:   d.Magnitude,
				Description: fmt.Sprintf("%s (%.2f -> %.2f)", desc, d.FromScore, d.ToScore),
				Timestamp:   d.Timestamp,
			},
			TemporalContext: d.TemporalContext,
		}
		if d.ID != 0 {
			id := d.ID
			cand.DeltaID = &id
		}
		out = append(out, cand)
	}
	return out
}
