package core

import "fmt"

// FactorType identifies the source of a weighted mood factor.
type FactorType string

const (
	FactorSentiment     FactorType = "sentiment_analysis"
	FactorPsychological FactorType = "psychological_indicators"
	FactorRelationship  FactorType = "relationship_context"
	FactorProgression   FactorType = "emotional_progression"
)

type DeltaDirection string

const (
	DirectionPositive DeltaDirection = "positive"
	DirectionNegative DeltaDirection = "negative"
	DirectionNeutral  DeltaDirection = "neutral"
)

type DeltaType string

const (
	DeltaMoodRepair  DeltaType = "mood_repair"
	DeltaCelebration DeltaType = "celebration"
	DeltaDecline     DeltaType = "decline"
	DeltaPlateau     DeltaType = "plateau"
)

type TemporalPosition string

const (
	PositionEarly      TemporalPosition = "early"
	PositionMiddle     TemporalPosition = "middle"
	PositionConclusion TemporalPosition = "conclusion"
)

type TurningPointType string

const (
	TurningBreakthrough    TurningPointType = "breakthrough"
	TurningSetback         TurningPointType = "setback"
	TurningRealization     TurningPointType = "realization"
	TurningSupportReceived TurningPointType = "support_received"
)

type PatternType string

const (
	PatternSustainedImprovement PatternType = "sustained_improvement"
	PatternSustainedDecline     PatternType = "sustained_decline"
	PatternRecoveryCycle        PatternType = "recovery_cycle"
	PatternVolatility           PatternType = "volatility"
	PatternEmotionalStability   PatternType = "emotional_stability"
)

func ParseFactorType(s string) (FactorType, error) {
	return parseEnum(s, "factor type", FactorSentiment, FactorPsychological, FactorRelationship, FactorProgression)
}

func ParseDeltaDirection(s string) (DeltaDirection, error) {
	return parseEnum(s, "delta direction", DirectionPositive, DirectionNegative, DirectionNeutral)
}

func ParseDeltaType(s string) (DeltaType, error) {
	return parseEnum(s, "delta type", DeltaMoodRepair, DeltaCelebration, DeltaDecline, DeltaPlateau)
}

func ParseTemporalPosition(s string) (TemporalPosition, error) {
	return parseEnum(s, "temporal position", PositionEarly, PositionMiddle, PositionConclusion)
}

func ParseTurningPointType(s string) (TurningPointType, error) {
	return parseEnum(s, "turning point type", TurningBreakthrough, TurningSetback, TurningRealization, TurningSupportReceived)
}

func ParsePatternType(s string) (PatternType, error) {
	return parseEnum(s, "pattern type", PatternSustainedImprovement, PatternSustainedDecline,
		PatternRecoveryCycle, PatternVolatility, PatternEmotionalStability)
}

func parseEnum[T ~string](s, kind string, allowed ...T) (T, error) {
	for _, v := range allowed {
		if string(v) == s {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %q", ErrUnknownEnum, kind, s)
}
