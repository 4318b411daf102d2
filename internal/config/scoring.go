package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/moodmem/internal/service/delta"
	"github.com/sandevgo/moodmem/internal/service/mood"
	"github.com/sandevgo/moodmem/internal/service/significance"
	"github.com/sandevgo/moodmem/internal/service/similarity"
	"github.com/sandevgo/moodmem/pkg/log"
)

// ScoringConfig collects every weight table passed into the scoring code.
type ScoringConfig struct {
	Mood         mood.Weights                `envPrefix:"MOODMEM_MOOD_WEIGHT_"`
	Deltas       delta.Thresholds            `envPrefix:"MOODMEM_DELTA_"`
	Significance significance.Config         `envPrefix:"MOODMEM_SIGNIFICANCE_"`
	Dimensions   similarity.DimensionWeights `envPrefix:"MOODMEM_SIMILARITY_"`
	Penalties    similarity.Penalties        `envPrefix:"MOODMEM_PENALTY_"`
}

func LoadScoringConfig() (*ScoringConfig, error) {
	c := &ScoringConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("failed to parse scoring config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func NewScoringConfig(ctx context.Context) *ScoringConfig {
	c, err := LoadScoringConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Scoring config")
	}
	return c
}

func DefaultScoringConfig() *ScoringConfig {
	return &ScoringConfig{
		Mood:         mood.DefaultWeights(),
		Deltas:       delta.DefaultThresholds(),
		Significance: significance.DefaultConfig(),
		Dimensions:   similarity.DefaultWeights(),
		Penalties:    similarity.DefaultPenalties(),
	}
}

// Validate reports every invalid table at once.
func (c ScoringConfig) Validate() error {
	var errs []error
	if err := c.Mood.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("mood: %w", err))
	}
	if err := c.Deltas.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("deltas: %w", err))
	}
	if err := c.Significance.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("significance: %w", err))
	}
	if err := c.Dimensions.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("similarity: %w", err))
	}
	if p := c.Penalties; p.Tone < 0 || p.Tone > 1 || p.Global < 0 || p.Global > 1 {
		errs = append(errs, fmt.Errorf("penalties %v/%v outside [0,1]", p.Tone, p.Global))
	}
	return errors.Join(errs...)
}
