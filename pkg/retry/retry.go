// Package retry runs operations with exponential backoff and jitter.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sandevgo/moodmem/pkg/log"
)

type Operation = func() error

// permanentError stops the retry loop and is unwrapped before returning.
type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type Config struct {
	MaxRetries    int           `env:"MAX_RETRIES" envDefault:"5"`
	BackoffFactor float64       `env:"BACKOFF_FACTOR" envDefault:"2.15"`
	InitialDelay  time.Duration `env:"INITIAL_DELAY" envDefault:"300ms"`
	MaxDelay      time.Duration `env:"MAX_DELAY" envDefault:"20s"`
	Jitter        time.Duration `env:"JITTER" envDefault:"50ms"`
}

func NewDefaultConfig() *Config {
	return &Config{
		MaxRetries:    5,
		BackoffFactor: 2.15,
		InitialDelay:  300 * time.Millisecond,
		MaxDelay:      20 * time.Second,
		Jitter:        50 * time.Millisecond,
	}
}

func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries)
	}
	if c.BackoffFactor < 1 {
		return fmt.Errorf("backoff factor must be at least 1, got %v", c.BackoffFactor)
	}
	if c.InitialDelay < 0 || c.MaxDelay < c.InitialDelay || c.Jitter < 0 {
		return fmt.Errorf("retry delays must satisfy 0 <= initial <= max and jitter >= 0")
	}
	return nil
}

type Retrier struct {
	config    *Config
	permanent func(error) bool
}

type Option func(*Retrier)

// WithPermanent classifies errors that must not be retried, in addition to
// those wrapped with Permanent.
func WithPermanent(fn func(error) bool) Option {
	return func(r *Retrier) { r.permanent = fn }
}

func NewRetrier(config *Config, opts ...Option) *Retrier {
	r := &Retrier{
		config: config,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func NewDefaultRetrier() *Retrier {
	return NewRetrier(NewDefaultConfig())
}

func (r *Retrier) Do(ctx context.Context, op Operation) error {
	var err error
	delay := r.config.InitialDelay
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if r.permanent != nil && r.permanent(err) {
			return err
		}

		if attempt == r.config.MaxRetries {
			return err
		}

		jitter := time.Duration(rnd.Float64() * float64(r.config.Jitter))
		nextDelay := delay + jitter
		if nextDelay > r.config.MaxDelay {
			nextDelay = r.config.MaxDelay + jitter
		}

		log.FromCtx(ctx).Debug().Err(err).Int("attempt", attempt+1).Dur("delay", nextDelay).Msg("retrying operation")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(nextDelay):
		}

		delay = time.Duration(float64(delay) * r.config.BackoffFactor)
		if delay > r.config.MaxDelay {
			delay = r.config.MaxDelay
		}
	}
	return err
}
