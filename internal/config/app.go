package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/mood"
	"github.com/sandevgo/moodmem/pkg/log"
	"github.com/sandevgo/moodmem/pkg/retry"
)

type AppConfig struct {
	RuntimePath      string `env:"MOODMEM_RUNTIME_PATH" envDefault:".moodmem"`
	DatabaseFile     string `env:"MOODMEM_DATABASE_FILE" envDefault:"moodmem.db"`
	AlgorithmVersion string `env:"MOODMEM_ALGORITHM_VERSION" envDefault:"mood-scoring/1.0"`

	Segments mood.SegmentConfig `envPrefix:"MOODMEM_"`

	// Clustering worker
	ClusterThreshold    float64       `env:"MOODMEM_CLUSTER_THRESHOLD" envDefault:"0.65"`
	ClusterInterval     time.Duration `env:"MOODMEM_CLUSTER_INTERVAL" envDefault:"30s"`
	ClusterBatchSize    int           `env:"MOODMEM_CLUSTER_BATCH_SIZE" envDefault:"50"`
	EnableClusterWorker bool          `env:"MOODMEM_ENABLE_CLUSTER_WORKER" envDefault:"true"`

	Retry retry.Config `envPrefix:"MOODMEM_RETRY_"`

	// MCP tools may write to the database
	MCPPersist bool `env:"MOODMEM_MCP_PERSIST" envDefault:"false"`
}

func LoadAppConfig() (*AppConfig, error) {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("failed to parse app config: %w", err)
	}
	c.RuntimePath = resolveRuntimePath(c.RuntimePath)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c, err := LoadAppConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) Validate() error {
	if err := c.Segments.Validate(); err != nil {
		return err
	}
	if c.ClusterThreshold < 0 || c.ClusterThreshold > 1 {
		return fmt.Errorf("cluster threshold %v outside [0,1]", c.ClusterThreshold)
	}
	if c.ClusterBatchSize <= 0 {
		return fmt.Errorf("cluster batch size must be positive, got %d", c.ClusterBatchSize)
	}
	if c.ClusterInterval <= 0 {
		return fmt.Errorf("cluster interval must be positive, got %s", c.ClusterInterval)
	}
	if err := c.Retry.Validate(); err != nil {
		return err
	}
	return nil
}

// DefaultAppConfig returns the configuration written by init.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		RuntimePath:         GetRuntimePath(),
		DatabaseFile:        "moodmem.db",
		AlgorithmVersion:    core.AlgorithmVersion,
		Segments:            mood.DefaultSegmentConfig(),
		ClusterThreshold:    0.65,
		ClusterInterval:     30 * time.Second,
		ClusterBatchSize:    50,
		EnableClusterWorker: true,
		Retry:               *retry.NewDefaultConfig(),
	}
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	if filepath.IsAbs(c.DatabaseFile) {
		return c.DatabaseFile
	}
	return filepath.Join(c.RuntimePath, c.DatabaseFile)
}

func (c AppConfig) GetEnvPath() string {
	return filepath.Join(c.RuntimePath, ".env")
}
