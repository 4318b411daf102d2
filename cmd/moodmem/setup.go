package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sandevgo/moodmem/internal/config"
	"github.com/sandevgo/moodmem/internal/service/analysis"
	"github.com/sandevgo/moodmem/internal/service/cluster"
	"github.com/sandevgo/moodmem/internal/service/delta"
	"github.com/sandevgo/moodmem/internal/service/mood"
	"github.com/sandevgo/moodmem/internal/service/significance"
	"github.com/sandevgo/moodmem/internal/service/similarity"
	"github.com/sandevgo/moodmem/internal/storage/sqlite"
	"github.com/sandevgo/moodmem/pkg/log"
	"github.com/sandevgo/moodmem/pkg/srv"
)

// components are the wired analytics services. Repositories and db are
// nil when built without storage.
type components struct {
	app     *config.AppConfig
	scoring *config.ScoringConfig

	db       *sql.DB
	memories *sqlite.MemoriesRepo
	moods    *sqlite.MoodsRepo
	deltas   *sqlite.DeltasRepo
	clusters *sqlite.ClustersRepo

	analyzer *mood.Analyzer
	calc     *similarity.Calculator
	pipeline *analysis.Pipeline
}

// loadConfig loads <runtime>/.env and parses both configurations.
func loadConfig(ctx context.Context) (*config.AppConfig, *config.ScoringConfig) {
	logger := log.FromCtx(ctx)

	if err := config.LoadEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}
	return config.NewAppConfig(ctx), config.NewScoringConfig(ctx)
}

// initComponents wires the scoring services; withStorage also opens and
// migrates the database and backs the pipeline with it.
func initComponents(ctx context.Context, withStorage bool) (*components, error) {
	c := newComponents(ctx)
	if withStorage {
		if err := c.initStorage(ctx); err != nil {
			return nil, err
		}
	}
	c.initPipeline()
	return c, nil
}

func newComponents(ctx context.Context) *components {
	appCfg, scoring := loadConfig(ctx)
	return &components{
		app:      appCfg,
		scoring:  scoring,
		analyzer: mood.NewAnalyzer(scoring.Mood),
		calc:     similarity.NewCalculator(scoring.Dimensions, scoring.Penalties),
	}
}

func (c *components) initPipeline() {
	c.pipeline = analysis.NewPipeline(
		c.analyzer,
		delta.NewDetector(c.scoring.Deltas),
		significance.NewEngine(c.scoring.Significance, c.deltas),
		c.memories,
		c.moods,
		c.app.Segments,
		&c.app.Retry,
	).WithAlgorithmVersion(c.app.AlgorithmVersion)
}

func (c *components) initStorage(ctx context.Context) error {
	db, err := sqlite.NewDB(ctx, c.app.GetDatabasePath())
	if err != nil {
		return err
	}
	c.db = db
	c.memories = sqlite.NewMemoriesRepo(db)
	c.moods = sqlite.NewMoodsRepo(db)
	c.deltas = sqlite.NewDeltasRepo(db)
	c.clusters = sqlite.NewClustersRepo(db)
	return nil
}

// backgroundServices returns the cluster worker (when enabled) and the
// database cleanup.
func (c *components) backgroundServices() []srv.Service {
	services := make([]srv.Service, 0, 2)
	if c.db == nil {
		return services
	}

	if c.app.EnableClusterWorker {
		engine := cluster.NewEngine(c.calc, c.app.ClusterThreshold)
		services = append(services, cluster.NewWorker(
			engine,
			c.memories,
			c.clusters,
			c.app.ClusterInterval,
			c.app.ClusterBatchSize,
		))
	}

	// Keep db close last so the worker stops before it.
	services = append(services, srv.NewCleanup(c.db.Close))
	return services
}

// NewServices builds everything `start` runs.
func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)

	c, err := initComponents(ctx, true)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	return c.backgroundServices()
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
