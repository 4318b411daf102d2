package cluster

import (
	"context"
	"fmt"
	"time"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/similarity"
	"github.com/sandevgo/moodmem/pkg/log"
)

const (
	WorkerBatchSize    = 50
	WorkerPollInterval = 30 * time.Second
)

// Worker periodically assigns unclustered memories to clusters and
// persists the affected clusters with their memberships.
type Worker struct {
	engine    *Engine
	memories  core.MemoryRepository
	clusters  core.ClusterRepository
	interval  time.Duration
	batchSize int
	cache     *FeatureCache
}

func NewWorker(
	engine *Engine,
	memories core.MemoryRepository,
	clusters core.ClusterRepository,
	interval time.Duration,
	batchSize int,
) *Worker {
	if interval <= 0 {
		interval = WorkerPollInterval
	}
	if batchSize <= 0 {
		batchSize = WorkerBatchSize
	}
	return &Worker{
		engine:    engine,
		memories:  memories,
		clusters:  clusters,
		interval:  interval,
		batchSize: batchSize,
		cache:     NewFeatureCache(),
	}
}

func (w *Worker) Start(ctx context.Context) error {
	ctx = log.WithComponent(ctx, "cluster_worker")
	logger := log.FromCtx(ctx)
	logger.Info().Dur("interval", w.interval).Msg("starting clustering worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("shutting down clustering worker")
			return nil
		case <-ticker.C:
			if _, err := w.ProcessBatch(ctx); err != nil {
				logger.Error().Err(err).Msg("clustering batch failed")
			}
		}
	}
}

func (w *Worker) Shutdown(ctx context.Context) error {
	w.cache.Invalidate()
	return nil
}

// ProcessBatch clusters up to batchSize unclustered memories and returns
// how many were assigned.
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	logger := log.FromCtx(ctx)

	pending, err := w.memories.ListUnclusteredMemories(ctx, w.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list unclustered memories: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	groups, err := w.loadGroups(ctx)
	if err != nil {
		return 0, err
	}

	touched := make(map[string]*Group)
	for _, mem := range pending {
		var a Assignment
		f := similarity.Prepare(mem)
		w.cache.Put(f)
		groups, a = w.engine.Assign(groups, f)
		for _, g := range groups {
			if g.Cluster.ClusterID == a.ClusterID {
				touched[a.ClusterID] = g
				break
			}
		}
		logger.Debug().
			Str("memory_id", mem.ID).
			Str("cluster_id", a.ClusterID).
			Float64("similarity", a.Similarity).
			Bool("created", a.Created).
			Msg("memory assigned")
	}

	for _, g := range groups {
		if _, ok := touched[g.Cluster.ClusterID]; !ok {
			continue
		}
		if err := w.clusters.SaveCluster(ctx, g.Cluster, w.engine.MemberSimilarities(g)); err != nil {
			return 0, fmt.Errorf("failed to save cluster %s: %w", g.Cluster.ClusterID, err)
		}
	}

	logger.Info().Int("memories", len(pending)).Int("clusters", len(touched)).Msg("clustering batch processed")
	return len(pending), nil
}

func (w *Worker) loadGroups(ctx context.Context) ([]*Group, error) {
	existing, err := w.clusters.ListClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clusters: %w", err)
	}

	groups := make([]*Group, 0, len(existing))
	for _, c := range existing {
		g := &Group{Cluster: c}
		for _, id := range c.MemoryIDs {
			if f, ok := w.cache.Get(id); ok {
				g.Members = append(g.Members, f)
				continue
			}
			mem, err := w.memories.GetMemory(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to load member %s of cluster %s: %w", id, c.ClusterID, err)
			}
			f := similarity.Prepare(*mem)
			w.cache.Put(f)
			g.Members = append(g.Members, f)
		}
		if len(g.Members) > 0 {
			groups = append(groups, g)
		}
	}
	return groups, nil
}
