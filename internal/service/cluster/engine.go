// Package cluster groups memories whose mean similarity to a cluster's
// members reaches a coherence threshold.
package cluster

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sandevgo/moodmem/internal/core"
	"github.com/sandevgo/moodmem/internal/service/similarity"
)

const DefaultTheme = "general"

// Group is a cluster together with the featured memories it holds.
type Group struct {
	Cluster core.MemoryCluster
	Members []similarity.Featured
}

// Assignment reports where a memory landed.
type Assignment struct {
	ClusterID  string
	Similarity float64
	Created    bool
}

type Engine struct {
	calc      *similarity.Calculator
	threshold float64
	newID     func() string
	now       func() time.Time
}

type Option func(*Engine)

func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(e *Engine) { e.now = fn }
}

func NewEngine(calc *similarity.Calculator, threshold float64, opts ...Option) *Engine {
	e := &Engine{
		calc:      calc,
		threshold: threshold,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Assign adds mem to the group with the highest mean member similarity when
// that mean reaches the threshold, otherwise spawns a new group. Ties go to
// the earliest group. The returned slice includes any new group.
func (e *Engine) Assign(groups []*Group, mem similarity.Featured) ([]*Group, Assignment) {
	var best *Group
	bestScore := -1.0
	for _, g := range groups {
		score := e.meanSimilarity(mem, g.Members)
		if score > bestScore {
			best, bestScore = g, score
		}
	}

	now := e.now().UTC()
	if best != nil && bestScore >= e.threshold {
		best.Members = append(best.Members, mem)
		e.refresh(best, now)
		return groups, Assignment{ClusterID: best.Cluster.ClusterID, Similarity: round4(bestScore), Created: false}
	}

	g := &Group{
		Cluster: core.MemoryCluster{
			ClusterID: e.newID(),
			Metadata:  core.ClusterMetadata{CreatedAt: now},
		},
		Members: []similarity.Featured{mem},
	}
	e.refresh(g, now)
	return append(groups, g), Assignment{ClusterID: g.Cluster.ClusterID, Similarity: 1, Created: true}
}

// Cluster runs incremental assignment over memories in input order.
func (e *Engine) Cluster(memories []core.ExtractedMemory) []core.MemoryCluster {
	var groups []*Group
	for _, m := range memories {
		groups, _ = e.Assign(groups, similarity.Prepare(m))
	}

	out := make([]core.MemoryCluster, len(groups))
	for i, g := range groups {
		out[i] = g.Cluster
	}
	return out
}

// MemberSimilarities returns each member's mean similarity to the other
// members; a singleton scores 1.
func (e *Engine) MemberSimilarities(g *Group) map[string]float64 {
	out := make(map[string]float64, len(g.Members))
	for i, m := range g.Members {
		if len(g.Members) == 1 {
			out[m.Memory.ID] = 1
			continue
		}
		total := 0.0
		for j, other := range g.Members {
			if i != j {
				total += e.calc.Compare(m, other).Total
			}
		}
		out[m.Memory.ID] = round4(total / float64(len(g.Members)-1))
	}
	return out
}

func (e *Engine) meanSimilarity(mem similarity.Featured, members []similarity.Featured) float64 {
	if len(members) == 0 {
		return 0
	}
	total := 0.0
	for _, m := range members {
		total += e.calc.Compare(mem, m).Total
	}
	return total / float64(len(members))
}

// refresh recomputes membership, coherence, theme and quality metrics.
func (e *Engine) refresh(g *Group, now time.Time) {
	ids := make([]string, len(g.Members))
	intensity := 0.0
	for i, m := range g.Members {
		ids[i] = m.Memory.ID
		intensity += m.Features.EmotionalTone.EmotionalIntensity
	}
	intensity /= float64(len(g.Members))

	coherence, minPair := 1.0, 1.0
	if n := len(g.Members); n > 1 {
		total, pairs := 0.0, 0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				s := e.calc.Compare(g.Members[i], g.Members[j]).Total
				total += s
				minPair = math.Min(minPair, s)
				pairs++
			}
		}
		coherence = total / float64(pairs)
	}

	c := &g.Cluster
	c.MemoryIDs = ids
	c.Theme = theme(g.Members)
	c.CoherenceScore = round4(coherence)
	c.PsychologicalSignificance = round4(math.Max(0, math.Min(1, 0.6*intensity+0.4*coherence)))
	c.Metadata.UpdatedAt = now
	if c.Metadata.CreatedAt.IsZero() {
		c.Metadata.CreatedAt = now
	}
	c.Metadata.MemoryCount = len(ids)
	c.Metadata.QualityMetrics = core.ClusterQualityMetrics{
		Cohesion:          round4(coherence),
		MinPairSimilarity: round4(minPair),
		AverageIntensity:  round4(intensity),
	}
}

// theme is the descriptor or theme shared by most members, ties broken
// lexically.
func theme(members []similarity.Featured) string {
	counts := make(map[string]int)
	for _, m := range members {
		seen := make(map[string]struct{})
		tone := m.Features.EmotionalTone
		for _, list := range [][]string{tone.EmotionalDescriptors, tone.Themes} {
			for _, s := range list {
				if _, ok := seen[s]; ok {
					continue
				}
				seen[s] = struct{}{}
				counts[s]++
			}
		}
	}
	if len(counts) == 0 {
		return DefaultTheme
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys[0]
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
