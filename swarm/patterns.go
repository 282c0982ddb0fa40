// Pattern memory - remembers which agent combinations worked well.
//
// Successful swarm runs are captured as characteristic vectors; future
// requests resembling a recorded pattern get a complexity-score boost.
// The store is an injected collaborator, not process-global state, so it
// can be swapped for a no-op or a persistent implementation.
//
// Information Hiding:
// - Match rule and boost arithmetic hidden
// - Eviction policy hidden (bounded LRU by default)

package swarm

import (
	"context"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Pattern matching and recording constants.
const (
	// patternMatchTolerance is the per-dimension distance within which a
	// characteristic counts as matching the current indicator.
	patternMatchTolerance = 0.3

	// patternMatchRatio is the share of a pattern's dimensions that must
	// match for the pattern to contribute to the boost.
	patternMatchRatio = 0.6

	// patternBoostWeight scales each matching pattern's success rate.
	patternBoostWeight = 2.0

	// maxPatternBoost caps the summed boost.
	maxPatternBoost = 2.0

	// patternSuccessThreshold is the per-run success rate at or above
	// which a pattern is recorded.
	patternSuccessThreshold = 0.8

	// DefaultPatternCapacity bounds the in-memory store.
	DefaultPatternCapacity = 500
)

// PatternStore holds discovered patterns and answers boost queries.
type PatternStore interface {
	// Boost returns a complexity-score boost in [0, 2] for the given
	// indicator vector, summing contributions from matching patterns.
	Boost(ctx context.Context, indicators map[string]float64) (float64, error)

	// Record stores a discovered pattern.
	Record(ctx context.Context, pattern DiscoveredPattern) error

	// Patterns returns all stored patterns.
	Patterns(ctx context.Context) ([]DiscoveredPattern, error)
}

// matchesIndicators reports whether enough of the pattern's characteristic
// dimensions are within tolerance of the current indicator values.
// Dimensions absent from the current vector count as unmatched.
func matchesIndicators(pattern DiscoveredPattern, indicators map[string]float64) bool {
	total := len(pattern.TaskCharacteristics)
	if total == 0 {
		return false
	}

	matched := 0
	for name, recorded := range pattern.TaskCharacteristics {
		current, ok := indicators[name]
		if !ok {
			continue
		}
		diff := recorded - current
		if diff < 0 {
			diff = -diff
		}
		if diff <= patternMatchTolerance {
			matched++
		}
	}

	return float64(matched)/float64(total) >= patternMatchRatio
}

// ComputeBoost sums matching patterns' contributions, capped, and returns
// the IDs of the patterns that matched.
func ComputeBoost(patterns []DiscoveredPattern, indicators map[string]float64) (float64, []uuid.UUID) {
	boost := 0.0
	var matched []uuid.UUID
	for _, p := range patterns {
		if matchesIndicators(p, indicators) {
			boost += p.SuccessRate * patternBoostWeight
			matched = append(matched, p.ID)
		}
	}
	if boost > maxPatternBoost {
		boost = maxPatternBoost
	}
	return boost, matched
}

// buildPattern captures a successful run as a characteristic vector.
// Characteristics are normalized alongside the indicator dimensions so
// that future boost queries can compare them directly.
func buildPattern(task *SwarmTask, outcome RunOutcome) DiscoveredPattern {
	characteristics := make(map[string]float64, len(task.Classified.Indicators)+3)
	for name, v := range task.Classified.Indicators {
		characteristics[name] = v
	}
	characteristics["complexity"] = task.Classified.Score / 10
	characteristics["agent_count"] = float64(len(task.Agents)) / DefaultMaxAgents
	if len(task.SubAgents) > 0 {
		characteristics["sub_agents"] = 1
	} else {
		characteristics["sub_agents"] = 0
	}

	combination := make([]string, len(task.Agents))
	for i, k := range task.Agents {
		combination[i] = k.String()
	}

	return DiscoveredPattern{
		ID:                  uuid.New(),
		SuccessRate:         outcome.Coordination.SuccessRate,
		AgentCombination:    combination,
		Mode:                task.Mode,
		TaskCharacteristics: characteristics,
		PerformanceMetrics: map[string]float64{
			"avg_agent_seconds":    outcome.Coordination.AvgSeconds,
			"time_balance":         outcome.Coordination.TimeBalance,
			"coordination_quality": outcome.Coordination.Quality,
		},
		DiscoveredAt: time.Now(),
	}
}

// MemoryPatternStore is a bounded in-memory pattern store. The fixed
// capacity evicts least-recently-used patterns instead of growing for the
// life of the process.
type MemoryPatternStore struct {
	cache *lru.Cache[string, DiscoveredPattern]
}

// NewMemoryPatternStore creates a bounded store; capacity <= 0 uses the
// default.
func NewMemoryPatternStore(capacity int) (*MemoryPatternStore, error) {
	if capacity <= 0 {
		capacity = DefaultPatternCapacity
	}
	cache, err := lru.New[string, DiscoveredPattern](capacity)
	if err != nil {
		return nil, err
	}
	return &MemoryPatternStore{cache: cache}, nil
}

// Boost sums contributions from matching patterns. Matching patterns are
// touched so frequently useful ones survive eviction, and their usage
// count is incremented.
func (s *MemoryPatternStore) Boost(ctx context.Context, indicators map[string]float64) (float64, error) {
	boost, matched := ComputeBoost(s.cache.Values(), indicators)

	for _, id := range matched {
		if p, ok := s.cache.Get(id.String()); ok {
			p.UsageCount++
			s.cache.Add(id.String(), p)
		}
	}

	return boost, nil
}

// Record stores the pattern, evicting the least-recently-used entry when
// the store is at capacity.
func (s *MemoryPatternStore) Record(ctx context.Context, pattern DiscoveredPattern) error {
	s.cache.Add(pattern.ID.String(), pattern)
	return nil
}

// Patterns returns all stored patterns, least recently used first.
func (s *MemoryPatternStore) Patterns(ctx context.Context) ([]DiscoveredPattern, error) {
	return s.cache.Values(), nil
}

// Len returns the number of stored patterns.
func (s *MemoryPatternStore) Len() int {
	return s.cache.Len()
}

// NoopPatternStore ignores writes and never boosts. Useful in tests and
// deployments that want deterministic classification.
type NoopPatternStore struct{}

// Boost always returns zero.
func (NoopPatternStore) Boost(ctx context.Context, indicators map[string]float64) (float64, error) {
	return 0, nil
}

// Record discards the pattern.
func (NoopPatternStore) Record(ctx context.Context, pattern DiscoveredPattern) error {
	return nil
}

// Patterns returns nothing.
func (NoopPatternStore) Patterns(ctx context.Context) ([]DiscoveredPattern, error) {
	return nil, nil
}

// Verify implementations
var (
	_ PatternStore = (*MemoryPatternStore)(nil)
	_ PatternStore = NoopPatternStore{}
)
