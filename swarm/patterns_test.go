package swarm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testPattern(successRate float64, characteristics map[string]float64) DiscoveredPattern {
	return DiscoveredPattern{
		ID:                  uuid.New(),
		SuccessRate:         successRate,
		AgentCombination:    []string{"Code Agent"},
		TaskCharacteristics: characteristics,
		DiscoveredAt:        time.Now(),
	}
}

// fullCharacteristics mirrors what buildPattern records: the five
// indicator dimensions plus complexity, agent_count and sub_agents.
func fullCharacteristics(indicator float64) map[string]float64 {
	return map[string]float64{
		IndicatorLength:      indicator,
		IndicatorKeywords:    indicator,
		IndicatorTechnical:   indicator,
		IndicatorMultiDomain: indicator,
		IndicatorContext:     indicator,
		"complexity":         indicator,
		"agent_count":        0.5,
		"sub_agents":         0,
	}
}

func queryIndicators(v float64) map[string]float64 {
	return map[string]float64{
		IndicatorLength:      v,
		IndicatorKeywords:    v,
		IndicatorTechnical:   v,
		IndicatorMultiDomain: v,
		IndicatorContext:     v,
	}
}

func TestMemoryPatternStoreBoost(t *testing.T) {
	store, err := NewMemoryPatternStore(10)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	ctx := context.Background()

	if err := store.Record(ctx, testPattern(0.9, fullCharacteristics(0.5))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// Five of eight dimensions within tolerance (62.5% >= 60%).
	boost, err := store.Boost(ctx, queryIndicators(0.5))
	if err != nil {
		t.Fatalf("Boost failed: %v", err)
	}

	want := 0.9 * 2.0
	if boost != want {
		t.Errorf("expected boost %.2f, got %.2f", want, boost)
	}
}

func TestBoostWithinTolerance(t *testing.T) {
	store, err := NewMemoryPatternStore(10)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	ctx := context.Background()

	if err := store.Record(ctx, testPattern(1.0, fullCharacteristics(0.5))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	// 0.75 is within the 0.3 per-dimension tolerance of 0.5.
	boost, err := store.Boost(ctx, queryIndicators(0.75))
	if err != nil {
		t.Fatalf("Boost failed: %v", err)
	}
	if boost != 2.0 {
		t.Errorf("expected boost 2.0 for near match, got %.2f", boost)
	}

	// 0.9 is outside tolerance on every dimension.
	boost, err = store.Boost(ctx, queryIndicators(0.9))
	if err != nil {
		t.Fatalf("Boost failed: %v", err)
	}
	if boost != 0 {
		t.Errorf("expected no boost for distant vector, got %.2f", boost)
	}
}

func TestBoostRequiresMatchRatio(t *testing.T) {
	// Only four of eight dimensions match: 50% < 60%. The complexity,
	// agent_count and sub_agents dimensions are absent from the query and
	// count as unmatched, so one indicator miss is enough to fail.
	characteristics := fullCharacteristics(0.9)
	characteristics[IndicatorLength] = 0.1

	store, err := NewMemoryPatternStore(10)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	ctx := context.Background()

	if err := store.Record(ctx, testPattern(1.0, characteristics)); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	boost, err := store.Boost(ctx, queryIndicators(0.9))
	if err != nil {
		t.Fatalf("Boost failed: %v", err)
	}
	if boost != 0 {
		t.Errorf("expected no boost below the match ratio, got %.2f", boost)
	}
}

func TestBoostCapped(t *testing.T) {
	store, err := NewMemoryPatternStore(10)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := store.Record(ctx, testPattern(1.0, fullCharacteristics(0.5))); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	boost, err := store.Boost(ctx, queryIndicators(0.5))
	if err != nil {
		t.Fatalf("Boost failed: %v", err)
	}
	if boost != 2.0 {
		t.Errorf("expected boost capped at 2.0, got %.2f", boost)
	}
}

func TestBoostIncrementsUsageCount(t *testing.T) {
	store, err := NewMemoryPatternStore(10)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	ctx := context.Background()

	if err := store.Record(ctx, testPattern(0.9, fullCharacteristics(0.5))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if _, err := store.Boost(ctx, queryIndicators(0.5)); err != nil {
		t.Fatalf("Boost failed: %v", err)
	}
	if _, err := store.Boost(ctx, queryIndicators(0.5)); err != nil {
		t.Fatalf("Boost failed: %v", err)
	}

	patterns, err := store.Patterns(ctx)
	if err != nil {
		t.Fatalf("Patterns failed: %v", err)
	}
	if len(patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(patterns))
	}
	if patterns[0].UsageCount != 2 {
		t.Errorf("expected usage_count 2, got %d", patterns[0].UsageCount)
	}
}

func TestMemoryPatternStoreBounded(t *testing.T) {
	store, err := NewMemoryPatternStore(2)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	ctx := context.Background()

	first := testPattern(0.9, fullCharacteristics(0.1))
	if err := store.Record(ctx, first); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Record(ctx, testPattern(0.9, fullCharacteristics(0.5))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Record(ctx, testPattern(0.9, fullCharacteristics(0.9))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if store.Len() != 2 {
		t.Errorf("expected store bounded at 2 patterns, got %d", store.Len())
	}

	patterns, err := store.Patterns(ctx)
	if err != nil {
		t.Fatalf("Patterns failed: %v", err)
	}
	for _, p := range patterns {
		if p.ID == first.ID {
			t.Error("expected the oldest pattern to be evicted")
		}
	}
}

func TestMemoryPatternStoreDefaultCapacity(t *testing.T) {
	store, err := NewMemoryPatternStore(0)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	if err := store.Record(context.Background(), testPattern(0.9, fullCharacteristics(0.5))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 pattern, got %d", store.Len())
	}
}

func TestNoopPatternStore(t *testing.T) {
	store := NoopPatternStore{}
	ctx := context.Background()

	if err := store.Record(ctx, testPattern(1.0, fullCharacteristics(0.5))); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	boost, err := store.Boost(ctx, queryIndicators(0.5))
	if err != nil {
		t.Fatalf("Boost failed: %v", err)
	}
	if boost != 0 {
		t.Errorf("expected zero boost from noop store, got %.2f", boost)
	}

	patterns, err := store.Patterns(ctx)
	if err != nil {
		t.Fatalf("Patterns failed: %v", err)
	}
	if len(patterns) != 0 {
		t.Errorf("expected no patterns, got %d", len(patterns))
	}
}

func TestComputeBoostEmptyCharacteristics(t *testing.T) {
	pattern := testPattern(1.0, map[string]float64{})

	boost, matched := ComputeBoost([]DiscoveredPattern{pattern}, queryIndicators(0.5))
	if boost != 0 {
		t.Errorf("expected no boost for empty characteristics, got %.2f", boost)
	}
	if len(matched) != 0 {
		t.Errorf("expected no matches, got %d", len(matched))
	}
}
