// Package storage provides SQLite-backed pattern persistence.
//
// Information Hiding:
// - SQLite connection management hidden behind swarm.PatternStore
// - Schema and serialization details encapsulated
// - Thread-safe via sql.DB's built-in connection pooling

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/X10NLUN1X/xionimus/model"
	"github.com/X10NLUN1X/xionimus/swarm"
)

// SqlitePatternStore implements swarm.PatternStore on a SQLite database,
// persisting discovered patterns across process restarts.
type SqlitePatternStore struct {
	db *sql.DB
}

// OpenSqlite opens or creates a SQLite database at the given path.
// Creates parent directories if they don't exist.
func OpenSqlite(path string) (*SqlitePatternStore, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	store := &SqlitePatternStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// NewSqliteInMemory creates an in-memory database (useful for testing).
func NewSqliteInMemory() (*SqlitePatternStore, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite: %w", err)
	}

	store := &SqlitePatternStore{db: db}
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SqlitePatternStore) Close() error {
	return s.db.Close()
}

func (s *SqlitePatternStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS patterns (
			id TEXT PRIMARY KEY,
			success_rate REAL NOT NULL,
			agent_combination TEXT NOT NULL,
			mode TEXT NOT NULL DEFAULT 'sequential',
			task_characteristics TEXT NOT NULL,
			performance_metrics TEXT NOT NULL,
			discovered_at INTEGER NOT NULL,
			usage_count INTEGER DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_patterns_discovered
		ON patterns(discovered_at DESC);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Boost sums contributions from stored patterns matching the indicator
// vector and bumps the usage count of every pattern that matched.
func (s *SqlitePatternStore) Boost(ctx context.Context, indicators map[string]float64) (float64, error) {
	patterns, err := s.Patterns(ctx)
	if err != nil {
		return 0, err
	}

	boost, matched := swarm.ComputeBoost(patterns, indicators)
	if len(matched) == 0 {
		return boost, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	// Rollback is a no-op after Commit
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"UPDATE patterns SET usage_count = usage_count + 1 WHERE id = ?")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare usage update: %w", err)
	}
	defer stmt.Close()

	for _, id := range matched {
		if _, err := stmt.ExecContext(ctx, id.String()); err != nil {
			return 0, fmt.Errorf("failed to update usage count: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return boost, nil
}

// Record stores a discovered pattern. Recording the same pattern ID again
// replaces the previous row.
func (s *SqlitePatternStore) Record(ctx context.Context, pattern swarm.DiscoveredPattern) error {
	combination, err := json.Marshal(pattern.AgentCombination)
	if err != nil {
		return fmt.Errorf("failed to encode agent combination: %w", err)
	}
	characteristics, err := json.Marshal(pattern.TaskCharacteristics)
	if err != nil {
		return fmt.Errorf("failed to encode task characteristics: %w", err)
	}
	metrics, err := json.Marshal(pattern.PerformanceMetrics)
	if err != nil {
		return fmt.Errorf("failed to encode performance metrics: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO patterns
		(id, success_rate, agent_combination, mode, task_characteristics, performance_metrics, discovered_at, usage_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		pattern.ID.String(),
		pattern.SuccessRate,
		string(combination),
		pattern.Mode.String(),
		string(characteristics),
		string(metrics),
		pattern.DiscoveredAt.Unix(),
		pattern.UsageCount,
	)
	if err != nil {
		return fmt.Errorf("failed to store pattern: %w", err)
	}

	return nil
}

// Patterns returns all stored patterns, newest first.
func (s *SqlitePatternStore) Patterns(ctx context.Context) ([]swarm.DiscoveredPattern, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, success_rate, agent_combination, mode, task_characteristics, performance_metrics, discovered_at, usage_count
		FROM patterns
		ORDER BY discovered_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer rows.Close()

	patterns := []swarm.DiscoveredPattern{} // Start with empty slice, not nil
	for rows.Next() {
		pattern, err := scanPatternRow(rows)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, pattern)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating patterns: %w", err)
	}

	return patterns, nil
}

// Prune deletes the lowest-value patterns until at most keep rows remain.
// Value order is usage count, then recency.
func (s *SqlitePatternStore) Prune(ctx context.Context, keep int) error {
	if keep < 0 {
		keep = 0
	}

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM patterns WHERE id NOT IN (
			SELECT id FROM patterns
			ORDER BY usage_count DESC, discovered_at DESC
			LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("failed to prune patterns: %w", err)
	}
	return nil
}

// scanPatternRow scans a single pattern row from the result set.
func scanPatternRow(rows *sql.Rows) (swarm.DiscoveredPattern, error) {
	var (
		idStr           string
		combination     string
		modeStr         string
		characteristics string
		metrics         string
		discoveredAt    int64
		pattern         swarm.DiscoveredPattern
	)

	err := rows.Scan(
		&idStr,
		&pattern.SuccessRate,
		&combination,
		&modeStr,
		&characteristics,
		&metrics,
		&discoveredAt,
		&pattern.UsageCount,
	)
	if err != nil {
		return swarm.DiscoveredPattern{}, fmt.Errorf("failed to scan pattern: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		// Invalid ID in the database indicates corruption; do not default.
		return swarm.DiscoveredPattern{}, fmt.Errorf("invalid pattern id %q in database: %w", idStr, err)
	}
	pattern.ID = id

	mode, err := model.ParseCollaborationMode(modeStr)
	if err != nil {
		return swarm.DiscoveredPattern{}, fmt.Errorf("invalid pattern mode %q in database: %w", modeStr, err)
	}
	pattern.Mode = mode
	pattern.DiscoveredAt = time.Unix(discoveredAt, 0)

	if err := json.Unmarshal([]byte(combination), &pattern.AgentCombination); err != nil {
		return swarm.DiscoveredPattern{}, fmt.Errorf("failed to decode agent combination: %w", err)
	}
	if err := json.Unmarshal([]byte(characteristics), &pattern.TaskCharacteristics); err != nil {
		return swarm.DiscoveredPattern{}, fmt.Errorf("failed to decode task characteristics: %w", err)
	}
	if err := json.Unmarshal([]byte(metrics), &pattern.PerformanceMetrics); err != nil {
		return swarm.DiscoveredPattern{}, fmt.Errorf("failed to decode performance metrics: %w", err)
	}

	return pattern, nil
}

// Verify SqlitePatternStore implements the pattern store interface
var _ swarm.PatternStore = (*SqlitePatternStore)(nil)
