package repository

import (
	"database/sql"
	"fmt"
)

// SnapshotRepository persists serialized cache grids so a restarted service
// can warm its cache without refetching every hour from upstream.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Save upserts one serialized grid for (species, hour).
func (r *SnapshotRepository) Save(species string, hour int, grid []byte) error {
	query := `
		INSERT INTO grid_snapshots (species, hour, grid, saved_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (species, hour) DO UPDATE SET
			grid = excluded.grid,
			saved_at = excluded.saved_at
	`
	if _, err := r.db.Exec(query, species, hour, grid); err != nil {
		return fmt.Errorf("failed to save grid snapshot: %w", err)
	}
	return nil
}

// LoadAll streams every stored snapshot to the visit callback.
func (r *SnapshotRepository) LoadAll(visit func(species string, hour int, grid []byte)) error {
	rows, err := r.db.Query("SELECT species, hour, grid FROM grid_snapshots")
	if err != nil {
		return fmt.Errorf("failed to query grid snapshots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var species string
		var hour int
		var grid []byte
		if err := rows.Scan(&species, &hour, &grid); err != nil {
			return fmt.Errorf("failed to scan grid snapshot: %w", err)
		}
		visit(species, hour, grid)
	}
	return rows.Err()
}

// DeleteStale removes snapshots saved before the cutoff, keeping the store
// from accumulating hours no session will replay.
func (r *SnapshotRepository) DeleteStale(cutoff string) error {
	if _, err := r.db.Exec("DELETE FROM grid_snapshots WHERE saved_at < ?", cutoff); err != nil {
		return fmt.Errorf("failed to delete stale snapshots: %w", err)
	}
	return nil
}
