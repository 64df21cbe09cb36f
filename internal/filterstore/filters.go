package filterstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/roach88/catalogsync/internal/filter"
)

// Filter returns the selections of (cityID, categoryID). Results are ordered
// by component ID. A pair never written to yields an empty state.
func (s *Store) Filter(ctx context.Context, cityID, categoryID int64) (filter.State, error) {
	key := filter.Key{CityID: cityID, CategoryID: categoryID}
	ids, err := s.Components(ctx, key)
	if err != nil {
		return filter.State{}, fmt.Errorf("read filter: %w", err)
	}
	return filter.State{Key: key, Components: ids}, nil
}

// Components lists the selected component IDs of key in ascending order.
//
// Returns an empty slice (not nil) if nothing is selected.
func (s *Store) Components(ctx context.Context, key filter.Key) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT component_id
		FROM filter_components
		WHERE city_id = ? AND category_id = ?
		ORDER BY component_id ASC
	`, key.CityID, key.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("query components: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate components: %w", err)
	}
	return ids, nil
}

// Empty removes the filter of state's pair together with its selections.
// Emptying a pair that has no filter is a no-op.
func (s *Store) Empty(ctx context.Context, state filter.State) error {
	_, err := s.Remove(ctx, state.Key)
	return err
}

// Remove deletes the filter of key's pair together with its selections and
// reports whether there was one.
func (s *Store) Remove(ctx context.Context, key filter.Key) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM filters
		WHERE city_id = ? AND category_id = ?
	`, key.CityID, key.CategoryID)
	if err != nil {
		return false, fmt.Errorf("empty filter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("empty filter: rows affected: %w", err)
	}

	slog.Debug("filter emptied",
		"city", key.CityID,
		"category", key.CategoryID,
		"removed", n > 0,
	)
	return n > 0, nil
}

// Toggle flips the selection of componentID and returns whether it is now
// selected. The read and the write run in one transaction.
func (s *Store) Toggle(ctx context.Context, key filter.Key, componentID int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("toggle: begin: %w", err)
	}
	defer tx.Rollback()

	selected, err := selected(ctx, tx, key, componentID)
	if err != nil {
		return false, fmt.Errorf("toggle: %w", err)
	}

	if selected {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM filter_components
			WHERE city_id = ? AND category_id = ? AND component_id = ?
		`, key.CityID, key.CategoryID, componentID)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO filters (city_id, category_id)
			VALUES (?, ?)
			ON CONFLICT DO NOTHING
		`, key.CityID, key.CategoryID)
		if err == nil {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO filter_components (city_id, category_id, component_id)
				VALUES (?, ?, ?)
			`, key.CityID, key.CategoryID, componentID)
		}
	}
	if err != nil {
		return false, fmt.Errorf("toggle: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("toggle: commit: %w", err)
	}
	return !selected, nil
}

// Selected reports whether componentID is selected for key.
func (s *Store) Selected(ctx context.Context, key filter.Key, componentID int64) (bool, error) {
	ok, err := selected(ctx, s.db, key, componentID)
	if err != nil {
		return false, fmt.Errorf("selected: %w", err)
	}
	return ok, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func selected(ctx context.Context, q querier, key filter.Key, componentID int64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `
		SELECT 1 FROM filter_components
		WHERE city_id = ? AND category_id = ? AND component_id = ?
	`, key.CityID, key.CategoryID, componentID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query selection: %w", err)
	}
	return true, nil
}
