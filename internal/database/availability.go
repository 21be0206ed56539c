package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fadebook/internal/models"
)

// GetWeeklyAvailability returns the weekday template in display order.
// An empty table yields the built-in default week.
func (db *DB) GetWeeklyAvailability(ctx context.Context) ([]models.WeeklyAvailability, error) {
	query := `SELECT day, label, active, ranges FROM weekly_availability ORDER BY position ASC`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly availability: %w", err)
	}
	defer rows.Close()

	var weekly []models.WeeklyAvailability
	for rows.Next() {
		var (
			day    models.WeeklyAvailability
			ranges string
		)
		if err := rows.Scan(&day.Day, &day.Label, &day.Active, &ranges); err != nil {
			return nil, fmt.Errorf("failed to scan weekly availability: %w", err)
		}
		if err := json.Unmarshal([]byte(ranges), &day.Ranges); err != nil {
			return nil, fmt.Errorf("failed to unmarshal ranges for day %d: %w", day.Day, err)
		}
		weekly = append(weekly, day)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(weekly) == 0 {
		return models.DefaultWeeklyAvailability(), nil
	}
	return weekly, nil
}

// SaveWeeklyAvailability replaces the whole weekday template atomically.
func (db *DB) SaveWeeklyAvailability(ctx context.Context, weekly []models.WeeklyAvailability) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_availability`); err != nil {
		return fmt.Errorf("failed to clear weekly availability: %w", err)
	}

	query := `INSERT INTO weekly_availability (day, label, active, ranges, position) VALUES (?, ?, ?, ?, ?)`
	for pos, day := range weekly {
		ranges, err := json.Marshal(day.Ranges)
		if err != nil {
			return fmt.Errorf("failed to marshal ranges for day %d: %w", day.Day, err)
		}
		if _, err := tx.ExecContext(ctx, query, day.Day, day.Label, day.Active, string(ranges), pos); err != nil {
			return fmt.Errorf("failed to insert weekly availability: %w", err)
		}
	}

	return tx.Commit()
}

// GetDateOverride returns the override for a date, or nil when none exists.
func (db *DB) GetDateOverride(ctx context.Context, date string) (*models.DateOverride, error) {
	query := `SELECT date, active, ranges FROM date_overrides WHERE date = ?`
	var (
		override models.DateOverride
		ranges   string
	)
	err := db.QueryRowContext(ctx, query, date).Scan(&override.Date, &override.Active, &ranges)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get date override: %w", err)
	}
	if err := json.Unmarshal([]byte(ranges), &override.Ranges); err != nil {
		return nil, fmt.Errorf("failed to unmarshal override ranges: %w", err)
	}
	return &override, nil
}

// SaveDateOverride inserts or replaces the override for one date.
func (db *DB) SaveDateOverride(ctx context.Context, override *models.DateOverride) error {
	ranges, err := json.Marshal(override.Ranges)
	if err != nil {
		return fmt.Errorf("failed to marshal override ranges: %w", err)
	}

	query := `INSERT INTO date_overrides (date, active, ranges, updated_at) VALUES (?, ?, ?, ?)
	          ON CONFLICT(date) DO UPDATE SET active = excluded.active, ranges = excluded.ranges, updated_at = excluded.updated_at`
	if _, err := db.ExecContext(ctx, query, override.Date, override.Active, string(ranges), time.Now()); err != nil {
		return fmt.Errorf("failed to save date override: %w", err)
	}
	return nil
}

// GetDateOverrides returns overrides keyed by date, limited to [from, to]
// when both bounds are set. Empty bounds return the full list.
func (db *DB) GetDateOverrides(ctx context.Context, from, to string) (map[string]*models.DateOverride, error) {
	query := `SELECT date, active, ranges FROM date_overrides`
	args := []any{}
	if from != "" && to != "" {
		query += ` WHERE date >= ? AND date <= ?`
		args = append(args, from, to)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get date overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[string]*models.DateOverride)
	for rows.Next() {
		var (
			override models.DateOverride
			ranges   string
		)
		if err := rows.Scan(&override.Date, &override.Active, &ranges); err != nil {
			return nil, fmt.Errorf("failed to scan date override: %w", err)
		}
		if err := json.Unmarshal([]byte(ranges), &override.Ranges); err != nil {
			return nil, fmt.Errorf("failed to unmarshal override ranges: %w", err)
		}
		o := override
		overrides[o.Date] = &o
	}
	return overrides, rows.Err()
}
