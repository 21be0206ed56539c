package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fadebook/internal/models"
	"fadebook/internal/schedule"
)

const bookingColumns = `id, date, start_time, end_time, service_id, extras, duration,
                 customer_name, customer_phone, note, status, created_at, updated_at, version`

// CreateBookingTx admits a booking atomically: the conflict check against
// every blocking booking of the day and the insert run in one transaction,
// so two requests for the same time cannot both pass the check. intervals
// are the resolved working ranges of the date; a candidate outside them is
// rejected with ErrNoCapacity, an overlap with ErrConflict.
func (db *DB) CreateBookingTx(ctx context.Context, booking *models.Booking, intervals []schedule.Interval) error {
	start, err := schedule.ToMinutes(booking.StartTime)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	occupied, err := blockingIntervalsTx(ctx, tx, booking.Date, 0)
	if err != nil {
		return err
	}

	if !schedule.Fits(intervals, nil, start, booking.Duration) {
		return ErrNoCapacity
	}
	candidate := schedule.Interval{Start: start, End: start + booking.Duration}
	for _, b := range occupied {
		if candidate.Overlaps(b) {
			return ErrConflict
		}
	}

	extras, err := json.Marshal(booking.Extras)
	if err != nil {
		return fmt.Errorf("failed to marshal extras: %w", err)
	}

	query := `INSERT INTO bookings (
				date, start_time, end_time, service_id, extras, duration,
				customer_name, customer_phone, note, status, created_at, updated_at, version
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := tx.ExecContext(ctx, query,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
		booking.ServiceID,
		string(extras),
		booking.Duration,
		booking.Customer.Name,
		booking.Customer.Phone,
		booking.Note,
		booking.Status,
		now,
		now,
		1,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	booking.Version = 1

	return tx.Commit()
}

// RescheduleBookingTx moves a booking to a new date and time. The conflict
// check skips the booking's own current record, so moving within the same
// day never collides with itself. The update is versioned; a stale version
// returns ErrConcurrentModification.
func (db *DB) RescheduleBookingTx(ctx context.Context, booking *models.Booking, fromVersion int64, intervals []schedule.Interval) error {
	start, err := schedule.ToMinutes(booking.StartTime)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	occupied, err := blockingIntervalsTx(ctx, tx, booking.Date, booking.ID)
	if err != nil {
		return err
	}

	if !schedule.Fits(intervals, nil, start, booking.Duration) {
		return ErrNoCapacity
	}
	candidate := schedule.Interval{Start: start, End: start + booking.Duration}
	for _, b := range occupied {
		if candidate.Overlaps(b) {
			return ErrConflict
		}
	}

	query := `UPDATE bookings SET date = ?, start_time = ?, end_time = ?, version = version + 1, updated_at = ?
	          WHERE id = ? AND version = ?`
	result, err := tx.ExecContext(ctx, query,
		booking.Date, booking.StartTime, booking.EndTime, time.Now(), booking.ID, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to reschedule booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}

	return tx.Commit()
}

// blockingIntervalsTx loads the occupied minute intervals of a date inside
// the given transaction. Records without a status count as blocking;
// records without an end time fall back to start plus duration.
func blockingIntervalsTx(ctx context.Context, tx *sql.Tx, date string, excludeID int64) ([]schedule.Interval, error) {
	query := `SELECT id, start_time, end_time, duration, status FROM bookings WHERE date = ?`
	rows, err := tx.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings for conflict check: %w", err)
	}
	defer rows.Close()

	var intervals []schedule.Interval
	for rows.Next() {
		var (
			id                 int64
			startTime, endTime string
			duration           int
			status             string
		)
		if err := rows.Scan(&id, &startTime, &endTime, &duration, &status); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		if id == excludeID && excludeID != 0 {
			continue
		}
		if !models.IsBlockingStatus(status) {
			continue
		}
		iv, err := occupiedInterval(startTime, endTime, duration)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, iv)
	}
	return intervals, rows.Err()
}

func occupiedInterval(startTime, endTime string, duration int) (schedule.Interval, error) {
	start, err := schedule.ToMinutes(startTime)
	if err != nil {
		return schedule.Interval{}, fmt.Errorf("stored start time: %w", err)
	}
	end := start + duration
	if endTime != "" {
		if end, err = schedule.ToMinutes(endTime); err != nil {
			return schedule.Interval{}, fmt.Errorf("stored end time: %w", err)
		}
	}
	return schedule.Interval{Start: start, End: end}, nil
}

// BlockingIntervals returns the occupied minute intervals of a date,
// optionally excluding one booking id.
func (db *DB) BlockingIntervals(ctx context.Context, date string, excludeID int64) ([]schedule.Interval, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	intervals, err := blockingIntervalsTx(ctx, tx, date, excludeID)
	if err != nil {
		return nil, err
	}
	return intervals, tx.Commit()
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	row := db.QueryRowContext(ctx, query, id)
	booking, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (db *DB) GetBookingsByDate(ctx context.Context, date string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE date = ? ORDER BY start_time ASC`
	return db.queryBookings(ctx, query, date)
}

func (db *DB) GetBookingsByDateRange(ctx context.Context, from, to string) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE date >= ? AND date <= ? ORDER BY date ASC, start_time ASC`
	return db.queryBookings(ctx, query, from, to)
}

func (db *DB) ListBookings(ctx context.Context) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY date ASC, start_time ASC`
	return db.queryBookings(ctx, query)
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (db *DB) UpdateBookingStatusWithVersion(ctx context.Context, id, fromVersion int64, status string) error {
	query := `UPDATE bookings SET status = ?, version = version + 1, updated_at = ? WHERE id = ? AND version = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id, fromVersion)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrConcurrentModification
	}
	return nil
}

func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanBooking(row scannable) (*models.Booking, error) {
	b := &models.Booking{}
	var extras string
	err := row.Scan(
		&b.ID, &b.Date, &b.StartTime, &b.EndTime, &b.ServiceID, &extras, &b.Duration,
		&b.Customer.Name, &b.Customer.Phone, &b.Note, &b.Status,
		&b.CreatedAt, &b.UpdatedAt, &b.Version,
	)
	if err != nil {
		return nil, err
	}
	if extras != "" {
		if err := json.Unmarshal([]byte(extras), &b.Extras); err != nil {
			return nil, fmt.Errorf("failed to unmarshal extras: %w", err)
		}
	}
	// Старые записи хранят только длительность, без времени окончания
	if b.EndTime == "" && b.Duration > 0 {
		start, err := schedule.ToMinutes(b.StartTime)
		if err == nil {
			if end, cerr := schedule.ToClock(start + b.Duration); cerr == nil {
				b.EndTime = end
			}
		}
	}
	return b, nil
}
