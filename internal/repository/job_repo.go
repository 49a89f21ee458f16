package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// ConfirmedReservationIDsPastEndDate returns confirmed reservations whose
// stay is over.
func (r *JobRepository) ConfirmedReservationIDsPastEndDate() ([]int, error) {
	query := `SELECT id FROM reservations WHERE status = 'confirmed' AND end_date < CURRENT_DATE`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("error querying confirmed reservations past end date: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning reservation id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

func (r *JobRepository) UpdateReservationStatuses(ids []int, newStatus string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = ANY($2)`
	result, err := r.DB.Exec(query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating reservation statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d reservations to '%s'", rowsAffected, newStatus)
	}
	return nil
}

// DeletePendingReservationsOlderThan purges never-paid holds. Pending
// reservations consume no capacity, so this is housekeeping only.
func (r *JobRepository) DeletePendingReservationsOlderThan(before time.Time) (int64, error) {
	result, err := r.DB.Exec(
		`DELETE FROM reservations WHERE status = 'pending' AND NOT payment_confirmed AND created_at < $1`,
		before)
	if err != nil {
		return 0, fmt.Errorf("error deleting old pending reservations: %w", err)
	}
	return result.RowsAffected()
}

// ReleaseSoldOutMarkers clears sold_out on hotels whose confirmed
// reservations no longer fill the house today.
func (r *JobRepository) ReleaseSoldOutMarkers() (int64, error) {
	query := `
		UPDATE hotels h
		SET sold_out = FALSE
		WHERE h.sold_out
		  AND h.total_rooms > (
			SELECT COALESCE(SUM(r.rooms), 0)
			FROM reservations r
			WHERE r.resource_kind = 'hotel'
			  AND r.resource_id = h.id
			  AND r.payment_confirmed
			  AND r.status = 'confirmed'
			  AND r.start_date <= CURRENT_DATE
			  AND r.end_date >= CURRENT_DATE)`
	result, err := r.DB.Exec(query)
	if err != nil {
		return 0, fmt.Errorf("error releasing sold out markers: %w", err)
	}
	return result.RowsAffected()
}
