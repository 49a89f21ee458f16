package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"wanderstay/internal/db"
	"wanderstay/internal/entities"
)

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(database *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: database}
}

const reservationColumns = `id, code, resource_kind, resource_id, user_id, start_date, end_date, rooms,
		amount, status, payment_confirmed, stripe_session_id, payment_status,
		user_name, user_email, user_phone, language, created_at, updated_at`

func scanReservation(row interface{ Scan(...interface{}) error }) (*db.Reservation, error) {
	var res db.Reservation
	err := row.Scan(
		&res.ID, &res.Code, &res.ResourceKind, &res.ResourceID, &res.UserID,
		&res.StartDate, &res.EndDate, &res.Rooms,
		&res.Amount, &res.Status, &res.PaymentConfirmed, &res.StripeSessionID, &res.PaymentStatus,
		&res.UserName, &res.UserEmail, &res.UserPhone, &res.Language,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// FindOverlapping returns the payment-confirmed reservations on a resource
// whose inclusive date range shares at least one day with [start, end],
// ordered by start date. Two ranges overlap iff s1 <= e2 AND s2 <= e1; this
// single test covers the starts-during, ends-during, encompasses and
// encompassed-by cases.
func (r *ReservationRepository) FindOverlapping(kind string, resourceID int, start, end time.Time) ([]db.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE resource_kind = $1
		  AND resource_id = $2
		  AND payment_confirmed
		  AND start_date <= $4
		  AND end_date >= $3
		ORDER BY start_date`

	rows, err := r.DB.Query(query, kind, resourceID, start, end)
	if err != nil {
		return nil, fmt.Errorf("error querying overlapping reservations: %w", err)
	}
	defer rows.Close()

	var reservations []db.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		reservations = append(reservations, *res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservations: %w", err)
	}
	return reservations, nil
}

func (r *ReservationRepository) Create(res *db.Reservation) error {
	query := `
		INSERT INTO reservations
		(code, resource_kind, resource_id, user_id, start_date, end_date, rooms,
		 amount, status, payment_confirmed, stripe_session_id, payment_status,
		 user_name, user_email, user_phone, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRow(query,
		res.Code,
		res.ResourceKind,
		res.ResourceID,
		res.UserID,
		res.StartDate,
		res.EndDate,
		res.Rooms,
		res.Amount,
		res.Status,
		res.PaymentConfirmed,
		res.StripeSessionID,
		res.PaymentStatus,
		res.UserName,
		res.UserEmail,
		res.UserPhone,
		res.Language,
		res.CreatedAt,
		res.UpdatedAt,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

func (r *ReservationRepository) ByCode(code string) (*db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE code = $1`
	res, err := scanReservation(r.DB.QueryRow(query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying reservation by code: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) BySessionID(sessionID string) (*db.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE stripe_session_id = $1`
	res, err := scanReservation(r.DB.QueryRow(query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying reservation by session id: %w", err)
	}
	return res, nil
}

// SetPaymentConfirmed flips payment_confirmed and moves the reservation to
// the given status. Dates, rooms and amount are immutable after creation.
func (r *ReservationRepository) SetPaymentConfirmed(id int, status, paymentStatus string) error {
	query := `
		UPDATE reservations
		SET payment_confirmed = TRUE, status = $2, payment_status = $3, updated_at = NOW()
		WHERE id = $1`
	_, err := r.DB.Exec(query, id, status, paymentStatus)
	if err != nil {
		return fmt.Errorf("error confirming payment for reservation %d: %w", id, err)
	}
	return nil
}

func (r *ReservationRepository) SetStatus(id int, status, paymentStatus string) error {
	query := `UPDATE reservations SET status = $2, payment_status = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.DB.Exec(query, id, status, paymentStatus)
	if err != nil {
		return fmt.Errorf("error updating status for reservation %d: %w", id, err)
	}
	return nil
}

// List returns a page of reservations for the admin screens, newest first.
func (r *ReservationRepository) List(date, kind, status string, limit, offset int) (*entities.ReservationsList, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	idx := 1

	if date != "" {
		where += " AND start_date <= $" + strconv.Itoa(idx) + " AND end_date >= $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if kind != "" {
		where += " AND resource_kind = $" + strconv.Itoa(idx)
		args = append(args, kind)
		idx++
	}
	if status != "" {
		where += " AND status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}

	var total int64
	if err := r.DB.QueryRow("SELECT COUNT(*) FROM reservations"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("error counting reservations: %w", err)
	}

	query := "SELECT " + reservationColumns + " FROM reservations" + where +
		" ORDER BY start_date DESC LIMIT $" + strconv.Itoa(idx) + " OFFSET $" + strconv.Itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing reservations: %w", err)
	}
	defer rows.Close()

	list := &entities.ReservationsList{Total: total, Limit: limit, Offset: offset}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		list.Reservations = append(list.Reservations, entities.NewReservationResponse(res))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservations: %w", err)
	}
	return list, nil
}
