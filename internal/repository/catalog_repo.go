package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"wanderstay/internal/db"
)

// CatalogRepository looks up bookable resources. Lookups return (nil, nil)
// when the resource does not exist.
type CatalogRepository struct {
	DB *sql.DB
}

func NewCatalogRepository(database *sql.DB) *CatalogRepository {
	return &CatalogRepository{DB: database}
}

func (r *CatalogRepository) GuideByID(id int) (*db.Guide, error) {
	var g db.Guide
	err := r.DB.QueryRow(`
		SELECT id, user_id, name, city, charge, verified, active, created_at
		FROM guides WHERE id = $1`, id).
		Scan(&g.ID, &g.UserID, &g.Name, &g.City, &g.Charge, &g.Verified, &g.Active, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying guide %d: %w", id, err)
	}
	return &g, nil
}

func (r *CatalogRepository) HotelByID(id int) (*db.Hotel, error) {
	var h db.Hotel
	err := r.DB.QueryRow(`
		SELECT id, user_id, name, city, total_rooms, nightly_rate, verified, sold_out, created_at
		FROM hotels WHERE id = $1`, id).
		Scan(&h.ID, &h.UserID, &h.Name, &h.City, &h.TotalRooms, &h.NightlyRate, &h.Verified, &h.SoldOut, &h.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying hotel %d: %w", id, err)
	}
	return &h, nil
}

func (r *CatalogRepository) SetHotelSoldOut(id int, soldOut bool) error {
	_, err := r.DB.Exec(`UPDATE hotels SET sold_out = $2 WHERE id = $1`, id, soldOut)
	if err != nil {
		return fmt.Errorf("error updating sold_out for hotel %d: %w", id, err)
	}
	return nil
}

func (r *CatalogRepository) SetHotelVerified(id int, verified bool) error {
	result, err := r.DB.Exec(`UPDATE hotels SET verified = $2 WHERE id = $1`, id, verified)
	if err != nil {
		return fmt.Errorf("error updating verified for hotel %d: %w", id, err)
	}
	return requireRow(result, "hotel", id)
}

func (r *CatalogRepository) SetGuideVerified(id int, verified bool) error {
	result, err := r.DB.Exec(`UPDATE guides SET verified = $2 WHERE id = $1`, id, verified)
	if err != nil {
		return fmt.Errorf("error updating verified for guide %d: %w", id, err)
	}
	return requireRow(result, "guide", id)
}

func requireRow(result sql.Result, kind string, id int) error {
	n, err := result.RowsAffected()
	if err != nil {
		return nil
	}
	if n == 0 {
		return fmt.Errorf("%s %d not found", kind, id)
	}
	return nil
}
