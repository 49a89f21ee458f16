package service

import (
	"fmt"
	"log"
	"time"

	"wanderstay/internal/repository"
)

type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// UpdateFinishedReservations moves confirmed reservations whose stay is
// over to "finished".
func (s *JobService) UpdateFinishedReservations() error {
	reservationIDs, err := s.Repo.ConfirmedReservationIDsPastEndDate()
	if err != nil {
		return fmt.Errorf("cron job: failed to get confirmed reservations past end date: %w", err)
	}
	if len(reservationIDs) == 0 {
		return nil
	}

	log.Printf("Cron Job: marking %d reservations as 'finished'. IDs: %v", len(reservationIDs), reservationIDs)
	if err := s.Repo.UpdateReservationStatuses(reservationIDs, "finished"); err != nil {
		return fmt.Errorf("cron job: failed to update reservation statuses: %w", err)
	}
	return nil
}

// ReleaseSoldOutMarkers clears sold-out flags on hotels that have rooms
// again now that bookings have finished.
func (s *JobService) ReleaseSoldOutMarkers() error {
	n, err := s.Repo.ReleaseSoldOutMarkers()
	if err != nil {
		return fmt.Errorf("cron job: failed to release sold out markers: %w", err)
	}
	if n > 0 {
		log.Printf("Cron Job: released sold out marker on %d hotels", n)
	}
	return nil
}

// DeleteOldPendingReservations purges holds that were never paid.
func (s *JobService) DeleteOldPendingReservations(before time.Time) (int64, error) {
	return s.Repo.DeletePendingReservationsOlderThan(before)
}
