package service

import (
	"wanderstay/internal/entities"
	"wanderstay/internal/repository"
)

// AdminService backs the platform verification screens: reservation
// oversight plus the verified flags the availability engine reads.
type AdminService struct {
	catalogRepo     *repository.CatalogRepository
	reservationRepo *repository.ReservationRepository
}

func NewAdminService(catalogRepo *repository.CatalogRepository, reservationRepo *repository.ReservationRepository) *AdminService {
	return &AdminService{
		catalogRepo:     catalogRepo,
		reservationRepo: reservationRepo,
	}
}

func (s *AdminService) ListReservations(date, kind, status string, limit, offset int) (*entities.ReservationsList, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.reservationRepo.List(date, kind, status, limit, offset)
}

func (s *AdminService) SetHotelVerified(id int, verified bool) error {
	return s.catalogRepo.SetHotelVerified(id, verified)
}

func (s *AdminService) SetGuideVerified(id int, verified bool) error {
	return s.catalogRepo.SetGuideVerified(id, verified)
}
