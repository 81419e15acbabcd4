package booking

import (
	"context"

	domain "github.com/clippr-app/clippr-api/internal/domain/booking"
	"github.com/clippr-app/clippr-api/internal/models"
)

type ListCustomerReservations struct {
	repo domain.Repository
}

func NewListCustomerReservations(repo domain.Repository) *ListCustomerReservations {
	return &ListCustomerReservations{repo: repo}
}

func (uc *ListCustomerReservations) Execute(
	ctx context.Context,
	customerID uint,
) ([]models.Reservation, error) {
	return uc.repo.ListReservationsForCustomer(ctx, customerID)
}
