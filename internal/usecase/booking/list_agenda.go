package booking

import (
	"context"
	"time"

	domain "github.com/clippr-app/clippr-api/internal/domain/booking"
	"github.com/clippr-app/clippr-api/internal/dto"
	"github.com/clippr-app/clippr-api/internal/models"
	"github.com/clippr-app/clippr-api/internal/timezone"
)

// Listagens da agenda para o dashboard da barbearia.

type ListAgenda struct {
	repo domain.Repository
}

func NewListAgenda(repo domain.Repository) *ListAgenda {
	return &ListAgenda{repo: repo}
}

func (uc *ListAgenda) ByDate(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	date time.Time,
) ([]dto.ReservationListDTO, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	end := start.Add(24 * time.Hour)

	return uc.list(ctx, barberID, start, end)
}

func (uc *ListAgenda) ByMonth(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
	year int,
	month int,
) ([]dto.ReservationListDTO, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(shop.Timezone)
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	end := start.AddDate(0, 1, 0)

	return uc.list(ctx, barberID, start, end)
}

func (uc *ListAgenda) list(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]dto.ReservationListDTO, error) {

	reservations, err := uc.repo.ListReservationsForPeriod(ctx, barberID, start, end)
	if err != nil {
		return nil, err
	}

	return toListDTO(reservations), nil
}

func toListDTO(reservations []models.Reservation) []dto.ReservationListDTO {
	out := make([]dto.ReservationListDTO, 0, len(reservations))
	for _, res := range reservations {
		out = append(out, dto.ReservationListDTO{
			ID:           res.ID,
			Code:         res.Code,
			StartTime:    res.StartTime,
			EndTime:      res.EndTime,
			Status:       res.Status,
			CustomerName: res.Customer.Name,
			ServiceName:  res.Service.Name,
			Price:        res.Price,
		})
	}
	return out
}
