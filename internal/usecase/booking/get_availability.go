package booking

import (
	"context"
	"time"

	"github.com/clippr-app/clippr-api/internal/cache"
	domain "github.com/clippr-app/clippr-api/internal/domain/booking"
	"github.com/clippr-app/clippr-api/internal/httperr"
	"github.com/clippr-app/clippr-api/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	cache *cache.Availability
	now   func(tz string) time.Time
}

func NewGetAvailability(
	repo domain.Repository,
	availCache *cache.Availability,
) *GetAvailability {
	return &GetAvailability{
		repo:  repo,
		cache: availCache,
		now:   timezone.NowIn,
	}
}

// Execute devolve os slots livres de (barbeiro, serviço, data). Lista vazia é
// resposta válida. O resultado vai para o cache com TTL curto: defasagem aqui
// só afeta sugestão; a confirmação sempre recheca o banco.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, err
	}

	barber, err := uc.repo.GetBarber(ctx, in.BarberID)
	if err != nil || barber.BarbershopID != shop.ID {
		return nil, httperr.ErrBusiness("barber_not_found")
	}

	service, err := uc.repo.GetService(ctx, shop.ID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	dateKey := in.Date.Format("2006-01-02")
	if slots, ok := uc.cache.Get(ctx, barber.ID, service.ID, dateKey); ok {
		return slots, nil
	}

	schedule, err := uc.repo.GetWeekSchedule(ctx, barber.ID)
	if err != nil {
		return nil, err
	}

	candidates, err := domain.GenerateSlots(domain.GenerateInput{
		Schedule:    schedule,
		ServiceID:   service.ID,
		Date:        in.Date,
		DurationMin: service.DurationMin,
		StepMin:     shop.SlotStepMinutes,
		MinLeadMin:  minLeadMinutes(shop),
		Now:         uc.now(shop.Timezone),
	})
	if err != nil {
		return nil, err
	}

	out := []domain.TimeSlot{}
	if len(candidates) > 0 {
		dayStart := time.Date(
			in.Date.Year(), in.Date.Month(), in.Date.Day(),
			0, 0, 0, 0,
			in.Date.Location(),
		)
		dayEnd := dayStart.Add(24 * time.Hour)

		reserved, err := uc.repo.ListReservationsForDay(ctx, barber.ID, dayStart, dayEnd)
		if err != nil {
			return nil, err
		}

		// candidatos e reservas vêm ordenados por início
		resIdx := 0
		for _, slot := range candidates {
			for resIdx < len(reserved) && !reserved[resIdx].EndTime.After(slot.Start) {
				resIdx++
			}

			if resIdx < len(reserved) && domain.Overlaps(
				slot.Start, slot.End,
				reserved[resIdx].StartTime, reserved[resIdx].EndTime,
			) {
				continue
			}

			out = append(out, domain.TimeSlot{
				Start: slot.Start.Format("15:04"),
				End:   slot.End.Format("15:04"),
			})
		}
	}

	uc.cache.Set(ctx, barber.ID, service.ID, dateKey, out)
	return out, nil
}
