package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clippr-app/clippr-api/internal/audit"
	"github.com/clippr-app/clippr-api/internal/cache"
	domain "github.com/clippr-app/clippr-api/internal/domain/booking"
	"github.com/clippr-app/clippr-api/internal/httperr"
	"github.com/clippr-app/clippr-api/internal/models"
	"github.com/clippr-app/clippr-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BookInput struct {
	CustomerID uint
	BarberID   uint
	ServiceID  uint

	Date  string // 2006-01-02
	Time  string // 15:04
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

// BookSlot é a fronteira transacional da reserva: revalida o slot contra o
// estado atual (o cliente pode ter buscado a lista horas antes) e confirma ou
// rejeita dentro de uma única transação.
type BookSlot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache *cache.Availability

	now   func(tz string) time.Time
	sleep func(d time.Duration)
}

func NewBookSlot(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	availCache *cache.Availability,
) *BookSlot {
	return &BookSlot{
		repo:  repo,
		audit: auditDispatcher,
		cache: availCache,
		now:   timezone.NowIn,
		sleep: time.Sleep,
	}
}

const (
	maxTxAttempts            = 3
	txRetryBackoff           = 50 * time.Millisecond
	defaultMinAdvanceMinutes = 60
)

// minLeadMinutes resolve a antecedência mínima da barbearia. Zero é
// configuração válida (reserva em cima da hora) e tem de valer igual na
// listagem de disponibilidade e na confirmação, senão a lista oferece
// horários que a reserva rejeita. O padrão cobre só valores corrompidos.
func minLeadMinutes(shop *models.Barbershop) int {
	if shop.MinAdvanceMinutes < 0 {
		return defaultMinAdvanceMinutes
	}
	return shop.MinAdvanceMinutes
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookSlot) Execute(
	ctx context.Context,
	in BookInput,
) (*models.Reservation, error) {

	// --------------------------------------------------
	// Catálogo
	// --------------------------------------------------
	barber, err := uc.repo.GetBarber(ctx, in.BarberID)
	if err != nil {
		return nil, httperr.ErrBusiness("barber_not_found")
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, barber.BarbershopID)
	if err != nil {
		return nil, err
	}

	service, err := uc.repo.GetService(ctx, shop.ID, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	if service.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("invalid_service")
	}

	// --------------------------------------------------
	// Data/hora no timezone da barbearia
	// --------------------------------------------------
	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(shop.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	end := start.Add(time.Duration(service.DurationMin) * time.Minute)

	// --------------------------------------------------
	// Antecedência mínima
	// --------------------------------------------------
	now := uc.now(shop.Timezone)
	if start.Before(now.Add(time.Duration(minLeadMinutes(shop)) * time.Minute)) {
		return nil, domain.ErrSlotUnavailable
	}

	// --------------------------------------------------
	// Expediente efetivo (folga > semana)
	// --------------------------------------------------
	schedule, err := uc.repo.GetWeekSchedule(ctx, barber.ID)
	if err != nil {
		return nil, err
	}

	hours, err := schedule.EffectiveHours(start)
	if err != nil {
		return nil, err
	}
	if hours.Closed {
		return nil, domain.ErrSlotUnavailable
	}

	dayOpen, err := domain.ClockOn(hours.Open, start)
	if err != nil {
		return nil, domain.ErrInvalidSchedule
	}
	dayClose, err := domain.ClockOn(hours.Close, start)
	if err != nil {
		return nil, domain.ErrInvalidSchedule
	}
	if start.Before(dayOpen) || end.After(dayClose) {
		return nil, domain.ErrSlotUnavailable
	}

	// --------------------------------------------------
	// Checagem de conflito + insert na mesma transação.
	// Falha de serialização/deadlock é disputa legítima: retenta; a
	// constraint de exclusão no banco segura o que escapar da checagem.
	// --------------------------------------------------
	var created models.Reservation
	var txErr error

	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		txErr = uc.repo.InTx(ctx, func(tx domain.Repository) error {
			if err := tx.AssertNoOverlap(ctx, barber.ID, start, end, 0); err != nil {
				return err
			}

			res := models.Reservation{
				Code:         uuid.NewString(),
				BarbershopID: shop.ID,
				BarberID:     barber.ID,
				ServiceID:    service.ID,
				CustomerID:   in.CustomerID,
				StartTime:    start,
				EndTime:      end,
				DurationMin:  service.DurationMin,
				Price:        service.Price,
				Status:       string(domain.InitialStatus()),
				Notes:        in.Notes,
			}

			if err := tx.CreateReservation(ctx, &res); err != nil {
				return err
			}

			created = res
			return nil
		})

		if txErr == nil {
			break
		}

		if httperr.IsExclusionConflict(txErr) {
			txErr = domain.ErrSlotConflict
		}
		if _, ok := httperr.AsBusiness(txErr); ok {
			break
		}

		if attempt < maxTxAttempts {
			uc.sleep(txRetryBackoff << uint(attempt-1))
		}
	}

	if txErr != nil {
		if httperr.IsSerializationFailure(txErr) {
			txErr = domain.ErrSlotConflict
		}
		if _, ok := httperr.AsBusiness(txErr); !ok {
			txErr = domain.ErrStoreUnavailable
		}

		if httperr.IsBusiness(txErr, "slot_conflict") {
			uc.audit.Dispatch(audit.Event{
				BarbershopID: shop.ID,
				UserID:       &in.CustomerID,
				Action:       "reservation_conflict",
				Entity:       "reservation",
				Metadata: map[string]any{
					"barber_id": barber.ID,
					"start":     start,
					"end":       end,
				},
			})
		}

		return nil, txErr
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		UserID:       &in.CustomerID,
		Action:       "reservation_created",
		Entity:       "reservation",
		EntityID:     &created.ID,
	})

	uc.cache.Invalidate(ctx, barber.ID, in.Date)

	return &created, nil
}
