package booking

import (
	"context"
	"time"

	"github.com/clippr-app/clippr-api/internal/audit"
	"github.com/clippr-app/clippr-api/internal/cache"
	domain "github.com/clippr-app/clippr-api/internal/domain/booking"
	"github.com/clippr-app/clippr-api/internal/httperr"
	"github.com/clippr-app/clippr-api/internal/models"
	"github.com/clippr-app/clippr-api/internal/timezone"
)

// Actor identifica quem pediu a operação: o cliente dono da reserva ou a
// barbearia dona da agenda.
type Actor struct {
	UserID       uint
	Role         string
	BarbershopID uint
}

func (a Actor) mayManage(res *models.Reservation) bool {
	if a.Role == models.RoleOwner {
		return res.BarbershopID == a.BarbershopID
	}
	return res.CustomerID == a.UserID
}

type CancelReservation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	cache *cache.Availability
	now   func(tz string) time.Time
}

func NewCancelReservation(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	availCache *cache.Availability,
) *CancelReservation {
	return &CancelReservation{
		repo:  repo,
		audit: auditDispatcher,
		cache: availCache,
		now:   timezone.NowIn,
	}
}

func (uc *CancelReservation) Execute(
	ctx context.Context,
	reservationID uint,
	actor Actor,
) (*models.Reservation, error) {

	res, err := uc.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, httperr.ErrBusiness("reservation_not_found")
	}

	if !actor.mayManage(res) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, res.BarbershopID)
	if err != nil {
		return nil, err
	}

	now := uc.now(shop.Timezone)

	// Releitura com lock dentro da transação: dois cancelamentos, ou um
	// cancelamento disputando com a conclusão, não podem os dois passar
	// pela checagem de status.
	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		fresh, err := tx.LockReservation(ctx, reservationID)
		if err != nil {
			return err
		}

		if err := domain.Cancel(fresh, now); err != nil {
			return err
		}

		if err := tx.UpdateReservation(ctx, fresh); err != nil {
			return err
		}

		res = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: res.BarbershopID,
		UserID:       &actor.UserID,
		Action:       "reservation_cancelled",
		Entity:       "reservation",
		EntityID:     &res.ID,
	})

	day := res.StartTime.In(timezone.Location(shop.Timezone)).Format("2006-01-02")
	uc.cache.Invalidate(ctx, res.BarberID, day)

	return res, nil
}
