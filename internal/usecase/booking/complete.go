package booking

import (
	"context"
	"time"

	"github.com/clippr-app/clippr-api/internal/audit"
	domain "github.com/clippr-app/clippr-api/internal/domain/booking"
	"github.com/clippr-app/clippr-api/internal/httperr"
	"github.com/clippr-app/clippr-api/internal/models"
	"github.com/clippr-app/clippr-api/internal/timezone"
)

type CompleteReservation struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func(tz string) time.Time
}

func NewCompleteReservation(
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
) *CompleteReservation {
	return &CompleteReservation{
		repo:  repo,
		audit: auditDispatcher,
		now:   timezone.NowIn,
	}
}

// Execute marca o atendimento como realizado. Só a barbearia dona da agenda
// pode concluir.
func (uc *CompleteReservation) Execute(
	ctx context.Context,
	reservationID uint,
	actor Actor,
) (*models.Reservation, error) {

	res, err := uc.repo.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, httperr.ErrBusiness("reservation_not_found")
	}

	if actor.Role != models.RoleOwner || !actor.mayManage(res) {
		return nil, httperr.ErrBusiness("forbidden")
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, res.BarbershopID)
	if err != nil {
		return nil, err
	}

	now := uc.now(shop.Timezone)

	// Mesma disciplina do cancelamento: transição de status só com a linha
	// travada na transação.
	err = uc.repo.InTx(ctx, func(tx domain.Repository) error {
		fresh, err := tx.LockReservation(ctx, reservationID)
		if err != nil {
			return err
		}

		if err := domain.Complete(fresh, now); err != nil {
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
		Action:       "reservation_completed",
		Entity:       "reservation",
		EntityID:     &res.ID,
	})

	return res, nil
}
