package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	domain "github.com/clippr-app/clippr-api/internal/domain/booking"
	"github.com/clippr-app/clippr-api/internal/httperr"
	"github.com/clippr-app/clippr-api/internal/models"
)

func reservationRepo(res *models.Reservation) *fakeRepo {
	return &fakeRepo{
		getReservationFn: func(_ context.Context, id uint) (*models.Reservation, error) {
			if id != res.ID {
				return nil, errors.New("record not found")
			}
			return res, nil
		},
		getBarbershopByIDFn: func(_ context.Context, id uint) (*models.Barbershop, error) {
			return &models.Barbershop{ID: id, Timezone: "UTC"}, nil
		},
		updateReservationFn: func(_ context.Context, _ *models.Reservation) error {
			return nil
		},
	}
}

func confirmedReservation() *models.Reservation {
	return &models.Reservation{
		ID:           5,
		BarbershopID: 1,
		BarberID:     7,
		CustomerID:   9,
		StartTime:    fixedNow.Add(48 * time.Hour),
		EndTime:      fixedNow.Add(48*time.Hour + 30*time.Minute),
		Status:       "confirmed",
	}
}

func newCancelUC(repo domain.Repository) *CancelReservation {
	uc := NewCancelReservation(repo, nil, nil)
	uc.now = func(string) time.Time { return fixedNow }
	return uc
}

func TestCancelByOwningCustomer(t *testing.T) {
	res := confirmedReservation()
	repo := reservationRepo(res)

	updated := false
	repo.updateReservationFn = func(_ context.Context, r *models.Reservation) error {
		updated = true
		if r.Status != "cancelled" {
			t.Errorf("persistiu status %s", r.Status)
		}
		return nil
	}

	uc := newCancelUC(repo)
	got, err := uc.Execute(context.Background(), 5, Actor{UserID: 9, Role: models.RoleCustomer})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !updated {
		t.Error("UpdateReservation não chamado")
	}
	if got.Status != "cancelled" || got.CancelledAt == nil {
		t.Errorf("reserva = status %s, CancelledAt %v", got.Status, got.CancelledAt)
	}
}

func TestCancelByShopOwner(t *testing.T) {
	res := confirmedReservation()
	uc := newCancelUC(reservationRepo(res))

	_, err := uc.Execute(context.Background(), 5, Actor{
		UserID: 2, Role: models.RoleOwner, BarbershopID: 1,
	})
	if err != nil {
		t.Fatalf("dono da barbearia deveria poder cancelar: %v", err)
	}
}

func TestCancelForbiddenForStrangers(t *testing.T) {
	res := confirmedReservation()
	uc := newCancelUC(reservationRepo(res))

	// outro cliente
	_, err := uc.Execute(context.Background(), 5, Actor{UserID: 99, Role: models.RoleCustomer})
	if !httperr.IsBusiness(err, "forbidden") {
		t.Errorf("outro cliente: err = %v, want forbidden", err)
	}

	// dono de outra barbearia
	_, err = uc.Execute(context.Background(), 5, Actor{
		UserID: 2, Role: models.RoleOwner, BarbershopID: 8,
	})
	if !httperr.IsBusiness(err, "forbidden") {
		t.Errorf("outra barbearia: err = %v, want forbidden", err)
	}
}

func TestCancelTwiceReportsAlreadyCancelled(t *testing.T) {
	res := confirmedReservation()
	res.Status = "cancelled"

	uc := newCancelUC(reservationRepo(res))
	_, err := uc.Execute(context.Background(), 5, Actor{UserID: 9, Role: models.RoleCustomer})
	if !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Errorf("err = %v, want ErrAlreadyCancelled", err)
	}
}

func TestCancelPastReservation(t *testing.T) {
	res := confirmedReservation()
	res.StartTime = fixedNow.Add(-time.Hour)

	uc := newCancelUC(reservationRepo(res))
	_, err := uc.Execute(context.Background(), 5, Actor{UserID: 9, Role: models.RoleCustomer})
	if !errors.Is(err, domain.ErrAlreadyPast) {
		t.Errorf("err = %v, want ErrAlreadyPast", err)
	}
}

func TestCancelUnknownReservation(t *testing.T) {
	uc := newCancelUC(reservationRepo(confirmedReservation()))

	_, err := uc.Execute(context.Background(), 404, Actor{UserID: 9, Role: models.RoleCustomer})
	if !httperr.IsBusiness(err, "reservation_not_found") {
		t.Errorf("err = %v, want reservation_not_found", err)
	}
}

// Dois cancelamentos disputando a mesma reserva: a releitura travada dentro
// da transação garante que só o primeiro muda o status; o outro recebe
// already_cancelled.
func TestCancelConcurrentOnlyFirstWins(t *testing.T) {
	shared := confirmedReservation()

	var mu sync.Mutex
	repo := reservationRepo(shared)
	repo.getReservationFn = func(_ context.Context, _ uint) (*models.Reservation, error) {
		mu.Lock()
		defer mu.Unlock()
		cp := *shared
		return &cp, nil
	}
	repo.lockReservationFn = func(_ context.Context, _ uint) (*models.Reservation, error) {
		cp := *shared
		return &cp, nil
	}
	repo.updateReservationFn = func(_ context.Context, r *models.Reservation) error {
		*shared = *r
		return nil
	}
	repo.inTxFn = func(_ context.Context, fn func(domain.Repository) error) error {
		mu.Lock()
		defer mu.Unlock()
		return fn(repo)
	}

	const callers = 4
	errs := make(chan error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			uc := newCancelUC(repo)
			_, err := uc.Execute(context.Background(), 5, Actor{UserID: 9, Role: models.RoleCustomer})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	wins, repeats := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrAlreadyCancelled):
			repeats++
		default:
			t.Errorf("erro inesperado: %v", err)
		}
	}

	if wins != 1 || repeats != callers-1 {
		t.Errorf("wins = %d, repeats = %d (want 1 e %d)", wins, repeats, callers-1)
	}
	if shared.Status != "cancelled" {
		t.Errorf("status final = %s", shared.Status)
	}
}

// Cancelar disputando com concluir: a transição que pegar o lock primeiro
// vence e a outra é rejeitada pela máquina de estados, nunca last-write-wins.
func TestCancelRacingCompleteIsSerialized(t *testing.T) {
	shared := confirmedReservation()

	var mu sync.Mutex
	repo := reservationRepo(shared)
	repo.getReservationFn = func(_ context.Context, _ uint) (*models.Reservation, error) {
		mu.Lock()
		defer mu.Unlock()
		cp := *shared
		return &cp, nil
	}
	repo.lockReservationFn = func(_ context.Context, _ uint) (*models.Reservation, error) {
		cp := *shared
		return &cp, nil
	}
	repo.updateReservationFn = func(_ context.Context, r *models.Reservation) error {
		*shared = *r
		return nil
	}
	repo.inTxFn = func(_ context.Context, fn func(domain.Repository) error) error {
		mu.Lock()
		defer mu.Unlock()
		return fn(repo)
	}

	cancelUC := newCancelUC(repo)
	completeUC := NewCompleteReservation(repo, nil)
	completeUC.now = func(string) time.Time { return fixedNow }

	owner := Actor{UserID: 2, Role: models.RoleOwner, BarbershopID: 1}

	var wg sync.WaitGroup
	var cancelErr, completeErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, cancelErr = cancelUC.Execute(context.Background(), 5, owner)
	}()
	go func() {
		defer wg.Done()
		_, completeErr = completeUC.Execute(context.Background(), 5, owner)
	}()
	wg.Wait()

	if (cancelErr == nil) == (completeErr == nil) {
		t.Fatalf("exatamente uma transição deveria vencer: cancel=%v complete=%v",
			cancelErr, completeErr)
	}

	switch shared.Status {
	case "cancelled":
		if !errors.Is(completeErr, domain.ErrInvalidState) {
			t.Errorf("complete perdedor = %v, want ErrInvalidState", completeErr)
		}
	case "completed":
		if !errors.Is(cancelErr, domain.ErrInvalidState) {
			t.Errorf("cancel perdedor = %v, want ErrInvalidState", cancelErr)
		}
	default:
		t.Errorf("status final inesperado: %s", shared.Status)
	}
}

// ======================================================
// COMPLETE
// ======================================================

func TestCompleteByOwner(t *testing.T) {
	res := confirmedReservation()
	repo := reservationRepo(res)

	uc := NewCompleteReservation(repo, nil)
	uc.now = func(string) time.Time { return fixedNow }

	got, err := uc.Execute(context.Background(), 5, Actor{
		UserID: 2, Role: models.RoleOwner, BarbershopID: 1,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Status != "completed" || got.CompletedAt == nil {
		t.Errorf("reserva = status %s, CompletedAt %v", got.Status, got.CompletedAt)
	}
}

func TestCompleteRejectsCustomer(t *testing.T) {
	res := confirmedReservation()

	uc := NewCompleteReservation(reservationRepo(res), nil)
	uc.now = func(string) time.Time { return fixedNow }

	_, err := uc.Execute(context.Background(), 5, Actor{UserID: 9, Role: models.RoleCustomer})
	if !httperr.IsBusiness(err, "forbidden") {
		t.Errorf("err = %v, want forbidden", err)
	}
}

func TestCompleteCancelledReservation(t *testing.T) {
	res := confirmedReservation()
	res.Status = "cancelled"

	uc := NewCompleteReservation(reservationRepo(res), nil)
	uc.now = func(string) time.Time { return fixedNow }

	_, err := uc.Execute(context.Background(), 5, Actor{
		UserID: 2, Role: models.RoleOwner, BarbershopID: 1,
	})
	if !errors.Is(err, domain.ErrInvalidState) {
		t.Errorf("err = %v, want ErrInvalidState", err)
	}
}
