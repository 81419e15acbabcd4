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

// ======================================================
// FAKE REPOSITORY
// ======================================================

type fakeRepo struct {
	getBarbershopByIDFn   func(ctx context.Context, id uint) (*models.Barbershop, error)
	getBarbershopBySlugFn func(ctx context.Context, slug string) (*models.Barbershop, error)
	getBarberFn           func(ctx context.Context, id uint) (*models.Barber, error)
	getServiceFn          func(ctx context.Context, shopID, serviceID uint) (*models.Service, error)
	getWeekScheduleFn     func(ctx context.Context, barberID uint) (*domain.WeekSchedule, error)
	getReservationFn      func(ctx context.Context, id uint) (*models.Reservation, error)
	lockReservationFn     func(ctx context.Context, id uint) (*models.Reservation, error)
	listForDayFn          func(ctx context.Context, barberID uint, dayStart, dayEnd time.Time) ([]models.Reservation, error)
	listForPeriodFn       func(ctx context.Context, barberID uint, start, end time.Time) ([]models.Reservation, error)
	listForCustomerFn     func(ctx context.Context, customerID uint) ([]models.Reservation, error)
	assertNoOverlapFn     func(ctx context.Context, barberID uint, start, end time.Time, excludeID uint) error
	createReservationFn   func(ctx context.Context, r *models.Reservation) error
	updateReservationFn   func(ctx context.Context, r *models.Reservation) error
	inTxFn                func(ctx context.Context, fn func(domain.Repository) error) error
}

var errUnexpectedCall = errors.New("unexpected repository call")

func (f *fakeRepo) GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error) {
	if f.getBarbershopByIDFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getBarbershopByIDFn(ctx, id)
}

func (f *fakeRepo) GetBarbershopBySlug(ctx context.Context, slug string) (*models.Barbershop, error) {
	if f.getBarbershopBySlugFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getBarbershopBySlugFn(ctx, slug)
}

func (f *fakeRepo) GetBarber(ctx context.Context, id uint) (*models.Barber, error) {
	if f.getBarberFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getBarberFn(ctx, id)
}

func (f *fakeRepo) GetService(ctx context.Context, shopID, serviceID uint) (*models.Service, error) {
	if f.getServiceFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getServiceFn(ctx, shopID, serviceID)
}

func (f *fakeRepo) GetWeekSchedule(ctx context.Context, barberID uint) (*domain.WeekSchedule, error) {
	if f.getWeekScheduleFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getWeekScheduleFn(ctx, barberID)
}

func (f *fakeRepo) GetReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	if f.getReservationFn == nil {
		return nil, errUnexpectedCall
	}
	return f.getReservationFn(ctx, id)
}

func (f *fakeRepo) LockReservation(ctx context.Context, id uint) (*models.Reservation, error) {
	if f.lockReservationFn != nil {
		return f.lockReservationFn(ctx, id)
	}
	// sem fn própria, a releitura travada degrada para a leitura simples
	return f.GetReservation(ctx, id)
}

func (f *fakeRepo) ListReservationsForDay(ctx context.Context, barberID uint, dayStart, dayEnd time.Time) ([]models.Reservation, error) {
	if f.listForDayFn == nil {
		return nil, errUnexpectedCall
	}
	return f.listForDayFn(ctx, barberID, dayStart, dayEnd)
}

func (f *fakeRepo) ListReservationsForPeriod(ctx context.Context, barberID uint, start, end time.Time) ([]models.Reservation, error) {
	if f.listForPeriodFn == nil {
		return nil, errUnexpectedCall
	}
	return f.listForPeriodFn(ctx, barberID, start, end)
}

func (f *fakeRepo) ListReservationsForCustomer(ctx context.Context, customerID uint) ([]models.Reservation, error) {
	if f.listForCustomerFn == nil {
		return nil, errUnexpectedCall
	}
	return f.listForCustomerFn(ctx, customerID)
}

func (f *fakeRepo) AssertNoOverlap(ctx context.Context, barberID uint, start, end time.Time, excludeID uint) error {
	if f.assertNoOverlapFn == nil {
		return errUnexpectedCall
	}
	return f.assertNoOverlapFn(ctx, barberID, start, end, excludeID)
}

func (f *fakeRepo) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if f.createReservationFn == nil {
		return errUnexpectedCall
	}
	return f.createReservationFn(ctx, r)
}

func (f *fakeRepo) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	if f.updateReservationFn == nil {
		return errUnexpectedCall
	}
	return f.updateReservationFn(ctx, r)
}

func (f *fakeRepo) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	if f.inTxFn != nil {
		return f.inTxFn(ctx, fn)
	}
	return fn(f)
}

var _ domain.Repository = (*fakeRepo)(nil)

// ======================================================
// FIXTURES
// ======================================================

func openWeek() *domain.WeekSchedule {
	s := &domain.WeekSchedule{BarberID: 7}
	for i := range s.Days {
		s.Days[i] = domain.DayHours{Open: "09:00", Close: "18:00"}
	}
	return s
}

func catalogRepo() *fakeRepo {
	return &fakeRepo{
		getBarberFn: func(_ context.Context, id uint) (*models.Barber, error) {
			return &models.Barber{ID: id, BarbershopID: 1, Active: true}, nil
		},
		getBarbershopByIDFn: func(_ context.Context, id uint) (*models.Barbershop, error) {
			return &models.Barbershop{
				ID:                id,
				Timezone:          "UTC",
				MinAdvanceMinutes: 60,
				SlotStepMinutes:   30,
			}, nil
		},
		getServiceFn: func(_ context.Context, _, serviceID uint) (*models.Service, error) {
			return &models.Service{ID: serviceID, BarbershopID: 1, DurationMin: 30, Price: 50}, nil
		},
		getWeekScheduleFn: func(_ context.Context, _ uint) (*domain.WeekSchedule, error) {
			return openWeek(), nil
		},
	}
}

func newBookUC(repo domain.Repository, now time.Time) *BookSlot {
	uc := NewBookSlot(repo, nil, nil)
	uc.now = func(string) time.Time { return now }
	uc.sleep = func(time.Duration) {}
	return uc
}

var fixedNow = time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)

// ======================================================
// TESTS
// ======================================================

func TestBookSlotSuccess(t *testing.T) {
	repo := catalogRepo()

	var created *models.Reservation
	repo.assertNoOverlapFn = func(_ context.Context, barberID uint, start, end time.Time, excludeID uint) error {
		if excludeID != 0 {
			t.Errorf("excludeID = %d, want 0", excludeID)
		}
		return nil
	}
	repo.createReservationFn = func(_ context.Context, r *models.Reservation) error {
		r.ID = 42
		created = r
		return nil
	}

	uc := newBookUC(repo, fixedNow)
	res, err := uc.Execute(context.Background(), BookInput{
		CustomerID: 9,
		BarberID:   7,
		ServiceID:  3,
		Date:       "2026-09-10",
		Time:       "10:00",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if created == nil {
		t.Fatal("reserva não persistida")
	}
	if res.ID != 42 {
		t.Errorf("ID = %d, want 42", res.ID)
	}
	if res.Code == "" {
		t.Error("Code vazio")
	}
	if res.Status != "confirmed" {
		t.Errorf("status = %s, want confirmed", res.Status)
	}
	if res.StartTime.Format("15:04") != "10:00" || res.EndTime.Format("15:04") != "10:30" {
		t.Errorf("janela = %s-%s", res.StartTime.Format("15:04"), res.EndTime.Format("15:04"))
	}

	// snapshots do serviço
	if res.DurationMin != 30 || res.Price != 50 {
		t.Errorf("snapshots = %dmin R$%.2f", res.DurationMin, res.Price)
	}
}

func TestBookSlotConflictIsNotRetried(t *testing.T) {
	repo := catalogRepo()

	attempts := 0
	repo.assertNoOverlapFn = func(_ context.Context, _ uint, _, _ time.Time, _ uint) error {
		attempts++
		return domain.ErrSlotConflict
	}

	uc := newBookUC(repo, fixedNow)
	_, err := uc.Execute(context.Background(), BookInput{
		CustomerID: 9, BarberID: 7, ServiceID: 3,
		Date: "2026-09-10", Time: "10:00",
	})

	if !errors.Is(err, domain.ErrSlotConflict) {
		t.Fatalf("err = %v, want ErrSlotConflict", err)
	}
	if attempts != 1 {
		t.Errorf("conflito de negócio retentado %d vezes", attempts)
	}
}

func TestBookSlotRetriesTransientFailure(t *testing.T) {
	repo := catalogRepo()

	attempts := 0
	repo.assertNoOverlapFn = func(_ context.Context, _ uint, _, _ time.Time, _ uint) error {
		attempts++
		if attempts < 3 {
			return errors.New("deadlock detected")
		}
		return nil
	}
	repo.createReservationFn = func(_ context.Context, r *models.Reservation) error {
		r.ID = 1
		return nil
	}

	var slept []time.Duration
	uc := newBookUC(repo, fixedNow)
	uc.sleep = func(d time.Duration) { slept = append(slept, d) }

	res, err := uc.Execute(context.Background(), BookInput{
		CustomerID: 9, BarberID: 7, ServiceID: 3,
		Date: "2026-09-10", Time: "10:00",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res == nil || attempts != 3 {
		t.Fatalf("attempts = %d, want 3", attempts)
	}

	// backoff exponencial entre tentativas
	if len(slept) != 2 || slept[0] != 50*time.Millisecond || slept[1] != 100*time.Millisecond {
		t.Errorf("backoff = %v", slept)
	}
}

func TestBookSlotGivesUpAfterMaxAttempts(t *testing.T) {
	repo := catalogRepo()

	attempts := 0
	repo.assertNoOverlapFn = func(_ context.Context, _ uint, _, _ time.Time, _ uint) error {
		attempts++
		return errors.New("connection refused")
	}

	uc := newBookUC(repo, fixedNow)
	_, err := uc.Execute(context.Background(), BookInput{
		CustomerID: 9, BarberID: 7, ServiceID: 3,
		Date: "2026-09-10", Time: "10:00",
	})

	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

// Antecedência zero é configuração válida da barbearia e tem de valer igual
// nos dois caminhos: todo slot que a disponibilidade oferece, a reserva
// aceita.
func TestBookSlotHonorsZeroLeadLikeAvailability(t *testing.T) {
	now := time.Date(2026, 9, 10, 9, 45, 0, 0, time.UTC)

	repo := catalogRepo()
	repo.getBarbershopByIDFn = func(_ context.Context, id uint) (*models.Barbershop, error) {
		return &models.Barbershop{
			ID:                id,
			Timezone:          "UTC",
			MinAdvanceMinutes: 0,
			SlotStepMinutes:   30,
		}, nil
	}
	repo.listForDayFn = func(_ context.Context, _ uint, _, _ time.Time) ([]models.Reservation, error) {
		return nil, nil
	}
	repo.assertNoOverlapFn = func(_ context.Context, _ uint, _, _ time.Time, _ uint) error {
		return nil
	}
	repo.createReservationFn = func(_ context.Context, r *models.Reservation) error {
		r.ID = 1
		return nil
	}

	avail := newAvailabilityUC(repo, now)
	slots, err := avail.Execute(context.Background(), availabilityInput())
	if err != nil {
		t.Fatalf("availability: %v", err)
	}

	offered := map[string]bool{}
	for _, s := range slots {
		offered[s.Start] = true
	}
	if !offered["10:00"] {
		t.Fatalf("10:00 deveria ser oferecido com antecedência zero: %v", slots)
	}

	uc := newBookUC(repo, now)
	for _, s := range slots {
		if _, err := uc.Execute(context.Background(), BookInput{
			CustomerID: 9, BarberID: 7, ServiceID: 3,
			Date: "2026-09-10", Time: s.Start,
		}); err != nil {
			t.Errorf("slot oferecido %s rejeitado na reserva: %v", s.Start, err)
		}
	}
}

func TestBookSlotRejectsShortNotice(t *testing.T) {
	uc := newBookUC(catalogRepo(), fixedNow)

	// 08:00 + 60min de antecedência → 08:30 é cedo demais
	_, err := uc.Execute(context.Background(), BookInput{
		CustomerID: 9, BarberID: 7, ServiceID: 3,
		Date: "2026-09-10", Time: "08:30",
	})
	if !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Errorf("err = %v, want ErrSlotUnavailable", err)
	}
}

func TestBookSlotRejectsOutsideWorkingHours(t *testing.T) {
	uc := newBookUC(catalogRepo(), fixedNow)

	for _, hm := range []string{"08:00", "17:45", "19:00"} {
		_, err := uc.Execute(context.Background(), BookInput{
			CustomerID: 9, BarberID: 7, ServiceID: 3,
			Date: "2026-09-10", Time: hm,
		})
		if !errors.Is(err, domain.ErrSlotUnavailable) {
			t.Errorf("%s: err = %v, want ErrSlotUnavailable", hm, err)
		}
	}
}

func TestBookSlotRejectsTimeOffDay(t *testing.T) {
	repo := catalogRepo()
	repo.getWeekScheduleFn = func(_ context.Context, _ uint) (*domain.WeekSchedule, error) {
		s := openWeek()
		s.TimeOff = []domain.TimeOffRange{{
			From: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		}}
		return s, nil
	}

	uc := newBookUC(repo, fixedNow)
	_, err := uc.Execute(context.Background(), BookInput{
		CustomerID: 9, BarberID: 7, ServiceID: 3,
		Date: "2026-09-10", Time: "10:00",
	})
	if !errors.Is(err, domain.ErrSlotUnavailable) {
		t.Errorf("err = %v, want ErrSlotUnavailable", err)
	}
}

func TestBookSlotRejectsBadDate(t *testing.T) {
	uc := newBookUC(catalogRepo(), fixedNow)

	_, err := uc.Execute(context.Background(), BookInput{
		CustomerID: 9, BarberID: 7, ServiceID: 3,
		Date: "10/09/2026", Time: "10:00",
	})
	if !httperr.IsBusiness(err, "invalid_date_or_time") {
		t.Errorf("err = %v, want invalid_date_or_time", err)
	}
}

func TestBookSlotUnknownBarber(t *testing.T) {
	repo := catalogRepo()
	repo.getBarberFn = func(_ context.Context, _ uint) (*models.Barber, error) {
		return nil, errors.New("record not found")
	}

	uc := newBookUC(repo, fixedNow)
	_, err := uc.Execute(context.Background(), BookInput{
		CustomerID: 9, BarberID: 99, ServiceID: 3,
		Date: "2026-09-10", Time: "10:00",
	})
	if !httperr.IsBusiness(err, "barber_not_found") {
		t.Errorf("err = %v, want barber_not_found", err)
	}
}

// Disputa pelo mesmo slot: com a checagem e o insert na mesma transação,
// exatamente um cliente leva o horário.
func TestBookSlotConcurrentWinnerTakesOne(t *testing.T) {
	var (
		mu       sync.Mutex
		existing []models.Reservation
		nextID   uint
	)

	repo := catalogRepo()
	repo.assertNoOverlapFn = func(_ context.Context, barberID uint, start, end time.Time, _ uint) error {
		for _, r := range existing {
			if r.BarberID == barberID && domain.Overlaps(start, end, r.StartTime, r.EndTime) {
				return domain.ErrSlotConflict
			}
		}
		return nil
	}
	repo.createReservationFn = func(_ context.Context, r *models.Reservation) error {
		nextID++
		r.ID = nextID
		existing = append(existing, *r)
		return nil
	}
	repo.inTxFn = func(_ context.Context, fn func(domain.Repository) error) error {
		mu.Lock()
		defer mu.Unlock()
		return fn(repo)
	}

	const clients = 8
	errs := make(chan error, clients)

	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(customer uint) {
			defer wg.Done()
			uc := newBookUC(repo, fixedNow)
			_, err := uc.Execute(context.Background(), BookInput{
				CustomerID: customer, BarberID: 7, ServiceID: 3,
				Date: "2026-09-10", Time: "10:00",
			})
			errs <- err
		}(uint(i + 1))
	}
	wg.Wait()
	close(errs)

	wins, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrSlotConflict):
			conflicts++
		default:
			t.Errorf("erro inesperado: %v", err)
		}
	}

	if wins != 1 {
		t.Errorf("wins = %d, want 1", wins)
	}
	if conflicts != clients-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, clients-1)
	}
	if len(existing) != 1 {
		t.Errorf("reservas persistidas = %d, want 1", len(existing))
	}
}
