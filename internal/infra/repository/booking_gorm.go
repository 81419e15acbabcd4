package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/clippr-app/clippr-api/internal/domain/booking"
	"github.com/clippr-app/clippr-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Catálogo
// --------------------------------------------------

func (r *BookingGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *BookingGormRepository) GetBarbershopBySlug(
	ctx context.Context,
	slug string,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = true", slug).
		First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *BookingGormRepository) GetBarber(
	ctx context.Context,
	id uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = true", id).
		First(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	barbershopID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ? AND active = true", serviceID, barbershopID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Agenda
// --------------------------------------------------

func (r *BookingGormRepository) GetWeekSchedule(
	ctx context.Context,
	barberID uint,
) (*domain.WeekSchedule, error) {

	var hours []models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Find(&hours).Error; err != nil {
		return nil, err
	}

	schedule := &domain.WeekSchedule{BarberID: barberID}
	for i := range schedule.Days {
		schedule.Days[i] = domain.DayHours{Closed: true}
	}
	for _, wh := range hours {
		if wh.Weekday < 0 || wh.Weekday > 6 {
			continue
		}
		schedule.Days[wh.Weekday] = domain.DayHours{
			Open:   wh.OpenTime,
			Close:  wh.CloseTime,
			Closed: wh.Closed,
		}
	}

	var offs []models.TimeOff
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("start_date ASC").
		Find(&offs).Error; err != nil {
		return nil, err
	}
	for _, off := range offs {
		schedule.TimeOff = append(schedule.TimeOff, domain.TimeOffRange{
			From: off.StartDate,
			To:   off.EndDate,
		})
	}

	return schedule, nil
}

// --------------------------------------------------
// Reservas (leitura)
// --------------------------------------------------

func (r *BookingGormRepository) GetReservation(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *BookingGormRepository) LockReservation(
	ctx context.Context,
	id uint,
) (*models.Reservation, error) {

	var res models.Reservation
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&res, id).Error; err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *BookingGormRepository) ListReservationsForDay(
	ctx context.Context,
	barberID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Reservation, error) {

	var out []models.Reservation
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"barber_id = ? AND status IN ('pending', 'confirmed') AND start_time < ? AND end_time > ?",
			barberID, dayEnd, dayStart,
		).
		Order("start_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingGormRepository) ListReservationsForPeriod(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Reservation, error) {

	var out []models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Where(
			"barber_id = ? AND start_time >= ? AND start_time < ?",
			barberID, start, end,
		).
		Order("start_time ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookingGormRepository) ListReservationsForCustomer(
	ctx context.Context,
	customerID uint,
) ([]models.Reservation, error) {

	var out []models.Reservation
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Preload("Service").
		Preload("Barbershop").
		Where("customer_id = ?", customerID).
		Order("start_time DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Reservas (escrita / conflito)
// --------------------------------------------------

// AssertNoOverlap trava as reservas ativas do barbeiro que tocam o intervalo
// candidato (FOR UPDATE) e falha com slot_conflict se existir alguma.
// Chamado dentro de InTx; a constraint de exclusão no Postgres cobre o caso
// de dois inserts passarem pela checagem ao mesmo tempo.
func (r *BookingGormRepository) AssertNoOverlap(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) error {

	q := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where(
			"barber_id = ? AND status IN ('pending', 'confirmed') AND start_time < ? AND end_time > ?",
			barberID, end, start,
		)

	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var conflicts []models.Reservation
	if err := q.Find(&conflicts).Error; err != nil {
		return err
	}

	if len(conflicts) > 0 {
		return domain.ErrSlotConflict
	}
	return nil
}

func (r *BookingGormRepository) CreateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *BookingGormRepository) UpdateReservation(
	ctx context.Context,
	res *models.Reservation,
) error {
	return r.db.WithContext(ctx).Save(res).Error
}

func (r *BookingGormRepository) InTx(
	ctx context.Context,
	fn func(domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
