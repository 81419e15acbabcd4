package booking

import (
	"context"
	"time"

	"github.com/clippr-app/clippr-api/internal/models"
)

type Repository interface {
	// -------- Catálogo (snapshots imutáveis para o motor) --------
	GetBarbershopByID(
		ctx context.Context,
		id uint,
	) (*models.Barbershop, error)

	GetBarbershopBySlug(
		ctx context.Context,
		slug string,
	) (*models.Barbershop, error)

	GetBarber(
		ctx context.Context,
		id uint,
	) (*models.Barber, error)

	GetService(
		ctx context.Context,
		barbershopID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Agenda --------
	GetWeekSchedule(
		ctx context.Context,
		barberID uint,
	) (*WeekSchedule, error)

	// -------- Reservas (leitura) --------
	GetReservation(
		ctx context.Context,
		id uint,
	) (*models.Reservation, error)

	// LockReservation relê a reserva segurando o lock da linha; só faz
	// sentido dentro de InTx, antes de uma transição de status.
	LockReservation(
		ctx context.Context,
		id uint,
	) (*models.Reservation, error)

	ListReservationsForDay(
		ctx context.Context,
		barberID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Reservation, error)

	ListReservationsForPeriod(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Reservation, error)

	ListReservationsForCustomer(
		ctx context.Context,
		customerID uint,
	) ([]models.Reservation, error)

	// -------- Reservas (escrita / conflito) --------
	AssertNoOverlap(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) error

	CreateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	UpdateReservation(
		ctx context.Context,
		r *models.Reservation,
	) error

	// InTx executa fn dentro de uma transação; o Repository recebido opera
	// sobre ela. Checagem de conflito e insert têm de compartilhar a mesma
	// transação para a garantia de no máximo uma reserva por intervalo.
	InTx(
		ctx context.Context,
		fn func(Repository) error,
	) error
}
