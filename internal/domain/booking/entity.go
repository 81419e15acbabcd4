package booking

import (
	"time"

	"github.com/clippr-app/clippr-api/internal/models"
)

// ===============================
// Ações de domínio
// ===============================

// Cancel aplica o cancelamento na reserva. Nunca remove a linha: cancelar é
// mudança de status, preservando histórico e evitando ressurreição do slot.
func Cancel(r *models.Reservation, now time.Time) error {
	if err := CanCancel(Status(r.Status)); err != nil {
		return err
	}
	if !now.Before(r.StartTime) {
		return ErrAlreadyPast
	}

	r.Status = string(StatusCancelled)
	r.CancelledAt = &now
	return nil
}

// Complete marca o atendimento como realizado.
func Complete(r *models.Reservation, now time.Time) error {
	if err := CanComplete(Status(r.Status)); err != nil {
		return err
	}

	r.Status = string(StatusCompleted)
	r.CompletedAt = &now
	return nil
}
