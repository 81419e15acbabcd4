package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/clippr-app/clippr-api/internal/httperr"
)

// mapBookingError traduz o resultado de negócio do motor de reservas para o
// contrato HTTP: 409 para disputa de horário e cancelamento repetido/tardio,
// 422 para referência inexistente, 503 quando o banco não respondeu.
func mapBookingError(c *gin.Context, err error) {
	be, ok := httperr.AsBusiness(err)
	if !ok {
		httperr.Internal(c, "booking_failed", "Erro ao processar a reserva.")
		return
	}

	switch be.Code {
	case "slot_conflict":
		httperr.Conflict(c, be.Code, "Outro cliente reservou este horário. Escolha outro.")
	case "slot_unavailable":
		httperr.Conflict(c, be.Code, "Horário fora do expediente ou sem antecedência mínima.")
	case "already_past":
		httperr.Conflict(c, be.Code, "O atendimento já começou; não é possível cancelar.")
	case "already_cancelled":
		httperr.Conflict(c, be.Code, "Reserva já cancelada.")
	case "invalid_state":
		httperr.Conflict(c, be.Code, "Transição de status não permitida.")
	case "barber_not_found", "service_not_found", "invalid_service", "invalid_date_or_time":
		httperr.Unprocessable(c, be.Code, "Dados da reserva inválidos.")
	case "reservation_not_found":
		httperr.NotFound(c, be.Code, "Reserva não encontrada.")
	case "forbidden":
		httperr.Forbidden(c, be.Code, "Sem permissão para esta reserva.")
	case "invalid_schedule":
		httperr.Internal(c, be.Code, "Agenda do barbeiro mal configurada.")
	case "service_unavailable":
		httperr.ServiceUnavailable(c, be.Code, "Tente novamente em instantes.")
	default:
		httperr.BadRequest(c, be.Code, "Não foi possível concluir a operação.")
	}
}
